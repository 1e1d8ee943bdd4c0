package auth

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/amberstream/webportal/internal/db"
	"github.com/amberstream/webportal/internal/models"
	"gorm.io/gorm"
)

func openSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "webportal-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func TestAuthenticate_SeededAdmin(t *testing.T) {
	conn := openSeededDB(t)

	worker, err := Authenticate(conn, "admin", "admin")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if worker.Username != "admin" {
		t.Fatalf("expected username admin, got %q", worker.Username)
	}
}

func TestAuthenticate_FailuresAreOpaque(t *testing.T) {
	conn := openSeededDB(t)

	_, errWrongPassword := Authenticate(conn, "admin", "wrong")
	if !errors.Is(errWrongPassword, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", errWrongPassword)
	}

	_, errNoUser := Authenticate(conn, "nouser", "x")
	if !errors.Is(errNoUser, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", errNoUser)
	}

	if errWrongPassword.Error() != errNoUser.Error() {
		t.Fatalf("expected identical failures, got %q vs %q", errWrongPassword, errNoUser)
	}
}

func TestChangePassword_Success(t *testing.T) {
	conn := openSeededDB(t)

	worker, err := Authenticate(conn, "admin", "admin")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if errChange := ChangePassword(conn, worker, "admin", "newpw123", "newpw123"); errChange != nil {
		t.Fatalf("change password: %v", errChange)
	}

	var stored models.Worker
	if errFind := conn.First(&stored, worker.ID).Error; errFind != nil {
		t.Fatalf("reload worker: %v", errFind)
	}
	if stored.Password != "newpw123" {
		t.Fatalf("expected stored password %q, got %q", "newpw123", stored.Password)
	}

	// The old password no longer passes the current-password rule.
	if errChange := ChangePassword(conn, &stored, "admin", "another1", "another1"); !errors.Is(errChange, ErrIncorrectCurrentPassword) {
		t.Fatalf("expected ErrIncorrectCurrentPassword, got %v", errChange)
	}
}

func TestChangePassword_RuleOrder(t *testing.T) {
	conn := openSeededDB(t)
	worker, err := Authenticate(conn, "admin", "admin")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	cases := []struct {
		name    string
		old     string
		new     string
		confirm string
		want    error
	}{
		{name: "wrong current wins over empty new", old: "nope", new: "", confirm: "", want: ErrIncorrectCurrentPassword},
		{name: "empty new", old: "admin", new: "", confirm: "", want: ErrEmptyNewPassword},
		{name: "too short", old: "admin", new: "ab", confirm: "ab", want: ErrPasswordTooShort},
		{name: "confirmation mismatch", old: "admin", new: "abc", confirm: "abd", want: ErrConfirmationMismatch},
	}
	for _, tc := range cases {
		if errChange := ChangePassword(conn, worker, tc.old, tc.new, tc.confirm); !errors.Is(errChange, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, errChange)
		}
	}

	var stored models.Worker
	if errFind := conn.First(&stored, worker.ID).Error; errFind != nil {
		t.Fatalf("reload worker: %v", errFind)
	}
	if stored.Password != "admin" {
		t.Fatalf("expected password unchanged after failed attempts, got %q", stored.Password)
	}
}
