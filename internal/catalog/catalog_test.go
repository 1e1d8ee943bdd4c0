package catalog

import (
	"path/filepath"
	"testing"
	"time"

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

func planByName(t *testing.T, conn *gorm.DB, name string) models.Plan {
	t.Helper()
	var plan models.Plan
	if errFind := conn.Where("name = ?", name).First(&plan).Error; errFind != nil {
		t.Fatalf("find plan %q: %v", name, errFind)
	}
	return plan
}

func TestApplyPriceEdits_ReplacesPriceAndBumpsRevision(t *testing.T) {
	conn := openSeededDB(t)

	before, errBefore := RevisionTime(conn)
	if errBefore != nil {
		t.Fatalf("revision time: %v", errBefore)
	}

	basic := planByName(t, conn, "Basic Saver")
	now := before.Add(1 * time.Minute)
	if errApply := ApplyPriceEdits(conn, map[uint64]string{basic.ID: "0.20"}, now); errApply != nil {
		t.Fatalf("apply edits: %v", errApply)
	}

	updated := planByName(t, conn, "Basic Saver")
	if updated.Price != 0.20 {
		t.Fatalf("expected price 0.20, got %v", updated.Price)
	}

	after, errAfter := RevisionTime(conn)
	if errAfter != nil {
		t.Fatalf("revision time: %v", errAfter)
	}
	if !after.After(*before) {
		t.Fatalf("expected revision stamp to advance, before=%v after=%v", before, after)
	}
}

func TestApplyPriceEdits_MalformedValueIsSkipped(t *testing.T) {
	conn := openSeededDB(t)

	basic := planByName(t, conn, "Basic Saver")
	before, errBefore := RevisionTime(conn)
	if errBefore != nil {
		t.Fatalf("revision time: %v", errBefore)
	}

	now := before.Add(1 * time.Minute)
	if errApply := ApplyPriceEdits(conn, map[uint64]string{basic.ID: "abc"}, now); errApply != nil {
		t.Fatalf("apply edits: %v", errApply)
	}

	unchanged := planByName(t, conn, "Basic Saver")
	if unchanged.Price != basic.Price {
		t.Fatalf("expected price unchanged at %v, got %v", basic.Price, unchanged.Price)
	}

	// The revision stamp moves even when no price survived parsing.
	after, errAfter := RevisionTime(conn)
	if errAfter != nil {
		t.Fatalf("revision time: %v", errAfter)
	}
	if !after.After(*before) {
		t.Fatalf("expected revision stamp to advance, before=%v after=%v", before, after)
	}
}

func TestApplyPriceEdits_EmptyFormStillStamps(t *testing.T) {
	conn := openSeededDB(t)

	before, errBefore := RevisionTime(conn)
	if errBefore != nil {
		t.Fatalf("revision time: %v", errBefore)
	}
	now := before.Add(1 * time.Minute)
	if errApply := ApplyPriceEdits(conn, nil, now); errApply != nil {
		t.Fatalf("apply edits: %v", errApply)
	}
	after, errAfter := RevisionTime(conn)
	if errAfter != nil {
		t.Fatalf("revision time: %v", errAfter)
	}
	if !after.After(*before) {
		t.Fatalf("expected revision stamp to advance on an empty submit")
	}
}

func TestTakeSnapshot_SeededStore(t *testing.T) {
	conn := openSeededDB(t)

	snap, err := TakeSnapshot(conn)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(snap.Plans))
	}
	if snap.Cheapest == nil || *snap.Cheapest != 0.12 {
		t.Fatalf("expected cheapest 0.12, got %v", snap.Cheapest)
	}
	if snap.LastUpdated == nil {
		t.Fatalf("expected a revision stamp on a seeded store")
	}
}

func TestTakeSnapshot_EmptyCatalog(t *testing.T) {
	conn := openSeededDB(t)
	if errDelete := conn.Where("1 = 1").Delete(&models.Plan{}).Error; errDelete != nil {
		t.Fatalf("clear plans: %v", errDelete)
	}

	snap, err := TakeSnapshot(conn)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Plans) != 0 {
		t.Fatalf("expected no plans, got %d", len(snap.Plans))
	}
	if snap.Cheapest != nil {
		t.Fatalf("expected nil cheapest on empty catalog, got %v", *snap.Cheapest)
	}
}
