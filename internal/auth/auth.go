// Package auth implements the worker credential checks behind the admin area.
//
// Passwords are stored and compared as given. That mirrors the data this
// portal has always run on; moving to salted hashes needs a migration of the
// existing worker rows and is tracked in the README.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/amberstream/webportal/internal/models"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for any failed login attempt.
// Callers get no distinction between an unknown user and a wrong password.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Password change rule violations, in the order the rules are checked.
var (
	ErrIncorrectCurrentPassword = errors.New("auth: current password is incorrect")
	ErrEmptyNewPassword         = errors.New("auth: new password is empty")
	ErrPasswordTooShort         = errors.New("auth: new password is too short")
	ErrConfirmationMismatch     = errors.New("auth: password confirmation does not match")
)

// minPasswordLength is the only complexity rule the portal enforces.
const minPasswordLength = 3

// Authenticate looks up the worker by exact username and verifies the
// supplied password. Both failure cases collapse into ErrInvalidCredentials.
func Authenticate(conn *gorm.DB, username, password string) (*models.Worker, error) {
	if conn == nil {
		return nil, fmt.Errorf("auth: nil connection")
	}

	var worker models.Worker
	errFind := conn.Where("username = ?", username).First(&worker).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: query worker: %w", errFind)
	}
	if worker.Password != password {
		return nil, ErrInvalidCredentials
	}
	return &worker, nil
}

// LoadWorker reloads a worker by id, as done once per authenticated request.
func LoadWorker(conn *gorm.DB, id uint64) (*models.Worker, error) {
	if conn == nil {
		return nil, fmt.Errorf("auth: nil connection")
	}
	var worker models.Worker
	if errFind := conn.First(&worker, id).Error; errFind != nil {
		return nil, fmt.Errorf("auth: load worker %d: %w", id, errFind)
	}
	return &worker, nil
}

// ChangePassword validates and applies a password change for the worker.
// The rules short-circuit: the first violation wins and nothing is written.
func ChangePassword(conn *gorm.DB, worker *models.Worker, oldPassword, newPassword, confirmPassword string) error {
	if conn == nil {
		return fmt.Errorf("auth: nil connection")
	}
	if worker == nil {
		return fmt.Errorf("auth: nil worker")
	}

	if worker.Password != oldPassword {
		return ErrIncorrectCurrentPassword
	}
	if newPassword == "" {
		return ErrEmptyNewPassword
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if newPassword != confirmPassword {
		return ErrConfirmationMismatch
	}

	if errUpdate := conn.Model(worker).Updates(map[string]any{
		"password":   newPassword,
		"updated_at": time.Now().UTC(),
	}).Error; errUpdate != nil {
		return fmt.Errorf("auth: update password: %w", errUpdate)
	}
	worker.Password = newPassword
	return nil
}
