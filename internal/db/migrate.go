package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/amberstream/webportal/internal/models"
	"gorm.io/gorm"
)

// Migrate creates the schema and applies the seed data the site needs
// on first start. Running it again on a populated store is a no-op.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.Worker{},
		&models.Plan{},
		&models.RevisionMeta{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	if errSeed := ensureAdminWorker(conn); errSeed != nil {
		return errSeed
	}
	if errSeed := ensureStarterPlans(conn); errSeed != nil {
		return errSeed
	}
	if errSeed := ensureRevisionMeta(conn); errSeed != nil {
		return errSeed
	}
	return nil
}

// Seed values applied to an empty store at first startup.
const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "admin"
)

// starterPlan defines a seed catalog entry.
type starterPlan struct {
	name  string  // Plan name.
	price float64 // Energy rate in EUR per kWh.
}

// starterPlans is the fixed catalog seeded into an empty plan store.
var starterPlans = []starterPlan{
	{name: "Basic Saver", price: 0.12},
	{name: "Green Fixed", price: 0.13},
	{name: "Business Flex", price: 0.15},
}

// ensureAdminWorker seeds the admin worker account when absent.
func ensureAdminWorker(conn *gorm.DB) error {
	var existing models.Worker
	errFind := conn.Where("username = ?", SeedAdminUsername).First(&existing).Error
	if errFind == nil {
		return nil
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db: query admin worker: %w", errFind)
	}

	now := time.Now().UTC()
	worker := models.Worker{
		Username:  SeedAdminUsername,
		Password:  SeedAdminPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := conn.Create(&worker).Error; errCreate != nil {
		return fmt.Errorf("db: create admin worker: %w", errCreate)
	}
	return nil
}

// ensureStarterPlans seeds the starter catalog when the plan store is empty.
func ensureStarterPlans(conn *gorm.DB) error {
	var count int64
	if errCount := conn.Model(&models.Plan{}).Count(&count).Error; errCount != nil {
		return fmt.Errorf("db: count plans: %w", errCount)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	plans := make([]models.Plan, 0, len(starterPlans))
	for _, seed := range starterPlans {
		plans = append(plans, models.Plan{
			Name:      seed.name,
			Price:     seed.price,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if errCreate := conn.Create(&plans).Error; errCreate != nil {
		return fmt.Errorf("db: create starter plans: %w", errCreate)
	}
	return nil
}

// ensureRevisionMeta seeds the single revision metadata row when absent.
func ensureRevisionMeta(conn *gorm.DB) error {
	var existing models.RevisionMeta
	errFind := conn.First(&existing).Error
	if errFind == nil {
		return nil
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db: query revision meta: %w", errFind)
	}

	meta := models.RevisionMeta{LastUpdated: time.Now().UTC()}
	if errCreate := conn.Create(&meta).Error; errCreate != nil {
		return fmt.Errorf("db: create revision meta: %w", errCreate)
	}
	return nil
}
