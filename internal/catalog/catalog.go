// Package catalog manages the electricity plan catalog and its revision stamp.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amberstream/webportal/internal/models"
	"gorm.io/gorm"
)

// ListPlans returns every plan ordered by id.
func ListPlans(conn *gorm.DB) ([]models.Plan, error) {
	if conn == nil {
		return nil, fmt.Errorf("catalog: nil connection")
	}
	var plans []models.Plan
	if errFind := conn.Order("id ASC").Find(&plans).Error; errFind != nil {
		return nil, fmt.Errorf("catalog: list plans: %w", errFind)
	}
	return plans, nil
}

// RevisionTime returns the single revision stamp, or nil when it is absent.
func RevisionTime(conn *gorm.DB) (*time.Time, error) {
	if conn == nil {
		return nil, fmt.Errorf("catalog: nil connection")
	}
	var meta models.RevisionMeta
	errFind := conn.First(&meta).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: load revision meta: %w", errFind)
	}
	stamp := meta.LastUpdated
	return &stamp, nil
}

// ApplyPriceEdits walks every existing plan and, where the edits map holds an
// entry for its id, replaces the price with the parsed value. Entries that do
// not parse as a decimal are skipped and the plan keeps its prior price.
// The revision stamp is set to now regardless of how many prices changed,
// and all writes land in a single transaction.
func ApplyPriceEdits(conn *gorm.DB, edits map[uint64]string, now time.Time) error {
	if conn == nil {
		return fmt.Errorf("catalog: nil connection")
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		var plans []models.Plan
		if errFind := tx.Order("id ASC").Find(&plans).Error; errFind != nil {
			return fmt.Errorf("catalog: list plans: %w", errFind)
		}

		for i := range plans {
			raw, ok := edits[plans[i].ID]
			if !ok {
				continue
			}
			price, errParse := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if errParse != nil {
				continue
			}
			if errUpdate := tx.Model(&plans[i]).Updates(map[string]any{
				"price":      price,
				"updated_at": now,
			}).Error; errUpdate != nil {
				return fmt.Errorf("catalog: update plan %d: %w", plans[i].ID, errUpdate)
			}
		}

		var meta models.RevisionMeta
		errMeta := tx.First(&meta).Error
		if errMeta != nil {
			if !errors.Is(errMeta, gorm.ErrRecordNotFound) {
				return fmt.Errorf("catalog: load revision meta: %w", errMeta)
			}
			meta = models.RevisionMeta{LastUpdated: now}
			if errCreate := tx.Create(&meta).Error; errCreate != nil {
				return fmt.Errorf("catalog: create revision meta: %w", errCreate)
			}
			return nil
		}
		if errStamp := tx.Model(&meta).Update("last_updated", now).Error; errStamp != nil {
			return fmt.Errorf("catalog: stamp revision: %w", errStamp)
		}
		return nil
	})
}

// Snapshot is the read-only projection served to the public site.
type Snapshot struct {
	Plans       []models.Plan
	LastUpdated *time.Time
	Cheapest    *float64
}

// TakeSnapshot reads the catalog and revision stamp without mutating either.
// Cheapest is the minimum price across all plans, nil on an empty catalog.
func TakeSnapshot(conn *gorm.DB) (Snapshot, error) {
	plans, errList := ListPlans(conn)
	if errList != nil {
		return Snapshot{}, errList
	}
	lastUpdated, errMeta := RevisionTime(conn)
	if errMeta != nil {
		return Snapshot{}, errMeta
	}

	snap := Snapshot{Plans: plans, LastUpdated: lastUpdated}
	for _, plan := range plans {
		if snap.Cheapest == nil || plan.Price < *snap.Cheapest {
			price := plan.Price
			snap.Cheapest = &price
		}
	}
	return snap, nil
}
