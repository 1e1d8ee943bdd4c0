package models

import "time"

// Plan represents an electricity pricing plan shown on the site.
type Plan struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name  string  `gorm:"type:varchar(255);not null"`            // Plan name; immutable once seeded.
	Price float64 `gorm:"type:decimal(10,4);not null;default:0"` // Energy rate in EUR per kWh.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
