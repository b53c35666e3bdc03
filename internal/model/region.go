package model

import "time"

// Region is a geographic zone clients are attached to. Weight and Color only
// tune how the zone renders on the map; no range is enforced.
type Region struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Country   string
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
	Weight    float64 `gorm:"default:1.0"`
	Color     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Clients   []Client `gorm:"foreignKey:RegionID;constraint:OnUpdate:CASCADE"`
}
