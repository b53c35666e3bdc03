package model

import "time"

// Industry is a static reference entry clients are classified under.
type Industry struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Clients   []Client `gorm:"foreignKey:IndustryID;constraint:OnUpdate:CASCADE"`
}
