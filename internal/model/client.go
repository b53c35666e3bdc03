package model

import "time"

// Client is a company the team works for. Clients are never hard-deleted in the
// normal flow: archiving flips IsActive so historical task references survive.
type Client struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"uniqueIndex;not null"`
	IndustryID    *uint  `gorm:"index"`
	RegionID      *uint  `gorm:"index"`
	ContactPerson string
	ContactEmail  string
	ContactPhone  string
	Notes         string
	// No gorm default tag: an explicit false must reach the insert.
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Tasks     []Task `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
