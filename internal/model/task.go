package model

import "time"

// Task statuses. Completed is the only status any aggregate treats as closed;
// there is no transition graph, any status may replace any other.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusBlocked    = "Blocked"
)

// Task priorities.
const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

var (
	Statuses   = []string{StatusOpen, StatusInProgress, StatusCompleted, StatusBlocked}
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
)

// Task is a single action point, optionally tied to a client. Dates are kept as
// plain strings the way the forms submit them; empty or unparseable values mean
// "no date" everywhere downstream.
type Task struct {
	ID            uint   `gorm:"primaryKey"`
	Title         string `gorm:"not null"`
	ClientID      *uint  `gorm:"index"`
	Owner         string
	Priority      string `gorm:"default:'Medium'"`
	Status        string `gorm:"default:'Open'"`
	StartDate     string
	DueDate       string
	CompletedDate string
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
