package domain

import "time"

// Event is a dated campus announcement.
type Event struct {
	ID          string
	Title       string
	Date        time.Time
	Location    string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventPatch carries the fields of a partial event update.
type EventPatch struct {
	Title       *string
	Date        *time.Time
	Location    *string
	Description *string
}

// Empty reports whether the patch changes nothing.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Date == nil && p.Location == nil && p.Description == nil
}

// Apply copies the set fields onto e.
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
}
