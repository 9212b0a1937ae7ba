package domain

import (
	"time"

	"github.com/google/uuid"
)

// Visit event types accepted by the events screen. EventType is a calendar
// classification; the free-text Status column is what reports normalize.
const (
	EventTypePlanned       = "planned"
	EventTypeCompleted     = "completed"
	EventTypeAnnualLeave   = "annual_leave"
	EventTypePublicHoliday = "public_holiday"
	EventTypeNote          = "note"
)

// ValidEventTypes lists every accepted event type, sorted for display.
var ValidEventTypes = []string{
	EventTypeAnnualLeave,
	EventTypeCompleted,
	EventTypeNote,
	EventTypePlanned,
	EventTypePublicHoliday,
}

// IsValidEventType reports whether t is one of the accepted event types.
func IsValidEventType(t string) bool {
	for _, v := range ValidEventTypes {
		if v == t {
			return true
		}
	}
	return false
}

// VisitEvent is a single dated entry on the visit calendar.
// CustomerID and StoreID are optional: leave and holiday entries have neither.
type VisitEvent struct {
	ID          uuid.UUID
	CustomerID  *uuid.UUID
	StoreID     *uuid.UUID
	EventType   string
	EventDate   time.Time
	Action      string
	Status      string
	NextAction  string
	LastContact *time.Time
	Notes       string
	CreatedAt   time.Time
}

// EventRecord is the flat, denormalized view of a visit event used by the
// events table and the report feed: event fields joined with customer code,
// customer name, territory, and store location. Joined fields are "" when the
// related row is missing.
type EventRecord struct {
	VisitEvent
	CustCode     string
	CustomerName string
	Territory    string
	City         string
	State        string
}

// EventFilter narrows event listings and report feeds.
// Zero values mean "no constraint" for each field.
type EventFilter struct {
	Start       *time.Time
	End         *time.Time
	TerritoryID *uuid.UUID
	Status      string
}
