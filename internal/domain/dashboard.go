package domain

import "time"

// DashboardCounts are the entity totals shown on the dashboard stat cards.
type DashboardCounts struct {
	Customers int64
	Stores    int64
	Events    int64
}

// UpcomingEvent is one row of the dashboard's "next visits" list.
// CustomerName is "N/A" when the event has no customer.
type UpcomingEvent struct {
	EventDate    time.Time
	EventType    string
	CustomerName string
	Status       string
}
