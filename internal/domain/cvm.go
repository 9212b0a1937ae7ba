package domain

import (
	"time"

	"github.com/google/uuid"
)

// CvmEntry is one cell of the CVM year grid: the planned visit date and the
// manual completion tick for a customer in a given calendar month.
// At most one entry exists per (customer, year, month).
type CvmEntry struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	Year            int
	Month           int // 1..12
	PlannedDate     *time.Time
	CompletedManual bool
	UpdatedAt       time.Time
}

// CvmPlannedItem is one CVM month entry with its customer identity resolved,
// as fed into the calendar month grid.
type CvmPlannedItem struct {
	CustomerID      uuid.UUID
	CustCode        string
	CustomerName    string
	TradeName       string
	City            string
	State           string
	PlannedDate     time.Time
	CompletedManual bool
}

// CvmCustomerRow is one row of the CVM grid: a customer with its year of
// month entries and the derived planning totals shown in the grid margins.
type CvmCustomerRow struct {
	CustomerID     uuid.UUID
	CustCode       string
	CustomerName   string
	TradeName      string
	Territory      string
	SortBucket     string
	Months         map[int]CvmEntry // keyed by month 1..12; absent months have no entry
	PlannedTotal   int
	CompletedTotal int
	LastCompleted  *time.Time
}
