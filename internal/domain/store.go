package domain

import (
	"time"

	"github.com/google/uuid"
)

// Store is a physical location belonging to a customer, with the contact
// columns carried over from the planner workbook. All address and contact
// fields are optional free text.
type Store struct {
	ID              uuid.UUID
	CustomerID      *uuid.UUID // nil when the owning customer was deleted
	Address1        string
	Address2        string
	City            string
	State           string
	Postcode        string
	Country         string
	MainContact     string
	OwnerName       string
	OwnerPhone      string
	OwnerEmail      string
	ManagerName     string
	StorePhone      string
	StoreEmail      string
	MarketingName   string
	MarketingPhone  string
	MarketingEmail  string
	AccountingName  string
	AccountingPhone string
	AccountingEmail string
	SortBucket      string
	Notes           string
	CreatedAt       time.Time
}

// StoreRecord is a store joined with its customer code and name for listing.
type StoreRecord struct {
	Store
	CustCode     string
	CustomerName string
}
