// Package domain contains the core data types for the CVM Planner application.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler, report).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the top-level CRM aggregate. Visits, stores, and CVM month
// entries all hang off a customer. CustCode is the stable business key used
// by workbook imports; it is unique across the table.
type Customer struct {
	ID          uuid.UUID
	CustCode    string
	Name        string
	TradeName   string
	TerritoryID *uuid.UUID // nil when the customer is not assigned to a territory
	GroupName   string
	Group2IWS   string
	IWSCode     string
	OldValue    string
	OldName     string
	CvmNotes    string
	CreatedAt   time.Time
}

// CustomerRecord is a customer joined with its territory name, as listed on
// the customers screen. Territory is "" when unassigned.
type CustomerRecord struct {
	Customer
	Territory string
}
