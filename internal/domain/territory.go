package domain

import "github.com/google/uuid"

// Territory is a sales/geographic grouping for customers.
// Identity is the unique Name; territories are created on demand when a
// customer or workbook row references a name that does not exist yet.
type Territory struct {
	ID   uuid.UUID
	Name string
}
