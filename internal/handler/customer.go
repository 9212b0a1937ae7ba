package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/visitops/cvm-planner/backend/internal/domain"
)

// customerPayload is the request body for creating or updating a customer.
// Territory is a name; the service resolves or creates the territory row.
type customerPayload struct {
	CustCode  string `json:"cust_code"`
	Name      string `json:"name"`
	TradeName string `json:"trade_name"`
	Territory string `json:"territory"`
	GroupName string `json:"group_name"`
	Group2IWS string `json:"group_2_iws"`
	IWSCode   string `json:"iws_code"`
	OldValue  string `json:"old_value"`
	OldName   string `json:"old_name"`
	CvmNotes  string `json:"cvm_notes"`
}

// customerJSON is the wire form of a customer. Territory is the joined
// territory name, "" when unassigned.
type customerJSON struct {
	ID          uuid.UUID  `json:"id"`
	CustCode    string     `json:"cust_code"`
	Name        string     `json:"name"`
	TradeName   string     `json:"trade_name,omitempty"`
	TerritoryID *uuid.UUID `json:"territory_id,omitempty"`
	Territory   string     `json:"territory,omitempty"`
	GroupName   string     `json:"group_name,omitempty"`
	Group2IWS   string     `json:"group_2_iws,omitempty"`
	IWSCode     string     `json:"iws_code,omitempty"`
	OldValue    string     `json:"old_value,omitempty"`
	OldName     string     `json:"old_name,omitempty"`
	CvmNotes    string     `json:"cvm_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// listCustomers handles GET /api/customers. Supports ?search= on code or name
// and optional ?page=&limit= paging.
func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	records, err := s.deps.Customers.List(r.Context(), r.URL.Query().Get("search"),
		domain.NewPaginationParams(page, limit))
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]customerJSON, len(records))
	for i, rec := range records {
		out[i] = customerToJSON(rec.Customer, rec.Territory)
	}
	writeJSON(w, http.StatusOK, out)
}

// createCustomer handles POST /api/customers.
func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var body customerPayload
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	created, err := s.deps.Customers.Create(r.Context(), payloadToCustomer(body), body.Territory)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, customerToJSON(created, body.Territory))
}

// getCustomer handles GET /api/customers/{id}.
func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	c, err := s.deps.Customers.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, customerToJSON(c, ""))
}

// updateCustomer handles PUT /api/customers/{id}.
func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	var body customerPayload
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	c := payloadToCustomer(body)
	c.ID = id

	updated, err := s.deps.Customers.Update(r.Context(), c, body.Territory)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, customerToJSON(updated, body.Territory))
}

// deleteCustomer handles DELETE /api/customers/{id}.
func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	if err := s.deps.Customers.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func payloadToCustomer(p customerPayload) domain.Customer {
	return domain.Customer{
		CustCode:  p.CustCode,
		Name:      p.Name,
		TradeName: p.TradeName,
		GroupName: p.GroupName,
		Group2IWS: p.Group2IWS,
		IWSCode:   p.IWSCode,
		OldValue:  p.OldValue,
		OldName:   p.OldName,
		CvmNotes:  p.CvmNotes,
	}
}

func customerToJSON(c domain.Customer, territory string) customerJSON {
	return customerJSON{
		ID:          c.ID,
		CustCode:    c.CustCode,
		Name:        c.Name,
		TradeName:   c.TradeName,
		TerritoryID: c.TerritoryID,
		Territory:   territory,
		GroupName:   c.GroupName,
		Group2IWS:   c.Group2IWS,
		IWSCode:     c.IWSCode,
		OldValue:    c.OldValue,
		OldName:     c.OldName,
		CvmNotes:    c.CvmNotes,
		CreatedAt:   c.CreatedAt,
	}
}
