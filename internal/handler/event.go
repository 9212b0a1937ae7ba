package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/visitops/cvm-planner/backend/internal/domain"
)

// eventPayload is the request body for creating or updating a visit event.
// Dates are date-only ("2006-01-02").
type eventPayload struct {
	CustomerID  *uuid.UUID          `json:"customer_id"`
	StoreID     *uuid.UUID          `json:"store_id"`
	EventType   string              `json:"event_type"`
	EventDate   *openapi_types.Date `json:"event_date"`
	Action      string              `json:"action"`
	Status      string              `json:"status"`
	NextAction  string              `json:"next_action"`
	LastContact *openapi_types.Date `json:"last_contact"`
	Notes       string              `json:"notes"`
}

// eventJSON is the wire form of an event record, with the joined customer,
// territory, and store location columns used by the events table.
type eventJSON struct {
	ID           uuid.UUID           `json:"id"`
	CustomerID   *uuid.UUID          `json:"customer_id,omitempty"`
	StoreID      *uuid.UUID          `json:"store_id,omitempty"`
	EventType    string              `json:"event_type"`
	EventDate    openapi_types.Date  `json:"event_date"`
	Action       string              `json:"action,omitempty"`
	Status       string              `json:"status,omitempty"`
	NextAction   string              `json:"next_action,omitempty"`
	LastContact  *openapi_types.Date `json:"last_contact,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	CustCode     string              `json:"cust_code,omitempty"`
	CustomerName string              `json:"customer_name,omitempty"`
	Territory    string              `json:"territory,omitempty"`
	City         string              `json:"city,omitempty"`
	State        string              `json:"state,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// listEvents handles GET /api/events with start/end/territory_id/status filters.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	filter, err := eventFilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	records, err := s.deps.Events.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]eventJSON, len(records))
	for i, rec := range records {
		out[i] = eventRecordToJSON(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

// createEvent handles POST /api/events.
func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var body eventPayload
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	created, err := s.deps.Events.Create(r.Context(), payloadToEvent(body))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, eventToJSON(created))
}

// updateEvent handles PUT /api/events/{id}.
func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	var body eventPayload
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	e := payloadToEvent(body)
	e.ID = id

	updated, err := s.deps.Events.Update(r.Context(), e)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eventToJSON(updated))
}

// deleteEvent handles DELETE /api/events/{id}.
func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	if err := s.deps.Events.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func payloadToEvent(p eventPayload) domain.VisitEvent {
	e := domain.VisitEvent{
		CustomerID: p.CustomerID,
		StoreID:    p.StoreID,
		EventType:  p.EventType,
		Action:     p.Action,
		Status:     p.Status,
		NextAction: p.NextAction,
		Notes:      p.Notes,
	}
	if p.EventDate != nil {
		e.EventDate = p.EventDate.Time
	}
	if p.LastContact != nil {
		lc := p.LastContact.Time
		e.LastContact = &lc
	}
	return e
}

func eventToJSON(e domain.VisitEvent) eventJSON {
	out := eventJSON{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		StoreID:    e.StoreID,
		EventType:  e.EventType,
		EventDate:  openapi_types.Date{Time: e.EventDate},
		Action:     e.Action,
		Status:     e.Status,
		NextAction: e.NextAction,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
	}
	if e.LastContact != nil {
		lc := openapi_types.Date{Time: *e.LastContact}
		out.LastContact = &lc
	}
	return out
}

func eventRecordToJSON(rec domain.EventRecord) eventJSON {
	out := eventToJSON(rec.VisitEvent)
	out.CustCode = rec.CustCode
	out.CustomerName = rec.CustomerName
	out.Territory = rec.Territory
	out.City = rec.City
	out.State = rec.State
	return out
}
