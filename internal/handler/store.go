package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/visitops/cvm-planner/backend/internal/domain"
)

// storePayload is the request body for creating or updating a store.
type storePayload struct {
	CustomerID      *uuid.UUID `json:"customer_id"`
	Address1        string     `json:"address_1"`
	Address2        string     `json:"address_2"`
	City            string     `json:"city"`
	State           string     `json:"state"`
	Postcode        string     `json:"postcode"`
	Country         string     `json:"country"`
	MainContact     string     `json:"main_contact"`
	OwnerName       string     `json:"owner_name"`
	OwnerPhone      string     `json:"owner_phone"`
	OwnerEmail      string     `json:"owner_email"`
	ManagerName     string     `json:"manager_name"`
	StorePhone      string     `json:"store_phone"`
	StoreEmail      string     `json:"store_email"`
	MarketingName   string     `json:"marketing_name"`
	MarketingPhone  string     `json:"marketing_phone"`
	MarketingEmail  string     `json:"marketing_email"`
	AccountingName  string     `json:"accounting_name"`
	AccountingPhone string     `json:"accounting_phone"`
	AccountingEmail string     `json:"accounting_email"`
	SortBucket      string     `json:"sort_bucket"`
	Notes           string     `json:"notes"`
}

// storeJSON is the wire form of a store, with the joined customer code and
// name for listings.
type storeJSON struct {
	ID           uuid.UUID  `json:"id"`
	CustomerID   *uuid.UUID `json:"customer_id,omitempty"`
	CustCode     string     `json:"cust_code,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
	storePayloadFields
	CreatedAt time.Time `json:"created_at"`
}

// storePayloadFields are the editable store columns, shared between the
// request and response shapes.
type storePayloadFields struct {
	Address1        string `json:"address_1,omitempty"`
	Address2        string `json:"address_2,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	Postcode        string `json:"postcode,omitempty"`
	Country         string `json:"country,omitempty"`
	MainContact     string `json:"main_contact,omitempty"`
	OwnerName       string `json:"owner_name,omitempty"`
	OwnerPhone      string `json:"owner_phone,omitempty"`
	OwnerEmail      string `json:"owner_email,omitempty"`
	ManagerName     string `json:"manager_name,omitempty"`
	StorePhone      string `json:"store_phone,omitempty"`
	StoreEmail      string `json:"store_email,omitempty"`
	MarketingName   string `json:"marketing_name,omitempty"`
	MarketingPhone  string `json:"marketing_phone,omitempty"`
	MarketingEmail  string `json:"marketing_email,omitempty"`
	AccountingName  string `json:"accounting_name,omitempty"`
	AccountingPhone string `json:"accounting_phone,omitempty"`
	AccountingEmail string `json:"accounting_email,omitempty"`
	SortBucket      string `json:"sort_bucket,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// listStores handles GET /api/stores. Supports ?customer_id= to narrow to one
// customer.
func (s *Server) listStores(w http.ResponseWriter, r *http.Request) {
	customerID, err := queryUUID(r, "customer_id")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	records, err := s.deps.Stores.List(r.Context(), customerID)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]storeJSON, len(records))
	for i, rec := range records {
		out[i] = storeToJSON(rec.Store, rec.CustCode, rec.CustomerName)
	}
	writeJSON(w, http.StatusOK, out)
}

// createStore handles POST /api/stores.
func (s *Server) createStore(w http.ResponseWriter, r *http.Request) {
	var body storePayload
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	created, err := s.deps.Stores.Create(r.Context(), payloadToStore(body))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, storeToJSON(created, "", ""))
}

// updateStore handles PUT /api/stores/{id}.
func (s *Server) updateStore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	var body storePayload
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	store := payloadToStore(body)
	store.ID = id

	updated, err := s.deps.Stores.Update(r.Context(), store)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, storeToJSON(updated, "", ""))
}

// deleteStore handles DELETE /api/stores/{id}.
func (s *Server) deleteStore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	if err := s.deps.Stores.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func payloadToStore(p storePayload) domain.Store {
	return domain.Store{
		CustomerID:      p.CustomerID,
		Address1:        p.Address1,
		Address2:        p.Address2,
		City:            p.City,
		State:           p.State,
		Postcode:        p.Postcode,
		Country:         p.Country,
		MainContact:     p.MainContact,
		OwnerName:       p.OwnerName,
		OwnerPhone:      p.OwnerPhone,
		OwnerEmail:      p.OwnerEmail,
		ManagerName:     p.ManagerName,
		StorePhone:      p.StorePhone,
		StoreEmail:      p.StoreEmail,
		MarketingName:   p.MarketingName,
		MarketingPhone:  p.MarketingPhone,
		MarketingEmail:  p.MarketingEmail,
		AccountingName:  p.AccountingName,
		AccountingPhone: p.AccountingPhone,
		AccountingEmail: p.AccountingEmail,
		SortBucket:      p.SortBucket,
		Notes:           p.Notes,
	}
}

func storeToJSON(st domain.Store, custCode, customerName string) storeJSON {
	return storeJSON{
		ID:           st.ID,
		CustomerID:   st.CustomerID,
		CustCode:     custCode,
		CustomerName: customerName,
		storePayloadFields: storePayloadFields{
			Address1:        st.Address1,
			Address2:        st.Address2,
			City:            st.City,
			State:           st.State,
			Postcode:        st.Postcode,
			Country:         st.Country,
			MainContact:     st.MainContact,
			OwnerName:       st.OwnerName,
			OwnerPhone:      st.OwnerPhone,
			OwnerEmail:      st.OwnerEmail,
			ManagerName:     st.ManagerName,
			StorePhone:      st.StorePhone,
			StoreEmail:      st.StoreEmail,
			MarketingName:   st.MarketingName,
			MarketingPhone:  st.MarketingPhone,
			MarketingEmail:  st.MarketingEmail,
			AccountingName:  st.AccountingName,
			AccountingPhone: st.AccountingPhone,
			AccountingEmail: st.AccountingEmail,
			SortBucket:      st.SortBucket,
			Notes:           st.Notes,
		},
		CreatedAt: st.CreatedAt,
	}
}
