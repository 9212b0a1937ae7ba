package handler

import (
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/service"
)

// cvmEntryJSON is the wire form of one grid cell.
type cvmEntryJSON struct {
	CustomerID      uuid.UUID           `json:"customer_id"`
	Year            int                 `json:"year"`
	Month           int                 `json:"month"`
	PlannedDate     *openapi_types.Date `json:"planned_date,omitempty"`
	CompletedManual bool                `json:"completed_manual"`
}

// cvmRowJSON is one customer row of the grid, months keyed "1".."12".
type cvmRowJSON struct {
	CustomerID     uuid.UUID            `json:"customer_id"`
	CustCode       string               `json:"cust_code"`
	CustomerName   string               `json:"customer_name"`
	TradeName      string               `json:"trade_name,omitempty"`
	Territory      string               `json:"territory,omitempty"`
	SortBucket     string               `json:"sort_bucket,omitempty"`
	Months         map[int]cvmEntryJSON `json:"months"`
	PlannedTotal   int                  `json:"planned_total"`
	CompletedTotal int                  `json:"completed_total"`
	LastCompleted  *openapi_types.Date  `json:"last_completed,omitempty"`
}

// cvmGridJSON is the full grid response.
type cvmGridJSON struct {
	Year int          `json:"year"`
	Rows []cvmRowJSON `json:"rows"`
}

// cvmMonthPayload is the request body for one grid-cell edit.
type cvmMonthPayload struct {
	CustomerID      uuid.UUID           `json:"customer_id"`
	Year            int                 `json:"year"`
	Month           int                 `json:"month"`
	PlannedDate     *openapi_types.Date `json:"planned_date"`
	CompletedManual bool                `json:"completed_manual"`
}

// getCvmGrid handles GET /api/cvm?year=&territory_id=.
func (s *Server) getCvmGrid(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}
	territoryID, err := queryUUID(r, "territory_id")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	resolvedYear, rows, err := s.deps.Cvm.Grid(r.Context(), year, territoryID)
	if err != nil {
		respondError(w, err)
		return
	}

	out := cvmGridJSON{Year: resolvedYear, Rows: make([]cvmRowJSON, len(rows))}
	for i, row := range rows {
		out.Rows[i] = cvmRowToJSON(row)
	}
	writeJSON(w, http.StatusOK, out)
}

// setCvmMonth handles POST /api/cvm/month: upsert, ignore, or clear one cell.
// Responds 200 with the entry, or 200 with null when the cell is empty after
// the edit.
func (s *Server) setCvmMonth(w http.ResponseWriter, r *http.Request) {
	var body cvmMonthPayload
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	in := service.CvmMonthInput{
		CustomerID:      body.CustomerID,
		Year:            body.Year,
		Month:           body.Month,
		CompletedManual: body.CompletedManual,
	}
	if body.PlannedDate != nil {
		pd := body.PlannedDate.Time
		in.PlannedDate = &pd
	}

	entry, err := s.deps.Cvm.SetMonth(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}

	if entry == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, cvmEntryToJSON(*entry))
}

func cvmEntryToJSON(e domain.CvmEntry) cvmEntryJSON {
	out := cvmEntryJSON{
		CustomerID:      e.CustomerID,
		Year:            e.Year,
		Month:           e.Month,
		CompletedManual: e.CompletedManual,
	}
	if e.PlannedDate != nil {
		pd := openapi_types.Date{Time: *e.PlannedDate}
		out.PlannedDate = &pd
	}
	return out
}

func cvmRowToJSON(row domain.CvmCustomerRow) cvmRowJSON {
	out := cvmRowJSON{
		CustomerID:     row.CustomerID,
		CustCode:       row.CustCode,
		CustomerName:   row.CustomerName,
		TradeName:      row.TradeName,
		Territory:      row.Territory,
		SortBucket:     row.SortBucket,
		Months:         make(map[int]cvmEntryJSON, len(row.Months)),
		PlannedTotal:   row.PlannedTotal,
		CompletedTotal: row.CompletedTotal,
	}
	for month, e := range row.Months {
		out.Months[month] = cvmEntryToJSON(e)
	}
	if row.LastCompleted != nil {
		lc := openapi_types.Date{Time: *row.LastCompleted}
		out.LastCompleted = &lc
	}
	return out
}
