package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/visitops/cvm-planner/backend/internal/domain"
)

// pathID parses the {id} path parameter as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

// decodeBody parses the JSON request body into dst. A missing body is an error.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %v", err)
	}
	return nil
}

// queryUUID parses an optional UUID query parameter, nil when absent.
func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &id, nil
}

// queryInt parses an optional integer query parameter, zero when absent.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

// queryDate parses an optional "2006-01-02" query parameter, nil when absent.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q, want YYYY-MM-DD", name, raw)
	}
	return &t, nil
}

// eventFilterFromQuery assembles the shared event filter from query
// parameters: start, end, territory_id, status.
func eventFilterFromQuery(r *http.Request) (domain.EventFilter, error) {
	var f domain.EventFilter
	var err error

	if f.Start, err = queryDate(r, "start"); err != nil {
		return domain.EventFilter{}, err
	}
	if f.End, err = queryDate(r, "end"); err != nil {
		return domain.EventFilter{}, err
	}
	if f.TerritoryID, err = queryUUID(r, "territory_id"); err != nil {
		return domain.EventFilter{}, err
	}
	f.Status = r.URL.Query().Get("status")

	return f, nil
}
