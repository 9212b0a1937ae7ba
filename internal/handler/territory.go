package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/visitops/cvm-planner/backend/internal/domain"
)

// territoryJSON is the wire form of a territory.
type territoryJSON struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// listTerritories handles GET /api/territories.
func (s *Server) listTerritories(w http.ResponseWriter, r *http.Request) {
	territories, err := s.deps.Territories.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]territoryJSON, len(territories))
	for i, t := range territories {
		out[i] = territoryToJSON(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// deleteTerritory handles DELETE /api/territories/{id}. Customers assigned to
// the territory become unassigned.
func (s *Server) deleteTerritory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	if err := s.deps.Territories.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func territoryToJSON(t domain.Territory) territoryJSON {
	return territoryJSON{ID: t.ID, Name: t.Name}
}
