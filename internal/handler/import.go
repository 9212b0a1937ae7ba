package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/visitops/cvm-planner/backend/internal/importer"
)

// importWorkbook handles POST /api/import/workbook: a multipart form with the
// workbook under "file" plus optional policy fields (year, upsert_policy,
// validation_mode, duplicate_policy, dry_run).
func (s *Server) importWorkbook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.deps.MaxUploadBytes)

	if err := r.ParseMultipartForm(s.deps.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload_too_large",
				"uploaded workbook exceeds the size limit")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "validation_error",
			"expected a multipart form with a workbook file")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error",
			"workbook file is required under the \"file\" field")
		return
	}
	defer file.Close() //nolint:errcheck // read-only handle

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error",
			"could not read the uploaded workbook")
		return
	}

	opts, err := importOptionsFromForm(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	summary, err := s.deps.Importer.Import(r.Context(), content, header.Filename, opts)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// importOptionsFromForm reads the policy fields from the multipart form.
// Values are validated by the importer itself; only shapes are checked here.
func importOptionsFromForm(r *http.Request) (importer.Options, error) {
	opts := importer.Options{
		UpsertPolicy:    r.FormValue("upsert_policy"),
		ValidationMode:  r.FormValue("validation_mode"),
		DuplicatePolicy: r.FormValue("duplicate_policy"),
	}

	if raw := r.FormValue("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return importer.Options{}, errors.New("year must be an integer")
		}
		opts.YearOverride = year
	}

	if raw := r.FormValue("dry_run"); raw != "" {
		dryRun, err := strconv.ParseBool(raw)
		if err != nil {
			return importer.Options{}, errors.New("dry_run must be a boolean")
		}
		opts.DryRun = dryRun
	}

	return opts, nil
}
