package handlers

import (
	"io"
	"net/http"
	"strings"
)

// HandleExportCSV streams the guest list as a CSV download. The file starts
// with a UTF-8 BOM so Excel renders accented names correctly.
func HandleExportCSV(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=convidados.csv")

		if err := s.GetBulk().ExportCSV(r.Context(), w); err != nil {
			// Headers are already out; nothing sane left to report.
			return
		}
	}
}

// HandleImportCSV creates guests from an uploaded CSV. The file can come as
// a multipart "file" field or as the raw request body; headers are matched
// against Portuguese and English synonyms. Each row succeeds or fails on
// its own.
func HandleImportCSV(s AdminServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reader io.Reader = r.Body

		if ct := r.Header.Get("Content-Type"); strings.HasPrefix(ct, "multipart/form-data") {
			file, _, err := r.FormFile("file")
			if err != nil {
				respondError(w, http.StatusBadRequest, "arquivo não encontrado no formulário")
				return
			}
			defer file.Close()
			reader = file
		}

		result := s.GetBulk().ImportCSV(r.Context(), reader)
		respondJSON(w, http.StatusOK, result)
	}
}
