package handlers

import (
	"errors"
	"net/http"

	"github.com/pysugar/zoho-dashboard/internal/imports"
	"github.com/pysugar/zoho-dashboard/internal/logging"
)

// CSVImportHandler handles POST /api/imports/csv (multipart field "file"). Nothing is stored.
func CSVImportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, imports.MaxUploadSize+1<<20)
		if err := r.ParseMultipartForm(imports.MaxUploadSize); err != nil {
			badRequest(w, "Expected a multipart upload no larger than 5 MiB")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			badRequest(w, "Missing file field")
			return
		}
		defer file.Close()

		res, err := imports.ParseCSV(header.Filename, header.Header.Get("Content-Type"), file)
		switch {
		case errors.Is(err, imports.ErrNotCSV), errors.Is(err, imports.ErrEmptyFile):
			badRequest(w, err.Error())
			return
		case errors.Is(err, imports.ErrTooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
			return
		case err != nil:
			badRequest(w, err.Error())
			return
		}

		logging.InfoContext(r.Context(), "csv previewed", "file", res.FileName, "rows", res.Rows, "columns", len(res.Columns))
		writeJSON(w, http.StatusOK, res)
	}
}
