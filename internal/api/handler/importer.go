package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/kitcatalog/internal/api/response"
	"github.com/edvin/kitcatalog/internal/core"
)

const maxImportBytes = 10 << 20

type Import struct {
	svc *core.ImportService
}

func NewImport(svc *core.ImportService) *Import {
	return &Import{svc: svc}
}

// Upload accepts an xlsx workbook either as a multipart "file" field or as
// the raw request body.
func (h *Import) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			response.WriteError(w, http.StatusBadRequest, "missing file field: "+err.Error())
			return
		}
		defer file.Close()
		src = file
	}

	result, err := h.svc.ImportXLSX(r.Context(), src)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Int("total", result.Total).
		Int("imported", result.Imported).
		Int("failed", result.Failed).
		Msg("product import finished")
	response.WriteJSON(w, http.StatusOK, result)
}
