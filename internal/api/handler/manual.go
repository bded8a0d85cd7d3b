package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/kitcatalog/internal/api/request"
	"github.com/edvin/kitcatalog/internal/api/response"
	"github.com/edvin/kitcatalog/internal/core"
	"github.com/edvin/kitcatalog/internal/storage"
)

const maxManualBytes = 25 << 20

var pdfMagic = []byte("%PDF-")

type Manual struct {
	products *core.ProductService
	store    storage.ManualStore
}

func NewManual(products *core.ProductService, store storage.ManualStore) *Manual {
	return &Manual{products: products, store: store}
}

// Upload stores the request body as the product's user manual.
func (h *Manual) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.products.GetByID(r.Context(), id); err != nil {
		response.WriteServiceError(w, err)
		return
	}

	// Buffered in full: the upload needs an exact length and a body it can
	// rewind, and chunked requests report neither.
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxManualBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WriteError(w, http.StatusRequestEntityTooLarge, "user manual exceeds 25 MiB")
			return
		}
		response.WriteError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		response.WriteError(w, http.StatusUnsupportedMediaType, "user manual must be a PDF document")
		return
	}

	url, err := h.store.PutManual(r.Context(), id, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			response.WriteError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		response.WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := h.products.SetManualURL(r.Context(), id, url); err != nil {
		response.WriteServiceError(w, err)
		return
	}

	product, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, product)
}
