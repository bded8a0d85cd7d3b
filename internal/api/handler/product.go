package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/kitcatalog/internal/api/request"
	"github.com/edvin/kitcatalog/internal/api/response"
	"github.com/edvin/kitcatalog/internal/core"
	"github.com/edvin/kitcatalog/internal/model"
)

type Product struct {
	svc *core.ProductService
}

func NewProduct(svc *core.ProductService) *Product {
	return &Product{svc: svc}
}

func (h *Product) List(w http.ResponseWriter, r *http.Request) {
	pg := request.ParsePagination(r)
	filter, err := request.ParseProductFilter(r)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, hasMore, err := h.svc.List(r.Context(), filter, pg.Limit, pg.Cursor)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	var nextCursor string
	if hasMore && len(products) > 0 {
		nextCursor = core.ProductCursor(products[len(products)-1])
	}
	response.WritePaginated(w, http.StatusOK, products, nextCursor, hasMore)
}

func (h *Product) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, product)
}

func (h *Product) Create(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if err := request.Decode(r, &in); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.svc.Create(r.Context(), in)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("product_id", product.ID).Str("sku", product.SKU).Msg("product created")
	response.WriteJSON(w, http.StatusCreated, product)
}

func (h *Product) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var in model.ProductInput
	if err := request.Decode(r, &in); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, product)
}

func (h *Product) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.WriteServiceError(w, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("product_id", id).Msg("product deleted")
	w.WriteHeader(http.StatusNoContent)
}
