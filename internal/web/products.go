package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/edvin/kitcatalog/internal/api/request"
	"github.com/edvin/kitcatalog/internal/core"
	"github.com/edvin/kitcatalog/internal/form"
	"github.com/edvin/kitcatalog/internal/model"
	"github.com/edvin/kitcatalog/internal/shell"
)

const (
	productsPath    = "/admin/products"
	productsPrefix  = "products:"
	productListKey  = productsPrefix + "list"
	listPageSize    = 200
	productKeyScope = productsPrefix + "id:"
)

type fieldView struct {
	ID          string
	Name        string
	Label       string
	Kind        string
	Placeholder string
	Step        string
	Rows        int
	Required    bool
	Checked     bool
	Value       string
}

type productsView struct {
	Products   []model.Product
	SelectedID string
	Form       *form.ProductForm
	Fields     []fieldView
	CanEdit    bool
}

var kindNames = map[form.Kind]string{
	form.KindText:     "text",
	form.KindTextarea: "textarea",
	form.KindNumber:   "number",
	form.KindURL:      "url",
	form.KindList:     "textarea",
	form.KindCheckbox: "checkbox",
}

func fieldViews(f *form.ProductForm) []fieldView {
	views := make([]fieldView, 0, len(form.Specs))
	for _, spec := range form.Specs {
		v := fieldView{
			ID:          spec.ID,
			Name:        string(spec.Field),
			Label:       spec.Label,
			Kind:        kindNames[spec.Kind],
			Placeholder: spec.Placeholder,
			Step:        spec.Step,
			Rows:        spec.Rows,
			Required:    spec.Required,
			Value:       f.Value(spec.Field),
		}
		if spec.Kind == form.KindCheckbox {
			v.Checked = f.State().IsActive
		}
		views = append(views, v)
	}
	return views
}

func productPath(id string) string {
	return productsPath + "?id=" + url.QueryEscape(id)
}

func (h *Handler) canEdit(r *http.Request) bool {
	claims, ok := h.shell.Sessions.Current(r)
	return ok && claims.Role == model.RoleAdmin
}

// listProducts returns the whole catalog, served from the request cache when
// possible.
func (h *Handler) listProducts(ctx context.Context) ([]model.Product, error) {
	return shell.Fetch(h.shell.Cache, productListKey, func() ([]model.Product, error) {
		all := []model.Product{}
		cursor := ""
		for {
			page, hasMore, err := h.products.List(ctx, model.ProductFilter{}, listPageSize, cursor)
			if err != nil {
				return nil, err
			}
			all = append(all, page...)
			if !hasMore || len(page) == 0 {
				return all, nil
			}
			cursor = core.ProductCursor(page[len(page)-1])
		}
	})
}

func (h *Handler) getProduct(ctx context.Context, id string) (*model.Product, error) {
	return shell.Fetch(h.shell.Cache, productKeyScope+id, func() (*model.Product, error) {
		return h.products.GetByID(ctx, id)
	})
}

func (h *Handler) renderProducts(w http.ResponseWriter, r *http.Request, status int, f *form.ProductForm) {
	products, err := h.listProducts(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list products")
		h.shell.Notify(r, shell.LevelError, "Could not load products: "+err.Error())
		products = []model.Product{}
	}

	h.render(w, r, status, "products", "Products", productsView{
		Products:   products,
		SelectedID: f.SelectedID(),
		Form:       f,
		Fields:     fieldViews(f),
		CanEdit:    h.canEdit(r),
	})
}

// Products shows the catalog with the form in create mode, or in edit mode
// for the product named by ?id=.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	state := model.ProductInput{IsActive: true}
	var selected *string

	if id := r.URL.Query().Get("id"); id != "" {
		p, err := h.getProduct(r.Context(), id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				h.shell.Notify(r, shell.LevelError, "Product not found")
				http.Redirect(w, r, productsPath, http.StatusSeeOther)
				return
			}
			zerolog.Ctx(r.Context()).Error().Err(err).Str("product_id", id).Msg("load product")
			h.shell.Notify(r, shell.LevelError, "Could not load product: "+err.Error())
		} else {
			state = p.ProductInput
			selected = &p.ID
		}
	}

	h.renderProducts(w, r, http.StatusOK, form.New(state, form.Options{SelectedID: selected}))
}

// NewProduct resets the editor to an empty create form.
func (h *Handler) NewProduct(w http.ResponseWriter, r *http.Request) {
	f := form.New(model.ProductInput{}, form.Options{
		OnReset: func(context.Context) error {
			http.Redirect(w, r, productsPath, http.StatusSeeOther)
			return nil
		},
	})
	f.Reset(r.Context())
}

// SaveProduct handles the form submit for both create and update.
func (h *Handler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	id := strings.TrimSpace(r.PostForm.Get("id"))

	if !h.canEdit(r) {
		h.shell.Notify(r, shell.LevelError, "Only admins can change the catalog")
		http.Redirect(w, r, backTo(id), http.StatusSeeOther)
		return
	}

	state := model.ProductInput{}
	var selected *string
	if id != "" {
		existing, err := h.products.GetByID(r.Context(), id)
		if err != nil {
			h.notifyServiceError(r, err)
			http.Redirect(w, r, productsPath, http.StatusSeeOther)
			return
		}
		state = existing.ProductInput
		selected = &existing.ID
	}

	var saved *model.Product
	f := form.New(state, form.Options{
		SelectedID: selected,
		OnSubmit: func(ctx context.Context, in model.ProductInput) error {
			if err := request.Struct(in); err != nil {
				return err
			}
			var err error
			if selected != nil {
				saved, err = h.products.Update(ctx, *selected, in)
			} else {
				saved, err = h.products.Create(ctx, in)
			}
			return err
		},
	})
	if err := f.Bind(r.PostForm); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if missing := f.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, m := range missing {
			names[i] = string(m)
		}
		h.shell.Notify(r, shell.LevelError, "Missing required fields: "+strings.Join(names, ", "))
		h.renderProducts(w, r, http.StatusUnprocessableEntity, f)
		return
	}

	if err := f.Submit(r.Context()); err != nil {
		h.notifyServiceError(r, err)
		h.renderProducts(w, r, submitStatus(err), f)
		return
	}

	h.shell.Cache.InvalidatePrefix(productsPrefix)
	if selected != nil {
		h.shell.Notify(r, shell.LevelSuccess, "Product updated")
	} else {
		h.shell.Notify(r, shell.LevelSuccess, "Product created")
	}
	http.Redirect(w, r, productPath(saved.ID), http.StatusSeeOther)
}

// DeleteProduct removes the selected product.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.canEdit(r) {
		h.shell.Notify(r, shell.LevelError, "Only admins can change the catalog")
		http.Redirect(w, r, backTo(id), http.StatusSeeOther)
		return
	}

	f := form.New(model.ProductInput{}, form.Options{
		SelectedID: &id,
		OnDelete:   h.products.Delete,
	})
	if err := f.Delete(r.Context()); err != nil {
		h.notifyServiceError(r, err)
		target := productPath(id)
		if errors.Is(err, core.ErrNotFound) {
			target = productsPath
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	h.shell.Cache.InvalidatePrefix(productsPrefix)
	h.shell.Notify(r, shell.LevelSuccess, "Product deleted")
	http.Redirect(w, r, productsPath, http.StatusSeeOther)
}

func backTo(id string) string {
	if id == "" {
		return productsPath
	}
	return productPath(id)
}

func (h *Handler) notifyServiceError(r *http.Request, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		h.shell.Notify(r, shell.LevelError, describeValidation(verrs))
	case errors.Is(err, core.ErrNotFound):
		h.shell.Notify(r, shell.LevelError, "Product not found")
	case errors.Is(err, core.ErrDuplicateSKU):
		h.shell.Notify(r, shell.LevelError, core.ErrDuplicateSKU.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("product action failed")
		h.shell.Notify(r, shell.LevelError, err.Error())
	}
}

func submitStatus(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrDuplicateSKU):
		return http.StatusConflict
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func describeValidation(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "url":
			msgs = append(msgs, fe.Field()+" must be a valid URL")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return "Invalid product: " + strings.Join(msgs, "; ")
}
