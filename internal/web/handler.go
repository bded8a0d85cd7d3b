package web

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/kitcatalog/internal/core"
	"github.com/edvin/kitcatalog/internal/shell"
)

type Handler struct {
	shell    *shell.Shell
	auth     *core.AuthService
	products *core.ProductService
	pages    map[string]*template.Template
}

func NewHandler(sh *shell.Shell, auth *core.AuthService, products *core.ProductService) (*Handler, error) {
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{
		shell:    sh,
		auth:     auth,
		products: products,
		pages:    pages,
	}, nil
}

// Routes mounts the admin pages on r.
func (h *Handler) Routes(r chi.Router) {
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(h.shell.Sessions.Track)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, productsPath, http.StatusSeeOther)
		})

		r.Get(shell.SignInPath, h.SignInPage)
		r.Post(shell.SignInPath, h.SignIn)
		r.Get(shell.SignUpPath, h.SignUpPage)
		r.Post(shell.SignUpPath, h.SignUp)
		r.Post("/auth/signout", h.SignOut)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.shell.Sessions.RequireSession)
			r.Get("/products", h.Products)
			r.Get("/products/new", h.NewProduct)
			r.Post("/products", h.SaveProduct)
			r.Post("/products/{id}/delete", h.DeleteProduct)
		})
	})
}
