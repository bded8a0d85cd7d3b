package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edvin/kitcatalog/internal/api/request"
	"github.com/edvin/kitcatalog/internal/core"
	"github.com/edvin/kitcatalog/internal/shell"
)

type signInView struct {
	Next  string
	Email string
}

type signUpView struct {
	Email       string
	DisplayName string
}

type signUpForm struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=8,max=128"`
	DisplayName string `validate:"max=100"`
}

// safeNext only allows redirects to local paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return productsPath
	}
	return next
}

func (h *Handler) SignInPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.shell.Sessions.Current(r); ok {
		http.Redirect(w, r, productsPath, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "signin", "Sign in", signInView{Next: r.URL.Query().Get("next")})
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")
	next := r.PostForm.Get("next")

	token, err := h.auth.SignIn(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		status := http.StatusUnauthorized
		msg := "Invalid email or password"
		if !errors.Is(err, core.ErrInvalidCredentials) {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("sign in")
			status = http.StatusInternalServerError
			msg = "Sign in failed"
		}
		h.shell.Notify(r, shell.LevelError, msg)
		h.render(w, r, status, "signin", "Sign in", signInView{Next: next, Email: email})
		return
	}

	h.shell.Sessions.Start(w, token)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

func (h *Handler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signup", "Sign up", signUpView{})
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	in := signUpForm{
		Email:       strings.TrimSpace(r.PostForm.Get("email")),
		Password:    r.PostForm.Get("password"),
		DisplayName: strings.TrimSpace(r.PostForm.Get("display_name")),
	}
	view := signUpView{Email: in.Email, DisplayName: in.DisplayName}

	if err := request.Struct(in); err != nil {
		h.shell.Notify(r, shell.LevelError, "Enter a valid email and a password of at least 8 characters")
		h.render(w, r, http.StatusUnprocessableEntity, "signup", "Sign up", view)
		return
	}

	var displayName *string
	if in.DisplayName != "" {
		displayName = &in.DisplayName
	}
	token, err := h.auth.SignUp(r.Context(), in.Email, in.Password, displayName)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Sign up failed"
		if errors.Is(err, core.ErrEmailTaken) {
			status = http.StatusConflict
			msg = "An account with this email already exists"
		} else {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("sign up")
		}
		h.shell.Notify(r, shell.LevelError, msg)
		h.render(w, r, status, "signup", "Sign up", view)
		return
	}

	if claims, err := h.auth.ValidateToken(token); err == nil {
		h.shell.Toasts.Push(shell.UserKey(claims.Sub), shell.Toast{Level: shell.LevelSuccess, Message: "Account created"})
	}
	h.shell.Sessions.Start(w, token)
	http.Redirect(w, r, productsPath, http.StatusSeeOther)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.shell.Sessions.End(w)
	http.Redirect(w, r, shell.SignInPath, http.StatusSeeOther)
}
