// Package shell provides what every admin page is rendered inside: the
// header visibility rule, the signed-in session, a request cache and the
// toast notification surface.
package shell

import (
	"net/http"

	"github.com/edvin/kitcatalog/internal/model"
)

// Paths rendered without the header.
const (
	SignInPath = "/auth/signin"
	SignUpPath = "/auth/signup"
)

// HeaderVisible reports whether the header is shown for path. Only the
// exact sign-in and sign-up paths hide it.
func HeaderVisible(path string) bool {
	return path != SignInPath && path != SignUpPath
}

// Shell is built once at startup and shared by the web handlers.
type Shell struct {
	Sessions *SessionManager
	Cache    *Cache
	Toasts   *Toaster
}

func New(sessions *SessionManager, cache *Cache, toasts *Toaster) *Shell {
	return &Shell{Sessions: sessions, Cache: cache, Toasts: toasts}
}

// Page is the layout model handed to templates.
type Page struct {
	Title         string
	Path          string
	ShowHeader    bool
	User          *model.JWTClaims
	Toasts        []Toast
	ToastPosition string
	Body          any
}

// Page builds the layout for r. Pending toasts for the session are drained.
func (s *Shell) Page(r *http.Request, title string, body any) Page {
	user, _ := s.Sessions.Current(r)
	return Page{
		Title:         title,
		Path:          r.URL.Path,
		ShowHeader:    HeaderVisible(r.URL.Path),
		User:          user,
		Toasts:        s.Toasts.Drain(s.Sessions.Key(r)),
		ToastPosition: ToastPosition,
		Body:          body,
	}
}

// Notify queues a toast for the session behind r.
func (s *Shell) Notify(r *http.Request, level Level, message string) {
	s.Toasts.Push(s.Sessions.Key(r), Toast{Level: level, Message: message})
}
