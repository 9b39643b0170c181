package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sakif/microblog/internal/apperror"
	"github.com/sakif/microblog/internal/auth"
	"github.com/sakif/microblog/internal/service"
)

// AuthHandler serves the signup, login, and logout pages and owns the
// session cookie. The service decides whether credentials are good; this
// handler turns a good login into a JWT cookie and back again.
type AuthHandler struct {
	auth     *service.AuthService
	tokens   *auth.TokenService
	renderer *Renderer
	logger   *slog.Logger
}

func NewAuthHandler(
	authService *service.AuthService,
	tokens *auth.TokenService,
	renderer *Renderer,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:     authService,
		tokens:   tokens,
		renderer: renderer,
		logger:   logger,
	}
}

type authFormView struct {
	baseView
	Username string
	Next     string
	Error    string
}

// HandleSignUpForm serves the blank registration form.
//
// HTTP: GET /auth/signup/
func (h *AuthHandler) HandleSignUpForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "signup.html", authFormView{
		baseView: baseView{Title: "Sign up"},
	})
}

// HandleSignUp accepts the registration form. A new account is logged in
// immediately.
//
// HTTP: POST /auth/signup/ (form: username, password)
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")

	user, err := h.auth.SignUp(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrConflict) {
			h.renderer.Render(w, http.StatusBadRequest, "signup.html", authFormView{
				baseView: baseView{Title: "Sign up"},
				Username: username,
				Error:    validationMessage(err),
			})
			return
		}
		h.renderer.Error(w, r, err)
		return
	}

	h.issueSession(w, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLoginForm serves the login form, carrying through the ?next=
// destination RequireAuth attached.
//
// HTTP: GET /auth/login/?next=/create/
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "login.html", authFormView{
		baseView: baseView{Title: "Log in"},
		Next:     r.URL.Query().Get("next"),
	})
}

// HandleLogin accepts the login form.
//
// HTTP: POST /auth/login/ (form: username, password, next)
//
// Success sets the session cookie and redirects to the form's next
// destination (or the feed); bad credentials re-render the form with the
// service's deliberately vague message.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	next := r.PostFormValue("next")

	user, err := h.auth.Login(r.Context(), username, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.renderer.Render(w, http.StatusBadRequest, "login.html", authFormView{
				baseView: baseView{Title: "Log in"},
				Username: username,
				Next:     next,
				Error:    validationMessage(err),
			})
			return
		}
		h.renderer.Error(w, r, err)
		return
	}

	h.issueSession(w, user.ID)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
//
// HTTP: GET /auth/logout/
//
// The JWT stays technically valid until it expires; logout just makes
// the browser stop sending it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// issueSession generates a JWT for the user and sets it as an HttpOnly,
// SameSite=Lax cookie. Secure is left off for local development; a TLS
// deployment should sit behind a proxy that forces HTTPS anyway.
func (h *AuthHandler) issueSession(w http.ResponseWriter, userID string) {
	token, err := h.tokens.Generate(userID)
	if err != nil {
		// Generate only fails on a broken signer; the account exists, the
		// user can retry the login.
		h.logger.Error("token generation failed", slog.String("error", err.Error()))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext vets a post-login redirect target: only same-site absolute
// paths are honoured, anything else falls back to the feed. Without this,
// a crafted login link could bounce a fresh session to another origin.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	if _, err := url.Parse(next); err != nil {
		return "/"
	}
	return next
}
