// Package handler contains the HTTP request handlers.
//
// Handlers are the glue between HTTP and the service layer: they parse
// the request (path params, form fields, multipart uploads), call one
// service method, and render a template or redirect. Business rules and
// SQL never appear here.
package handler

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/sakif/microblog/internal/apperror"
)

// pageFiles are the per-page templates. Each one is parsed together with
// base.html so its {{define "content"}} block fills the base layout.
var pageFiles = []string{
	"index.html",
	"group_list.html",
	"profile.html",
	"post_detail.html",
	"post_form.html",
	"follow.html",
	"login.html",
	"signup.html",
	"404.html",
	"500.html",
}

// Renderer holds the parsed template sets, one per page. Parsing happens
// once at startup; a broken template fails the boot instead of the first
// request.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	base := filepath.Join(templateDir, "base.html")

	// Go templates have no arithmetic; the paginator needs page±1.
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl, err := template.New("base.html").Funcs(funcs).
			ParseFiles(base, filepath.Join(templateDir, name))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// Render executes the named page into a buffer first, so a mid-render
// template error becomes a clean 500 instead of a half-written page.
func (rn *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	html, err := rn.RenderString(page, data)
	if err != nil {
		rn.logger.Error("template render failed",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, html)
}

// RenderString renders a page to a string. The feed cache stores these.
func (rn *Renderer) RenderString(page string, data any) (string, error) {
	tmpl, ok := rn.pages[page]
	if !ok {
		return "", fmt.Errorf("unknown template %s", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Error maps a service error to an HTML response.
//
// This is the single place domain errors turn into HTTP: NotFound gets
// the 404 page; anything else is a generic 500 with the detail kept in
// the log, never on the page. Validation errors don't come through here —
// each form handler re-renders its own form with the message inline.
func (rn *Renderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperror.ErrNotFound) {
		rn.Render(w, http.StatusNotFound, "404.html", baseView{Title: "Page not found"})
		return
	}

	rn.logger.Error("request failed",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	rn.Render(w, http.StatusInternalServerError, "500.html", baseView{Title: "Server error"})
}

// baseView carries the fields every page's layout needs. Page views embed
// it.
type baseView struct {
	Title    string
	LoggedIn bool
}

// validationMessage extracts the human-readable message from a validation
// error, for re-rendering a form. Falls back to a generic line if the
// error isn't carrying one.
func validationMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "invalid input"
}

// pageNumber reads the ?page= query parameter. Unparsable or missing
// input means page 1; range clamping is the paginator's job.
func pageNumber(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
