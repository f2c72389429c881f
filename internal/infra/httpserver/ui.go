package httpserver

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
	"github.com/bryanwahyu/automaton-verify/internal/presentation"
)

//go:embed templates/*.html
var templateFS embed.FS

type pages struct {
	index *template.Template
}

func mustParsePages() *pages {
	return &pages{
		index: template.Must(template.ParseFS(templateFS, "templates/index.html")),
	}
}

// indexData is what templates/index.html renders.
type indexData struct {
	Tab       string
	Busy      bool
	Pending   string
	LastError string
	Cards     []presentation.Card
}

// tabFor returns the active tab name, defaulting to text.
func tabFor(raw string) string {
	if raw == string(domain.KindURL) {
		return string(domain.KindURL)
	}
	return string(domain.KindText)
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) {
	st := r.svc.State(r.uiTenant)
	data := indexData{
		Tab:       tabFor(req.URL.Query().Get("tab")),
		Busy:      st.Busy,
		LastError: st.LastError,
		Cards:     presentation.Cards(st.Records),
	}
	if st.Pending != nil {
		data.Pending = presentation.Preview(st.Pending.Content)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := r.pages.index.Execute(w, data); err != nil {
		r.log.Error("render index", zap.Error(err))
	}
}

// POST /verify
// Form: kind=text|url, content=...
// Selalu redirect ke "/"; input kosong dan state busy diabaikan.
func (r *Router) handleVerifyForm(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := req.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	kind, err := domain.ParseKind(req.PostForm.Get("kind"))
	if err == nil {
		_, err = r.svc.Submit(req.Context(), r.uiTenant, domain.Request{
			Kind:    kind,
			Content: req.PostForm.Get("content"),
		})
	}
	switch {
	case err == nil,
		errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrBusy),
		errors.Is(err, domain.ErrInvalidKind):
	default:
		r.log.Warn("ui submit failed", zap.String("tenant", r.uiTenant), zap.Error(err))
	}

	http.Redirect(w, req, "/?tab="+url.QueryEscape(tabFor(string(kind))), http.StatusSeeOther)
}
