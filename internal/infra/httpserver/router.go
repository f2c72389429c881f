package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appverify "github.com/bryanwahyu/automaton-verify/internal/application/verification"
	domai "github.com/bryanwahyu/automaton-verify/internal/domain/ai"
	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
	"github.com/bryanwahyu/automaton-verify/internal/middleware"
	"github.com/bryanwahyu/automaton-verify/internal/presentation"
)

// maxBodyBytes caps JSON and form submissions.
const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

// Options carries the optional collaborators of the router.
type Options struct {
	Logger         *zap.Logger
	Metrics        *middleware.Metrics
	Limiter        *middleware.RateLimiter
	APIKeys        map[string]string
	AllowedOrigins []string
	UITenant       string
	Checkers       map[string]middleware.HealthChecker
}

type Router struct {
	svc      *appverify.Service
	log      *zap.Logger
	uiTenant string
	pages    *pages
}

func NewRouter(svc *appverify.Service, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.UITenant == "" {
		opts.UITenant = "web"
	}
	r := &Router{svc: svc, log: opts.Logger, uiTenant: opts.UITenant, pages: mustParsePages()}

	mux := chi.NewRouter()
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.RequestLogger(opts.Logger))
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	if len(opts.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/healthz", middleware.HealthHandler(opts.Checkers))
	if opts.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	// HTML UI
	mux.Group(func(ui chi.Router) {
		if opts.Limiter != nil {
			ui.Use(opts.Limiter.Middleware)
		}
		ui.Get("/", r.handleIndex)
		ui.Post("/verify", r.handleVerifyForm)
	})

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		if len(opts.APIKeys) > 0 {
			rt.Use(middleware.APIKeyAuth(opts.APIKeys))
		}
		if opts.Limiter != nil {
			rt.Use(opts.Limiter.Middleware)
		}
		rt.Use(middleware.RequireValidTenant)

		rt.Post("/verifications", r.wrap(r.handleSubmit))
		rt.Get("/verifications", r.wrap(r.handleHistory))
		rt.Get("/verifications/state", r.wrap(r.handleState))
		rt.Get("/verifications/{id}", r.wrap(r.handleGet))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrInvalidKind):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, appverify.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// stateView is the JSON form of a session state.
type stateView struct {
	Tenant    string              `json:"tenant"`
	Busy      bool                `json:"busy"`
	Pending   *domain.Request     `json:"pending,omitempty"`
	LastError string              `json:"last_error,omitempty"`
	Cards     []presentation.Card `json:"cards"`
}

func newStateView(tenant string, st appverify.State) stateView {
	return stateView{
		Tenant:    tenant,
		Busy:      st.Busy,
		Pending:   st.Pending,
		LastError: st.LastError,
		Cards:     presentation.Cards(st.Records),
	}
}

// POST /v1/{tenant}/verifications
// Body: {"kind": "text|url", "content": "..."}
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")

	var body struct {
		Kind    string `json:"kind"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes)).Decode(&body); err != nil {
		return fmt.Errorf("%w: decode body: %v", errBadRequest, err)
	}
	kind, err := domain.ParseKind(body.Kind)
	if err != nil {
		return err
	}

	st, err := r.svc.Submit(req.Context(), tenant, domain.Request{Kind: kind, Content: body.Content})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusAccepted, newStateView(tenant, st))
}

// GET /v1/{tenant}/verifications/state
func (r *Router) handleState(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	return writeJSON(w, http.StatusOK, newStateView(tenant, r.svc.State(tenant)))
}

// GET /v1/{tenant}/verifications?page=&page_size=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))

	list, err := r.svc.History(req.Context(), tenant, page, size)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/{tenant}/verifications/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRecordID(id); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}

	rec, err := r.svc.Get(req.Context(), tenant, domain.RecordID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"record": rec,
		"card":   presentation.NewCard(*rec),
	})
}
