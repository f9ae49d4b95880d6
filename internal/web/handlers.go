// Package web serves the survey form, renders prediction results and
// exposes a JSON endpoint that validates and forwards surveys to the
// prediction API.
package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/edgard/studentpredictor/internal/config"
	"github.com/edgard/studentpredictor/internal/database"
	"github.com/edgard/studentpredictor/internal/logger"
	"github.com/edgard/studentpredictor/internal/predictor"
	"github.com/edgard/studentpredictor/internal/service"
	"github.com/edgard/studentpredictor/internal/survey"
)

const (
	maxBodyBytes = 64 << 10

	msgNoData = "No se recibieron datos"
)

// Deps holds the collaborators of the web handlers. Store is nil when
// history is disabled and Status may be nil when no probe runs.
type Deps struct {
	Logger   *slog.Logger
	Service  *service.PredictionService
	Client   predictor.Client
	Store    database.Store
	Status   *predictor.StatusTracker
	PageSize int
}

// Handler implements the front-end routes.
type Handler struct {
	log      *slog.Logger
	service  *service.PredictionService
	client   predictor.Client
	store    database.Store
	status   *predictor.StatusTracker
	messages config.Messages
	pageSize int
	views    views
}

// NewHandler parses the embedded templates and returns a Handler.
func NewHandler(deps Deps) (*Handler, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}

	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultHistoryPageSize
	}

	return &Handler{
		log:      log.With("component", "web"),
		service:  deps.Service,
		client:   deps.Client,
		store:    deps.Store,
		status:   deps.Status,
		messages: deps.Service.Messages(),
		pageSize: pageSize,
		views:    v,
	}, nil
}

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageIndex, h.indexPage(survey.ResetForm(), nil))
}

func (h *Handler) submitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	out := h.service.Submit(r.Context(), survey.FormFromValues(r.PostForm))
	page := h.indexPage(out.Form, out.InvalidFields)

	status := http.StatusOK
	switch {
	case out.Invalid():
		page.Error = out.Message
		status = http.StatusUnprocessableEntity
	case out.Failed():
		page.Error = out.Message
		status = http.StatusBadGateway
	default:
		page.Prediction = out.Prediction
	}
	h.render(w, r, status, pageIndex, page)
}

func (h *Handler) clearForm(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) apiPredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	form, err := survey.FormFromJSON(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgNoData, err.Error())
		return
	}

	out := h.service.Submit(r.Context(), form)
	switch {
	case out.Invalid():
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: out.Message, Fields: out.InvalidFields})
	case out.Failed():
		writeError(w, http.StatusBadGateway, out.Message, errorDetail(out.Err))
	default:
		writeJSON(w, http.StatusOK, out.Prediction)
	}
}

func (h *Handler) showModel(w http.ResponseWriter, r *http.Request) {
	page := modelPage{HistoryEnabled: h.store != nil}

	info, err := h.client.ModelInfo(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to fetch model info", "error", err)
		page.Error = predictor.UserMessage(err, h.messages.PredictionFailed, h.service.ConnectionMessage())
		h.render(w, r, http.StatusBadGateway, pageModel, page)
		return
	}

	page.Info = info
	h.render(w, r, http.StatusOK, pageModel, page)
}

func (h *Handler) showHistory(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.NotFound(w, r)
		return
	}

	exchanges, err := h.store.RecentExchanges(r.Context(), h.pageSize)
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to load history", "error", err)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	h.render(w, r, http.StatusOK, pageHistory, historyPage{Exchanges: exchanges, Limit: h.pageSize, HistoryEnabled: true})
}

type apiStatus struct {
	Healthy   bool      `json:"healthy"`
	Message   string    `json:"message,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

type healthResponse struct {
	Status        string     `json:"status"`
	PredictionAPI *apiStatus `json:"prediction_api,omitempty"`
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s, known := h.status.Current(); known {
		resp.PredictionAPI = &apiStatus{Healthy: s.Healthy, Message: s.Message, CheckedAt: s.CheckedAt}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) indexPage(form survey.Form, invalid []string) indexPage {
	page := newIndexPage(form, invalid)
	page.EmptyResult = h.messages.EmptyResult
	page.EmptyResultDetail = h.messages.EmptyResultDetail
	page.HistoryEnabled = h.store != nil
	if h.status.Down() {
		page.ServiceDown = h.messages.ServiceDown
	}
	return page
}

// render executes the page into a buffer first so that a template error
// still produces a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.views.render(&buf, page, data); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to render template", "page", page, "error", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorDetail is the `detalle` of a forwarded failure.
func errorDetail(err error) string {
	var apiErr *predictor.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return err.Error()
}
