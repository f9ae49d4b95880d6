// Package service implements the submit-and-render flow shared by the web
// front-end, the JSON endpoint and the CLI: validate the survey, call the
// prediction API once, and record the exchange when history is enabled.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/edgard/studentpredictor/internal/config"
	"github.com/edgard/studentpredictor/internal/database"
	"github.com/edgard/studentpredictor/internal/logger"
	"github.com/edgard/studentpredictor/internal/predictor"
	"github.com/edgard/studentpredictor/internal/survey"
)

// Deps holds what the prediction service needs. Store may be nil when
// history is disabled.
type Deps struct {
	Logger   *slog.Logger
	Client   predictor.Client
	Store    database.Store
	Messages config.Messages
	BaseURL  string
}

// PredictionService runs one survey submission end to end.
type PredictionService struct {
	log       *slog.Logger
	client    predictor.Client
	store     database.Store
	validator *survey.Validator
	messages  config.Messages
	baseURL   string
}

// Outcome is the result of one submission, ready to render. Exactly one of
// Prediction and Err is set.
type Outcome struct {
	Form          survey.Form
	Submission    *survey.Submission
	Prediction    *predictor.Prediction
	Err           error
	Message       string
	InvalidFields []string
	Duration      time.Duration
}

// Failed reports whether the submission ended in an error.
func (o *Outcome) Failed() bool {
	return o.Err != nil
}

// Invalid reports whether the submission was rejected before any request.
func (o *Outcome) Invalid() bool {
	return survey.IsValidationError(o.Err)
}

// NewPredictionService creates a PredictionService from deps.
func NewPredictionService(deps Deps) *PredictionService {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &PredictionService{
		log:       log.With("component", "prediction_service"),
		client:    deps.Client,
		store:     deps.Store,
		validator: survey.NewValidator(deps.Messages.IncompleteForm),
		messages:  deps.Messages,
		baseURL:   deps.BaseURL,
	}
}

// Submit validates form and, when it is valid, sends it to the prediction
// API. It never retries. Every failure is returned in Outcome with the
// single message to show the user.
func (s *PredictionService) Submit(ctx context.Context, form survey.Form) *Outcome {
	startTime := time.Now()
	out := &Outcome{Form: form}

	sub, err := s.validator.Validate(form)
	if err != nil {
		var ve *survey.ValidationError
		if errors.As(err, &ve) {
			out.Message = ve.Message
			out.InvalidFields = ve.Fields
			s.log.WarnContext(ctx, "Survey rejected", "reason", ve.Message, "fields", ve.Fields)
		} else {
			out.Message = s.messages.PredictionFailed
			s.log.ErrorContext(ctx, "Survey validation failed unexpectedly", "error", err)
		}
		out.Err = err
		out.Duration = time.Since(startTime)
		s.record(ctx, out, database.OutcomeValidationError)
		return out
	}
	out.Submission = sub

	pred, err := s.client.Predict(ctx, sub)
	out.Duration = time.Since(startTime)
	if err != nil {
		out.Err = err
		out.Message = predictor.UserMessage(err, s.messages.PredictionFailed, s.ConnectionMessage())
		s.log.ErrorContext(ctx, "Prediction failed", "error", err, "duration", out.Duration)
		s.record(ctx, out, database.OutcomeAPIError)
		return out
	}

	out.Prediction = pred
	s.log.InfoContext(ctx, "Prediction completed", "class", pred.Class, "confidence", pred.Confidence, "duration", out.Duration)
	s.record(ctx, out, database.OutcomeSuccess)
	return out
}

// ConnectionMessage formats the connection failure message with the API base URL.
func (s *PredictionService) ConnectionMessage() string {
	return s.messages.Connection(s.baseURL)
}

// Messages returns the user-facing strings the service was built with.
func (s *PredictionService) Messages() config.Messages {
	return s.messages
}

// HistoryEnabled reports whether exchanges are recorded.
func (s *PredictionService) HistoryEnabled() bool {
	return s.store != nil
}

// record stores the exchange. Storage failures are logged and never
// change what the user sees.
func (s *PredictionService) record(ctx context.Context, out *Outcome, outcome database.Outcome) {
	if s.store == nil {
		return
	}

	submission, err := json.Marshal(out.Form)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to encode submission for history", "error", err)
		return
	}

	ex := &database.Exchange{
		Submission: string(submission),
		Outcome:    outcome,
		Message:    out.Message,
		DurationMS: out.Duration.Milliseconds(),
	}
	if out.Prediction != nil {
		ex.Class = out.Prediction.Class
		ex.Confidence = sql.NullFloat64{Float64: out.Prediction.Confidence, Valid: true}
	}

	// The request may already be cancelled; the record should still land.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.store.SaveExchange(saveCtx, ex); err != nil {
		s.log.WarnContext(ctx, "Failed to record exchange", "error", err)
	}
}
