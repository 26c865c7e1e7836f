// Package payments starts hosted checkout for paid event registration.
// The registration itself is written by the client after the provider
// redirects to the success URL, which carries the registration context.
package payments

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/strataclub/internal/app/system/checkout"
	"github.com/dalemusser/strataclub/internal/app/system/formutil"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/jwtauth"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Config holds the checkout settings.
type Config struct {
	FrontendURL string
	Currency    string
}

// Handler serves the checkout endpoint.
type Handler struct {
	creator checkout.Creator
	cfg     Config
	logger  *zap.Logger
}

// NewHandler creates a payments Handler.
func NewHandler(creator checkout.Creator, cfg Config, logger *zap.Logger) *Handler {
	if cfg.Currency == "" {
		cfg.Currency = "hkd"
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &Handler{creator: creator, cfg: cfg, logger: logger}
}

// MountRoutes registers the checkout endpoint on the /api router r.
func MountRoutes(r chi.Router, h *Handler, issuer *jwtauth.Issuer) {
	r.Group(func(r chi.Router) {
		r.Use(issuer.Middleware(h.logger))
		r.Post("/create-checkout-session", h.CreateSession)
	})
}

type registrationData struct {
	StudentID       string `json:"student_id"`
	EventID         string `json:"event_id"`
	SelectedSession string `json:"selectedSession"`
	MultipleSection string `json:"multipleSection"`
	Attendance      any    `json:"attendance"`
	EventDateFrom   string `json:"eventDateFrom"`
}

type sessionInput struct {
	EventName        string            `json:"eventName"`
	EventPrice       *formutil.Number  `json:"eventPrice"`
	RegistrationData *registrationData `json:"registrationData"`
	UniqueKey        string            `json:"uniqueKey"`
}

// successQuery encodes the registration context the client needs to finish
// registering once payment succeeds.
func successQuery(in sessionInput) string {
	rd := in.RegistrationData
	q := url.Values{}
	q.Set("student_id", rd.StudentID)
	q.Set("event_id", rd.EventID)
	q.Set("selectedSession", rd.SelectedSession)
	q.Set("multipleSection", rd.MultipleSection)
	q.Set("eventDateFrom", rd.EventDateFrom)
	q.Set("eventName", in.EventName)
	if rd.Attendance != nil {
		q.Set("attendance", fmt.Sprint(rd.Attendance))
	}
	if in.UniqueKey != "" {
		q.Set("uniqueKey", in.UniqueKey)
	}
	return q.Encode()
}

// CreateSession handles POST /api/create-checkout-session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var in sessionInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid request body.")
		return
	}
	in.EventName = strings.TrimSpace(in.EventName)
	if in.EventName == "" || in.EventPrice == nil || in.RegistrationData == nil {
		jsonutil.BadRequest(w, "eventName, eventPrice and registrationData are required.")
		return
	}
	amount := checkout.ToMinorUnits(in.EventPrice.Float64())
	if amount <= 0 {
		jsonutil.BadRequest(w, "eventPrice must be greater than zero.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	redirect, err := h.creator.CreateSession(ctx, checkout.Request{
		EventName:  in.EventName,
		UnitAmount: amount,
		Currency:   h.cfg.Currency,
		SuccessURL: h.cfg.FrontendURL + "/success?" + successQuery(in),
		CancelURL:  h.cfg.FrontendURL + "/cancel",
	})
	if err != nil {
		h.logger.Error("create checkout session failed",
			zap.String("event_name", in.EventName),
			zap.String("student_id", in.RegistrationData.StudentID),
			zap.Int64("amount", amount),
			zap.Error(err))
		jsonutil.InternalError(w, "Failed to create checkout session.")
		return
	}

	h.logger.Info("checkout session created",
		zap.String("event_id", in.RegistrationData.EventID),
		zap.String("student_id", in.RegistrationData.StudentID),
		zap.Int64("amount", amount))
	jsonutil.OK(w, map[string]string{"url": redirect})
}
