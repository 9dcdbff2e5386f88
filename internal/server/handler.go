package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"aeocheck/internal/audit"
	"aeocheck/internal/catalog"
	"aeocheck/internal/metrics"
	"aeocheck/internal/quote"

	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// Auditor deduplicates concurrent audits of the same URL. *audit.Guard
// implements it.
type Auditor interface {
	Shared(ctx context.Context, target string) (*audit.Report, bool, error)
}

// Pricer turns a report into a quote and contact link. *engine.Engine
// implements it.
type Pricer interface {
	Price(report *audit.Report, recipient, siteURL string) (quote.Quote, string)
}

type auditRequest struct {
	URL string `json:"url"`
}

type auditResponse struct {
	Report  *audit.Report `json:"report"`
	Quote   quote.Quote   `json:"quote"`
	Contact string        `json:"contact"`
	Shared  bool          `json:"shared,omitempty"`
}

type quoteResponse struct {
	Quote   quote.Quote `json:"quote"`
	Contact string      `json:"contact"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	auditor   Auditor
	pricer    Pricer
	catalog   catalog.Catalog
	recipient string
	metrics   *metrics.Metrics
}

func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		auditor:   deps.Auditor,
		pricer:    deps.Pricer,
		catalog:   deps.Catalog,
		recipient: deps.Recipient,
		metrics:   deps.Metrics,
	}
}

// Audit submits the requested URL to the backend and answers with the
// report, its quote and the contact link.
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req auditRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}
	target := strings.TrimSpace(req.URL)
	if target == "" {
		writeError(ctx, w, http.StatusBadRequest, "url is required")
		return
	}

	done := h.metrics.StartAudit()
	report, shared, err := h.auditor.Shared(ctx, target)
	if err != nil {
		done(metrics.OutcomeFailed)
		logger.Error().Err(err).Str("url", target).Msg("audit submission failed")
		writeError(ctx, w, http.StatusBadGateway, err.Error())
		return
	}
	if report.AnalysisFailed() {
		done(metrics.OutcomeAnalysisFailed)
	} else {
		done(metrics.OutcomeOK)
	}

	q, link := h.pricer.Price(report, h.recipient, target)
	writeJSON(ctx, w, http.StatusOK, auditResponse{
		Report:  report,
		Quote:   q,
		Contact: link,
		Shared:  shared,
	})
}

// Quote prices a report posted by the caller. Only the results are
// required; url feeds the contact link.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var report audit.Report
	if err := decodeBody(w, r, &report); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	q, link := h.pricer.Price(&report, h.recipient, report.URL)
	writeJSON(ctx, w, http.StatusOK, quoteResponse{Quote: q, Contact: link})
}

func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.catalog.Entries())
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errors.New("request body too large")
		}
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, w, status, errorResponse{Error: msg})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to encode response")
	}
}
