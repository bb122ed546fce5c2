package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/k-j-hyun/shdocs/internal/application"
)

type eventService interface {
	ListEvents(ctx context.Context) ([]application.Event, error)
	Monthly(ctx context.Context, year, month int) (application.MonthlySummary, error)
	MonthView(ctx context.Context, year, month int) (application.MonthView, error)
	ExportICS(ctx context.Context) (string, error)
}

type EventHandler struct {
	service   eventService
	responder responder
	logger    *slog.Logger
}

func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	base := defaultLogger(logger)
	return &EventHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EventHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "EventHandler", operation, attrs...)
}

// List refreshes every sheet and returns the mirrored events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list events", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventListResponse{Events: events})
}

// Monthly renders the reservation report for one month. A month without
// reservations is a regular answer, not an error.
func (h *EventHandler) Monthly(w http.ResponseWriter, r *http.Request, year, month int) {
	summary, err := h.service.Monthly(r.Context(), year, month)
	if err != nil {
		if errors.Is(err, application.ErrNoEvents) {
			h.responder.writeJSON(r.Context(), w, http.StatusOK, monthlyResponse{
				Year:    year,
				Month:   month,
				Message: "해당 월에 예약이 없습니다.",
			})
			return
		}
		h.log(r.Context(), "Monthly", "year", year, "month", month).ErrorContext(r.Context(), "failed to build monthly summary", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, monthlyResponse{
		Year:     summary.Year,
		Month:    summary.Month,
		Count:    summary.Count,
		Markdown: summary.Markdown,
		HTML:     summary.HTML,
	})
}

// Calendar returns the month grid with events grouped per date.
func (h *EventHandler) Calendar(w http.ResponseWriter, r *http.Request, year, month int) {
	view, err := h.service.MonthView(r.Context(), year, month)
	if err != nil {
		h.log(r.Context(), "Calendar", "year", year, "month", month).ErrorContext(r.Context(), "failed to build month view", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, view)
}

// ICS serves the whole event cache as an iCalendar feed.
func (h *EventHandler) ICS(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.ExportICS(r.Context())
	if err != nil {
		h.log(r.Context(), "ICS").ErrorContext(r.Context(), "failed to export calendar feed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="reservations.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(feed)); err != nil {
		h.log(r.Context(), "ICS").ErrorContext(r.Context(), "failed to write calendar feed", "error", err)
	}
}

// parseMonthPath splits a "{year}/{month}" path suffix.
func parseMonthPath(rest string) (int, int, bool) {
	var yearPart, monthPart string
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			yearPart, monthPart = rest[:i], rest[i+1:]
			break
		}
	}
	if yearPart == "" || monthPart == "" {
		return 0, 0, false
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil || year < 1 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(monthPart)
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}

type eventListResponse struct {
	Events []application.Event `json:"events"`
}

type monthlyResponse struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Count    int    `json:"count"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
	Message  string `json:"message,omitempty"`
}
