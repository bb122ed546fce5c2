package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/k-j-hyun/shdocs/internal/application"
)

type sheetService interface {
	AddSheet(ctx context.Context, input application.AddSheetInput) (application.Sheet, error)
	ListSheets(ctx context.Context) ([]application.Sheet, error)
	DeleteSheet(ctx context.Context, id string) error
}

type SheetHandler struct {
	service   sheetService
	responder responder
	logger    *slog.Logger
}

func NewSheetHandler(service sheetService, logger *slog.Logger) *SheetHandler {
	base := defaultLogger(logger)
	return &SheetHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SheetHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "SheetHandler", operation, attrs...)
}

func (h *SheetHandler) List(w http.ResponseWriter, r *http.Request) {
	sheets, err := h.service.ListSheets(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list sheets", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sheetListResponse{Sheets: sheets})
}

func (h *SheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input application.AddSheetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode sheet request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "sheet_name", input.Name)

	sheet, err := h.service.AddSheet(r.Context(), input)
	if err != nil {
		logger.ErrorContext(r.Context(), "sheet registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("sheet_id", sheet.ID).InfoContext(r.Context(), "sheet registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, sheetResponse{
		Success: true,
		Sheet:   sheet,
		Message: fmt.Sprintf("시트가 등록되었습니다. (%d행)", sheet.RowCount),
	})
}

func (h *SheetHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSheetID)
		return
	}

	logger := h.log(r.Context(), "Delete", "sheet_id", id)

	if err := h.service.DeleteSheet(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "sheet deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "sheet deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Success: true, Message: "시트가 삭제되었습니다."})
}

type sheetListResponse struct {
	Sheets []application.Sheet `json:"sheets"`
}

type sheetResponse struct {
	Success bool              `json:"success"`
	Sheet   application.Sheet `json:"sheet"`
	Message string            `json:"message"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
