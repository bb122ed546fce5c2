package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/k-j-hyun/shdocs/internal/application"
)

var (
	errBadRequestBody     = errors.New("잘못된 요청 형식입니다.")
	errInvalidSheetID     = errors.New("올바르지 않은 시트 ID입니다.")
	errInvalidMonthPath   = errors.New("연도와 월을 올바르게 지정해 주세요.")
	errMissingSession     = errors.New("관리자 로그인이 필요합니다.")
	errMissingOAuthParams = errors.New("인증 코드가 전달되지 않았습니다.")
	errCallbackFailed     = errors.New("Google 인증을 완료하지 못했습니다. 다시 시도해 주세요.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrAuthRequired):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
			ErrorCode: "AUTH_REQUIRED",
			Message:   "Google 로그인이 필요합니다.",
		})
	case errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Message: "비밀번호가 올바르지 않습니다."})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "시트를 찾을 수 없습니다."})
	case errors.Is(err, application.ErrUpstreamFetch):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Message: "스프레드시트를 불러오지 못했습니다. URL과 공유 설정을 확인해 주세요."})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "입력 내용을 확인해 주세요.",
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "서버 내부 오류가 발생했습니다."})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "요청 내용이 올바르지 않습니다."
	case http.StatusUnauthorized:
		return "인증이 필요합니다."
	case http.StatusNotFound:
		return "요청한 리소스를 찾을 수 없습니다."
	case http.StatusUnprocessableEntity:
		return "입력 내용을 확인해 주세요."
	default:
		return "서버 내부 오류가 발생했습니다."
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
