package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/k-j-hyun/shdocs/internal/extract"
	"github.com/k-j-hyun/shdocs/internal/persistence"
	"github.com/k-j-hyun/shdocs/internal/sheets"
)

// SheetRepository captures the persistence operations needed by the service.
type SheetRepository interface {
	CreateSheet(ctx context.Context, sheet persistence.Sheet) error
	GetSheet(ctx context.Context, id string) (persistence.Sheet, error)
	ListSheets(ctx context.Context) ([]persistence.Sheet, error)
	UpdateSheetRowCount(ctx context.Context, id string, rowCount int, updatedAt string) error
	DeleteSheet(ctx context.Context, id string) error
}

// RowFetcher reads the raw cell grid of a spreadsheet tab.
type RowFetcher interface {
	FetchRows(ctx context.Context, spreadsheetID, gid string) ([][]string, error)
}

// SheetService orchestrates validation, Google access, and persistence for sheets.
type SheetService struct {
	sheets      SheetRepository
	fetcher     RowFetcher
	refresher   *EventService
	rules       extract.Rules
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSheetService constructs a sheet service with the provided dependencies.
func NewSheetService(repo SheetRepository, fetcher RowFetcher, refresher *EventService, rules extract.Rules, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SheetService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SheetService{
		sheets:      repo,
		fetcher:     fetcher,
		refresher:   refresher,
		rules:       rules,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *SheetService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SheetService", operation, attrs...)
}

// AddSheet validates the registration, probes the spreadsheet, and mirrors
// its reservations immediately.
func (s *SheetService) AddSheet(ctx context.Context, input AddSheetInput) (sheet Sheet, err error) {
	logger := s.loggerWith(ctx, "AddSheet", "sheet_name", input.Name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add sheet", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("sheet_id", sheet.ID).InfoContext(ctx, "sheet added")
	}()

	input.Name = strings.TrimSpace(input.Name)
	input.URL = strings.TrimSpace(input.URL)
	input.Color = strings.TrimSpace(input.Color)

	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "시트 이름을 입력해 주세요.")
	}
	if input.URL == "" {
		vErr.add("url", "시트 URL을 입력해 주세요.")
	}

	spreadsheetID, gid, parseErr := sheets.ParseURL(input.URL)
	if input.URL != "" && parseErr != nil {
		vErr.add("url", "올바른 Google 스프레드시트 URL이 아닙니다.")
	}
	if input.Color != "" && !s.rules.AllowsColor(input.Color) {
		vErr.add("color", "지원하지 않는 색상입니다.")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}
	if input.Color == "" {
		input.Color = s.rules.Palette[0]
	}

	// Probe the spreadsheet before persisting so a bad URL or a missing
	// authorization never leaves a half-registered sheet behind.
	rows, fetchErr := s.fetcher.FetchRows(ctx, spreadsheetID, gid)
	if fetchErr != nil {
		if errors.Is(fetchErr, ErrAuthRequired) {
			err = ErrAuthRequired
			return
		}
		err = fmt.Errorf("%w: %v", ErrUpstreamFetch, fetchErr)
		return
	}

	now := s.now().UTC().Format(time.RFC3339)
	record := persistence.Sheet{
		ID:            s.idGenerator(),
		Name:          input.Name,
		URL:           input.URL,
		Color:         input.Color,
		SpreadsheetID: spreadsheetID,
		GID:           gid,
		RowCount:      len(rows),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err = s.sheets.CreateSheet(ctx, record); err != nil {
		err = mapRepoError(err)
		return
	}

	if s.refresher != nil {
		if refreshErr := s.refresher.storeEvents(ctx, record, rows); refreshErr != nil {
			logger.WarnContext(ctx, "initial event mirror failed", "error", refreshErr)
		}
	}

	sheet = toSheet(record)
	return
}

// ListSheets returns every registered sheet.
func (s *SheetService) ListSheets(ctx context.Context) ([]Sheet, error) {
	records, err := s.sheets.ListSheets(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	out := make([]Sheet, 0, len(records))
	for _, record := range records {
		out = append(out, toSheet(record))
	}
	return out, nil
}

// DeleteSheet removes a sheet registration together with its mirrored events.
func (s *SheetService) DeleteSheet(ctx context.Context, id string) (err error) {
	logger := s.loggerWith(ctx, "DeleteSheet", "sheet_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete sheet", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "sheet deleted")
	}()

	if err = s.sheets.DeleteSheet(ctx, id); err != nil {
		err = mapRepoError(err)
	}
	return
}

func toSheet(record persistence.Sheet) Sheet {
	return Sheet{
		ID:        record.ID,
		Name:      record.Name,
		URL:       record.URL,
		Color:     record.Color,
		RowCount:  record.RowCount,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}
