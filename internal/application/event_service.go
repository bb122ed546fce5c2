package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/k-j-hyun/shdocs/internal/calendar"
	"github.com/k-j-hyun/shdocs/internal/extract"
	"github.com/k-j-hyun/shdocs/internal/markdown"
	"github.com/k-j-hyun/shdocs/internal/persistence"
)

// EventRepository captures the persistence operations needed by the service.
type EventRepository interface {
	ReplaceEventsForSheet(ctx context.Context, sheetID string, events []persistence.Event) error
	ListEvents(ctx context.Context) ([]persistence.Event, error)
	DeleteEventsForSheet(ctx context.Context, sheetID string) error
}

// MonthView combines the month grid with the events placed on it.
type MonthView struct {
	Year   int                `json:"year"`
	Month  int                `json:"month"`
	Cells  []calendar.Cell    `json:"cells"`
	Events map[string][]Event `json:"events"`
}

// EventService mirrors spreadsheet reservations into the event cache and
// serves calendar views built from it.
type EventService struct {
	sheets      SheetRepository
	events      EventRepository
	fetcher     RowFetcher
	rules       extract.Rules
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEventService constructs an event service with the provided dependencies.
func NewEventService(sheetRepo SheetRepository, eventRepo EventRepository, fetcher RowFetcher, rules extract.Rules, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EventService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EventService{
		sheets:      sheetRepo,
		events:      eventRepo,
		fetcher:     fetcher,
		rules:       rules,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

// RefreshAll re-mirrors every registered sheet. A sheet whose fetch fails
// keeps its previous cached events; the error is logged and the remaining
// sheets are still refreshed.
func (s *EventService) RefreshAll(ctx context.Context) error {
	logger := s.loggerWith(ctx, "RefreshAll")

	sheets, err := s.sheets.ListSheets(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list sheets", "error", err)
		return mapRepoError(err)
	}

	for _, sheet := range sheets {
		if err := s.refreshSheet(ctx, sheet); err != nil {
			// A missing authorization affects every sheet alike; surface it
			// so the caller can start the login flow.
			if errors.Is(err, ErrAuthRequired) {
				return ErrAuthRequired
			}
			logger.WarnContext(ctx, "sheet refresh failed, keeping cached events",
				"sheet_id", sheet.ID, "sheet_name", sheet.Name, "error", err)
		}
	}
	return nil
}

func (s *EventService) refreshSheet(ctx context.Context, sheet persistence.Sheet) error {
	rows, err := s.fetcher.FetchRows(ctx, sheet.SpreadsheetID, sheet.GID)
	if err != nil {
		return err
	}
	return s.storeEvents(ctx, sheet, rows)
}

// storeEvents runs the extraction pipeline over fetched rows and swaps the
// sheet's cached events in one transaction.
func (s *EventService) storeEvents(ctx context.Context, sheet persistence.Sheet, rows [][]string) error {
	records := extract.Records(rows, s.rules)
	derived := calendar.Derive(records, calendar.Source{Name: sheet.Name, Color: sheet.Color})

	now := s.now().UTC().Format(time.RFC3339)
	events := make([]persistence.Event, 0, len(derived))
	for _, event := range derived {
		details := make([]persistence.Detail, 0, len(event.Details))
		for _, field := range event.Details {
			details = append(details, persistence.Detail{Label: field.Label, Value: field.Value})
		}
		events = append(events, persistence.Event{
			ID:        s.idGenerator(),
			SheetID:   sheet.ID,
			Title:     event.Title,
			Name:      event.Name,
			Date:      event.Date,
			Time:      event.Time,
			SheetName: event.SheetName,
			Color:     event.Color,
			Hospital:  event.Hospital,
			Phone:     event.Phone,
			Details:   details,
			CreatedAt: now,
		})
	}

	if err := s.events.ReplaceEventsForSheet(ctx, sheet.ID, events); err != nil {
		return mapRepoError(err)
	}
	if err := s.sheets.UpdateSheetRowCount(ctx, sheet.ID, len(rows), now); err != nil {
		return mapRepoError(err)
	}
	return nil
}

// ListEvents refreshes every sheet and returns the resulting event cache.
// Refresh failures fall back to the previous cache rather than failing the call.
func (s *EventService) ListEvents(ctx context.Context) ([]Event, error) {
	if err := s.RefreshAll(ctx); err != nil {
		return nil, err
	}
	return s.CachedEvents(ctx)
}

// CachedEvents returns the event cache without contacting Google.
func (s *EventService) CachedEvents(ctx context.Context) ([]Event, error) {
	records, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	out := make([]Event, 0, len(records))
	for _, record := range records {
		out = append(out, toEvent(record))
	}
	return out, nil
}

// Monthly renders the reservation report for one month from the cache.
func (s *EventService) Monthly(ctx context.Context, year, month int) (MonthlySummary, error) {
	if month < 1 || month > 12 {
		vErr := &ValidationError{}
		vErr.add("month", "월은 1에서 12 사이여야 합니다.")
		return MonthlySummary{}, vErr
	}

	cached, err := s.CachedEvents(ctx)
	if err != nil {
		return MonthlySummary{}, err
	}

	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	count := 0
	events := make([]calendar.Event, 0, len(cached))
	for _, event := range cached {
		if strings.HasPrefix(event.Date, prefix) {
			count++
		}
		events = append(events, calendar.Event{
			Title:     event.Title,
			Name:      event.Name,
			Date:      event.Date,
			Time:      event.Time,
			SheetName: event.SheetName,
			Color:     event.Color,
			Hospital:  event.Hospital,
			Phone:     event.Phone,
		})
	}

	md, err := calendar.Monthly(events, year, month)
	if err != nil {
		if errors.Is(err, calendar.ErrNoData) {
			return MonthlySummary{}, ErrNoEvents
		}
		return MonthlySummary{}, err
	}

	return MonthlySummary{
		Year:     year,
		Month:    month,
		Markdown: md,
		HTML:     markdown.ToHTML(md),
		Count:    count,
	}, nil
}

// MonthView builds the 42-cell grid for a month and groups cached events by date.
func (s *EventService) MonthView(ctx context.Context, year, month int) (MonthView, error) {
	if month < 1 || month > 12 {
		vErr := &ValidationError{}
		vErr.add("month", "월은 1에서 12 사이여야 합니다.")
		return MonthView{}, vErr
	}

	cached, err := s.CachedEvents(ctx)
	if err != nil {
		return MonthView{}, err
	}

	today := s.now().Format("2006-01-02")
	grid := calendar.MonthGrid(year, month, today)

	byDate := make(map[string][]Event)
	for _, event := range cached {
		byDate[event.Date] = append(byDate[event.Date], event)
	}

	return MonthView{Year: year, Month: month, Cells: grid.Cells, Events: byDate}, nil
}

// ExportICS renders the whole event cache as an iCalendar feed.
func (s *EventService) ExportICS(ctx context.Context) (string, error) {
	cached, err := s.CachedEvents(ctx)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//shdocs//reservation mirror//KO")

	for _, event := range cached {
		start, err := time.ParseInLocation("2006-01-02 15:04", event.Date+" "+event.Time, seoul)
		if err != nil {
			continue
		}
		entry := cal.AddEvent(fmt.Sprintf("%s@shdocs", event.ID))
		entry.SetCreatedTime(s.now())
		entry.SetDtStampTime(s.now())
		entry.SetStartAt(start)
		entry.SetEndAt(start.Add(time.Hour))
		entry.SetSummary(event.Title)
		if event.Hospital != "" {
			entry.SetLocation(event.Hospital)
		}
		if event.Phone != "" {
			entry.SetDescription(event.Phone)
		}
	}
	return cal.Serialize(), nil
}

// Reservation times in the sheets carry no zone, so the feed pins them
// to the clinic's local time.
var seoul = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}()

func toEvent(record persistence.Event) Event {
	details := make([]Field, 0, len(record.Details))
	for _, detail := range record.Details {
		details = append(details, Field{Label: detail.Label, Value: detail.Value})
	}
	return Event{
		ID:        record.ID,
		SheetID:   record.SheetID,
		Title:     record.Title,
		Name:      record.Name,
		Date:      record.Date,
		Time:      record.Time,
		SheetName: record.SheetName,
		Color:     record.Color,
		Hospital:  record.Hospital,
		Phone:     record.Phone,
		Details:   details,
	}
}
