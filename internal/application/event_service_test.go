package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/k-j-hyun/shdocs/internal/extract"
	"github.com/k-j-hyun/shdocs/internal/persistence"
)

func newEventServiceTest(t *testing.T) (*EventService, *fakeSheetRepo, *fakeEventRepo, *fakeFetcher) {
	t.Helper()
	sheetRepo := newFakeSheetRepo()
	eventRepo := newFakeEventRepo()
	fetcher := newFakeFetcher()
	service := NewEventService(sheetRepo, eventRepo, fetcher, extract.DefaultRules(), sequentialIDs("event"), fixedNow, nil)
	return service, sheetRepo, eventRepo, fetcher
}

func registerTestSheet(t *testing.T, repo *fakeSheetRepo, id, name string) persistence.Sheet {
	t.Helper()
	sheet := persistence.Sheet{
		ID:            id,
		Name:          name,
		URL:           "https://docs.google.com/spreadsheets/d/" + id + "/edit#gid=0",
		Color:         "#4285f4",
		SpreadsheetID: id,
		GID:           "0",
		CreatedAt:     "2025-07-01T09:00:00Z",
		UpdatedAt:     "2025-07-01T09:00:00Z",
	}
	if err := repo.CreateSheet(context.Background(), sheet); err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}
	return sheet
}

func TestEventService_ListEvents_Refreshes(t *testing.T) {
	service, sheetRepo, _, fetcher := newEventServiceTest(t)
	registerTestSheet(t, sheetRepo, "abc123", "강남점 예약")
	fetcher.rows["abc123#0"] = reservationRows()

	events, err := service.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}

	byName := make(map[string]Event)
	for _, event := range events {
		byName[event.Name] = event
	}

	first, ok := byName["김철수"]
	if !ok {
		t.Fatal("Expected event for 김철수")
	}
	if first.Title != "강남점 예약_김철수" {
		t.Errorf("Unexpected title: %s", first.Title)
	}
	if first.Date != "2025-07-24" || first.Time != "11:00" {
		t.Errorf("Unexpected datetime: %s %s", first.Date, first.Time)
	}
	if first.Hospital != "스텔라 피부과 예약 명단" {
		t.Errorf("Unexpected hospital: %s", first.Hospital)
	}
	if first.Color != "#4285f4" {
		t.Errorf("Unexpected color: %s", first.Color)
	}

	// Row count is recorded on every refresh.
	sheet, _ := sheetRepo.GetSheet(context.Background(), "abc123")
	if sheet.RowCount != 4 {
		t.Errorf("Expected row count 4, got %d", sheet.RowCount)
	}
}

func TestEventService_RefreshKeepsCacheOnFetchError(t *testing.T) {
	service, sheetRepo, _, fetcher := newEventServiceTest(t)
	registerTestSheet(t, sheetRepo, "abc123", "강남점 예약")
	fetcher.rows["abc123#0"] = reservationRows()

	if err := service.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}
	before, _ := service.CachedEvents(context.Background())
	if len(before) != 2 {
		t.Fatalf("Expected 2 cached events, got %d", len(before))
	}

	// The next fetch fails; the cache must survive untouched.
	fetcher.errs["abc123#0"] = errors.New("google unavailable")
	if err := service.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}
	after, _ := service.CachedEvents(context.Background())
	if len(after) != 2 {
		t.Errorf("Expected cache to survive fetch error, got %d events", len(after))
	}
}

func TestEventService_ListEvents_AuthRequired(t *testing.T) {
	service, sheetRepo, _, fetcher := newEventServiceTest(t)
	registerTestSheet(t, sheetRepo, "abc123", "강남점 예약")
	fetcher.errs["abc123#0"] = ErrAuthRequired

	_, err := service.ListEvents(context.Background())
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("Expected ErrAuthRequired, got %v", err)
	}
}

func TestEventService_Monthly(t *testing.T) {
	service, sheetRepo, _, fetcher := newEventServiceTest(t)
	registerTestSheet(t, sheetRepo, "abc123", "강남점 예약")
	fetcher.rows["abc123#0"] = reservationRows()
	if err := service.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}

	summary, err := service.Monthly(context.Background(), 2025, 7)
	if err != nil {
		t.Fatalf("Monthly failed: %v", err)
	}
	if summary.Count != 1 {
		t.Errorf("Expected 1 July reservation, got %d", summary.Count)
	}
	if !strings.Contains(summary.Markdown, "2025년 7월 예약 현황") {
		t.Errorf("Markdown missing title: %s", summary.Markdown)
	}
	if !strings.Contains(summary.HTML, "<h1>") || !strings.Contains(summary.HTML, "<table>") {
		t.Errorf("HTML missing rendered structure: %s", summary.HTML)
	}

	_, err = service.Monthly(context.Background(), 2025, 9)
	if !errors.Is(err, ErrNoEvents) {
		t.Fatalf("Expected ErrNoEvents for empty month, got %v", err)
	}

	_, err = service.Monthly(context.Background(), 2025, 13)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Expected validation error for month 13, got %v", err)
	}
}

func TestEventService_MonthView(t *testing.T) {
	service, sheetRepo, _, fetcher := newEventServiceTest(t)
	registerTestSheet(t, sheetRepo, "abc123", "강남점 예약")
	fetcher.rows["abc123#0"] = reservationRows()
	if err := service.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}

	view, err := service.MonthView(context.Background(), 2025, 7)
	if err != nil {
		t.Fatalf("MonthView failed: %v", err)
	}
	if len(view.Cells) != 42 {
		t.Fatalf("Expected 42 grid cells, got %d", len(view.Cells))
	}
	if len(view.Events["2025-07-24"]) != 1 {
		t.Errorf("Expected 1 event on 2025-07-24, got %d", len(view.Events["2025-07-24"]))
	}
}

func TestEventService_ExportICS(t *testing.T) {
	service, sheetRepo, _, fetcher := newEventServiceTest(t)
	registerTestSheet(t, sheetRepo, "abc123", "강남점 예약")
	fetcher.rows["abc123#0"] = reservationRows()
	if err := service.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}

	feed, err := service.ExportICS(context.Background())
	if err != nil {
		t.Fatalf("ExportICS failed: %v", err)
	}
	if !strings.Contains(feed, "BEGIN:VCALENDAR") {
		t.Error("Feed missing calendar envelope")
	}
	if !strings.Contains(feed, "강남점 예약_김철수") {
		t.Error("Feed missing event summary")
	}
}
