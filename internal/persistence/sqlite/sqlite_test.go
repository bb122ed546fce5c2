package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/k-j-hyun/shdocs/internal/persistence"
)

func setupStorageTest(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	storage, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { storage.Close() })

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return storage
}

func testSheet(id string) persistence.Sheet {
	return persistence.Sheet{
		ID:            id,
		Name:          "강남점 예약",
		URL:           "https://docs.google.com/spreadsheets/d/abc123/edit#gid=0",
		Color:         "#4285f4",
		SpreadsheetID: "abc123",
		GID:           "0",
		RowCount:      0,
		CreatedAt:     "2025-07-01T09:00:00Z",
		UpdatedAt:     "2025-07-01T09:00:00Z",
	}
}

func TestSheetRepository_CreateAndGet(t *testing.T) {
	storage := setupStorageTest(t)
	ctx := context.Background()

	sheet := testSheet("sheet1")
	if err := storage.CreateSheet(ctx, sheet); err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}

	retrieved, err := storage.GetSheet(ctx, "sheet1")
	if err != nil {
		t.Fatalf("GetSheet failed: %v", err)
	}
	if retrieved.Name != "강남점 예약" {
		t.Errorf("Expected name '강남점 예약', got '%s'", retrieved.Name)
	}
	if retrieved.SpreadsheetID != "abc123" {
		t.Errorf("Expected spreadsheet id 'abc123', got '%s'", retrieved.SpreadsheetID)
	}
	if retrieved.GID != "0" {
		t.Errorf("Expected gid '0', got '%s'", retrieved.GID)
	}
}

func TestSheetRepository_GetMissing(t *testing.T) {
	storage := setupStorageTest(t)

	_, err := storage.GetSheet(context.Background(), "missing")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestSheetRepository_DuplicateID(t *testing.T) {
	storage := setupStorageTest(t)
	ctx := context.Background()

	if err := storage.CreateSheet(ctx, testSheet("sheet1")); err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}
	err := storage.CreateSheet(ctx, testSheet("sheet1"))
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}
}

func TestSheetRepository_ListOrdering(t *testing.T) {
	storage := setupStorageTest(t)
	ctx := context.Background()

	first := testSheet("sheet1")
	first.CreatedAt = "2025-07-01T09:00:00Z"
	second := testSheet("sheet2")
	second.Name = "서초점 예약"
	second.CreatedAt = "2025-07-02T09:00:00Z"

	// Insert newest first to confirm ordering comes from created_at.
	if err := storage.CreateSheet(ctx, second); err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}
	if err := storage.CreateSheet(ctx, first); err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}

	sheets, err := storage.ListSheets(ctx)
	if err != nil {
		t.Fatalf("ListSheets failed: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("Expected 2 sheets, got %d", len(sheets))
	}
	if sheets[0].ID != "sheet1" || sheets[1].ID != "sheet2" {
		t.Errorf("Expected order sheet1, sheet2; got %s, %s", sheets[0].ID, sheets[1].ID)
	}
}

func TestSheetRepository_UpdateRowCount(t *testing.T) {
	storage := setupStorageTest(t)
	ctx := context.Background()

	if err := storage.CreateSheet(ctx, testSheet("sheet1")); err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}
	if err := storage.UpdateSheetRowCount(ctx, "sheet1", 42, "2025-07-03T10:00:00Z"); err != nil {
		t.Fatalf("UpdateSheetRowCount failed: %v", err)
	}

	sheet, err := storage.GetSheet(ctx, "sheet1")
	if err != nil {
		t.Fatalf("GetSheet failed: %v", err)
	}
	if sheet.RowCount != 42 {
		t.Errorf("Expected row count 42, got %d", sheet.RowCount)
	}
	if sheet.UpdatedAt != "2025-07-03T10:00:00Z" {
		t.Errorf("Expected updated_at to change, got %s", sheet.UpdatedAt)
	}

	err = storage.UpdateSheetRowCount(ctx, "missing", 1, "2025-07-03T10:00:00Z")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for missing sheet, got %v", err)
	}
}

func TestSheetRepository_DeleteCascadesEvents(t *testing.T) {
	storage := setupStorageTest(t)
	ctx := context.Background()

	if err := storage.CreateSheet(ctx, testSheet("sheet1")); err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}
	events := []persistence.Event{testEvent("event1", "sheet1")}
	if err := storage.ReplaceEventsForSheet(ctx, "sheet1", events); err != nil {
		t.Fatalf("ReplaceEventsForSheet failed: %v", err)
	}

	if err := storage.DeleteSheet(ctx, "sheet1"); err != nil {
		t.Fatalf("DeleteSheet failed: %v", err)
	}

	remaining, err := storage.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("Expected cascade to remove events, got %d remaining", len(remaining))
	}

	err = storage.DeleteSheet(ctx, "sheet1")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for deleted sheet, got %v", err)
	}
}

func testEvent(id, sheetID string) persistence.Event {
	return persistence.Event{
		ID:        id,
		SheetID:   sheetID,
		Title:     "강남점 예약_김철수",
		Name:      "김철수",
		Date:      "2025-07-24",
		Time:      "11:00",
		SheetName: "강남점 예약",
		Color:     "#4285f4",
		Hospital:  "스텔라 피부과",
		Phone:     "010-1234-5678",
		Details: []persistence.Detail{
			{Label: "A", Value: "접수"},
			{Label: "E", Value: "김철수"},
		},
		CreatedAt: "2025-07-01T09:00:00Z",
	}
}

func TestEventRepository_ReplaceAndList(t *testing.T) {
	storage := setupStorageTest(t)
	ctx := context.Background()

	if err := storage.CreateSheet(ctx, testSheet("sheet1")); err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}

	first := testEvent("event1", "sheet1")
	if err := storage.ReplaceEventsForSheet(ctx, "sheet1", []persistence.Event{first}); err != nil {
		t.Fatalf("ReplaceEventsForSheet failed: %v", err)
	}

	// A second replace discards the previous cache for the sheet.
	second := testEvent("event2", "sheet1")
	second.Name = "이영희"
	second.Title = "강남점 예약_이영희"
	second.Date = "2025-07-20"
	if err := storage.ReplaceEventsForSheet(ctx, "sheet1", []persistence.Event{second}); err != nil {
		t.Fatalf("ReplaceEventsForSheet failed: %v", err)
	}

	events, err := storage.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event after replace, got %d", len(events))
	}
	if events[0].ID != "event2" {
		t.Errorf("Expected event2 to survive, got %s", events[0].ID)
	}
	if len(events[0].Details) != 2 {
		t.Fatalf("Expected 2 detail fields, got %d", len(events[0].Details))
	}
	if events[0].Details[1].Label != "E" || events[0].Details[1].Value != "김철수" {
		t.Errorf("Detail fields not preserved in order: %+v", events[0].Details)
	}
}

func TestEventRepository_ListOrdering(t *testing.T) {
	storage := setupStorageTest(t)
	ctx := context.Background()

	if err := storage.CreateSheet(ctx, testSheet("sheet1")); err != nil {
		t.Fatalf("CreateSheet failed: %v", err)
	}

	late := testEvent("event1", "sheet1")
	late.Date = "2025-07-24"
	late.Time = "11:00"
	early := testEvent("event2", "sheet1")
	early.Date = "2025-07-24"
	early.Time = "09:30"
	previous := testEvent("event3", "sheet1")
	previous.Date = "2025-07-20"
	previous.Time = "15:00"

	if err := storage.ReplaceEventsForSheet(ctx, "sheet1", []persistence.Event{late, early, previous}); err != nil {
		t.Fatalf("ReplaceEventsForSheet failed: %v", err)
	}

	events, err := storage.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	want := []string{"event3", "event2", "event1"}
	for i, id := range want {
		if events[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, events[i].ID)
		}
	}
}

func TestEventRepository_ForeignKeyEnforced(t *testing.T) {
	storage := setupStorageTest(t)
	ctx := context.Background()

	err := storage.ReplaceEventsForSheet(ctx, "missing", []persistence.Event{testEvent("event1", "missing")})
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("Expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestTokenRepository_SaveGetDelete(t *testing.T) {
	storage := setupStorageTest(t)
	ctx := context.Background()

	payload := []byte(`{"access_token":"abc","token_type":"Bearer"}`)
	if err := storage.SaveToken(ctx, "default", payload, "2025-07-01T09:00:00Z"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	token, err := storage.GetToken(ctx, "default")
	if err != nil {
		t.Fatalf("GetToken failed: %v", err)
	}
	if string(token.Payload) != string(payload) {
		t.Errorf("Payload mismatch: %s", token.Payload)
	}

	// Upsert replaces the payload for the same account.
	replacement := []byte(`{"access_token":"def","token_type":"Bearer"}`)
	if err := storage.SaveToken(ctx, "default", replacement, "2025-07-02T09:00:00Z"); err != nil {
		t.Fatalf("SaveToken upsert failed: %v", err)
	}
	token, err = storage.GetToken(ctx, "default")
	if err != nil {
		t.Fatalf("GetToken failed: %v", err)
	}
	if string(token.Payload) != string(replacement) {
		t.Errorf("Expected replacement payload, got %s", token.Payload)
	}
	if token.UpdatedAt != "2025-07-02T09:00:00Z" {
		t.Errorf("Expected updated_at to change, got %s", token.UpdatedAt)
	}

	if err := storage.DeleteToken(ctx, "default"); err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}
	_, err = storage.GetToken(ctx, "default")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again stays quiet.
	if err := storage.DeleteToken(ctx, "default"); err != nil {
		t.Fatalf("DeleteToken on missing account failed: %v", err)
	}
}
