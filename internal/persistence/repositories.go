package persistence

import "context"

// SheetRepository exposes CRUD operations for registered sheets.
type SheetRepository interface {
	CreateSheet(ctx context.Context, sheet Sheet) error
	GetSheet(ctx context.Context, id string) (Sheet, error)
	ListSheets(ctx context.Context) ([]Sheet, error)
	UpdateSheetRowCount(ctx context.Context, id string, rowCount int, updatedAt string) error
	DeleteSheet(ctx context.Context, id string) error
}

// EventRepository stores the derived event cache.
type EventRepository interface {
	ReplaceEventsForSheet(ctx context.Context, sheetID string, events []Event) error
	ListEvents(ctx context.Context) ([]Event, error)
	DeleteEventsForSheet(ctx context.Context, sheetID string) error
}

// TokenRepository stores OAuth tokens keyed by account name.
type TokenRepository interface {
	SaveToken(ctx context.Context, account string, payload []byte, updatedAt string) error
	GetToken(ctx context.Context, account string) (Token, error)
	DeleteToken(ctx context.Context, account string) error
}
