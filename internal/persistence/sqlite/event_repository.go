package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/k-j-hyun/shdocs/internal/persistence"
)

// ReplaceEventsForSheet atomically swaps the cached events for a sheet.
// A refresh either lands completely or leaves the previous cache intact.
func (s *Storage) ReplaceEventsForSheet(ctx context.Context, sheetID string, events []persistence.Event) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE sheet_id = ?`, sheetID); err != nil {
			return fmt.Errorf("sqlite: clear events: %w", mapError(err))
		}

		const insert = `
			INSERT INTO events (id, sheet_id, title, name, date, time, sheet_name, color, hospital, phone, details, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		for _, event := range events {
			details, err := json.Marshal(event.Details)
			if err != nil {
				return fmt.Errorf("sqlite: encode event details: %w", err)
			}
			if _, err := tx.ExecContext(ctx, insert,
				event.ID, sheetID, event.Title, event.Name,
				event.Date, event.Time, event.SheetName, event.Color,
				event.Hospital, event.Phone, string(details), event.CreatedAt,
			); err != nil {
				return fmt.Errorf("sqlite: insert event: %w", mapError(err))
			}
		}
		return nil
	})
}

// ListEvents returns every cached event ordered by date and time.
func (s *Storage) ListEvents(ctx context.Context) ([]persistence.Event, error) {
	const query = `
		SELECT id, sheet_id, title, name, date, time, sheet_name, color, hospital, phone, details, created_at
		FROM events ORDER BY date, time, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list events: %w", err)
	}
	defer rows.Close()

	var events []persistence.Event
	for rows.Next() {
		var event persistence.Event
		var details string
		if err := rows.Scan(
			&event.ID, &event.SheetID, &event.Title, &event.Name,
			&event.Date, &event.Time, &event.SheetName, &event.Color,
			&event.Hospital, &event.Phone, &details, &event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan event: %w", err)
		}
		if details != "" {
			if err := json.Unmarshal([]byte(details), &event.Details); err != nil {
				return nil, fmt.Errorf("sqlite: decode event details: %w", err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list events: %w", err)
	}
	return events, nil
}

// DeleteEventsForSheet removes the cached events belonging to a sheet.
func (s *Storage) DeleteEventsForSheet(ctx context.Context, sheetID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE sheet_id = ?`, sheetID); err != nil {
		return fmt.Errorf("sqlite: delete events: %w", mapError(err))
	}
	return nil
}
