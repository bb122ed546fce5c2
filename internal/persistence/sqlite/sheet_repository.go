package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/k-j-hyun/shdocs/internal/persistence"
)

// CreateSheet inserts a new sheet registration.
func (s *Storage) CreateSheet(ctx context.Context, sheet persistence.Sheet) error {
	const query = `
		INSERT INTO sheets (id, name, url, color, spreadsheet_id, gid, row_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		sheet.ID, sheet.Name, sheet.URL, sheet.Color,
		sheet.SpreadsheetID, sheet.GID, sheet.RowCount,
		sheet.CreatedAt, sheet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: create sheet: %w", mapError(err))
	}
	return nil
}

// GetSheet returns the sheet with the given id.
func (s *Storage) GetSheet(ctx context.Context, id string) (persistence.Sheet, error) {
	const query = `
		SELECT id, name, url, color, spreadsheet_id, gid, row_count, created_at, updated_at
		FROM sheets WHERE id = ?`

	var sheet persistence.Sheet
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sheet.ID, &sheet.Name, &sheet.URL, &sheet.Color,
		&sheet.SpreadsheetID, &sheet.GID, &sheet.RowCount,
		&sheet.CreatedAt, &sheet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Sheet{}, persistence.ErrNotFound
		}
		return persistence.Sheet{}, fmt.Errorf("sqlite: get sheet: %w", err)
	}
	return sheet, nil
}

// ListSheets returns every registered sheet ordered by creation time.
func (s *Storage) ListSheets(ctx context.Context) ([]persistence.Sheet, error) {
	const query = `
		SELECT id, name, url, color, spreadsheet_id, gid, row_count, created_at, updated_at
		FROM sheets ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list sheets: %w", err)
	}
	defer rows.Close()

	var sheets []persistence.Sheet
	for rows.Next() {
		var sheet persistence.Sheet
		if err := rows.Scan(
			&sheet.ID, &sheet.Name, &sheet.URL, &sheet.Color,
			&sheet.SpreadsheetID, &sheet.GID, &sheet.RowCount,
			&sheet.CreatedAt, &sheet.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan sheet: %w", err)
		}
		sheets = append(sheets, sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list sheets: %w", err)
	}
	return sheets, nil
}

// UpdateSheetRowCount records the latest fetched row count for a sheet.
func (s *Storage) UpdateSheetRowCount(ctx context.Context, id string, rowCount int, updatedAt string) error {
	const query = `UPDATE sheets SET row_count = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, rowCount, updatedAt, id)
	if err != nil {
		return fmt.Errorf("sqlite: update sheet row count: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: update sheet row count: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteSheet removes a sheet and, through the foreign key cascade, its events.
func (s *Storage) DeleteSheet(ctx context.Context, id string) error {
	const query = `DELETE FROM sheets WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete sheet: %w", mapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete sheet: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
