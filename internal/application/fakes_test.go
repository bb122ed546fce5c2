package application

import (
	"context"
	"errors"
	"time"

	"github.com/k-j-hyun/shdocs/internal/persistence"
	"github.com/k-j-hyun/shdocs/internal/testfixtures"
)

type fakeSheetRepo struct {
	sheets map[string]persistence.Sheet
	order  []string
}

func newFakeSheetRepo() *fakeSheetRepo {
	return &fakeSheetRepo{sheets: make(map[string]persistence.Sheet)}
}

func (r *fakeSheetRepo) CreateSheet(_ context.Context, sheet persistence.Sheet) error {
	if _, exists := r.sheets[sheet.ID]; exists {
		return persistence.ErrDuplicate
	}
	r.sheets[sheet.ID] = sheet
	r.order = append(r.order, sheet.ID)
	return nil
}

func (r *fakeSheetRepo) GetSheet(_ context.Context, id string) (persistence.Sheet, error) {
	sheet, ok := r.sheets[id]
	if !ok {
		return persistence.Sheet{}, persistence.ErrNotFound
	}
	return sheet, nil
}

func (r *fakeSheetRepo) ListSheets(_ context.Context) ([]persistence.Sheet, error) {
	out := make([]persistence.Sheet, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sheets[id])
	}
	return out, nil
}

func (r *fakeSheetRepo) UpdateSheetRowCount(_ context.Context, id string, rowCount int, updatedAt string) error {
	sheet, ok := r.sheets[id]
	if !ok {
		return persistence.ErrNotFound
	}
	sheet.RowCount = rowCount
	sheet.UpdatedAt = updatedAt
	r.sheets[id] = sheet
	return nil
}

func (r *fakeSheetRepo) DeleteSheet(_ context.Context, id string) error {
	if _, ok := r.sheets[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.sheets, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeEventRepo struct {
	bySheet map[string][]persistence.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{bySheet: make(map[string][]persistence.Event)}
}

func (r *fakeEventRepo) ReplaceEventsForSheet(_ context.Context, sheetID string, events []persistence.Event) error {
	r.bySheet[sheetID] = append([]persistence.Event(nil), events...)
	return nil
}

func (r *fakeEventRepo) ListEvents(_ context.Context) ([]persistence.Event, error) {
	var out []persistence.Event
	for _, events := range r.bySheet {
		out = append(out, events...)
	}
	return out, nil
}

func (r *fakeEventRepo) DeleteEventsForSheet(_ context.Context, sheetID string) error {
	delete(r.bySheet, sheetID)
	return nil
}

type fakeFetcher struct {
	rows map[string][][]string
	errs map[string]error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{rows: make(map[string][][]string), errs: make(map[string]error)}
}

func (f *fakeFetcher) FetchRows(_ context.Context, spreadsheetID, gid string) ([][]string, error) {
	key := spreadsheetID + "#" + gid
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	rows, ok := f.rows[key]
	if !ok {
		return nil, errors.New("spreadsheet not stubbed")
	}
	return rows, nil
}

type fakeTokenRepo struct {
	tokens map[string]persistence.Token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]persistence.Token)}
}

func (r *fakeTokenRepo) SaveToken(_ context.Context, account string, payload []byte, updatedAt string) error {
	r.tokens[account] = persistence.Token{Account: account, Payload: payload, UpdatedAt: updatedAt}
	return nil
}

func (r *fakeTokenRepo) GetToken(_ context.Context, account string) (persistence.Token, error) {
	token, ok := r.tokens[account]
	if !ok {
		return persistence.Token{}, persistence.ErrNotFound
	}
	return token, nil
}

func (r *fakeTokenRepo) DeleteToken(_ context.Context, account string) error {
	delete(r.tokens, account)
	return nil
}

func sequentialIDs(prefix string) func() string {
	return testfixtures.SequentialIDs(prefix)
}

func fixedNow() time.Time {
	return testfixtures.ReferenceTime()
}

func reservationRows() [][]string {
	return testfixtures.ReservationRows()
}
