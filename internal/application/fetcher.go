package application

import (
	"context"

	"github.com/k-j-hyun/shdocs/internal/sheets"
)

// GoogleRowFetcher reads spreadsheet rows through the stored Google
// authorization. A fresh Sheets client is built per call so token refresh
// and logout take effect immediately.
type GoogleRowFetcher struct {
	Auth *AuthService
}

// FetchRows implements RowFetcher.
func (f *GoogleRowFetcher) FetchRows(ctx context.Context, spreadsheetID, gid string) ([][]string, error) {
	httpClient, err := f.Auth.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	client, err := sheets.NewClient(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	return client.FetchRows(ctx, spreadsheetID, gid)
}
