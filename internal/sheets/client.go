// Package sheets reads raw cell data from Google Sheets documents on behalf
// of the sync pipeline.
package sheets

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// ReadScope is the OAuth scope required to read spreadsheet content.
const ReadScope = sheetsapi.SpreadsheetsReadonlyScope

// Client fetches worksheet rows through the Sheets API using an
// authenticated HTTP client.
type Client struct {
	service *sheetsapi.Service
}

// NewClient wraps an OAuth-authenticated HTTP client in a Sheets API client.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	service, err := sheetsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}
	return &Client{service: service}, nil
}

// FetchRows returns every row of the worksheet identified by gid as plain
// cell strings. When no worksheet carries the gid the first worksheet is
// used, matching how shared links without a gid fragment behave.
func (c *Client) FetchRows(ctx context.Context, spreadsheetID, gid string) ([][]string, error) {
	doc, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.sheetId", "sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: get spreadsheet %s: %w", spreadsheetID, err)
	}
	if len(doc.Sheets) == 0 {
		return nil, fmt.Errorf("sheets: spreadsheet %s has no worksheets", spreadsheetID)
	}

	title := doc.Sheets[0].Properties.Title
	if wanted, err := strconv.ParseInt(gid, 10, 64); err == nil {
		for _, sheet := range doc.Sheets {
			if sheet.Properties.SheetId == wanted {
				title = sheet.Properties.Title
				break
			}
		}
	}

	values, err := c.service.Spreadsheets.Values.Get(spreadsheetID, title).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read worksheet %q: %w", title, err)
	}

	rows := make([][]string, 0, len(values.Values))
	for _, raw := range values.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}

	return rows, nil
}
