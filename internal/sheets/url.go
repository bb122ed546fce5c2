package sheets

import (
	"errors"
	"regexp"
)

// ErrInvalidURL is returned when a URL does not point at a Google Sheets
// document.
var ErrInvalidURL = errors.New("sheets: not a Google Sheets URL")

var (
	spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	gidPattern           = regexp.MustCompile(`[#&]gid=([0-9]+)`)
)

// ParseURL extracts the spreadsheet ID and worksheet GID from a Google
// Sheets URL. When the URL carries no gid fragment the first worksheet
// ("0") is assumed.
func ParseURL(url string) (spreadsheetID, gid string, err error) {
	idMatch := spreadsheetIDPattern.FindStringSubmatch(url)
	if idMatch == nil {
		return "", "", ErrInvalidURL
	}

	gid = "0"
	if gidMatch := gidPattern.FindStringSubmatch(url); gidMatch != nil {
		gid = gidMatch[1]
	}

	return idMatch[1], gid, nil
}
