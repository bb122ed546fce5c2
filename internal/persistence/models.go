package persistence

// Sheet represents a registered spreadsheet tracked by the service.
// Timestamps are stored as RFC3339 strings, matching the sqlite TEXT columns.
type Sheet struct {
	ID            string
	Name          string
	URL           string
	Color         string
	SpreadsheetID string
	GID           string
	RowCount      int
	CreatedAt     string
	UpdatedAt     string
}

// Detail is one ordered (label, value) pair attached to a cached event.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Event represents a derived reservation cached between sync cycles.
// Events are never edited in place; a sheet's events are wiped and rebuilt
// wholesale on every refresh.
type Event struct {
	ID        string
	SheetID   string
	Title     string
	Name      string
	Date      string
	Time      string
	SheetName string
	Color     string
	Hospital  string
	Phone     string
	Details   []Detail
	CreatedAt string
}

// Token is a serialized OAuth token persisted for an account.
type Token struct {
	Account   string
	Payload   []byte
	UpdatedAt string
}
