package application

// Sheet is the API facing view of a registered spreadsheet.
type Sheet struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Color     string `json:"color"`
	RowCount  int    `json:"row_count"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Field is one labeled cell value carried along with an event.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Event is the API facing view of one mirrored reservation.
type Event struct {
	ID        string  `json:"id"`
	SheetID   string  `json:"sheet_id"`
	Title     string  `json:"title"`
	Name      string  `json:"name"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	SheetName string  `json:"sheet_name"`
	Color     string  `json:"color"`
	Hospital  string  `json:"hospital,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Details   []Field `json:"details,omitempty"`
}

// AddSheetInput carries the fields accepted when registering a sheet.
type AddSheetInput struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Color string `json:"color"`
}

// MonthlySummary is a rendered reservation report for one month.
type MonthlySummary struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
	Count    int    `json:"count"`
}

// AuthStatus reports whether a Google authorization is on file.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	ExpiresAt     string `json:"expires_at,omitempty"`
}
