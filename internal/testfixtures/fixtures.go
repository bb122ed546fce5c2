package testfixtures

import "time"

// ReferenceTime is the fixed instant used as "now" across tests:
// 2025-07-15 09:00 UTC, a Tuesday inside the sample data's month.
func ReferenceTime() time.Time {
	return time.Date(2025, time.July, 15, 9, 0, 0, 0, time.UTC)
}

// ReservationRows is a small spreadsheet body in the production layout:
// a hospital heading row, one July reservation, an incomplete row that the
// extractor must skip, and one August reservation.
func ReservationRows() [][]string {
	nameRow := func(name, date string) []string {
		row := make([]string, 15)
		row[4] = name
		row[14] = date
		return row
	}

	heading := make([]string, 15)
	heading[0] = "스텔라 피부과 예약 명단"

	incomplete := make([]string, 15)
	incomplete[4] = "박민수"

	return [][]string{
		heading,
		nameRow("김철수", "25-07-24(목) 11:00"),
		incomplete,
		nameRow("이영희", "2025-08-01 09:30"),
	}
}
