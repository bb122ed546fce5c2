package calendar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoData is returned when no event falls inside the requested month.
// Callers surface it as a user-facing message, never as an empty table.
var ErrNoData = errors.New("calendar: no events in month")

// Monthly renders a markdown summary table of the events falling inside the
// given month, ordered by date then time. Ties keep the relative order of
// the input collection.
func Monthly(events []Event, year, month int) (string, error) {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	selected := make([]Event, 0)
	for _, event := range events {
		if strings.HasPrefix(event.Date, prefix) {
			selected = append(selected, event)
		}
	}
	if len(selected) == 0 {
		return "", ErrNoData
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Date == selected[j].Date {
			return selected[i].Time < selected[j].Time
		}
		return selected[i].Date < selected[j].Date
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# %d년 %d월 예약 현황\n\n", year, month)
	fmt.Fprintf(&b, "총 %d건\n\n", len(selected))
	b.WriteString("| 날짜 | 시간 | 이름 | 병원 | 연락처 |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, event := range selected {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			event.Date,
			event.Time,
			event.Name,
			placeholder(event.Hospital),
			placeholder(event.Phone),
		)
	}

	return b.String(), nil
}

func placeholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
