// Package calendar derives renderable reservation events from extracted
// sheet records and projects them into monthly views.
package calendar

import (
	"github.com/k-j-hyun/shdocs/internal/extract"
)

// Source identifies the sheet a record came from; its display color and name
// are stamped onto every derived event.
type Source struct {
	Name  string
	Color string
}

// Event is a single dated reservation ready for rendering. It is a value
// type, rebuilt wholesale from its source rows on every fetch cycle.
type Event struct {
	Title     string          `json:"title"`
	Name      string          `json:"name"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	SheetName string          `json:"sheet_name"`
	Color     string          `json:"color"`
	Hospital  string          `json:"hospital,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Details   []extract.Field `json:"details,omitempty"`
}

// Derive maps extracted records to calendar events one-to-one. Duplicate
// name and time across two sheets stay two distinct events; they may be
// different bookings. The output carries no ordering guarantee.
func Derive(records []extract.Record, source Source) []Event {
	if len(records) == 0 {
		return nil
	}

	events := make([]Event, 0, len(records))
	for _, record := range records {
		events = append(events, Event{
			Title:     source.Name + "_" + record.Name,
			Name:      record.Name,
			Date:      record.DateTime.DateString(),
			Time:      record.DateTime.TimeString(),
			SheetName: source.Name,
			Color:     source.Color,
			Hospital:  record.Hospital,
			Phone:     record.Phone,
			Details:   nonEmptyFields(record.Auxiliary),
		})
	}
	return events
}

func nonEmptyFields(fields []extract.Field) []extract.Field {
	out := make([]extract.Field, 0, len(fields))
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
