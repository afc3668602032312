package views

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ICalEventsKey holds the events to render, as []ICalEvent.
const ICalEventsKey = "events"

// ICalEvent is one calendar entry.
type ICalEvent struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// ICal renders response data as an iCalendar (RFC 5545) document.
type ICal struct {
	// ProdID identifies the generating product in the calendar header.
	ProdID string
}

// NewICal returns an iCalendar view.
func NewICal() *ICal {
	return &ICal{ProdID: "-//temma//calendar//EN"}
}

func (v *ICal) ContentType() string { return "text/calendar; charset=utf-8" }

const icalTimeLayout = "20060102T150405Z"

func (v *ICal) Render(w io.Writer, data map[string]any, _ string) error {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	fmt.Fprintf(&b, "PRODID:%s\r\n", v.ProdID)

	if events, ok := data[ICalEventsKey].([]ICalEvent); ok {
		for _, ev := range events {
			b.WriteString("BEGIN:VEVENT\r\n")
			fmt.Fprintf(&b, "UID:%s\r\n", escapeICal(ev.UID))
			fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICal(ev.Summary))
			if ev.Description != "" {
				fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeICal(ev.Description))
			}
			if !ev.Start.IsZero() {
				fmt.Fprintf(&b, "DTSTART:%s\r\n", ev.Start.UTC().Format(icalTimeLayout))
			}
			if !ev.End.IsZero() {
				fmt.Fprintf(&b, "DTEND:%s\r\n", ev.End.UTC().Format(icalTimeLayout))
			}
			b.WriteString("END:VEVENT\r\n")
		}
	}

	b.WriteString("END:VCALENDAR\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// escapeICal escapes the characters RFC 5545 reserves in text values.
func escapeICal(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
		"\r", "",
	)
	return r.Replace(s)
}
