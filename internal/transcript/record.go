// Package transcript models transcription records and the rules the client
// applies to them: status taxonomy, fallback text, download parameters, list
// reconciliation, and the processing poller.
package transcript

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is the backend-reported processing state of a record.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// DateLayout is the backend's record timestamp format.
const DateLayout = "2006-01-02 15:04:05"

// Fallback texts shown when a record has no usable content.
const (
	NoTranscript = "No transcript available."
	NoSummary    = "No summary available."
)

var titleCaser = cases.Title(language.English)

// Label renders the status for display. Unknown or empty statuses render as
// "Unknown".
func (s Status) Label() string {
	switch s {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return titleCaser.String(string(s))
	default:
		return "Unknown"
	}
}

// Known reports whether s is one of the statuses the client understands.
func (s Status) Known() bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Record is one transcription as returned by the backend.
type Record struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Status     Status `json:"status"`
	Date       string `json:"date"`
	Duration   string `json:"duration,omitempty"`
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`

	// Unconfirmed marks a record inserted locally after upload that the
	// backend has not yet returned in a list.
	Unconfirmed bool `json:"-"`
}

// Provisional builds the record shown right after a successful upload.
func Provisional(id int64, title string, now time.Time) Record {
	return Record{
		ID:          id,
		Title:       title,
		Status:      StatusProcessing,
		Date:        now.Format(DateLayout),
		Unconfirmed: true,
	}
}

// Completed reports whether the record finished successfully.
func (r Record) Completed() bool {
	return r.Status == StatusCompleted
}

// TranscriptText returns the transcript, or the fallback when the record is
// not completed or the transcript is empty.
func (r Record) TranscriptText() string {
	if !r.Completed() || strings.TrimSpace(r.Transcript) == "" {
		return NoTranscript
	}
	return r.Transcript
}

// SummaryText returns the summary, or the fallback when the record is not
// completed or the summary is empty.
func (r Record) SummaryText() string {
	if !r.Completed() || strings.TrimSpace(r.Summary) == "" {
		return NoSummary
	}
	return r.Summary
}

// CreatedAt parses Date. The zero time is returned when it does not parse.
func (r Record) CreatedAt() time.Time {
	t, err := time.ParseInLocation(DateLayout, r.Date, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
