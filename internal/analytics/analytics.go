// Package analytics is a write-only event sink. Events are appended to the
// store and only ever read back for export; nothing in the scoring core
// depends on them.
package analytics

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
	"time"
)

// Variant identifies this build in exported data, so rows from different
// product iterations can be told apart.
const Variant = "EnsoGoV1"

// Event is one flat analytics record.
type Event struct {
	TS         time.Time
	SessionID  string
	Name       string
	Topic      string
	CaseID     int
	Correct    *bool
	FromReview bool
	Variant    string
	Score      *int
	Total      *int
	Percent    *int
}

// Store is the append-only persistence for events.
type Store interface {
	AppendEvent(ctx context.Context, e *Event) error
	ListEvents(ctx context.Context) ([]Event, error)
}

// Recorder logs events best effort: a failed write is logged and dropped,
// never surfaced to the caller.
type Recorder struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger, now: time.Now}
}

// Log stamps and persists an event.
func (r *Recorder) Log(ctx context.Context, e Event) {
	e.TS = r.now().UTC()
	e.Variant = Variant
	if err := r.store.AppendEvent(ctx, &e); err != nil {
		r.logger.Error("analytics write failed", "event", e.Name, "error", err)
	}
}

// Bool and Int build optional event fields.
func Bool(v bool) *bool { return &v }
func Int(v int) *int    { return &v }

// WriteCSV streams events as CSV in the order the store returned them.
func WriteCSV(w io.Writer, events []Event) error {
	cw := csv.NewWriter(w)
	header := []string{"ts", "session_id", "event", "topic", "case_id", "correct", "from_review", "variant", "score", "total", "percent"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range events {
		row := []string{
			e.TS.Format(time.RFC3339),
			e.SessionID,
			e.Name,
			e.Topic,
			strconv.Itoa(e.CaseID),
			optBool(e.Correct),
			boolField(e.FromReview),
			e.Variant,
			optInt(e.Score),
			optInt(e.Total),
			optInt(e.Percent),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func optBool(v *bool) string {
	if v == nil {
		return ""
	}
	return boolField(*v)
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
