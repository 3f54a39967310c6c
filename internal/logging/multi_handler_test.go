package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

// recordingHandler captures records above its level.
type recordingHandler struct {
	level   slog.Level
	records []slog.Record
}

func (h *recordingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *recordingHandler) Handle(_ context.Context, record slog.Record) error {
	h.records = append(h.records, record)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestMultiHandlerFansOutByLevel(t *testing.T) {
	info := &recordingHandler{level: slog.LevelInfo}
	errOnly := &recordingHandler{level: slog.LevelError}
	multi := NewMultiHandler(info, errOnly)

	ctx := context.Background()
	infoRec := slog.NewRecord(time.Now(), slog.LevelInfo, "meal selected", 0)
	errRec := slog.NewRecord(time.Now(), slog.LevelError, "store down", 0)

	if err := multi.Handle(ctx, infoRec); err != nil {
		t.Fatalf("Handle(info) error = %v", err)
	}
	if err := multi.Handle(ctx, errRec); err != nil {
		t.Fatalf("Handle(error) error = %v", err)
	}

	if len(info.records) != 2 {
		t.Errorf("info handler got %d records, want 2", len(info.records))
	}
	if len(errOnly.records) != 1 {
		t.Fatalf("error handler got %d records, want 1", len(errOnly.records))
	}
	if errOnly.records[0].Message != "store down" {
		t.Errorf("error handler recorded %q", errOnly.records[0].Message)
	}

	if !multi.Enabled(ctx, slog.LevelInfo) {
		t.Error("Enabled(info) = false, want true while any handler accepts it")
	}
}
