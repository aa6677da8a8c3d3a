package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyDocument   = "document"
	KeyOutput     = "output"
	KeyHeadings   = "headings"
	KeyTOCEntries = "toc_entries"
	KeyDurationMS = "duration_ms"
	KeyResult     = "result"
	KeyPath       = "path"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Document(d string) slog.Attr     { return slog.String(KeyDocument, d) }
func Output(o string) slog.Attr       { return slog.String(KeyOutput, o) }
func Headings(n int) slog.Attr        { return slog.Int(KeyHeadings, n) }
func TOCEntries(n int) slog.Attr      { return slog.Int(KeyTOCEntries, n) }
func Result(r string) slog.Attr       { return slog.String(KeyResult, r) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
