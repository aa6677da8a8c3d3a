// Package build processes a directory of Markdown documents into HTML pages.
// The CLI build and watch commands both route through Service.
package build

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Request describes one build.
type Request struct {
	// SourceDir is scanned recursively for Markdown documents.
	SourceDir string
	// OutputDir receives one page per document, mirroring the source layout.
	OutputDir string
	// Extension of written pages, including the dot.
	Extension string
	// Clean removes OutputDir before writing.
	Clean bool
	// SkipUnchanged leaves documents whose fingerprint matches the previous
	// run untouched.
	SkipUnchanged bool
	// Concurrency bounds parallel document processing (0 or 1 = sequential).
	Concurrency int
}

// Status represents the outcome of a build.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsSuccess returns true if every document was handled.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}

// DocumentError records a document that could not be processed.
type DocumentError struct {
	Path string
	Err  error
}

// Result summarizes a build.
type Result struct {
	RunID     string
	Status    Status
	Documents int
	Written   []string
	Skipped   int
	// Removed lists pages deleted because their source disappeared since an
	// earlier run of the same Service.
	Removed   []string
	Failed    []DocumentError
	StartTime time.Time
	Duration  time.Duration
}

func (e DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e DocumentError) Unwrap() error { return e.Err }

// Err combines the per-document failures, or returns nil when there were none.
func (r *Result) Err() error {
	var err error
	for _, f := range r.Failed {
		err = multierr.Append(err, f)
	}
	return err
}
