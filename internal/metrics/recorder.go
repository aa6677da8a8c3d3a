package metrics

import "time"

// ResultLabel enumerates per-document outcomes.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultSkipped ResultLabel = "skipped"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for document processing and builds.
type Recorder interface {
	ObserveDocumentDuration(d time.Duration)
	IncDocumentResult(result ResultLabel)
	ObserveTOCEntries(n int)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveDocumentDuration(time.Duration) {}
func (NoopRecorder) IncDocumentResult(ResultLabel)         {}
func (NoopRecorder) ObserveTOCEntries(int)                 {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)    {}
func (NoopRecorder) IncBuildOutcome(bool)                  {}
