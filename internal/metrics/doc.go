// Package metrics records pipeline observations.
//
// Components receive a Recorder and default to NoopRecorder, so nothing needs
// nil checks. The watch command swaps in a PrometheusRecorder and serves it
// over HTTP:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
