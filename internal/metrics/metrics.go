package metrics

import (
    prom "github.com/prometheus/client_golang/prometheus"
)

var (
    Documents = prom.NewCounterVec(prom.CounterOpts{Name: "hapisort_documents_total", Help: "Documents processed by file type and outcome"}, []string{"file_type", "status"})
    Objects = prom.NewCounterVec(prom.CounterOpts{Name: "hapisort_objects_total", Help: "Objects classified, by shape"}, []string{"shape"})
    ObjectsReordered = prom.NewCounter(prom.CounterOpts{Name: "hapisort_objects_reordered_total", Help: "Objects whose key order changed"})
    OutputBytes = prom.NewCounter(prom.CounterOpts{Name: "hapisort_output_bytes_total", Help: "Bytes written to output files or stdout"})
    LastRun = prom.NewGauge(prom.GaugeOpts{Name: "hapisort_last_run_timestamp_seconds", Help: "Unix time of the last completed run"})
)

func init() {
    prom.MustRegister(Documents, Objects, ObjectsReordered, OutputBytes, LastRun)
}

// WriteTextfile dumps the default registry in the text exposition format for
// the node_exporter textfile collector. An empty path is a no-op.
func WriteTextfile(path string) error {
    if path == "" { return nil }
    return prom.WriteToTextfile(path, prom.DefaultGatherer)
}
