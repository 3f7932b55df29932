package logging

// EventLogger provides structured event logging with fixed event schemas
type EventLogger struct {
	log   func(level Level, msg string, fields ...Field)
	runID string
}

// NewEventLogger creates a new EventLogger backed by the global logging functions.
// Every event carries runID when it is non-empty.
func NewEventLogger(runID string) *EventLogger {
	return &EventLogger{
		log:   log,
		runID: runID,
	}
}

func (e *EventLogger) RunID() string { return e.runID }

func (e *EventLogger) emit(level Level, msg string, fields []Field) {
	if e.runID != "" {
		fields = append(fields, F("run_id", e.runID))
	}
	e.log(level, msg, fields...)
}

// Canonicalize logs the outcome of sorting one document
// action: sort|check
// status: success|unchanged|not_canonical|failed
func (e *EventLogger) Canonicalize(action, input, fileType, status, reason string, extra ...Field) {
	level := InfoLevel
	switch status {
	case "failed":
		level = ErrorLevel
	case "not_canonical":
		level = WarnLevel
	}

	fields := []Field{
		F("event", "canonicalize"),
		F("action", action),
		F("input", input),
		F("status", status),
	}
	if fileType != "" {
		fields = append(fields, F("file_type", fileType))
	}
	if reason != "" {
		fields = append(fields, F("reason", reason))
	}
	fields = append(fields, extra...)
	e.emit(level, "canonicalize_event", fields)
}

// IO logs file-system events
// action: read|write|mkdir
// status: success|failed
func (e *EventLogger) IO(action, path, status, details string) {
	level := DebugLevel
	if status == "failed" {
		level = ErrorLevel
	}

	fields := []Field{
		F("event", "io"),
		F("action", action),
		F("path", path),
		F("status", status),
	}
	if details != "" {
		fields = append(fields, F("details", details))
	}
	e.emit(level, "io_event", fields)
}

// Watch logs watch-mode events
// action: start|change|rerun|stop|error
func (e *EventLogger) Watch(action, path, status, details string) {
	level := InfoLevel
	switch {
	case status == "failed" || action == "error":
		level = WarnLevel // a failed rerun does not stop the watcher
	case action == "change":
		level = DebugLevel
	}

	fields := []Field{
		F("event", "watch"),
		F("action", action),
		F("path", path),
	}
	if status != "" {
		fields = append(fields, F("status", status))
	}
	if details != "" {
		fields = append(fields, F("details", details))
	}
	e.emit(level, "watch_event", fields)
}
