package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/hapi-sorter/internal/sortercfg"
)

type Level int32

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

type Field struct {
	Key   string
	Value any
}

func F(key string, value any) Field { return Field{Key: key, Value: value} }
func Err(err error) Field {
    if err == nil { return Field{Key: "err", Value: nil} }
    return Field{Key: "err", Value: err.Error()}
}

type event struct {
	TS     int64          `json:"ts"`
	Level  string         `json:"level"`
	Msg    string         `json:"msg"`
	Fields map[string]any `json:"fields,omitempty"`
}

var (
    // fallback receives logs when the configured output cannot be opened
    fallback io.Writer = os.Stderr
    logLevel atomic.Int32
    logCh    chan event
    dropped  atomic.Int64
)

func parseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Init starts the log drain. The returned func stops it and blocks until
// every queued event has been written.
func Init(cfg sortercfg.LoggingConfig) func() {
    if cfg.Buffer <= 0 {
        cfg.Buffer = 1024
    }
    localLogCh := make(chan event, cfg.Buffer)
    logCh = localLogCh
    logLevel.Store(int32(parseLevel(cfg.Level)))
    var w io.Writer
    var closer io.Closer
    // stdout carries the sorted document, so logs default to stderr
    switch cfg.Output {
    case "stderr", "":
        w = os.Stderr
    case "stdout":
        w = os.Stdout
    case "none":
        w = io.Discard
    default:
        f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
        if err == nil {
            w, closer = f, f
        } else {
            fmt.Fprintf(fallback, "logging: cannot open %s, writing logs to stderr: %v\n", cfg.Output, err)
            w = fallback
        }
    }
    stop := make(chan struct{})
    done := make(chan struct{})
    go func() {
        defer close(done)
        drain(localLogCh, stop, w)
    }()
    return func() {
        close(stop)
        <-done
        if closer != nil { _ = closer.Close() }
    }
}

func drain(ch <-chan event, stop <-chan struct{}, w io.Writer) {
    flushTicker := time.NewTicker(10 * time.Second)
    defer flushTicker.Stop()
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    for {
        select {
        case ev := <-ch:
            _ = enc.Encode(ev)
        case <-flushTicker.C:
            reportDropped(enc)
		case <-stop:
			for {
				select {
				case ev := <-ch:
					_ = enc.Encode(ev)
				default:
					reportDropped(enc)
					return
				}
			}
        }
    }
}

func reportDropped(enc *json.Encoder) {
    if n := dropped.Swap(0); n > 0 {
        _ = enc.Encode(event{TS: time.Now().UnixNano(), Level: "warn", Msg: "logs_dropped", Fields: map[string]any{"count": n}})
    }
}

func allowed(l Level) bool { return l >= Level(logLevel.Load()) }

// Enabled reports whether events at l would be written.
func Enabled(l Level) bool { return allowed(l) && logCh != nil }

func log(lvl Level, msg string, fields ...Field) {
	if !allowed(lvl) || logCh == nil {
		return
	}
	fm := make(map[string]any, len(fields))
	for _, f := range fields {
		fm[f.Key] = f.Value
	}
	ev := event{TS: time.Now().UnixNano(), Level: toStr(lvl), Msg: msg}
	if len(fm) > 0 {
		ev.Fields = fm
	}
	select {
	case logCh <- ev:
	default:
		dropped.Add(1)
	}
}

func toStr(l Level) string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "info"
	}
}

func Debug(msg string, fields ...Field) { log(DebugLevel, msg, fields...) }
func Info(msg string, fields ...Field)  { log(InfoLevel, msg, fields...) }
func Warn(msg string, fields ...Field)  { log(WarnLevel, msg, fields...) }
func Error(msg string, fields ...Field) { log(ErrorLevel, msg, fields...) }
