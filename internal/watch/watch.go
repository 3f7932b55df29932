package watch

import (
    "context"
    "path/filepath"
    "time"

    "github.com/example/hapi-sorter/internal/logging"
    "github.com/fsnotify/fsnotify"
)

// Watcher reruns a function whenever a single file changes.
type Watcher struct {
    path     string
    debounce time.Duration
    run      func(context.Context) error
    events   *logging.EventLogger
}

func New(path string, debounce time.Duration, run func(context.Context) error, events *logging.EventLogger) *Watcher {
    if events == nil { events = logging.NewEventLogger("") }
    return &Watcher{path: filepath.Clean(path), debounce: debounce, run: run, events: events}
}

// Run blocks until ctx is done. It watches the file's directory rather than
// the file so editors that replace the file by rename are still seen. Runs
// never overlap; a failed run is logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
    watcher, err := fsnotify.NewWatcher()
    if err != nil {
        return err
    }
    defer watcher.Close()
    if err := watcher.Add(filepath.Dir(w.path)); err != nil {
        return err
    }
    w.events.Watch("start", w.path, "", "")

    var timer *time.Timer
    var fire <-chan time.Time
    for {
        select {
        case <-ctx.Done():
            if timer != nil { timer.Stop() }
            w.events.Watch("stop", w.path, "", "")
            return nil
        case ev, ok := <-watcher.Events:
            if !ok { return nil }
            if filepath.Clean(ev.Name) != w.path { continue }
            if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 { continue }
            w.events.Watch("change", w.path, "", ev.Op.String())
            if timer == nil {
                timer = time.NewTimer(w.debounce)
            } else {
                timer.Reset(w.debounce)
            }
            fire = timer.C
        case err, ok := <-watcher.Errors:
            if !ok { return nil }
            w.events.Watch("error", w.path, "failed", err.Error())
        case <-fire:
            fire = nil
            if err := w.run(ctx); err != nil {
                w.events.Watch("rerun", w.path, "failed", err.Error())
                continue
            }
            w.events.Watch("rerun", w.path, "success", "")
        }
    }
}
