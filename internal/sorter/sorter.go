package sorter

import (
    "bytes"
    "context"
    "encoding/hex"
    "errors"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "time"

    "github.com/example/hapi-sorter/internal/canon"
    "github.com/example/hapi-sorter/internal/document"
    "github.com/example/hapi-sorter/internal/logging"
    "github.com/example/hapi-sorter/internal/metrics"
    "github.com/example/hapi-sorter/internal/sink"
    "github.com/example/hapi-sorter/internal/sortercfg"
    "github.com/example/hapi-sorter/internal/watch"
    ulid "github.com/oklog/ulid/v2"
    "golang.org/x/crypto/blake2b"
)

// ErrNotCanonical is returned by Check when the input differs from its
// canonical form.
var ErrNotCanonical = errors.New("not canonical")

// ErrWatchInPlace is returned by Watch when the output is the watched input:
// every write would trigger another run.
var ErrWatchInPlace = errors.New("watch output must differ from the input")

type Sorter struct {
    cfg    *sortercfg.Config
    stdout io.Writer
}

// Result describes one run.
type Result struct {
    RunID    string
    FileType canon.FileType
    Stats    canon.Stats
    Bytes    int
    Digest   string
    // Changed is true when the canonical bytes differ from the input bytes.
    Changed bool
}

func New(cfg *sortercfg.Config, stdout io.Writer) *Sorter {
    if cfg == nil { cfg = sortercfg.Default() }
    if stdout == nil { stdout = os.Stdout }
    return &Sorter{cfg: cfg, stdout: stdout}
}

// Run sorts the document at in and writes it to out ("" or "-" for stdout).
func (s *Sorter) Run(ctx context.Context, in, out string) (*Result, error) {
    ev := logging.NewEventLogger(ulid.Make().String())
    res, rendered, err := s.render(ctx, ev, in)
    if err != nil {
        s.fail(ev, "sort", in, res, err)
        return res, err
    }
    if err := sink.New(out, s.stdout).WriteDocument(rendered); err != nil {
        err = fmt.Errorf("write output %s: %w", out, err)
        ev.IO("write", out, "failed", err.Error())
        s.fail(ev, "sort", in, res, err)
        return res, err
    }
    if !sink.IsStdout(out) {
        ev.IO("write", out, "success", fmt.Sprintf("%d bytes", len(rendered)))
        if s.cfg.Output.TrailerEnabled() {
            fmt.Fprintln(s.stdout, "----")
            fmt.Fprintln(s.stdout, in)
        }
    }
    status := "success"
    if !res.Changed { status = "unchanged" }
    s.finish(ev, "sort", in, res, status)
    return res, nil
}

// Check reports ErrNotCanonical when the document at in is not already in
// canonical form. Nothing is written.
func (s *Sorter) Check(ctx context.Context, in string) (*Result, error) {
    ev := logging.NewEventLogger(ulid.Make().String())
    res, _, err := s.render(ctx, ev, in)
    if err != nil {
        s.fail(ev, "check", in, res, err)
        return res, err
    }
    if res.Changed {
        s.finish(ev, "check", in, res, "not_canonical")
        return res, fmt.Errorf("%s: %w", in, ErrNotCanonical)
    }
    s.finish(ev, "check", in, res, "success")
    return res, nil
}

// Watch runs once, then again every time in changes, until ctx is done.
func (s *Sorter) Watch(ctx context.Context, in, out string) error {
    if SamePath(in, out) {
        return fmt.Errorf("%s: %w", in, ErrWatchInPlace)
    }
    if _, err := s.Run(ctx, in, out); err != nil {
        return err
    }
    debounce := time.Duration(s.cfg.Watch.DebounceMs) * time.Millisecond
    w := watch.New(in, debounce, func(ctx context.Context) error {
        _, err := s.Run(ctx, in, out)
        return err
    }, logging.NewEventLogger(""))
    return w.Run(ctx)
}

// SamePath reports whether a and b name the same file after cleaning and
// resolving against the working directory.
func SamePath(a, b string) bool {
    if sink.IsStdout(a) || sink.IsStdout(b) {
        return false
    }
    absA, errA := filepath.Abs(a)
    absB, errB := filepath.Abs(b)
    if errA != nil || errB != nil {
        return filepath.Clean(a) == filepath.Clean(b)
    }
    return absA == absB
}

func (s *Sorter) render(ctx context.Context, ev *logging.EventLogger, in string) (*Result, []byte, error) {
    if err := ctx.Err(); err != nil {
        return nil, nil, err
    }
    src, err := os.ReadFile(in)
    if err != nil {
        ev.IO("read", in, "failed", err.Error())
        return nil, nil, fmt.Errorf("read input %s: %w", in, err)
    }
    ev.IO("read", in, "success", fmt.Sprintf("%d bytes", len(src)))

    root, err := document.Parse(src)
    if err != nil {
        return nil, nil, fmt.Errorf("parse %s: %w", in, err)
    }
    c := canon.New()
    if logging.Enabled(logging.DebugLevel) {
        c.Trace = func(shape canon.ShapeKind, name string, depth int) {
            logging.Debug("object_classified", logging.F("shape", shape.String()), logging.F("key", name), logging.F("depth", depth))
        }
    }
    sorted, ft, err := c.Document(root)
    res := &Result{FileType: ft, Stats: c.Stats()}
    if err != nil {
        return res, nil, fmt.Errorf("canonicalize %s: %w", in, err)
    }
    b, err := document.Marshal(sorted, s.cfg.Output.IndentString())
    if err != nil {
        return res, nil, fmt.Errorf("encode %s: %w", in, err)
    }
    if s.cfg.Output.FinalNewline {
        b = append(b, '\n')
    }
    sum := blake2b.Sum256(b)
    res.Bytes = len(b)
    res.Digest = hex.EncodeToString(sum[:])
    res.Changed = !bytes.Equal(bytes.TrimSuffix(src, []byte("\n")), bytes.TrimSuffix(b, []byte("\n")))
    return res, b, nil
}

func (s *Sorter) finish(ev *logging.EventLogger, action, in string, res *Result, status string) {
    res.RunID = ev.RunID()
    metrics.Documents.WithLabelValues(res.FileType.String(), status).Inc()
    for shape, n := range res.Stats.Shapes {
        metrics.Objects.WithLabelValues(shape.String()).Add(float64(n))
    }
    metrics.ObjectsReordered.Add(float64(res.Stats.Reordered))
    metrics.LastRun.SetToCurrentTime()
    ev.Canonicalize(action, in, res.FileType.String(), status, "",
        logging.F("objects", res.Stats.Objects),
        logging.F("reordered", res.Stats.Reordered),
        logging.F("max_depth", res.Stats.MaxDepth),
        logging.F("shapes", shapeCounts(res.Stats)),
        logging.F("bytes", res.Bytes),
        logging.F("blake2b", res.Digest),
    )
    s.writeMetrics()
}

func (s *Sorter) fail(ev *logging.EventLogger, action, in string, res *Result, err error) {
    fileType := "unknown"
    if res != nil {
        res.RunID = ev.RunID()
        fileType = res.FileType.String()
    }
    reason := err.Error()
    var de *document.Err
    if errors.As(err, &de) { reason = de.Code }
    metrics.Documents.WithLabelValues(fileType, "failed").Inc()
    ev.Canonicalize(action, in, fileType, "failed", reason, logging.Err(err))
    s.writeMetrics()
}

func (s *Sorter) writeMetrics() {
    if err := metrics.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
        logging.Warn("metrics_textfile_error", logging.F("path", s.cfg.Metrics.Textfile), logging.Err(err))
    }
}

func shapeCounts(st canon.Stats) map[string]int {
    out := make(map[string]int, len(st.Shapes))
    for shape, n := range st.Shapes {
        out[shape.String()] = n
    }
    return out
}
