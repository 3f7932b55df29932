package sink

import (
    "bufio"
    "fmt"
    "io"
    "os"
    "path/filepath"

    "github.com/example/hapi-sorter/internal/metrics"
    ulid "github.com/oklog/ulid/v2"
)

// Sink receives one fully rendered document.
type Sink interface {
    WriteDocument(b []byte) error
}

// New returns a stdout sink for "" and "-", a file sink otherwise.
func New(path string, stdout io.Writer) Sink {
    if path == "" || path == "-" {
        return &WriterSink{w: stdout}
    }
    return NewFileSink(path)
}

// IsStdout reports whether path selects standard output.
func IsStdout(path string) bool { return path == "" || path == "-" }

type WriterSink struct {
    w io.Writer
}

func (s *WriterSink) WriteDocument(b []byte) error {
    n, err := s.w.Write(b)
    metrics.OutputBytes.Add(float64(n))
    return err
}

// FileSink replaces the file at path atomically: the document goes to a
// temporary file in the same directory which is then renamed over path.
type FileSink struct {
    path string
}

func NewFileSink(path string) *FileSink { return &FileSink{path: path} }

func (s *FileSink) Path() string { return s.path }

func (s *FileSink) WriteDocument(b []byte) (err error) {
    dir := filepath.Dir(s.path)
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return err
    }
    name := fmt.Sprintf(".%s.%s.tmp", filepath.Base(s.path), ulid.Make().String())
    tmp := filepath.Join(dir, name)
    f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
    if err != nil {
        return err
    }
    defer func() {
        if err != nil {
            _ = f.Close()
            _ = os.Remove(tmp)
        }
    }()
    buf := bufio.NewWriterSize(f, 1<<16)
    if _, err = buf.Write(b); err != nil {
        return err
    }
    if err = buf.Flush(); err != nil {
        return err
    }
    if err = f.Sync(); err != nil {
        return err
    }
    if err = f.Close(); err != nil {
        return err
    }
    if err = os.Rename(tmp, s.path); err != nil {
        return err
    }
    metrics.OutputBytes.Add(float64(len(b)))
    return nil
}
