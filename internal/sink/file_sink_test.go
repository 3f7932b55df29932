package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSink_CreatesParentsAndReplaces(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a", "b", "info.json")
	s := New(path, nil)
	if err := s.WriteDocument([]byte(`{"x":1}`)); err != nil { t.Fatalf("write: %v", err) }
	if err := s.WriteDocument([]byte(`{"y":2}`)); err != nil { t.Fatalf("rewrite: %v", err) }
	b, err := os.ReadFile(path)
	if err != nil { t.Fatalf("read: %v", err) }
	if string(b) != `{"y":2}` { t.Fatalf("unexpected content %q", b) }
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil { t.Fatal(err) }
	if len(entries) != 1 { t.Fatalf("temporary files left behind: %d entries", len(entries)) }
}

func TestFileSink_FailureLeavesNoTemp(t *testing.T) {
	tmp := t.TempDir()
	// target is an existing directory, so the final rename fails
	target := filepath.Join(tmp, "out")
	if err := os.MkdirAll(filepath.Join(target, "child"), 0o755); err != nil { t.Fatal(err) }
	if err := NewFileSink(target).WriteDocument([]byte("{}")); err == nil { t.Fatalf("expected error") }
	entries, err := os.ReadDir(tmp)
	if err != nil { t.Fatal(err) }
	if len(entries) != 1 || entries[0].Name() != "out" { t.Fatalf("unexpected entries: %v", entries) }
}

func TestNew_Stdout(t *testing.T) {
	var buf bytes.Buffer
	for _, p := range []string{"", "-"} {
		buf.Reset()
		if !IsStdout(p) { t.Fatalf("%q should select stdout", p) }
		if err := New(p, &buf).WriteDocument([]byte("{}")); err != nil { t.Fatal(err) }
		if buf.String() != "{}" { t.Fatalf("unexpected stdout %q", buf.String()) }
	}
	if IsStdout("out.json") { t.Fatalf("file path selected stdout") }
}
