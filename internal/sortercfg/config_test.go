package sortercfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "hapisort.yaml")
	// empty file -> defaults apply
	if err := os.WriteFile(cfgPath, []byte("{}"), 0o644); err != nil { t.Fatal(err) }
	cfg, err := Load(cfgPath)
	if err != nil { t.Fatal(err) }
	if cfg.Output.IndentString() != "  " || cfg.Logging.Level != "info" || cfg.Logging.Output != "stderr" || cfg.Watch.DebounceMs != 200 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if !cfg.Output.TrailerEnabled() { t.Fatalf("trailer should default to enabled") }
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil { t.Fatal(err) }
	if cfg.Output.IndentString() != Default().Output.IndentString() { t.Fatalf("unexpected indent %q", cfg.Output.IndentString()) }
}

func TestLoad_File(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "hapisort.yaml")
	body := "logging:\n  level: debug\noutput:\n  indent: \"\\t\"\n  trailer: false\n  final_newline: true\nmetrics:\n  textfile: /tmp/x.prom\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil { t.Fatal(err) }
	cfg, err := Load(cfgPath)
	if err != nil { t.Fatal(err) }
	if cfg.Logging.Level != "debug" || cfg.Output.IndentString() != "\t" || cfg.Output.TrailerEnabled() || !cfg.Output.FinalNewline {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Metrics.Textfile != "/tmp/x.prom" { t.Fatalf("metrics textfile: %q", cfg.Metrics.Textfile) }
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "hapisort.yaml")
	if err := os.WriteFile(cfgPath, []byte("logging: {level: info}\n"), 0o644); err != nil { t.Fatal(err) }
	t.Setenv("HAPISORT_LOG_LEVEL", "warn")
	t.Setenv("HAPISORT_INDENT", "4")
	cfg, err := Load(cfgPath)
	if err != nil { t.Fatal(err) }
	if cfg.Logging.Level != "warn" { t.Fatalf("env override failed: %+v", cfg.Logging) }
	if cfg.Output.IndentString() != "    " { t.Fatalf("indent override failed: %q", cfg.Output.IndentString()) }
}

func TestLoad_EmptyIndentMeansCompact(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "hapisort.yaml")
	if err := os.WriteFile(cfgPath, []byte("output: {indent: \"\"}\n"), 0o644); err != nil { t.Fatal(err) }
	cfg, err := Load(cfgPath)
	if err != nil { t.Fatal(err) }
	if cfg.Output.Indent == nil || cfg.Output.IndentString() != "" { t.Fatalf("explicit empty indent replaced by default: %q", cfg.Output.IndentString()) }

	t.Setenv("HAPISORT_INDENT", "0")
	cfg, err = Load("")
	if err != nil { t.Fatal(err) }
	if cfg.Output.IndentString() != "" { t.Fatalf("HAPISORT_INDENT=0 should select compact output, got %q", cfg.Output.IndentString()) }

	if (OutputConfig{}).IndentString() != "  " { t.Fatalf("unset indent should default to two spaces") }
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"indent": "output: {indent: \"ab\"}\n",
		"level":  "logging: {level: loud}\n",
		"yaml":   "logging: [\n",
	}
	for name, body := range cases {
		p := filepath.Join(dir, name+".yaml")
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil { t.Fatal(err) }
		if _, err := Load(p); err == nil { t.Fatalf("%s: expected error", name) }
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil { t.Fatalf("expected error for missing file") }
}
