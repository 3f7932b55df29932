package sortercfg

import (
    "fmt"
    "os"
    "strconv"
    "strings"

    "gopkg.in/yaml.v3"
)

type Config struct {
    Logging LoggingConfig `yaml:"logging"`
    Output  OutputConfig  `yaml:"output"`
    Metrics MetricsConfig `yaml:"metrics"`
    Watch   WatchConfig   `yaml:"watch"`
}

type LoggingConfig struct {
    Level  string `yaml:"level"`
    Buffer int    `yaml:"buffer"`
    // stderr (default), stdout, none, or a file path opened for append
    Output string `yaml:"output"`
}

type OutputConfig struct {
    // Indent is repeated once per nesting level; an explicit "" selects
    // compact single-line output.
    Indent *string `yaml:"indent"`
    // Trailer prints "----" and the input path on stdout after writing a file.
    Trailer      *bool `yaml:"trailer"`
    FinalNewline bool  `yaml:"final_newline"`
}

func (o OutputConfig) TrailerEnabled() bool { return o.Trailer == nil || *o.Trailer }

const defaultIndent = "  "

// IndentString returns the configured indent, two spaces when unset.
func (o OutputConfig) IndentString() string {
    if o.Indent == nil { return defaultIndent }
    return *o.Indent
}

type MetricsConfig struct {
    // node_exporter textfile collector target; empty disables
    Textfile string `yaml:"textfile"`
}

type WatchConfig struct {
    DebounceMs int `yaml:"debounce_ms"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
    cfg := &Config{}
    applyDefaults(cfg)
    return cfg
}

// Load reads the YAML file at path, applies defaults and environment
// overrides, and validates the result. An empty path yields the defaults
// with environment overrides applied.
func Load(path string) (*Config, error) {
    var cfg Config
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil {
            return nil, err
        }
        if err := yaml.Unmarshal(b, &cfg); err != nil {
            return nil, fmt.Errorf("parse %s: %w", path, err)
        }
    }
    if v := os.Getenv("HAPISORT_LOG_LEVEL"); v != "" { cfg.Logging.Level = v }
    if v := os.Getenv("HAPISORT_LOG_OUTPUT"); v != "" { cfg.Logging.Output = v }
    if v := os.Getenv("HAPISORT_METRICS_TEXTFILE"); v != "" { cfg.Metrics.Textfile = v }
    if v, ok := os.LookupEnv("HAPISORT_INDENT"); ok {
        // allow "4" as shorthand for four spaces
        if n, err := strconv.Atoi(v); err == nil && n >= 0 {
            v = strings.Repeat(" ", n)
        }
        cfg.Output.Indent = &v
    }
    applyDefaults(&cfg)
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    return &cfg, nil
}

func applyDefaults(cfg *Config) {
    if cfg.Logging.Level == "" { cfg.Logging.Level = "info" }
    if cfg.Logging.Buffer <= 0 { cfg.Logging.Buffer = 1024 }
    if cfg.Logging.Output == "" { cfg.Logging.Output = "stderr" }
    if cfg.Output.Indent == nil {
        indent := defaultIndent
        cfg.Output.Indent = &indent
    }
    if cfg.Watch.DebounceMs <= 0 { cfg.Watch.DebounceMs = 200 }
}

func (c *Config) Validate() error {
    if indent := c.Output.IndentString(); strings.Trim(indent, " \t") != "" {
        return fmt.Errorf("output.indent must contain only spaces or tabs, got %q", indent)
    }
    switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
    case "debug", "info", "warn", "error":
    default:
        return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
    }
    return nil
}

func (c *Config) String() string {
    return fmt.Sprintf("log_level=%s indent=%q trailer=%t", c.Logging.Level, c.Output.IndentString(), c.Output.TrailerEnabled())
}
