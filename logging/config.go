package logging

import (
	"fmt"
	"strings"
	"time"
)

// Sink names accepted in Config.EnabledSinks. SinkNone disables every
// optional sink; the interaction ledger is configured separately.
const (
	SinkConsole = "console"
	SinkJSON    = "json"
	SinkLedger  = "ledger"
	SinkNone    = "none"
)

// Config tunes the router and its built-in sinks.
type Config struct {
	EnabledSinks     []string
	BufferSize       int
	MinimumSeverity  Severity
	Fields           map[string]any
	JSON             JSONConfig
	Console          ConsoleConfig
	DropWarnInterval time.Duration
}

// JSONConfig controls the newline-delimited interaction log.
type JSONConfig struct {
	FilePath      string
	MaxBatch      int
	FlushInterval time.Duration
}

type ConsoleConfig struct {
	UseColor bool
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{SinkConsole},
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		JSON: JSONConfig{
			FilePath:      "interactions.ndjson",
			MaxBatch:      32,
			FlushInterval: 2 * time.Second,
		},
	}
}

// HasSink reports whether name is enabled. Names compare case-insensitively.
func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return true
		}
	}
	return false
}

// Validate rejects unknown sink names and a JSON sink without a file.
func (c Config) Validate() error {
	for _, name := range c.EnabledSinks {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case SinkConsole, SinkJSON, SinkNone:
		case SinkLedger:
			return fmt.Errorf("sink %q is configured through the ledger path", name)
		default:
			return fmt.Errorf("unknown sink %q", name)
		}
	}
	if c.HasSink(SinkJSON) && strings.TrimSpace(c.JSON.FilePath) == "" {
		return fmt.Errorf("json sink requires a file path")
	}
	return nil
}

func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}
