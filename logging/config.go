package logging

import "time"

// Config tunes the journal router and its sinks.
type Config struct {
	EnabledSinks     []string
	BufferSize       int
	MinimumSeverity  Severity
	Fields           map[string]any
	JSON             JSONConfig
	DropWarnInterval time.Duration
}

// JSONConfig tunes the newline-delimited JSON file sink.
type JSONConfig struct {
	FilePath      string
	FlushInterval time.Duration
}

// DefaultConfig returns the configuration used when the host sets
// nothing: console sink only, info severity and up.
func DefaultConfig() Config {
	return Config{
		EnabledSinks:     []string{"console"},
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
		JSON: JSONConfig{
			FlushInterval: 2 * time.Second,
		},
	}
}

// HasSink reports whether name is enabled.
func (c Config) HasSink(name string) bool {
	for _, s := range c.EnabledSinks {
		if s == name {
			return true
		}
	}
	return false
}

// CloneFields returns a copy of the static fields map.
func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	copied := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		copied[k] = v
	}
	return copied
}
