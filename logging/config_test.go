package logging

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "console and json", mutate: func(c *Config) { c.EnabledSinks = []string{"Console", " json "} }},
		{name: "none", mutate: func(c *Config) { c.EnabledSinks = []string{SinkNone} }},
		{name: "unknown", mutate: func(c *Config) { c.EnabledSinks = []string{"syslog"} }, wantErr: true},
		{name: "ledger is not a log sink", mutate: func(c *Config) { c.EnabledSinks = []string{SinkLedger} }, wantErr: true},
		{name: "json without path", mutate: func(c *Config) {
			c.EnabledSinks = []string{SinkJSON}
			c.JSON.FilePath = ""
		}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigHasSinkIgnoresCase(t *testing.T) {
	cfg := Config{EnabledSinks: []string{"JSON"}}
	if !cfg.HasSink(SinkJSON) || cfg.HasSink(SinkConsole) {
		t.Fatalf("unexpected sink lookup for %v", cfg.EnabledSinks)
	}
}
