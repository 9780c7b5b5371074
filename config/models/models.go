package models

import "strconv"

// Defaults for unset fields
const (
	DefaultServer        = "http://localhost:9081"
	DefaultProbeMode     = "http"
	DefaultProbeTimeout  = "4s"
	DefaultProbeHost     = "localhost"
	DefaultWatchInterval = "5s"
)

// Settings is the adapterctl settings file.
type Settings struct {
	Server              string `json:"server,omitempty"`
	Provider            string `json:"provider,omitempty"`
	Token               string `json:"token,omitempty"` // encrypted on disk
	ProbeMode           string `json:"probe_mode,omitempty"`
	ProbeTimeout        string `json:"probe_timeout,omitempty"`
	ProbeHost           string `json:"probe_host,omitempty"`
	MaxConcurrentProbes int    `json:"max_concurrent_probes,omitempty"`
	WatchInterval       string `json:"watch_interval,omitempty"`
	SelectedAdapter     string `json:"selected_adapter,omitempty"`
	CurrentAdapter      string `json:"current_adapter,omitempty"`
}

// Keys lists the settings that can be read and written by name.
var Keys = []string{
	"server",
	"provider",
	"token",
	"probe_mode",
	"probe_timeout",
	"probe_host",
	"max_concurrent_probes",
	"watch_interval",
	"selected_adapter",
	"current_adapter",
}

// WithDefaults returns a copy of s with empty fields filled in.
func (s Settings) WithDefaults() Settings {
	if s.Server == "" {
		s.Server = DefaultServer
	}
	if s.ProbeMode == "" {
		s.ProbeMode = DefaultProbeMode
	}
	if s.ProbeTimeout == "" {
		s.ProbeTimeout = DefaultProbeTimeout
	}
	if s.ProbeHost == "" {
		s.ProbeHost = DefaultProbeHost
	}
	if s.WatchInterval == "" {
		s.WatchInterval = DefaultWatchInterval
	}
	return s
}

// Field returns the value of key as a string.
func (s Settings) Field(key string) (string, bool) {
	switch key {
	case "server":
		return s.Server, true
	case "provider":
		return s.Provider, true
	case "token":
		return s.Token, true
	case "probe_mode":
		return s.ProbeMode, true
	case "probe_timeout":
		return s.ProbeTimeout, true
	case "probe_host":
		return s.ProbeHost, true
	case "max_concurrent_probes":
		return strconv.Itoa(s.MaxConcurrentProbes), true
	case "watch_interval":
		return s.WatchInterval, true
	case "selected_adapter":
		return s.SelectedAdapter, true
	case "current_adapter":
		return s.CurrentAdapter, true
	}
	return "", false
}
