package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"adapterctl/config/models"
	"adapterctl/internal/probe"
	"adapterctl/internal/utils"
)

// Validator validates settings
type Validator struct {
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSettings validates every populated field of s
func (v *Validator) ValidateSettings(s models.Settings) error {
	for _, key := range models.Keys {
		value, _ := s.Field(key)
		if value == "" || (key == "max_concurrent_probes" && value == "0") {
			continue
		}
		if err := v.ValidateField(key, value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateField validates a single setting given as a string
func (v *Validator) ValidateField(key, value string) error {
	switch key {
	case "server":
		if !utils.ValidateURL(value) {
			return fmt.Errorf("invalid server URL: %s", value)
		}
	case "probe_mode":
		if value != probe.ModeHTTP && value != probe.ModeTCP {
			return fmt.Errorf("invalid probe mode %q (expected %s or %s)", value, probe.ModeHTTP, probe.ModeTCP)
		}
	case "probe_timeout", "watch_interval":
		if _, err := ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	case "max_concurrent_probes":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid max_concurrent_probes %q (expected a non-negative integer)", value)
		}
	case "selected_adapter":
		if strings.ContainsAny(value, " \t\n") {
			return fmt.Errorf("invalid selected_adapter %q", value)
		}
	case "provider", "token", "probe_host", "current_adapter":
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}
	return nil
}

// ParseDuration accepts a Go duration ("4s", "500ms") or a bare number of
// seconds. Values must be positive.
func ParseDuration(value string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%q is not a duration", value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return d, nil
}
