// Package config manages the adapterctl settings file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"adapterctl/config/models"
	"adapterctl/config/storage"
	"adapterctl/config/validation"
	"adapterctl/internal/crypto"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Environment overrides
const (
	EnvServer    = "ADAPTERCTL_SERVER"
	EnvToken     = "ADAPTERCTL_TOKEN"
	EnvProbeMode = "ADAPTERCTL_PROBE_MODE"
)

// Manager reads and writes the settings file
type Manager struct {
	configPath string
	mu         sync.Mutex
}

// DefaultPath returns $XDG_CONFIG_HOME/adapterctl/config.json, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		xdgConfigHome = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(xdgConfigHome, "adapterctl", "config.json"), nil
}

// NewManager creates a Manager for path, or for DefaultPath when path is empty
func NewManager(path string) (*Manager, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &Manager{configPath: path}, nil
}

// GetConfigPath returns the path to the config file
func (cm *Manager) GetConfigPath() string {
	return cm.configPath
}

// withLock runs fn while holding the flock on the settings lock file. The
// settings file itself is replaced by rename, so the lock lives beside it.
func (cm *Manager) withLock(exclusive bool, fn func() error) error {
	lock, err := os.OpenFile(cm.configPath+".lock", os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	defer lock.Close()

	if err := flock(lock, exclusive); err != nil {
		return fmt.Errorf("failed to lock config file: %w", err)
	}
	defer funlock(lock)

	return fn()
}

// readRaw returns the settings file content, or "{}" when it does not exist.
func (cm *Manager) readRaw() (string, error) {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "{}", nil
		}
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "{}", nil
	}
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("failed to parse config file %s: invalid JSON", cm.configPath)
	}
	return string(data), nil
}

// Load reads the settings file. The token is returned decrypted.
func (cm *Manager) Load() (*models.Settings, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	var raw string
	err := cm.withLock(false, func() error {
		var err error
		raw, err = cm.readRaw()
		return err
	})
	if err != nil {
		return nil, err
	}

	s := decode(raw)
	if s.Token != "" {
		sealer, err := crypto.NewSealer()
		if err != nil {
			return nil, err
		}
		if s.Token, err = sealer.Reveal(s.Token); err != nil {
			return nil, fmt.Errorf("failed to decrypt token: %w", err)
		}
	}
	return s, nil
}

// decode reads settings with gjson so loosely typed values survive: numeric
// timeouts are seconds, a quoted probe limit is still a number.
func decode(raw string) *models.Settings {
	root := gjson.Parse(raw)
	s := &models.Settings{
		Server:              root.Get("server").String(),
		Provider:            root.Get("provider").String(),
		Token:               root.Get("token").String(),
		ProbeMode:           root.Get("probe_mode").String(),
		ProbeTimeout:        durationField(root.Get("probe_timeout")),
		ProbeHost:           root.Get("probe_host").String(),
		MaxConcurrentProbes: int(root.Get("max_concurrent_probes").Int()),
		WatchInterval:       durationField(root.Get("watch_interval")),
		SelectedAdapter:     root.Get("selected_adapter").String(),
		CurrentAdapter:      root.Get("current_adapter").String(),
	}
	return s
}

func durationField(r gjson.Result) string {
	if r.Type == gjson.Number {
		return strconv.FormatFloat(r.Float(), 'f', -1, 64) + "s"
	}
	return r.String()
}

// Save writes all settings, encrypting the token. Unknown keys already in the
// file are kept.
func (cm *Manager) Save(s *models.Settings) error {
	if err := validation.NewValidator().ValidateSettings(*s); err != nil {
		return err
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	out := *s
	if out.Token != "" && !crypto.IsSealed(out.Token) {
		sealer, err := crypto.NewSealer()
		if err != nil {
			return err
		}
		if out.Token, err = sealer.Seal(out.Token); err != nil {
			return fmt.Errorf("failed to encrypt token: %w", err)
		}
	}

	return cm.withLock(true, func() error {
		raw, err := cm.readRaw()
		if err != nil {
			return err
		}
		fields, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("failed to serialize settings: %w", err)
		}
		for _, key := range models.Keys {
			if raw, err = sjson.Delete(raw, key); err != nil {
				return fmt.Errorf("failed to update %s: %w", key, err)
			}
		}
		var mergeErr error
		gjson.ParseBytes(fields).ForEach(func(key, value gjson.Result) bool {
			raw, mergeErr = sjson.SetRaw(raw, key.String(), value.Raw)
			return mergeErr == nil
		})
		if mergeErr != nil {
			return fmt.Errorf("failed to update settings: %w", mergeErr)
		}
		return cm.write(raw)
	})
}

// Get returns one setting as a string. The token is returned decrypted.
func (cm *Manager) Get(key string) (string, error) {
	s, err := cm.Load()
	if err != nil {
		return "", err
	}
	value, ok := s.Field(key)
	if !ok {
		return "", fmt.Errorf("unknown setting: %s", key)
	}
	return value, nil
}

// Set updates one setting in place, leaving the rest of the file untouched.
// An empty value removes the key.
func (cm *Manager) Set(key, value string) error {
	value = strings.TrimSpace(value)
	if _, ok := (models.Settings{}).Field(key); !ok {
		return fmt.Errorf("unknown setting: %s", key)
	}
	if value != "" {
		if err := validation.NewValidator().ValidateField(key, value); err != nil {
			return err
		}
	}

	var stored interface{} = value
	switch {
	case value == "":
	case key == "token":
		sealer, err := crypto.NewSealer()
		if err != nil {
			return err
		}
		enc, err := sealer.Seal(value)
		if err != nil {
			return fmt.Errorf("failed to encrypt token: %w", err)
		}
		stored = enc
	case key == "max_concurrent_probes":
		n, _ := strconv.Atoi(value)
		stored = n
	case key == "server":
		stored = strings.TrimRight(value, "/")
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	return cm.withLock(true, func() error {
		raw, err := cm.readRaw()
		if err != nil {
			return err
		}
		if value == "" {
			raw, err = sjson.Delete(raw, key)
		} else {
			raw, err = sjson.Set(raw, key, stored)
		}
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", key, err)
		}
		return cm.write(raw)
	})
}

// SetCurrentAdapter records the adapter the operator picked last.
func (cm *Manager) SetCurrentAdapter(name string) error {
	return cm.Set("current_adapter", name)
}

// SetSelectedAdapter records the selected adapter port.
func (cm *Manager) SetSelectedAdapter(port string) error {
	return cm.Set("selected_adapter", port)
}

// Restore replaces the settings file with its newest backup and returns the
// backup's path.
func (cm *Manager) Restore() (string, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	var restored string
	err := cm.withLock(true, func() error {
		var err error
		restored, err = storage.NewBackups(storage.DefaultBackupRetention).RestoreLatest(cm.configPath)
		return err
	})
	return restored, err
}

func (cm *Manager) write(raw string) error {
	pretty := gjson.Get(raw, "@pretty").Raw
	if pretty == "" {
		pretty = raw
	}
	return storage.AtomicFileUpdate(cm.configPath, []byte(pretty), true)
}

// Resolved is the effective runtime configuration after defaults and
// environment overrides.
type Resolved struct {
	models.Settings
	ProbeTimeoutDuration  time.Duration
	WatchIntervalDuration time.Duration
}

// Resolve fills defaults, applies environment overrides from getenv and
// parses durations. getenv is usually os.Getenv.
func Resolve(s models.Settings, getenv func(string) string) (*Resolved, error) {
	if getenv != nil {
		if v := strings.TrimSpace(getenv(EnvServer)); v != "" {
			s.Server = v
		}
		if v := strings.TrimSpace(getenv(EnvToken)); v != "" {
			s.Token = v
		}
		if v := strings.TrimSpace(getenv(EnvProbeMode)); v != "" {
			s.ProbeMode = v
		}
	}
	s = s.WithDefaults()
	s.Server = strings.TrimRight(s.Server, "/")

	if err := validation.NewValidator().ValidateSettings(s); err != nil {
		return nil, err
	}
	timeout, err := validation.ParseDuration(s.ProbeTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid probe_timeout: %w", err)
	}
	interval, err := validation.ParseDuration(s.WatchInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid watch_interval: %w", err)
	}
	return &Resolved{
		Settings:              s,
		ProbeTimeoutDuration:  timeout,
		WatchIntervalDuration: interval,
	}, nil
}
