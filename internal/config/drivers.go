package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ItsNotGoodName/x-tagwm/internal/core"
	"gopkg.in/yaml.v3"
)

// NewDriver picks the file format from the extension of filePath, defaulting to YAML.
func NewDriver(filePath string) Driver {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		return NewJSON(filePath)
	default:
		return NewYAML(filePath)
	}
}

func NewYAML(filePath string) YAML {
	return YAML{
		filePath: filePath,
	}
}

type YAML struct {
	filePath string
}

func (y YAML) Exists() (bool, error) {
	return core.FileExists(y.filePath)
}

func (y YAML) Read() (Config, error) {
	file, err := os.Open(y.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig.clone(), nil
		}
		return Config{}, err
	}
	defer file.Close()

	var cfg Config
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", y.filePath, err)
	}
	return cfg, nil
}

func (y YAML) Write(cfg Config) error {
	return writeAtomic(y.filePath, func(file *os.File) error {
		enc := yaml.NewEncoder(file)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	})
}

func NewJSON(filePath string) JSON {
	return JSON{
		filePath: filePath,
	}
}

type JSON struct {
	filePath string
}

func (j JSON) Exists() (bool, error) {
	return core.FileExists(j.filePath)
}

func (j JSON) Read() (Config, error) {
	file, err := os.Open(j.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig.clone(), nil
		}
		return Config{}, err
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", j.filePath, err)
	}
	return cfg, nil
}

func (j JSON) Write(cfg Config) error {
	return writeAtomic(j.filePath, func(file *os.File) error {
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	})
}

// writeAtomic writes to a temporary file next to filePath and renames it into place.
func writeAtomic(filePath string, fn func(file *os.File) error) error {
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	filePathTmp := filePath + ".tmp"
	file, err := os.OpenFile(filePathTmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if err := fn(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	return os.Rename(filePathTmp, filePath)
}

func NewMemory() *Memory {
	return &Memory{}
}

// Memory keeps the config in process.
type Memory struct {
	mu  sync.RWMutex
	cfg *Config
}

func (m *Memory) Exists() (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg != nil, nil
}

func (m *Memory) Read() (Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cfg == nil {
		return defaultConfig.clone(), nil
	}
	return m.cfg.clone(), nil
}

func (m *Memory) Write(cfg Config) error {
	cfg = cfg.clone()
	m.mu.Lock()
	m.cfg = &cfg
	m.mu.Unlock()
	return nil
}
