// Package config reads and writes the window manager's config file.
package config

import "errors"

type Driver interface {
	Exists() (bool, error)
	Write(config Config) error
	Read() (Config, error)
}

// NewStore writes the default config when the driver has none.
func NewStore(driver Driver) (Store, error) {
	exists, err := driver.Exists()
	if err != nil {
		return Store{}, err
	}
	if !exists {
		if err := driver.Write(defaultConfig); err != nil {
			return Store{}, err
		}
	}

	return Store{
		driver: driver,
	}, nil
}

type Store struct {
	driver Driver
}

func (p *Store) GetConfig() (Config, error) {
	return p.driver.Read()
}

func (p *Store) UpdateConfig(fn func(cfg Config) (Config, error)) error {
	cfg, err := p.driver.Read()
	if err != nil {
		return err
	}

	cfg, err = fn(cfg)
	if err != nil {
		return err
	}

	return p.driver.Write(cfg)
}

var errUnchanged = errors.New("unchanged")

// SaveTagLayout sets the layout of every configured tag called name.
func (p *Store) SaveTagLayout(name, layout string) error {
	err := p.UpdateConfig(func(cfg Config) (Config, error) {
		changed := false
		for i := range cfg.Tags {
			if cfg.Tags[i].Name == name && cfg.Tags[i].Layout != layout {
				cfg.Tags[i].Layout = layout
				changed = true
			}
		}
		if !changed {
			return cfg, errUnchanged
		}
		return cfg, nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	return err
}
