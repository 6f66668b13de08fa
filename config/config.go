package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

/*
Configuration is read from an ini file, e.g.

	[storage]
	data_file        = data/leaf.db
	buffer_pool_size = 64
	in_memory        = false

	[logs]
	log_level = info
	log_file  =

A missing file is not an error: every key has a default.
*/

const DefaultConfigPath = "conf/leafdb.ini"

var ErrInvalidConfig = errors.New("invalid configuration")

type Cfg struct {
	Raw *ini.File

	// storage
	DataFile       string
	BufferPoolSize int // frames
	InMemory       bool

	// logs
	LogLevel string
	LogFile  string
}

func NewCfg() *Cfg {
	return &Cfg{
		Raw:            ini.Empty(),
		DataFile:       "data/leaf.db",
		BufferPoolSize: 64,
		LogLevel:       "info",
	}
}

// Load reads path on top of the defaults. An empty path means DefaultConfigPath.
func Load(path string) (*Cfg, error) {
	cfg := NewCfg()
	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, cfg.Validate()
	}

	raw, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.Raw = raw
	cfg.parseStorageCfg(raw.Section("storage"))
	cfg.parseLogsCfg(raw.Section("logs"))
	return cfg, cfg.Validate()
}

func (cfg *Cfg) parseStorageCfg(section *ini.Section) {
	cfg.DataFile = valueAsString(section, "data_file", cfg.DataFile)
	cfg.BufferPoolSize = section.Key("buffer_pool_size").MustInt(cfg.BufferPoolSize)
	cfg.InMemory = section.Key("in_memory").MustBool(cfg.InMemory)
}

func (cfg *Cfg) parseLogsCfg(section *ini.Section) {
	cfg.LogLevel = valueAsString(section, "log_level", cfg.LogLevel)
	cfg.LogFile = section.Key("log_file").MustString(cfg.LogFile)
}

func valueAsString(section *ini.Section, keyName string, defaultValue string) string {
	value := section.Key(keyName).MustString(defaultValue)
	if value == "" {
		return defaultValue
	}
	return value
}

func (cfg *Cfg) Validate() error {
	if cfg.BufferPoolSize < 1 {
		return errors.Wrapf(ErrInvalidConfig, "buffer_pool_size must be >= 1, got %d", cfg.BufferPoolSize)
	}
	if !cfg.InMemory && cfg.DataFile == "" {
		return errors.Wrap(ErrInvalidConfig, "data_file is required unless in_memory is set")
	}
	return nil
}
