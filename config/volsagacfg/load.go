package volsagacfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvAddr        = "VOLSAGA_ADDR"
	EnvDBURL       = "VOLSAGA_DB_URL"
	EnvNatsURL     = "VOLSAGA_NATS_URL"
	EnvLogFormat   = "VOLSAGA_LOG_FORMAT"
	EnvLogLevel    = "VOLSAGA_LOG_LEVEL"
	EnvDatasetRoot = "VOLSAGA_DATASET_ROOT"
	EnvCacheSize   = "VOLSAGA_CACHE_SIZE"
)

// Default returns the configuration used when no file is given.
func Default() *Root {
	cfg := &Root{Version: "v1"}
	cfg.applyDefaults()
	return cfg
}

// Load reads path, fills defaults and applies environment overrides. An
// empty path yields Default with overrides. Validation is left to Validate.
func Load(path string) (*Root, error) {
	cfg := &Root{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
		}
	}
	cfg.applyDefaults()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	// A plain YAML scalar cannot end in a colon, so "memory" is accepted too.
	if cfg.Store.URL == "memory" {
		cfg.Store.URL = "memory:"
	}
	return cfg, nil
}

func (r *Root) applyDefaults() {
	if r.Version == "" {
		r.Version = "v1"
	}
	if r.Server.Addr == "" {
		r.Server.Addr = ":8080"
	}
	if r.Server.ReadTimeout.Duration == 0 {
		r.Server.ReadTimeout.Duration = 15 * time.Second
	}
	if r.Server.WriteTimeout.Duration == 0 {
		r.Server.WriteTimeout.Duration = 30 * time.Second
	}
	if r.Server.ShutdownTimeout.Duration == 0 {
		r.Server.ShutdownTimeout.Duration = 10 * time.Second
	}
	if r.Store.URL == "" {
		r.Store.URL = "memory:"
	}
	if r.Cache.Size == 0 {
		r.Cache.Size = 1024
	}
	if r.Cache.TTL.Duration == 0 {
		r.Cache.TTL.Duration = time.Minute
	}
	if r.Volume.DatasetRoot == "" {
		r.Volume.DatasetRoot = "tank/volumes"
	}
	if r.Volume.DefaultDriver == "" {
		r.Volume.DefaultDriver = "local"
	}
	if r.Events.SubjectPrefix == "" {
		r.Events.SubjectPrefix = "volsaga"
	}
	if r.Logging.Format == "" {
		r.Logging.Format = "human"
	}
	if r.Logging.Level == "" {
		r.Logging.Level = "INFO"
	}
	if r.Logging.Output == "" {
		r.Logging.Output = "-"
	}
	if r.Logging.RetentionDays == 0 {
		r.Logging.RetentionDays = 7
	}
}

func (r *Root) applyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvAddr, &r.Server.Addr)
	set(EnvDBURL, &r.Store.URL)
	set(EnvNatsURL, &r.Events.NatsURL)
	set(EnvLogFormat, &r.Logging.Format)
	set(EnvLogLevel, &r.Logging.Level)
	set(EnvDatasetRoot, &r.Volume.DatasetRoot)
	if v, ok := lookup(EnvCacheSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheSize, err)
		}
		r.Cache.Size = n
	}
	return nil
}
