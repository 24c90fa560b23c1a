// Package volsagacfg loads the volsaga server configuration file.
package volsagacfg

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Root is the top-level structure of volsaga.yml.
type Root struct {
	Version string  `yaml:"version"`
	Server  Server  `yaml:"server"`
	Store   Store   `yaml:"store"`
	Cache   Cache   `yaml:"cache"`
	Volume  Volume  `yaml:"volume"`
	Events  Events  `yaml:"events"`
	Logging Logging `yaml:"logging"`
}

type Server struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"readTimeout"`
	WriteTimeout    Duration `yaml:"writeTimeout"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// Store selects the repository backend.
type Store struct {
	// URL is memory: | sqlite:<dsn> | bolt:<path>. Quote memory: in YAML
	// ("memory:") or write the bare word memory.
	URL string `yaml:"url"`
}

// Cache fronts volume lookups with an LRU.
type Cache struct {
	Enabled bool     `yaml:"enabled"`
	Size    int      `yaml:"size"`
	TTL     Duration `yaml:"ttl"`
}

type Volume struct {
	DatasetRoot    string `yaml:"datasetRoot"`
	DefaultDriver  string `yaml:"defaultDriver"`
	RetainOnDelete bool   `yaml:"retainOnDelete"`
}

// Events configures domain event delivery. An empty NatsURL disables it.
type Events struct {
	NatsURL       string `yaml:"natsUrl,omitempty"`
	SubjectPrefix string `yaml:"subjectPrefix,omitempty"`
}

type Logging struct {
	Format        string `yaml:"format,omitempty"`        // human (default), text, json
	Level         string `yaml:"level,omitempty"`         // DEBUG, INFO (default), WARN, ERROR
	Output        string `yaml:"output,omitempty"`        // "-" for stderr (default), "none", or a path
	Dir           string `yaml:"dir,omitempty"`           // base for relative output paths
	RetentionDays int    `yaml:"retentionDays,omitempty"` // days to retain log files
}

// Duration wraps time.Duration so it reads as "30s" in YAML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}
