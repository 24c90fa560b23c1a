package volsagacfg

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var storeSchemes = []string{"memory:", "sqlite:", "sqlite3:", "bolt:"}

// Validate reports every semantic problem in the configuration, each
// prefixed with its YAML path.
func (r *Root) Validate() error {
	var errs *multierror.Error
	add := func(path, format string, args ...any) {
		errs = multierror.Append(errs, fmt.Errorf("%s: %s", path, fmt.Sprintf(format, args...)))
	}

	if r.Version != "v1" {
		add("version", "unsupported version %q", r.Version)
	}
	if r.Server.Addr == "" {
		add("server.addr", "is required")
	}
	if r.Server.ReadTimeout.Duration < 0 {
		add("server.readTimeout", "must not be negative")
	}
	if r.Server.WriteTimeout.Duration < 0 {
		add("server.writeTimeout", "must not be negative")
	}
	if !hasAnyPrefix(r.Store.URL, storeSchemes) {
		add("store.url", "unsupported scheme in %q", r.Store.URL)
	}
	if r.Cache.Enabled {
		if r.Cache.Size <= 0 {
			add("cache.size", "must be positive")
		}
		if r.Cache.TTL.Duration <= 0 {
			add("cache.ttl", "must be positive")
		}
	}
	if strings.HasPrefix(r.Volume.DatasetRoot, "/") || strings.HasSuffix(r.Volume.DatasetRoot, "/") {
		add("volume.datasetRoot", "%q must not start or end with '/'", r.Volume.DatasetRoot)
	}
	if r.Events.NatsURL != "" && !hasAnyPrefix(r.Events.NatsURL, []string{"nats://", "tls://", "ws://", "wss://"}) {
		add("events.natsUrl", "unsupported scheme in %q", r.Events.NatsURL)
	}
	switch r.Logging.Format {
	case "human", "text", "json":
	default:
		add("logging.format", "must be human, text or json, got %q", r.Logging.Format)
	}
	if _, err := r.Logging.SlogLevel(); err != nil {
		add("logging.level", "%v", err)
	}
	if r.Logging.RetentionDays < 0 {
		add("logging.retentionDays", "must not be negative")
	}
	return errs.ErrorOrNil()
}

// SlogLevel parses Level.
func (l Logging) SlogLevel() (slog.Level, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return lv, nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
