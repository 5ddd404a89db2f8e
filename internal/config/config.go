package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/dm/esaudit-go/internal/client"
)

// Thresholds is the tunable diagnostic threshold table. Every finding rule
// reads its boundary from here; the zero value is never used directly, load
// through Load so defaults apply.
type Thresholds struct {
	HeapOldGenPercent float64
	CPUPercent        float64
	GCTimeMs          int64
	DustyShardMB      float64
	MappingFields     int
	MappingFieldsWarn int
	SlowTaskMinutes   float64
	TemplateMaxShards int
}

// Config is the resolved runtime configuration for every esaudit mode.
type Config struct {
	ESURL      string
	ESUsername string
	ESPassword string
	Insecure   bool
	Timeout    time.Duration

	PollInterval time.Duration

	HTTPListen string

	SnapshotDir       string
	SnapshotInterval  time.Duration
	SnapshotRetention int // days

	LogLevel   string
	LogFile    string
	LogMaxSize int // MB
	LogBackups int
	LogMaxAge  int // days

	Thresholds Thresholds
}

// DefaultThresholds returns the shipped threshold table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HeapOldGenPercent: 75.0,
		CPUPercent:        90.0,
		GCTimeMs:          200,
		DustyShardMB:      50.0,
		MappingFields:     1000,
		MappingFieldsWarn: 750,
		SlowTaskMinutes:   5.0,
		TemplateMaxShards: 5,
	}
}

// SetDefaults registers every configuration key with its default value on the
// given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("es.url", "http://localhost:9200")
	v.SetDefault("es.username", "")
	v.SetDefault("es.password", "")
	v.SetDefault("es.insecure", false)
	v.SetDefault("es.timeout", 10*time.Second)

	v.SetDefault("poll.interval", 5*time.Second)

	v.SetDefault("http.listen", ":8844")

	v.SetDefault("snapshots.dir", "snapshots")
	v.SetDefault("snapshots.interval", 300*time.Second)
	v.SetDefault("snapshots.retention-days", 7)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max-size-mb", 100)
	v.SetDefault("log.max-backups", 3)
	v.SetDefault("log.max-age-days", 7)

	th := DefaultThresholds()
	v.SetDefault("thresholds.heap-old-gen-percent", th.HeapOldGenPercent)
	v.SetDefault("thresholds.cpu-percent", th.CPUPercent)
	v.SetDefault("thresholds.gc-time-ms", th.GCTimeMs)
	v.SetDefault("thresholds.dusty-shard-mb", th.DustyShardMB)
	v.SetDefault("thresholds.mapping-fields", th.MappingFields)
	v.SetDefault("thresholds.mapping-fields-warn", th.MappingFieldsWarn)
	v.SetDefault("thresholds.slow-task-minutes", th.SlowTaskMinutes)
	v.SetDefault("thresholds.template-max-shards", th.TemplateMaxShards)
}

// Load resolves the configuration from the given viper instance (defaults,
// config file, environment, bound flags) and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ESURL:      v.GetString("es.url"),
		ESUsername: v.GetString("es.username"),
		ESPassword: v.GetString("es.password"),
		Insecure:   v.GetBool("es.insecure"),
		Timeout:    v.GetDuration("es.timeout"),

		PollInterval: v.GetDuration("poll.interval"),

		HTTPListen: v.GetString("http.listen"),

		SnapshotDir:       v.GetString("snapshots.dir"),
		SnapshotInterval:  v.GetDuration("snapshots.interval"),
		SnapshotRetention: v.GetInt("snapshots.retention-days"),

		LogLevel:   v.GetString("log.level"),
		LogFile:    v.GetString("log.file"),
		LogMaxSize: v.GetInt("log.max-size-mb"),
		LogBackups: v.GetInt("log.max-backups"),
		LogMaxAge:  v.GetInt("log.max-age-days"),

		Thresholds: Thresholds{
			HeapOldGenPercent: v.GetFloat64("thresholds.heap-old-gen-percent"),
			CPUPercent:        v.GetFloat64("thresholds.cpu-percent"),
			GCTimeMs:          v.GetInt64("thresholds.gc-time-ms"),
			DustyShardMB:      v.GetFloat64("thresholds.dusty-shard-mb"),
			MappingFields:     v.GetInt("thresholds.mapping-fields"),
			MappingFieldsWarn: v.GetInt("thresholds.mapping-fields-warn"),
			SlowTaskMinutes:   v.GetFloat64("thresholds.slow-task-minutes"),
			TemplateMaxShards: v.GetInt("thresholds.template-max-shards"),
		},
	}

	if cfg.ESURL == "" {
		return nil, fmt.Errorf("es.url is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll.interval must be positive, got %v", cfg.PollInterval)
	}
	if cfg.SnapshotRetention < 0 {
		return nil, fmt.Errorf("snapshots.retention-days must not be negative, got %d", cfg.SnapshotRetention)
	}

	// Credentials embedded in the URL are a fallback; an explicit
	// es.username (flag, env, or file) wins over them.
	baseURL, user, pass, err := ParseESURI(cfg.ESURL)
	if err != nil {
		return nil, err
	}
	cfg.ESURL = baseURL
	if cfg.ESUsername == "" && user != "" {
		cfg.ESUsername = user
		cfg.ESPassword = pass
	}

	return cfg, nil
}

// ParseESURI parses an Elasticsearch URI and returns the base URL (without
// credentials), username, and password. Returns an error if the URI is
// invalid or has an unsupported scheme.
func ParseESURI(esURI string) (baseURL, username, password string, err error) {
	u, err := url.Parse(esURI)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid URI %q: %w", esURI, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", "", fmt.Errorf("unsupported scheme %q (must be http or https)", u.Scheme)
	}

	if u.Hostname() == "" {
		return "", "", "", fmt.Errorf("invalid URI %q: host is required", esURI)
	}

	if p := u.Port(); p != "" {
		if n, _ := strconv.Atoi(p); n < 1 || n > 65535 {
			return "", "", "", fmt.Errorf("invalid URI %q: port %s out of range", esURI, p)
		}
	}

	if u.User != nil {
		username = u.User.Username()
		password, _ = u.User.Password()
		// Credentials travel in the client config, never in the stored URL.
		u.User = nil
	}

	return u.String(), username, password, nil
}

// ClientConfig maps the ES connection settings onto the client's config.
func (c *Config) ClientConfig() client.ClientConfig {
	return client.ClientConfig{
		BaseURL:            c.ESURL,
		Username:           c.ESUsername,
		Password:           c.ESPassword,
		InsecureSkipVerify: c.Insecure,
		RequestTimeout:     c.Timeout,
	}
}
