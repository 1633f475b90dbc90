package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "UTC"
	configPathEnv    = "WAVECREST_CONFIG"
	databasePathEnv  = "DATABASE_PATH"
	metaTokenEnv     = "META_ACCESS_TOKEN"
	metaAccountEnv   = "META_AD_ACCOUNT_ID"
	metaPageEnv      = "META_PAGE_ID"
	liveURLEnv       = "LIVE_SYNC_URL"
	legacyLiveURLEnv = "RAILWAY_URL"
	syncKeyEnv       = "SYNC_API_KEY"
	logLevelEnv      = "LOG_LEVEL"
	portEnv          = "PORT"
)

// Config holds every setting needed across the application.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Meta      MetaConfig      `yaml:"meta"`
	Instagram InstagramConfig `yaml:"instagram"`
	Sync      SyncConfig      `yaml:"sync"`
	Server    ServerConfig    `yaml:"server"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// MetaConfig holds Graph API credentials.
type MetaConfig struct {
	BaseURL     string        `yaml:"baseUrl"`
	APIVersion  string        `yaml:"apiVersion"`
	AccessToken string        `yaml:"accessToken"`
	AdAccountID string        `yaml:"adAccountId"`
	PageID      string        `yaml:"pageId"`
	Timeout     time.Duration `yaml:"timeout"`
	MetricDays  int           `yaml:"metricDays"`
}

// Configured reports whether campaign and metric sync can run.
func (m MetaConfig) Configured() bool {
	return m.AccessToken != "" && m.AdAccountID != ""
}

// LeadsConfigured reports whether lead sync can run.
func (m MetaConfig) LeadsConfigured() bool {
	return m.AccessToken != "" && m.PageID != ""
}

// InstagramConfig tunes the public profile scanner.
type InstagramConfig struct {
	BaseURL   string        `yaml:"baseUrl"`
	AppID     string        `yaml:"appId"`
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxPosts  int           `yaml:"maxPosts"`
}

// SyncConfig describes the seed export and its publication.
type SyncConfig struct {
	SeedFile      string `yaml:"seedFile"`
	RepoDir       string `yaml:"repoDir"`
	Remote        string `yaml:"remote"`
	Branch        string `yaml:"branch"`
	CommitMessage string `yaml:"commitMessage"`
	LiveURL       string `yaml:"liveUrl"`
	SyncKey       string `yaml:"syncKey"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SchedulerConfig defines how often serve mode runs the ads sync.
type SchedulerConfig struct {
	Interval time.Duration  `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present), the .env file and then
// environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	// .env never overrides variables already set in the process.
	_ = godotenv.Load()

	cfg.applyEnvOverrides()
	cfg.bindTimezone()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(metaTokenEnv)); v != "" {
		c.Meta.AccessToken = v
	}
	if v := strings.TrimSpace(os.Getenv(metaAccountEnv)); v != "" {
		c.Meta.AdAccountID = v
	}
	if v := strings.TrimSpace(os.Getenv(metaPageEnv)); v != "" {
		c.Meta.PageID = v
	}

	if v := os.Getenv(liveURLEnv); v != "" {
		c.Sync.LiveURL = v
	} else if v := os.Getenv(legacyLiveURLEnv); v != "" {
		c.Sync.LiveURL = v
	}
	if v := os.Getenv(syncKeyEnv); v != "" {
		c.Sync.SyncKey = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(portEnv); v != "" {
		c.Server.Addr = ":" + v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}

	base.Meta = mergeMeta(base.Meta, override.Meta)

	if override.Instagram.BaseURL != "" {
		base.Instagram.BaseURL = override.Instagram.BaseURL
	}
	if override.Instagram.AppID != "" {
		base.Instagram.AppID = override.Instagram.AppID
	}
	if override.Instagram.UserAgent != "" {
		base.Instagram.UserAgent = override.Instagram.UserAgent
	}
	if override.Instagram.Timeout > 0 {
		base.Instagram.Timeout = override.Instagram.Timeout
	}
	if override.Instagram.MaxPosts > 0 {
		base.Instagram.MaxPosts = override.Instagram.MaxPosts
	}

	base.Sync = mergeSync(base.Sync, override.Sync)

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	return base
}

func mergeMeta(base, override MetaConfig) MetaConfig {
	if override.BaseURL != "" {
		base.BaseURL = override.BaseURL
	}
	if override.APIVersion != "" {
		base.APIVersion = override.APIVersion
	}
	if override.AccessToken != "" {
		base.AccessToken = override.AccessToken
	}
	if override.AdAccountID != "" {
		base.AdAccountID = override.AdAccountID
	}
	if override.PageID != "" {
		base.PageID = override.PageID
	}
	if override.Timeout > 0 {
		base.Timeout = override.Timeout
	}
	if override.MetricDays > 0 {
		base.MetricDays = override.MetricDays
	}
	return base
}

func mergeSync(base, override SyncConfig) SyncConfig {
	if override.SeedFile != "" {
		base.SeedFile = override.SeedFile
	}
	if override.RepoDir != "" {
		base.RepoDir = override.RepoDir
	}
	if override.Remote != "" {
		base.Remote = override.Remote
	}
	if override.Branch != "" {
		base.Branch = override.Branch
	}
	if override.CommitMessage != "" {
		base.CommitMessage = override.CommitMessage
	}
	if override.LiveURL != "" {
		base.LiveURL = override.LiveURL
	}
	if override.SyncKey != "" {
		base.SyncKey = override.SyncKey
	}
	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database: DatabaseConfig{Path: "data/wavecrest.db"},
		Meta: MetaConfig{
			BaseURL:    "https://graph.facebook.com",
			APIVersion: "v21.0",
			Timeout:    30 * time.Second,
			MetricDays: 30,
		},
		Instagram: InstagramConfig{
			BaseURL:   "https://www.instagram.com",
			AppID:     "936619743392459",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
			Timeout:   20 * time.Second,
			MaxPosts:  10,
		},
		Sync: SyncConfig{
			SeedFile:      "tools/seed_competitors.json",
			RepoDir:       ".",
			Remote:        "origin",
			Branch:        "main",
			CommitMessage: "Update competitor data from local scrape",
		},
		Server:    ServerConfig{Addr: ":8080"},
		Scheduler: SchedulerConfig{Interval: 24 * time.Hour, Timezone: defaultTimezone, location: tz},
		Logging:   LoggingConfig{Level: "info"},
	}
}
