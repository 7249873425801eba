package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MeetingConfig holds the raw field texts of one class-component meeting,
// exactly as they appear in a schedule table. Parsing into structured
// form happens in internal/schedule.
type MeetingConfig struct {
	// ClassNbr is the class number used in UIDs, e.g. "1001".
	ClassNbr string `yaml:"class_nbr" json:"class_nbr"`
	// Course is the "<code> - <name>" header, e.g. "COMP1010 - Computing 1".
	Course string `yaml:"course" json:"course"`
	// Component is the meeting kind, e.g. "Lecture" or "Tutorial".
	Component string `yaml:"component" json:"component"`
	// Schedule is the weekly slot, e.g. "Mo 9:00AM - 10:00AM".
	Schedule string `yaml:"schedule" json:"schedule"`
	// Dates is the active range, e.g. "01/02/2024 - 30/05/2024".
	Dates string `yaml:"dates" json:"dates"`
	// Location is the room or building shown on the event.
	Location string `yaml:"location" json:"location"`
}

// FeedConfig describes one remote holiday ICS feed.
type FeedConfig struct {
	// URL is the ICS endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for caching and logging.
	ID string `yaml:"id" json:"id"`
}

// ScrapeConfig points at a live timetable page to pull meeting rows from
// instead of (or in addition to) the meetings list.
type ScrapeConfig struct {
	// URL of the class schedule page.
	URL string `yaml:"url" json:"url"`
	// ReadySelector is a CSS selector that must be visible before the
	// page is considered loaded.
	ReadySelector string `yaml:"ready_selector" json:"ready_selector"`
	// TimeoutSec bounds the whole scrape. Zero means a default.
	TimeoutSec int `yaml:"timeout_sec" json:"timeout_sec"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone the schedule's wall-clock times live in.
	Timezone string `yaml:"timezone" json:"timezone"`

	// CalendarName is the X-WR-CALNAME of the generated document and the
	// basis of the output filename.
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	// UIDPrefix is the stable discriminator prepended to generated event
	// UIDs. Empty means a random prefix per compilation.
	UIDPrefix string `yaml:"uid_prefix" json:"uid_prefix"`

	// OutputDir is where compiled .ics files are written.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// RefreshCron schedules recompilation in daemon mode,
	// e.g. "0 * * * *".
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// Holidays lists non-teaching days as "YYYY-MM-DD" strings.
	Holidays []string `yaml:"holidays" json:"holidays"`

	// HolidayFeeds lists remote ICS feeds whose event days are treated
	// as holidays too.
	HolidayFeeds []FeedConfig `yaml:"holiday_feeds" json:"holiday_feeds"`

	// Meetings is the schedule itself, as raw table field texts.
	Meetings []MeetingConfig `yaml:"meetings" json:"meetings"`

	// Scrape, if non-nil, pulls meeting rows from a live timetable page.
	Scrape *ScrapeConfig `yaml:"scrape,omitempty" json:"scrape,omitempty"`

	// BasicAuth, if non-nil, guards all endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:       "127.0.0.1:8080",
		Timezone:     "Australia/Sydney",
		CalendarName: "My Class Schedule",
		OutputDir:    ".",
		RefreshCron:  "0 * * * *",
		Holidays:     []string{},
		HolidayFeeds: []FeedConfig{},
		Meetings:     []MeetingConfig{},
	}
}

// Normalize fills in missing/zero values so partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Australia/Sydney"
	}
	if c.CalendarName == "" {
		c.CalendarName = "My Class Schedule"
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "0 * * * *"
	}
	if c.Holidays == nil {
		c.Holidays = []string{}
	}
	if c.HolidayFeeds == nil {
		c.HolidayFeeds = []FeedConfig{}
	}
	if c.Meetings == nil {
		c.Meetings = []MeetingConfig{}
	}
}

// Load loads configuration from the given YAML path. A missing file is a
// first run: a default config is written there (0600) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".classcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
