package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BOMSettings identifies the default BOM to wrangle when no explicit
// coordinate is given on the command line.
type BOMSettings struct {
	GroupID    string `mapstructure:"group_id"`
	ArtifactID string `mapstructure:"artifact_id"`
}

// SearchSettings configuration for the class search index.
type SearchSettings struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxResults int  `mapstructure:"max_results"`
}

// Settings application settings
type Settings struct {
	BaseDir        string         `mapstructure:"base_dir"`
	Repositories   []string       `mapstructure:"repositories"`
	Workers        int            `mapstructure:"workers"`
	HTTPTimeout    time.Duration  `mapstructure:"http_timeout"`
	BOM            BOMSettings    `mapstructure:"bom"`
	LegacyPrefixes []string       `mapstructure:"legacy_prefixes"`
	Search         SearchSettings `mapstructure:"search"`
}

// SiteDir is the served static site root.
func (s *Settings) SiteDir() string { return filepath.Join(s.BaseDir, "site") }

// WorkDir holds staging output and process state.
func (s *Settings) WorkDir() string { return filepath.Join(s.BaseDir, "work") }

// JarDir is the javadoc archive cache.
func (s *Settings) JarDir() string { return filepath.Join(s.BaseDir, "jars") }

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("base_dir", "target")
	v.SetDefault("repositories", []string{
		"https://repo1.maven.org/maven2",
		"https://maven.scijava.org/content/groups/public",
	})
	v.SetDefault("workers", 4)
	v.SetDefault("http_timeout", 60*time.Second)
	v.SetDefault("bom.group_id", "org.scijava")
	v.SetDefault("bom.artifact_id", "pom-scijava")
	v.SetDefault("legacy_prefixes", []string{"/SciJava/"})
	v.SetDefault("search.enabled", true)
	v.SetDefault("search.max_results", 20)

	// Environment variables
	v.SetEnvPrefix("JAVADOC_WRANGLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("bom.group_id", "JAVADOC_WRANGLER_BOM_GROUP_ID")
	_ = v.BindEnv("bom.artifact_id", "JAVADOC_WRANGLER_BOM_ARTIFACT_ID")
	_ = v.BindEnv("search.enabled", "JAVADOC_WRANGLER_SEARCH_ENABLED")
	_ = v.BindEnv("search.max_results", "JAVADOC_WRANGLER_SEARCH_MAX_RESULTS")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("base_dir", flags.Lookup("base-dir"))
		_ = v.BindPFlag("repositories", flags.Lookup("repository"))
		_ = v.BindPFlag("workers", flags.Lookup("workers"))
		_ = v.BindPFlag("http_timeout", flags.Lookup("http-timeout"))
		_ = v.BindPFlag("bom.group_id", flags.Lookup("bom-group"))
		_ = v.BindPFlag("bom.artifact_id", flags.Lookup("bom-artifact"))
		_ = v.BindPFlag("legacy_prefixes", flags.Lookup("legacy-prefix"))
		_ = v.BindPFlag("search.enabled", flags.Lookup("search"))
		_ = v.BindPFlag("search.max_results", flags.Lookup("search-max-results"))
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Handle repositories provided via env var as a comma-separated string
	reposEnv := os.Getenv("JAVADOC_WRANGLER_REPOSITORIES")
	if reposEnv != "" {
		if len(settings.Repositories) == 0 || (len(settings.Repositories) == 1 && strings.Contains(settings.Repositories[0], ",")) {
			settings.Repositories = strings.Split(reposEnv, ",")
		}
	}
	settings.Repositories = trimNonEmpty(settings.Repositories)

	// Same for legacy prefixes
	prefixesEnv := os.Getenv("JAVADOC_WRANGLER_LEGACY_PREFIXES")
	if prefixesEnv != "" {
		if len(settings.LegacyPrefixes) == 0 || (len(settings.LegacyPrefixes) == 1 && strings.Contains(settings.LegacyPrefixes[0], ",")) {
			settings.LegacyPrefixes = strings.Split(prefixesEnv, ",")
		}
	}
	settings.LegacyPrefixes = trimNonEmpty(settings.LegacyPrefixes)

	settings.BaseDir = expandHomeDir(settings.BaseDir)

	return &settings, nil
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// trimNonEmpty trims whitespace and removes empty strings from a slice
func trimNonEmpty(s []string) []string {
	var result []string
	for _, str := range s {
		str = strings.TrimSpace(str)
		if str != "" {
			result = append(result, str)
		}
	}
	return result
}

// ValidateSettings checks for incomplete or inconsistent configuration.
func ValidateSettings(s *Settings) error {
	if s.BaseDir == "" {
		return errors.New("base-dir cannot be empty")
	}
	if len(s.Repositories) == 0 {
		return errors.New("at least one repository URL is required")
	}
	for _, repo := range s.Repositories {
		if !strings.HasPrefix(repo, "http://") && !strings.HasPrefix(repo, "https://") {
			return errors.New("repository URL must be http(s): " + repo)
		}
	}
	if s.Workers <= 0 {
		return errors.New("workers must be positive")
	}
	if s.HTTPTimeout <= 0 {
		return errors.New("http-timeout must be positive")
	}
	if s.BOM.GroupID == "" || s.BOM.ArtifactID == "" {
		return errors.New("bom-group and bom-artifact cannot be empty")
	}
	for _, prefix := range s.LegacyPrefixes {
		if !strings.HasPrefix(prefix, "/") || !strings.HasSuffix(prefix, "/") {
			return errors.New("legacy prefix must start and end with a slash: " + prefix)
		}
	}
	if s.Search.Enabled && s.Search.MaxResults <= 0 {
		return errors.New("search-max-results must be positive")
	}
	return nil
}
