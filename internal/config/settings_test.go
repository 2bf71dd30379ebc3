package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadSettings_Defaults(t *testing.T) {
	_ = os.Unsetenv("JAVADOC_WRANGLER_BASE_DIR")
	_ = os.Unsetenv("JAVADOC_WRANGLER_REPOSITORIES")
	_ = os.Unsetenv("JAVADOC_WRANGLER_WORKERS")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if settings.BaseDir != "target" {
		t.Errorf("Expected default base dir 'target', got '%s'", settings.BaseDir)
	}
	if len(settings.Repositories) != 2 {
		t.Fatalf("Expected 2 default repositories, got %d", len(settings.Repositories))
	}
	if settings.Repositories[0] != "https://repo1.maven.org/maven2" {
		t.Errorf("Expected Maven Central first, got '%s'", settings.Repositories[0])
	}
	if settings.Workers != 4 {
		t.Errorf("Expected default workers 4, got %d", settings.Workers)
	}
	if settings.HTTPTimeout != 60*time.Second {
		t.Errorf("Expected default HTTP timeout 60s, got %v", settings.HTTPTimeout)
	}
	if settings.BOM.GroupID != "org.scijava" || settings.BOM.ArtifactID != "pom-scijava" {
		t.Errorf("Expected default BOM org.scijava:pom-scijava, got %s:%s", settings.BOM.GroupID, settings.BOM.ArtifactID)
	}
	if len(settings.LegacyPrefixes) != 1 || settings.LegacyPrefixes[0] != "/SciJava/" {
		t.Errorf("Expected default legacy prefix '/SciJava/', got %v", settings.LegacyPrefixes)
	}
	if !settings.Search.Enabled {
		t.Error("Expected search enabled by default")
	}
	if settings.Search.MaxResults != 20 {
		t.Errorf("Expected default search max results 20, got %d", settings.Search.MaxResults)
	}
}

func TestLoadSettings_EnvVars(t *testing.T) {
	t.Setenv("JAVADOC_WRANGLER_BASE_DIR", "/srv/javadoc")
	t.Setenv("JAVADOC_WRANGLER_WORKERS", "8")
	t.Setenv("JAVADOC_WRANGLER_BOM_GROUP_ID", "sc.fiji")
	t.Setenv("JAVADOC_WRANGLER_BOM_ARTIFACT_ID", "pom-fiji")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if settings.BaseDir != "/srv/javadoc" {
		t.Errorf("Expected base dir '/srv/javadoc', got '%s'", settings.BaseDir)
	}
	if settings.Workers != 8 {
		t.Errorf("Expected workers 8, got %d", settings.Workers)
	}
	if settings.BOM.GroupID != "sc.fiji" {
		t.Errorf("Expected BOM group 'sc.fiji', got '%s'", settings.BOM.GroupID)
	}
	if settings.BOM.ArtifactID != "pom-fiji" {
		t.Errorf("Expected BOM artifact 'pom-fiji', got '%s'", settings.BOM.ArtifactID)
	}
}

func TestLoadSettings_Repositories_EnvVar(t *testing.T) {
	t.Setenv("JAVADOC_WRANGLER_REPOSITORIES", "https://repo.example.org/a, https://repo.example.org/b")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if len(settings.Repositories) != 2 {
		t.Fatalf("Expected 2 repositories, got %d: %v", len(settings.Repositories), settings.Repositories)
	}
	if settings.Repositories[0] != "https://repo.example.org/a" {
		t.Errorf("Expected trimmed first repository, got '%s'", settings.Repositories[0])
	}
	if settings.Repositories[1] != "https://repo.example.org/b" {
		t.Errorf("Expected trimmed second repository, got '%s'", settings.Repositories[1])
	}
}

func TestLoadSettings_LegacyPrefixes_EnvVar(t *testing.T) {
	t.Setenv("JAVADOC_WRANGLER_LEGACY_PREFIXES", "/SciJava/,/Fiji/")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if len(settings.LegacyPrefixes) != 2 {
		t.Fatalf("Expected 2 legacy prefixes, got %d: %v", len(settings.LegacyPrefixes), settings.LegacyPrefixes)
	}
	if settings.LegacyPrefixes[1] != "/Fiji/" {
		t.Errorf("Expected '/Fiji/', got '%s'", settings.LegacyPrefixes[1])
	}
}

func TestLoadSettings_InvalidConfig(t *testing.T) {
	t.Setenv("JAVADOC_WRANGLER_WORKERS", "not-a-number")

	_, err := LoadSettings()
	if err == nil {
		t.Fatal("Expected error for invalid workers type")
	}
}

func TestLoadSettings_BaseDirExpandHome(t *testing.T) {
	t.Setenv("JAVADOC_WRANGLER_BASE_DIR", "~/javadoc-site")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, "javadoc-site")
	if settings.BaseDir != expected {
		t.Errorf("Expected base dir '%s', got '%s'", expected, settings.BaseDir)
	}
}

func TestLoadSettingsWithFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("JAVADOC_WRANGLER_BASE_DIR", "/env/path")
	t.Setenv("JAVADOC_WRANGLER_WORKERS", "2")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("base-dir", "", "")
	flags.Int("workers", 0, "")
	_ = flags.Set("base-dir", "/flag/path")
	_ = flags.Set("workers", "16")

	settings, err := LoadSettingsWithFlags(flags)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if settings.BaseDir != "/flag/path" {
		t.Errorf("Expected CLI base dir '/flag/path', got '%s'", settings.BaseDir)
	}
	if settings.Workers != 16 {
		t.Errorf("Expected CLI workers 16, got %d", settings.Workers)
	}
}

func TestLoadSettingsWithFlags_AllFlagTypes(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("base-dir", "", "")
	flags.StringSlice("repository", nil, "")
	flags.Int("workers", 0, "")
	flags.Duration("http-timeout", 0, "")
	flags.String("bom-group", "", "")
	flags.String("bom-artifact", "", "")
	flags.StringSlice("legacy-prefix", nil, "")
	flags.Bool("search", false, "")
	flags.Int("search-max-results", 0, "")

	_ = flags.Set("base-dir", "/opt/javadoc")
	_ = flags.Set("repository", "https://repo.example.org/m2")
	_ = flags.Set("workers", "3")
	_ = flags.Set("http-timeout", "90s")
	_ = flags.Set("bom-group", "net.imagej")
	_ = flags.Set("bom-artifact", "pom-imagej")
	_ = flags.Set("legacy-prefix", "/ImageJ/")
	_ = flags.Set("search", "false")
	_ = flags.Set("search-max-results", "50")

	settings, err := LoadSettingsWithFlags(flags)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if settings.BaseDir != "/opt/javadoc" {
		t.Errorf("Expected base dir '/opt/javadoc', got '%s'", settings.BaseDir)
	}
	if len(settings.Repositories) != 1 || settings.Repositories[0] != "https://repo.example.org/m2" {
		t.Errorf("Expected repository from flag, got %v", settings.Repositories)
	}
	if settings.Workers != 3 {
		t.Errorf("Expected workers 3, got %d", settings.Workers)
	}
	if settings.HTTPTimeout != 90*time.Second {
		t.Errorf("Expected HTTP timeout 90s, got %v", settings.HTTPTimeout)
	}
	if settings.BOM.GroupID != "net.imagej" || settings.BOM.ArtifactID != "pom-imagej" {
		t.Errorf("Expected BOM net.imagej:pom-imagej, got %s:%s", settings.BOM.GroupID, settings.BOM.ArtifactID)
	}
	if len(settings.LegacyPrefixes) != 1 || settings.LegacyPrefixes[0] != "/ImageJ/" {
		t.Errorf("Expected legacy prefix '/ImageJ/', got %v", settings.LegacyPrefixes)
	}
	if settings.Search.Enabled {
		t.Error("Expected search disabled from flag")
	}
	if settings.Search.MaxResults != 50 {
		t.Errorf("Expected search max results 50, got %d", settings.Search.MaxResults)
	}
}

func TestLoadSettingsWithFlags_NilFlags(t *testing.T) {
	_ = os.Unsetenv("JAVADOC_WRANGLER_WORKERS")

	settings, err := LoadSettingsWithFlags(nil)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if settings.Workers != 4 {
		t.Errorf("Expected default workers 4, got %d", settings.Workers)
	}
}

func TestSettings_Dirs(t *testing.T) {
	s := &Settings{BaseDir: "/srv/javadoc"}
	if s.SiteDir() != filepath.Join("/srv/javadoc", "site") {
		t.Errorf("SiteDir = %q", s.SiteDir())
	}
	if s.WorkDir() != filepath.Join("/srv/javadoc", "work") {
		t.Errorf("WorkDir = %q", s.WorkDir())
	}
	if s.JarDir() != filepath.Join("/srv/javadoc", "jars") {
		t.Errorf("JarDir = %q", s.JarDir())
	}
}

// --- ValidateSettings Tests ---

func validSettings() *Settings {
	return &Settings{
		BaseDir:        "target",
		Repositories:   []string{"https://repo1.maven.org/maven2"},
		Workers:        4,
		HTTPTimeout:    60 * time.Second,
		BOM:            BOMSettings{GroupID: "org.scijava", ArtifactID: "pom-scijava"},
		LegacyPrefixes: []string{"/SciJava/"},
		Search:         SearchSettings{Enabled: true, MaxResults: 20},
	}
}

func TestValidateSettings_Valid(t *testing.T) {
	if err := ValidateSettings(validSettings()); err != nil {
		t.Errorf("Expected no error for valid settings, got: %v", err)
	}
}

func TestValidateSettings_EmptyBaseDir(t *testing.T) {
	s := validSettings()
	s.BaseDir = ""
	err := ValidateSettings(s)
	if err == nil {
		t.Fatal("Expected error for empty base dir")
	}
	if !strings.Contains(err.Error(), "base-dir cannot be empty") {
		t.Errorf("Expected 'base-dir cannot be empty' in error, got: %v", err)
	}
}

func TestValidateSettings_NoRepositories(t *testing.T) {
	s := validSettings()
	s.Repositories = nil
	err := ValidateSettings(s)
	if err == nil {
		t.Fatal("Expected error for missing repositories")
	}
	if !strings.Contains(err.Error(), "at least one repository") {
		t.Errorf("Expected 'at least one repository' in error, got: %v", err)
	}
}

func TestValidateSettings_BadRepositoryURL(t *testing.T) {
	s := validSettings()
	s.Repositories = []string{"ftp://repo.example.org"}
	err := ValidateSettings(s)
	if err == nil {
		t.Fatal("Expected error for non-http repository URL")
	}
	if !strings.Contains(err.Error(), "must be http(s)") {
		t.Errorf("Expected 'must be http(s)' in error, got: %v", err)
	}
}

func TestValidateSettings_InvalidWorkers(t *testing.T) {
	s := validSettings()
	s.Workers = 0
	err := ValidateSettings(s)
	if err == nil {
		t.Fatal("Expected error for zero workers")
	}
	if !strings.Contains(err.Error(), "workers must be positive") {
		t.Errorf("Expected 'workers must be positive' in error, got: %v", err)
	}
}

func TestValidateSettings_InvalidTimeout(t *testing.T) {
	s := validSettings()
	s.HTTPTimeout = 0
	if err := ValidateSettings(s); err == nil {
		t.Fatal("Expected error for zero HTTP timeout")
	}
}

func TestValidateSettings_EmptyBOM(t *testing.T) {
	s := validSettings()
	s.BOM.ArtifactID = ""
	err := ValidateSettings(s)
	if err == nil {
		t.Fatal("Expected error for empty BOM artifact")
	}
	if !strings.Contains(err.Error(), "bom-group and bom-artifact") {
		t.Errorf("Expected 'bom-group and bom-artifact' in error, got: %v", err)
	}
}

func TestValidateSettings_InvalidLegacyPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"no leading slash", "SciJava/"},
		{"no trailing slash", "/SciJava"},
		{"bare word", "SciJava"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			s.LegacyPrefixes = []string{tt.prefix}
			err := ValidateSettings(s)
			if err == nil {
				t.Fatalf("Expected error for prefix %q", tt.prefix)
			}
			if !strings.Contains(err.Error(), "start and end with a slash") {
				t.Errorf("Expected 'start and end with a slash' in error, got: %v", err)
			}
		})
	}
}

func TestValidateSettings_InvalidSearchMaxResults(t *testing.T) {
	s := validSettings()
	s.Search.MaxResults = 0
	err := ValidateSettings(s)
	if err == nil {
		t.Fatal("Expected error for zero search max results")
	}
	if !strings.Contains(err.Error(), "search-max-results must be positive") {
		t.Errorf("Expected 'search-max-results must be positive' in error, got: %v", err)
	}

	// Not enforced when search is disabled.
	s.Search.Enabled = false
	if err := ValidateSettings(s); err != nil {
		t.Errorf("Expected no error with search disabled, got: %v", err)
	}
}

// --- Helper Function Tests ---

func TestExpandHomeDir(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde prefix", "~/test", filepath.Join(home, "test")},
		{"tilde only", "~", home},
		{"no tilde", "/absolute/path", "/absolute/path"},
		{"tilde in middle", "/path/~/test", "/path/~/test"},
		{"relative path", "relative/path", "relative/path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandHomeDir(tt.input)
			if result != tt.expected {
				t.Errorf("expandHomeDir(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTrimNonEmpty(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"no empties", []string{"a", "b"}, []string{"a", "b"}},
		{"with empties", []string{"a", "", "b"}, []string{"a", "b"}},
		{"with spaces", []string{" a ", "  "}, []string{"a"}},
		{"nil input", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := trimNonEmpty(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("trimNonEmpty(%v) = %v, want %v", tt.input, result, tt.expected)
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("trimNonEmpty(%v) = %v, want %v", tt.input, result, tt.expected)
					break
				}
			}
		})
	}
}
