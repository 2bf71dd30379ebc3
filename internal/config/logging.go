package config

import (
	"context"
	"log/slog"
)

// Log logs the resolved settings in a granular way, skipping irrelevant ones
func Log(s *Settings) {
	LogWithLogger(s, slog.Default())
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	logger.InfoContext(ctx, "Config: base_dir", "value", s.BaseDir)
	logger.InfoContext(ctx, "Config: repositories", "value", s.Repositories)
	logger.InfoContext(ctx, "Config: workers", "value", s.Workers)
	logger.InfoContext(ctx, "Config: http_timeout", "value", s.HTTPTimeout)
	logger.InfoContext(ctx, "Config: bom", "value", s.BOM.GroupID+":"+s.BOM.ArtifactID)
	logger.InfoContext(ctx, "Config: legacy_prefixes", "value", s.LegacyPrefixes)
	logger.InfoContext(ctx, "Config: search.enabled", "value", s.Search.Enabled)
	if s.Search.Enabled {
		logger.InfoContext(ctx, "Config: search.max_results", "value", s.Search.MaxResults)
	}
}

// SettingsLogValue returns a slog.Value describing the resolved settings
func SettingsLogValue(s Settings) slog.Value {
	return slog.GroupValue(
		slog.String("base_dir", s.BaseDir),
		slog.Any("repositories", s.Repositories),
		slog.Int("workers", s.Workers),
		slog.Duration("http_timeout", s.HTTPTimeout),
		slog.String("bom", s.BOM.GroupID+":"+s.BOM.ArtifactID),
		slog.Any("legacy_prefixes", s.LegacyPrefixes),
		slog.Bool("search_enabled", s.Search.Enabled),
	)
}
