package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("base-dir", "d", "", "Base directory for site, work, and jar cache")
	flags.StringSliceP("repository", "r", nil, "Maven repository base URLs (comma-separated)")
	flags.IntP("workers", "w", 0, "Parallel javadoc archive downloads")
	flags.Duration("http-timeout", 0, "HTTP timeout for repository requests")
	flags.StringP("bom-group", "g", "", "Default BOM groupId")
	flags.StringP("bom-artifact", "a", "", "Default BOM artifactId")
	flags.StringSliceP("legacy-prefix", "l", nil, "Legacy URL prefixes aliased to the latest BOM (comma-separated)")
	flags.BoolP("search", "s", true, "Maintain the class search index")
	flags.Int("search-max-results", 0, "Maximum results returned by search tools")
}
