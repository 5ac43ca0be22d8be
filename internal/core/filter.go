// Package core provides filtering, sorting, and lookup over theme listings.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/syntheme/internal/theme"
)

// FilterOptions specifies criteria for filtering themes.
type FilterOptions struct {
	Provenance []theme.Provenance // Keep only these provenances (empty=any)
	Since      time.Duration      // Keep user files modified within this window (0=all)
	Search     string             // Case-insensitive name substring
	Limit      int                // Maximum results (0=unlimited)
}

// Filter filters themes based on the provided options.
func Filter(infos []theme.ThemeInfo, opts FilterOptions) []theme.ThemeInfo {
	now := time.Now()
	term := strings.ToLower(opts.Search)
	result := make([]theme.ThemeInfo, 0, len(infos))

	for _, info := range infos {
		// Provenance filter
		if len(opts.Provenance) > 0 && !containsProvenance(opts.Provenance, info.Provenance) {
			continue
		}

		// Time filter; bundled-only themes have no modification time
		if opts.Since > 0 {
			if info.ModTime.IsZero() || info.ModTime.Before(now.Add(-opts.Since)) {
				continue
			}
		}

		// Name filter
		if term != "" && !strings.Contains(strings.ToLower(info.Name), term) {
			continue
		}

		result = append(result, info)
	}

	// Apply limit
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result
}

func containsProvenance(list []theme.Provenance, p theme.Provenance) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

// ParseProvenance parses a comma-separated provenance list such as
// "user,customized". "edited" selects every theme with a user file.
func ParseProvenance(s string) ([]theme.Provenance, error) {
	var result []theme.Provenance
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "":
			continue
		case "bundled", "b":
			result = append(result, theme.ProvenanceBundled)
		case "user", "u":
			result = append(result, theme.ProvenanceUser)
		case "customized", "customised", "c":
			result = append(result, theme.ProvenanceCustomized)
		case "edited", "e":
			result = append(result, theme.ProvenanceUser, theme.ProvenanceCustomized)
		default:
			return nil, fmt.Errorf("invalid provenance %q (use bundled, user, customized or edited)", part)
		}
	}
	return result, nil
}

// ParseDuration parses a duration string with extended formats.
// Supports: 48h, 7d, 1w, 0 (all time)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	// Special case: 0 means no filter (all time)
	if s == "0" || s == "" {
		return 0, nil
	}

	// Handle day suffix (7d -> 168h)
	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	// Handle week suffix (1w -> 168h)
	if weeksStr, found := strings.CutSuffix(s, "w"); found {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	// Standard Go duration parsing
	return time.ParseDuration(s)
}
