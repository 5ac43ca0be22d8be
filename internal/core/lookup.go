package core

import (
	"strconv"
	"strings"

	"github.com/jmylchreest/syntheme/internal/theme"
)

// LookupByName finds a theme by name, ignoring case.
// Returns nil if not found.
func LookupByName(infos []theme.ThemeInfo, name string) *theme.ThemeInfo {
	for i := range infos {
		if strings.EqualFold(infos[i].Name, name) {
			return &infos[i]
		}
	}
	return nil
}

// LookupByIndex finds a theme by its index (1-based for user-friendliness).
// Returns nil if index is out of bounds.
func LookupByIndex(infos []theme.ThemeInfo, index int) *theme.ThemeInfo {
	// Convert to 0-based
	idx := index - 1
	if idx < 0 || idx >= len(infos) {
		return nil
	}
	return &infos[idx]
}

// Search finds themes whose name contains term.
// Case-insensitive substring match.
func Search(infos []theme.ThemeInfo, term string) []theme.ThemeInfo {
	return Filter(infos, FilterOptions{Search: term})
}

// Resolve maps a command-line argument to a theme: an exact name, a 1-based
// index, or a line picked from dmenu output ("3 | Midnight | ...").
// Names take precedence so a theme called "3" is still reachable.
func Resolve(infos []theme.ThemeInfo, arg string, separator string) *theme.ThemeInfo {
	arg = strings.TrimSpace(arg)
	if info := LookupByName(infos, arg); info != nil {
		return info
	}

	if index, err := strconv.Atoi(arg); err == nil {
		return LookupByIndex(infos, index)
	}

	if separator == "" {
		separator = " | "
	}
	parts := strings.Split(arg, separator)
	if len(parts) < 2 {
		return nil
	}
	if index, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
		if info := LookupByIndex(infos, index); info != nil && strings.EqualFold(info.Name, strings.TrimSpace(parts[1])) {
			return info
		}
	}
	for _, part := range parts {
		if info := LookupByName(infos, strings.TrimSpace(part)); info != nil {
			return info
		}
	}
	return nil
}
