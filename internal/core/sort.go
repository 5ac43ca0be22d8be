package core

import (
	"sort"
	"strings"

	"github.com/jmylchreest/syntheme/internal/theme"
)

// SortField represents a field to sort by.
type SortField string

const (
	// SortByName keeps the manager's display order.
	SortByName       SortField = "name"
	SortByModified   SortField = "modified"
	SortByProvenance SortField = "provenance"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField // Field to sort by
	Order SortOrder // Sort order (asc/desc)
}

// DefaultSortOptions returns default sort options (display order).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByName,
		Order: SortAsc,
	}
}

// Sort sorts themes in place. The input is expected in display order, which
// the sort is stable against, so ties keep their relative position.
func Sort(infos []theme.ThemeInfo, opts SortOptions) {
	if len(infos) == 0 {
		return
	}

	if opts.Field == SortByName || opts.Field == "" {
		if opts.Order == SortDesc {
			for i, j := 0, len(infos)-1; i < j; i, j = i+1, j-1 {
				infos[i], infos[j] = infos[j], infos[i]
			}
		}
		return
	}

	sort.SliceStable(infos, func(i, j int) bool {
		a, b := infos[i], infos[j]
		switch opts.Field {
		case SortByModified:
			if opts.Order == SortDesc {
				return a.ModTime.After(b.ModTime)
			}
			return a.ModTime.Before(b.ModTime)
		case SortByProvenance:
			if opts.Order == SortDesc {
				return a.Provenance > b.Provenance
			}
			return a.Provenance < b.Provenance
		default:
			return false
		}
	})
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "n", "":
		return SortByName, nil
	case "modified", "mtime", "time", "m":
		return SortByModified, nil
	case "provenance", "source", "p":
		return SortByProvenance, nil
	default:
		return SortByName, nil
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "a":
		return SortAsc, nil
	case "desc", "descending", "d":
		return SortDesc, nil
	default:
		return SortAsc, nil
	}
}
