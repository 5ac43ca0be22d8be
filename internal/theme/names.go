package theme

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Name limits.
const (
	maxNameLength    = 200
	untitledBaseName = "Untitled"
	copySuffix       = " copy"
)

// forbiddenNameChars cannot appear in a theme name because the name is used
// as a file name on every platform we ship to.
const forbiddenNameChars = `/\:*?"<>|`

// ValidateName normalises a proposed theme name and reports whether it is
// usable as a file name. It does not check for collisions.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)

	switch {
	case name == "":
		return "", fmt.Errorf("%w: name is empty", ErrInvalidName)
	case strings.HasPrefix(name, "."):
		return "", fmt.Errorf("%w: %q must not start with a dot", ErrInvalidName, name)
	case len(name) > maxNameLength:
		return "", fmt.Errorf("%w: name must be %d bytes or fewer", ErrInvalidName, maxNameLength)
	case strings.ContainsAny(name, forbiddenNameChars):
		return "", fmt.Errorf("%w: %q must not contain any of %s", ErrInvalidName, name, forbiddenNameChars)
	case strings.ContainsFunc(name, unicode.IsControl):
		return "", fmt.Errorf("%w: %q contains control characters", ErrInvalidName, name)
	}

	return name, nil
}

// containsName reports whether names holds name, ignoring case.
func containsName(names []string, name string) bool {
	return slices.ContainsFunc(names, func(n string) bool {
		return strings.EqualFold(n, name)
	})
}

// uniqueName returns base if unused, otherwise "base 2", "base 3", ...
func uniqueName(base string, names []string) string {
	if !containsName(names, base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + " " + strconv.Itoa(i)
		if !containsName(names, candidate) {
			return candidate
		}
	}
}

// copyName returns the name for a duplicate of name.
func copyName(name string, names []string) string {
	base := name + copySuffix
	if len(base) > maxNameLength {
		trimmed := strings.ToValidUTF8(name[:maxNameLength-len(copySuffix)-4], "")
		base = strings.TrimSpace(trimmed) + copySuffix
	}
	return uniqueName(base, names)
}

// sortNames sorts theme names case-insensitively, comparing digit runs
// numerically so that "Untitled 2" precedes "Untitled 10".
func sortNames(names []string) {
	c := collate.New(language.Und, collate.IgnoreCase, collate.Numeric)
	c.SortStrings(names)
}
