package theme

import (
	"errors"
	"fmt"
)

// Theme file keys, in the order they appear in theme files and previews.
const (
	KeyText                     = "text-color"
	KeyBackground               = "background-color"
	KeyInvisibles               = "invisibles-color"
	KeySelection                = "selection-color"
	KeyInsertionPoint           = "insertion-point-color"
	KeyLineHighlight            = "line-highlight-color"
	KeyKeywords                 = "keywords-color"
	KeyCommands                 = "commands-color"
	KeyTypes                    = "types-color"
	KeyAttributes               = "attributes-color"
	KeyVariables                = "variables-color"
	KeyValues                   = "values-color"
	KeyNumbers                  = "numbers-color"
	KeyStrings                  = "strings-color"
	KeyCharacters               = "characters-color"
	KeyComments                 = "comments-color"
	KeyUsesSystemSelectionColor = "use-system-selection-color"
)

// Theme is a syntax-highlighting colour scheme. Nil colours are unset and are
// omitted from theme files.
type Theme struct {
	// Display colours
	Text           *Color `toml:"text-color,omitempty" json:"text-color,omitempty" yaml:"text-color,omitempty"`
	Background     *Color `toml:"background-color,omitempty" json:"background-color,omitempty" yaml:"background-color,omitempty"`
	Invisibles     *Color `toml:"invisibles-color,omitempty" json:"invisibles-color,omitempty" yaml:"invisibles-color,omitempty"`
	Selection      *Color `toml:"selection-color,omitempty" json:"selection-color,omitempty" yaml:"selection-color,omitempty"`
	InsertionPoint *Color `toml:"insertion-point-color,omitempty" json:"insertion-point-color,omitempty" yaml:"insertion-point-color,omitempty"`
	LineHighlight  *Color `toml:"line-highlight-color,omitempty" json:"line-highlight-color,omitempty" yaml:"line-highlight-color,omitempty"`

	// Syntax category colours
	Keywords   *Color `toml:"keywords-color,omitempty" json:"keywords-color,omitempty" yaml:"keywords-color,omitempty"`
	Commands   *Color `toml:"commands-color,omitempty" json:"commands-color,omitempty" yaml:"commands-color,omitempty"`
	Types      *Color `toml:"types-color,omitempty" json:"types-color,omitempty" yaml:"types-color,omitempty"`
	Attributes *Color `toml:"attributes-color,omitempty" json:"attributes-color,omitempty" yaml:"attributes-color,omitempty"`
	Variables  *Color `toml:"variables-color,omitempty" json:"variables-color,omitempty" yaml:"variables-color,omitempty"`
	Values     *Color `toml:"values-color,omitempty" json:"values-color,omitempty" yaml:"values-color,omitempty"`
	Numbers    *Color `toml:"numbers-color,omitempty" json:"numbers-color,omitempty" yaml:"numbers-color,omitempty"`
	Strings    *Color `toml:"strings-color,omitempty" json:"strings-color,omitempty" yaml:"strings-color,omitempty"`
	Characters *Color `toml:"characters-color,omitempty" json:"characters-color,omitempty" yaml:"characters-color,omitempty"`
	Comments   *Color `toml:"comments-color,omitempty" json:"comments-color,omitempty" yaml:"comments-color,omitempty"`

	// UsesSystemSelectionColor takes the selection colour from the desktop
	// instead of Selection.
	UsesSystemSelectionColor bool `toml:"use-system-selection-color" json:"use-system-selection-color" yaml:"use-system-selection-color"`
}

// ColorEntry pairs a theme key with its colour slot.
type ColorEntry struct {
	Key   string
	Color *Color
}

// Colors returns every colour slot in canonical key order, including unset ones.
func (t *Theme) Colors() []ColorEntry {
	return []ColorEntry{
		{KeyText, t.Text},
		{KeyBackground, t.Background},
		{KeyInvisibles, t.Invisibles},
		{KeySelection, t.Selection},
		{KeyInsertionPoint, t.InsertionPoint},
		{KeyLineHighlight, t.LineHighlight},
		{KeyKeywords, t.Keywords},
		{KeyCommands, t.Commands},
		{KeyTypes, t.Types},
		{KeyAttributes, t.Attributes},
		{KeyVariables, t.Variables},
		{KeyValues, t.Values},
		{KeyNumbers, t.Numbers},
		{KeyStrings, t.Strings},
		{KeyCharacters, t.Characters},
		{KeyComments, t.Comments},
	}
}

// slots returns pointers to each colour field in canonical key order.
func (t *Theme) slots() []**Color {
	return []**Color{
		&t.Text, &t.Background, &t.Invisibles, &t.Selection, &t.InsertionPoint, &t.LineHighlight,
		&t.Keywords, &t.Commands, &t.Types, &t.Attributes, &t.Variables, &t.Values,
		&t.Numbers, &t.Strings, &t.Characters, &t.Comments,
	}
}

// Validate checks every set colour.
func (t *Theme) Validate() error {
	var errs []error
	for _, e := range t.Colors() {
		if e.Color == nil {
			continue
		}
		if err := e.Color.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Key, err))
		}
	}
	return errors.Join(errs...)
}

// Clone returns a deep copy.
func (t *Theme) Clone() *Theme {
	if t == nil {
		return nil
	}
	c := *t
	for _, slot := range c.slots() {
		if *slot != nil {
			v := **slot
			*slot = &v
		}
	}
	return &c
}

// Fill sets every unset colour from defaults. The flag is left untouched.
func (t *Theme) Fill(defaults *Theme) {
	if defaults == nil {
		return
	}
	dst, src := t.slots(), defaults.slots()
	for i := range dst {
		if *dst[i] == nil && *src[i] != nil {
			v := **src[i]
			*dst[i] = &v
		}
	}
}

// EffectiveSelection returns the selection colour to draw with, honouring
// UsesSystemSelectionColor.
func (t *Theme) EffectiveSelection(p SystemPalette) Color {
	if t.UsesSystemSelectionColor || t.Selection == nil {
		return SystemColor("selection").Resolve(p)
	}
	return t.Selection.Resolve(p)
}

// DefaultTheme returns the built-in colour set used for new themes when no
// bundled "Default" theme is available.
func DefaultTheme() *Theme {
	return &Theme{
		Text:           MustParseColor("#000000"),
		Background:     MustParseColor("#ffffff"),
		Invisibles:     MustParseColor("#c8c8c8"),
		Selection:      MustParseColor("#b3d7ff"),
		InsertionPoint: MustParseColor("#000000"),
		LineHighlight:  MustParseColor("#ececec"),
		Keywords:       MustParseColor("#0033b3"),
		Commands:       MustParseColor("#7a3e9d"),
		Types:          MustParseColor("#1e7f8a"),
		Attributes:     MustParseColor("#8a6d00"),
		Variables:      MustParseColor("#a3300f"),
		Values:         MustParseColor("#5c5cd6"),
		Numbers:        MustParseColor("#1750eb"),
		Strings:        MustParseColor("#c41a16"),
		Characters:     MustParseColor("#9c2f84"),
		Comments:       MustParseColor("#5f7a5f"),

		UsesSystemSelectionColor: true,
	}
}
