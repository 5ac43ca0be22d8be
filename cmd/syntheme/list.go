package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/syntheme/internal/adapter/output"
	"github.com/jmylchreest/syntheme/internal/core"
	"github.com/jmylchreest/syntheme/internal/theme"
)

var listOpts struct {
	// Filter options
	source string
	since  string
	search string
	limit  int

	// Sort options
	sortBy    string
	sortOrder string

	// Output options
	long      bool
	format    string
	field     string
	template  string
	separator string
}

var listCmd = &cobra.Command{
	Use:     "list [index|name]",
	Aliases: []string{"ls"},
	Short:   "List available themes",
	Long: `List visible themes in display order.

Provenance is one of:
  bundled     shipped with syntheme, not modified
  customized  bundled theme shadowed by a user copy
  user        user-only theme

With an index (1-based), a name, or a line of dmenu output as argument, only
that theme is printed.

Examples:
  # Names only
  syntheme list

  # Include provenance and modification time
  syntheme list --long

  # Themes edited in the last week, newest first
  syntheme list --source edited --since 7d --sort modified --order desc

  # Pick a theme with fuzzel and preview it
  syntheme list --format dmenu | fuzzel -d | xargs -d '\n' syntheme show

  # Print the file of the second theme
  syntheme list 2 --field path`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	// Filter flags
	listCmd.Flags().StringVar(&listOpts.source, "source", "",
		"Filter by provenance (bundled, user, customized, edited; comma-separated)")
	listCmd.Flags().StringVar(&listOpts.since, "since", "",
		"Only user files modified within this duration (e.g., 1h, 7d, 1w)")
	listCmd.Flags().StringVarP(&listOpts.search, "search", "s", "",
		"Search in theme names")
	listCmd.Flags().IntVarP(&listOpts.limit, "limit", "n", 0,
		"Maximum number of themes to show (0=unlimited)")

	// Sort flags
	listCmd.Flags().StringVar(&listOpts.sortBy, "sort", "name",
		"Sort by field (name, modified, provenance)")
	listCmd.Flags().StringVar(&listOpts.sortOrder, "order", "asc",
		"Sort order (asc, desc)")

	// Output flags
	listCmd.Flags().BoolVarP(&listOpts.long, "long", "l", false,
		"Show provenance and modification time")
	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", "",
		"Output format (names, plain, dmenu, json)")
	listCmd.Flags().StringVar(&listOpts.field, "field", "",
		"Output single field from the selected theme (name, provenance, path, modified)")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Custom Go template for dmenu/plain output")
	listCmd.Flags().StringVar(&listOpts.separator, "separator", " | ",
		"Field separator for dmenu output")
}

func runList(cmd *cobra.Command, args []string) error {
	infos, err := selectThemes(getManager().ThemeInfos())
	if err != nil {
		return err
	}

	opts := output.DefaultFormatterOptions()
	opts.Template = listOpts.template
	opts.Separator = listOpts.separator
	opts.ShowPath = listOpts.long

	// Single theme mode
	if len(args) > 0 {
		info := core.Resolve(infos, args[0], listOpts.separator)
		if info == nil {
			return fmt.Errorf("theme not found: %s", args[0])
		}
		if listOpts.field != "" {
			fmt.Println(output.FormatField(info, listOpts.field))
			return nil
		}
		if listOpts.format == string(output.FormatJSON) {
			return output.NewJSONFormatter(opts).FormatSingle(os.Stdout, info)
		}
		infos = []theme.ThemeInfo{*info}
	}

	format := output.FormatType(listOpts.format)
	if format == "" {
		format = output.FormatNames
		if listOpts.long {
			format = output.FormatPlain
		}
	}
	switch format {
	case output.FormatNames, output.FormatPlain, output.FormatDmenu, output.FormatJSON:
	default:
		return fmt.Errorf("unknown format %q (use names, plain, dmenu or json)", listOpts.format)
	}

	return output.NewFormatter(format, opts).Format(os.Stdout, infos)
}

// selectThemes applies the filter and sort flags.
func selectThemes(infos []theme.ThemeInfo) ([]theme.ThemeInfo, error) {
	provenance, err := core.ParseProvenance(listOpts.source)
	if err != nil {
		return nil, err
	}

	since, err := core.ParseDuration(listOpts.since)
	if err != nil {
		return nil, fmt.Errorf("invalid duration: %w", err)
	}

	sortField, _ := core.ParseSortField(listOpts.sortBy)
	sortOrder, _ := core.ParseSortOrder(listOpts.sortOrder)

	core.Sort(infos, core.SortOptions{Field: sortField, Order: sortOrder})
	return core.Filter(infos, core.FilterOptions{
		Provenance: provenance,
		Since:      since,
		Search:     listOpts.search,
		Limit:      listOpts.limit,
	}), nil
}
