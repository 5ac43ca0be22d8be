package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/syntheme/internal/theme"
)

var exportOpts struct {
	format string
	all    bool
}

var importOpts struct {
	replace bool
}

var exportCmd = &cobra.Command{
	Use:   "export <name> <dest> | --all <dir>",
	Short: "Write themes to files",
	Long: `Write a theme to a file. The format follows the destination extension
unless --format is given; unknown extensions use the configured default.

With --all, every visible theme is written into dir as "<name>.<format>".

Examples:
  syntheme export Midnight ~/midnight.toml
  syntheme export Midnight ~/midnight.json
  syntheme export --all --format yaml ~/themes-backup`,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a theme file as a user theme",
	Long: `Import a theme file. The theme name is the file name without its
extension. An existing theme of that name is only overwritten with --replace.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := getManager().ImportTheme(args[0], importOpts.replace)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", args[0], err)
		}
		fmt.Printf("Imported %q\n", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringVarP(&exportOpts.format, "format", "f", "",
		"Output format (toml, json, yaml)")
	exportCmd.Flags().BoolVar(&exportOpts.all, "all", false,
		"Export every theme into a directory")

	importCmd.Flags().BoolVar(&importOpts.replace, "replace", false,
		"Overwrite an existing theme of the same name")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportOpts.all {
		if len(args) != 1 {
			return fmt.Errorf("--all takes exactly one directory argument")
		}
		return exportAll(args[0])
	}
	if len(args) != 2 {
		return fmt.Errorf("expected <name> <dest>")
	}

	name, dest := resolveName(args[0]), args[1]
	format, err := exportFormat(dest)
	if err != nil {
		return err
	}
	if err := getManager().ExportThemeAs(name, dest, format); err != nil {
		return fmt.Errorf("failed to export %q: %w", name, err)
	}
	fmt.Printf("Exported %q to %s\n", name, dest)
	return nil
}

// exportFormat picks the --format flag, then the destination extension,
// then the configured default.
func exportFormat(dest string) (theme.Format, error) {
	if exportOpts.format != "" {
		return theme.ParseFormat(exportOpts.format)
	}
	if dest != "" {
		if f, ok := theme.FormatForPath(dest); ok {
			return f, nil
		}
	}
	return theme.ParseFormat(getConfig().Export.Format)
}

func exportAll(dir string) error {
	format, err := exportFormat("")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	m := getManager()
	names := m.ThemeNames()

	var g errgroup.Group
	g.SetLimit(4)
	for _, name := range names {
		dest := filepath.Join(dir, name+"."+string(format))
		g.Go(func() error {
			if err := m.ExportThemeAs(name, dest, format); err != nil {
				return fmt.Errorf("failed to export %q: %w", name, err)
			}
			logger.Debug("exported theme", "name", name, "dest", dest)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Exported %d themes to %s\n", len(names), dir)
	return nil
}
