package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/syntheme/internal/theme"
)

var saveOpts struct {
	format string
}

var saveCmd = &cobra.Command{
	Use:   "save <name> [file]",
	Short: "Save a theme definition as a user theme",
	Long: `Save a theme definition under the given name in the user themes
directory. The definition is read from file, or from stdin when no file is
given. Saving under the name of a bundled theme customizes it.

Examples:
  # Save from a file
  syntheme save "My Theme" mytheme.toml

  # Tweak a bundled theme
  syntheme show Midnight --format toml | sed 's/#0b0e14/#000000/' | syntheme save Midnight`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSave,
}

var renameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a user theme",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := getManager().RenameTheme(args[0], args[1]); err != nil {
			return fmt.Errorf("failed to rename %q: %w", args[0], err)
		}
		fmt.Printf("Renamed %q to %q\n", args[0], args[1])
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a user theme or customization",
	Long: `Remove the user file for a theme. Removing the user copy of a bundled
theme reverts it to the bundled original. Bundled themes themselves cannot
be removed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := getManager()
		bundled, _ := m.IsBundledTheme(args[0])
		if err := m.RemoveTheme(args[0]); err != nil {
			return fmt.Errorf("failed to remove %q: %w", args[0], err)
		}
		if bundled {
			fmt.Printf("Reverted %q to the bundled theme\n", args[0])
		} else {
			fmt.Printf("Removed %q\n", args[0])
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Restore a customized bundled theme",
	Long: `Delete the user copy of a customized bundled theme so the bundled
content applies again. User-only and unmodified bundled themes are refused.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := waitOp(getManager().RestoreTheme(args[0]))
		if err != nil {
			return fmt.Errorf("failed to restore %q: %w", args[0], err)
		}
		fmt.Printf("Restored %q\n", name)
		return nil
	},
}

var duplicateCmd = &cobra.Command{
	Use:     "duplicate <name>",
	Aliases: []string{"cp"},
	Short:   "Copy a theme under a new unique name",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := getManager().DuplicateTheme(args[0])
		if err != nil {
			return fmt.Errorf("failed to duplicate %q: %w", args[0], err)
		}
		fmt.Println(name)
		return nil
	},
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an untitled theme from the default colours",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := waitOp(getManager().CreateUntitledTheme())
		if err != nil {
			return fmt.Errorf("failed to create theme: %w", err)
		}
		fmt.Println(name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveCmd, renameCmd, removeCmd, restoreCmd, duplicateCmd, newCmd)

	saveCmd.Flags().StringVarP(&saveOpts.format, "format", "f", "",
		"Input format (toml, json, yaml; default from file extension, else toml)")
}

func runSave(cmd *cobra.Command, args []string) error {
	name := args[0]

	var (
		data   []byte
		err    error
		format = theme.FormatTOML
	)
	if len(args) > 1 {
		data, err = os.ReadFile(args[1])
		if f, ok := theme.FormatForPath(args[1]); ok {
			format = f
		}
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read theme: %w", err)
	}

	if saveOpts.format != "" {
		format, err = theme.ParseFormat(saveOpts.format)
		if err != nil {
			return err
		}
	}

	t, err := theme.Decode(data, format)
	if err != nil {
		return err
	}

	saved, err := waitOp(getManager().SaveTheme(name, t))
	if err != nil {
		return fmt.Errorf("failed to save %q: %w", name, err)
	}
	fmt.Printf("Saved %q\n", saved)
	return nil
}
