package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// clipboardTimeout bounds a single copy so a stuck helper cannot pin the TUI.
const clipboardTimeout = 5 * time.Second

var errNoClipboard = errors.New("no clipboard command available")

// clipboardTool is a command line that reads the clipboard contents on stdin.
type clipboardTool struct {
	session string // WAYLAND_DISPLAY or DISPLAY; empty matches any session
	argv    []string
}

// clipboardTools are tried in order; Wayland tools only when a Wayland
// session is present, X11 tools only under an X server.
var clipboardTools = []clipboardTool{
	{session: "WAYLAND_DISPLAY", argv: []string{"wl-copy", "--type", "text/plain"}},
	{session: "DISPLAY", argv: []string{"xclip", "-selection", "clipboard"}},
	{session: "DISPLAY", argv: []string{"xsel", "--clipboard", "--input"}},
	{argv: []string{"pbcopy"}},
}

// clipboardEnv abstracts the process environment for tool detection.
type clipboardEnv struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
}

var systemClipboardEnv = clipboardEnv{getenv: os.Getenv, lookPath: exec.LookPath}

// resolve returns the argv to run. A configured command always wins, even if
// it is not on PATH, so the error names what the user asked for.
func (e clipboardEnv) resolve(configured string) ([]string, error) {
	if argv := strings.Fields(configured); len(argv) > 0 {
		return argv, nil
	}
	for _, tool := range clipboardTools {
		if tool.session != "" && e.getenv(tool.session) == "" {
			continue
		}
		if _, err := e.lookPath(tool.argv[0]); err == nil {
			return tool.argv, nil
		}
	}
	return nil, errNoClipboard
}

// copyText pipes text into the clipboard tool and returns the tool's name.
// The copy is abandoned when ctx is done.
func copyText(ctx context.Context, env clipboardEnv, configured, text string) (string, error) {
	argv, err := env.resolve(configured)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, clipboardTimeout)
	defer cancel()

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Stdin = strings.NewReader(text)
	// Output is left unattached: wl-copy forks a server that would hold a
	// captured pipe open until the timeout.
	if err := c.Run(); err != nil {
		return argv[0], fmt.Errorf("%s: %w", argv[0], err)
	}
	return argv[0], nil
}
