// Package theme manages syntax-highlighting colour themes for the editor.
// Bundled themes are embedded in the binary and read-only; user themes live in
// ~/.config/syntheme/themes/ and shadow a bundled theme of the same name.
package theme
