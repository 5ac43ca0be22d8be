// Package desktop connects the theme manager to the session bus.
//
// A Broadcaster re-emits manager events as D-Bus signals so that other
// processes using the same themes directory can refresh, and a Listener
// does the reverse. PortalPalette resolves "system:" colour references
// through the XDG desktop portal's appearance settings.
package desktop
