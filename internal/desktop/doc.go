// Package desktop talks to the host windowing system.
//
// It provides the X11 backend used to find, maximize and measure the
// target window and to inject synthetic pointer clicks, plus the Locator
// that polls for the window with a bounded timeout. The X11 backend shells
// out to xdotool and xprop through a Commander so it can be replaced by a
// fake in tests.
package desktop
