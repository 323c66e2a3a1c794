// Package ui renders drills data for the terminal with pterm.
package ui

import (
	"github.com/pterm/pterm"
)

var DarkTheme bool

// Configure sets the theme and turns colour output off when noColor is set.
func Configure(dark, noColor bool) {
	DarkTheme = dark

	if noColor {
		pterm.DisableColor()
		return
	}

	pterm.EnableColor()
}

func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

func Cyan(a any) string {
	if DarkTheme {
		return pterm.LightCyan(a)
	}

	return pterm.Cyan(a)
}

func Yellow(a any) string {
	if DarkTheme {
		return pterm.LightYellow(a)
	}

	return pterm.Yellow(a)
}

func Red(a any) string {
	if DarkTheme {
		return pterm.LightRed(a)
	}

	return pterm.Red(a)
}

func Highlight(a any) string {
	if DarkTheme {
		return pterm.LightWhite(a)
	}

	return pterm.Black(a)
}

// State renders a session state label.
func State(active bool) string {
	if active {
		return Green("active")
	}

	return Cyan("stopped")
}
