package ui

import (
	"io"

	"github.com/pterm/pterm"
)

func Success(w io.Writer, msg string) {
	pterm.Success.WithWriter(w).Println(msg)
}

func Failure(w io.Writer, msg string) {
	pterm.Error.WithWriter(w).Println(msg)
}

func Info(w io.Writer, msg string) {
	pterm.Info.WithWriter(w).Println(msg)
}

// Warn prints msg without a trailing newline so a prompt can follow it.
func Warn(w io.Writer, msg string) {
	pterm.Fprint(w, pterm.Warning.Sprint(msg))
}
