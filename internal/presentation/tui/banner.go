package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the keepaway banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{" _                                        ", "#fbbf24"},
		{"| | _____  ___ _ __   __ ___      ____ _ _   _ ", "#f59e0b"},
		{"| |/ / _ \\/ _ \\ '_ \\ / _` \\ \\ /\\ / / _` | | | |", "#f97316"},
		{"|   <  __/  __/ |_) | (_| |\\ V  V / (_| | |_| |", "#ea580c"},
		{"|_|\\_\\___|\\___| .__/ \\__,_| \\_/\\_/ \\__,_|\\__, |", "#c2410c"},
		{"              |_|                        |___/ ", "#9a3412"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintf(w, "  %s\n\n", termenv.String("v"+strings.TrimSpace(version)).Faint())
}
