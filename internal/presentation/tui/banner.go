package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII banner shown on server start.
func PrintBanner() {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{` _       _   _   _          `, "#818cf8"},
		{`| | __ _| |_| |_(_) ___ ___ `, "#a78bfa"},
		{`| |/ _' | __| __| |/ __/ _ \`, "#c084fc"},
		{`| | (_| | |_| |_| | (_|  __/`, "#e879f9"},
		{`|_|\__,_|\__|\__|_|\___\___|`, "#f472b6"},
	}

	fmt.Println()
	for _, l := range lines {
		fmt.Println(termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Println()
}
