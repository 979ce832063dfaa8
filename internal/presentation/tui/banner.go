package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the demo banner.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String(" __      __ ___  ___  ___ ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String(" \\ \\ /\\ / /| | || '_|/ -_)").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String("  \\_/\\_/  |_|_||_|  \\___|").Foreground(p.Color("#c084fc"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println()
}
