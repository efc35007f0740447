package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

func success(format string, args ...interface{}) {
	if noColor {
		fmt.Printf("✓ %s\n", fmt.Sprintf(format, args...))
	} else {
		color.New(color.FgGreen).Printf("✓ %s\n", fmt.Sprintf(format, args...))
	}
}

func warn(format string, args ...interface{}) {
	if noColor {
		fmt.Printf("⚠ %s\n", fmt.Sprintf(format, args...))
	} else {
		color.New(color.FgYellow).Printf("⚠ %s\n", fmt.Sprintf(format, args...))
	}
}

func fail(format string, args ...interface{}) {
	if noColor {
		fmt.Fprintf(os.Stderr, "✗ %s\n", fmt.Sprintf(format, args...))
	} else {
		color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s\n", fmt.Sprintf(format, args...))
	}
}

func info(format string, args ...interface{}) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

func section(title string) {
	fmt.Println()
	if noColor {
		fmt.Println(title)
	} else {
		color.New(color.FgCyan, color.Bold).Println(title)
	}
	fmt.Println(strings.Repeat("-", len(title)))
}
