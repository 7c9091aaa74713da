package colors

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Blue   = color.New(color.FgBlue).SprintFunc()
)

// Status colours an HTTP status code: green below 400, yellow for
// client errors & red for server errors.
func Status(status int) string {
	switch {
	case status >= 500:
		return Red(status)
	case status >= 400:
		return Yellow(status)
	}
	return Green(status)
}

// Method colours an HTTP method.
func Method(method string) string {
	return Blue(fmt.Sprintf("%-6s", method))
}
