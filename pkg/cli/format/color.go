package format

import "github.com/fatih/color"

// Colors used across report rendering.
var (
	ErrorColor   = color.New(color.FgRed, color.Bold)
	WarningColor = color.New(color.FgYellow, color.Bold)
	SuccessColor = color.New(color.FgGreen, color.Bold)
	FileColor    = color.New(color.FgCyan)
	LineColor    = color.New(color.FgHiGreen)
	CodeColor    = color.New(color.FgWhite)
	ContextColor = color.New(color.FgHiBlack)
	RuleColor    = color.New(color.FgMagenta)
	HeadingColor = color.New(color.FgHiWhite, color.Bold)
)
