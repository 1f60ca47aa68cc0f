package app

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// useColor resolves a color mode against the report writer. "auto" colors
// only terminals, and never when NO_COLOR is set.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// palette holds the report's styling functions.
type palette struct {
	header   func(a ...any) string
	kind     func(a ...any) string
	instance func(a ...any) string
	dim      func(a ...any) string
	warn     func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		header:   mk(color.Bold),
		kind:     mk(color.FgCyan),
		instance: mk(color.FgMagenta),
		dim:      mk(color.FgHiBlack),
		warn:     mk(color.FgYellow),
	}
}
