package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Level tells the console how to present a Result.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// Result is what a command hands back for display.
type Result struct {
	Level Level
	Lines []string
}

func info(lines ...string) Result    { return Result{Level: LevelInfo, Lines: lines} }
func success(lines ...string) Result { return Result{Level: LevelSuccess, Lines: lines} }
func warning(lines ...string) Result { return Result{Level: LevelWarning, Lines: lines} }
func failure(lines ...string) Result { return Result{Level: LevelError, Lines: lines} }

type palette struct {
	heading *color.Color
	levels  map[Level]*color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		heading: color.New(color.FgCyan, color.Bold),
		levels: map[Level]*color.Color{
			LevelInfo:    color.New(color.Reset),
			LevelSuccess: color.New(color.FgGreen),
			LevelWarning: color.New(color.FgYellow),
			LevelError:   color.New(color.FgRed),
		},
	}
	if noColor {
		p.heading.DisableColor()
		for _, c := range p.levels {
			c.DisableColor()
		}
	} else {
		p.heading.EnableColor()
		for _, c := range p.levels {
			c.EnableColor()
		}
	}
	return p
}

func (p palette) print(w io.Writer, r Result) {
	c, ok := p.levels[r.Level]
	if !ok {
		c = p.levels[LevelInfo]
	}
	for _, line := range r.Lines {
		c.Fprintln(w, line)
	}
}

func (p palette) title(w io.Writer, format string, args ...any) {
	p.heading.Fprintln(w, fmt.Sprintf(format, args...))
}
