package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/roach88/doctrans/internal/harness"
	"github.com/roach88/doctrans/internal/store"
)

// FileDiff is the dry-run view of one captured write.
type FileDiff struct {
	Path    string `json:"path" yaml:"path"`
	Created bool   `json:"created" yaml:"created"`
	Diff    string `json:"diff" yaml:"diff"`
}

// diffs renders the recorder's changes, in first-write order.
func diffs(changes []store.Change) []FileDiff {
	out := make([]FileDiff, 0, len(changes))
	for _, c := range changes {
		out = append(out, FileDiff{
			Path:    c.Path,
			Created: c.Before == nil,
			Diff:    harness.LineDiff(string(c.Before), string(c.After)),
		})
	}
	return out
}

// writeDiffs prints each diff under a ---/+++ header. Removed lines are red
// and added lines green when colored is set.
func writeDiffs(w io.Writer, ds []FileDiff, colored bool) {
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	bold := color.New(color.Bold)
	for _, c := range []*color.Color{red, green, bold} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, d := range ds {
		before := "a/" + d.Path
		if d.Created {
			before = "/dev/null"
		}
		bold.Fprintf(w, "--- %s\n+++ b/%s\n", before, d.Path)
		for _, line := range strings.SplitAfter(d.Diff, "\n") {
			switch {
			case line == "":
			case strings.HasPrefix(line, "- "):
				red.Fprint(w, line)
			case strings.HasPrefix(line, "+ "):
				green.Fprint(w, line)
			default:
				fmt.Fprint(w, line)
			}
		}
	}
}

// useColor reports whether w is a terminal.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
