package generator

import (
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/conduit-lang/configkeys/internal/rawtree"
)

// Diff compares the artifact on disk with a fresh render of tree. It returns
// a line diff prefixed with "-" for removed and "+" for added lines,
// colorized unless color output is disabled, and whether the two differ.
func (g *KeysGenerator) Diff(tree *rawtree.OrderedMap) (string, bool, error) {
	fresh, err := g.Render(tree)
	if err != nil {
		return "", false, err
	}
	current, err := g.Current()
	if err != nil {
		return "", false, err
	}

	out, changed := lineDiff(string(current), string(fresh))
	return out, changed, nil
}

func lineDiff(from, to string) (string, bool) {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	var out strings.Builder
	changed := false
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffDelete:
			changed = true
			writeLines(&out, removed, "-", d.Text)
		case diffpatch.DiffInsert:
			changed = true
			writeLines(&out, added, "+", d.Text)
		}
	}
	return out.String(), changed
}

func writeLines(out *strings.Builder, c *color.Color, prefix, text string) {
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		out.WriteString(c.Sprint(prefix + strings.TrimSuffix(line, "\n")))
		out.WriteString("\n")
	}
}
