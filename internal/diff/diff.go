// Package diff renders line diffs between a generated output file on disk
// and the output of a fresh run, for drift checks in CI. The heavy lifting is
// done by diffmatchpatch working on whole lines.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/typebridge/typebridge/internal/color"
)

// contextLines is how many unchanged lines are kept around each change.
const contextLines = 3

// Render returns a line diff between the file on disk and the freshly
// generated output. Removed lines are prefixed "-", added lines "+", and long
// unchanged runs are elided. The empty string means the contents are equal.
func Render(onDisk, generated string, c *color.Color) string {
	if onDisk == generated {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(onDisk, generated)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var out strings.Builder
	for i, d := range diffs {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, line := range lines {
				out.WriteString(c.Remove("- " + line))
				out.WriteString("\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range lines {
				out.WriteString(c.Add("+ " + line))
				out.WriteString("\n")
			}
		case diffmatchpatch.DiffEqual:
			for _, line := range elide(lines, i == 0, i == len(diffs)-1) {
				out.WriteString(line)
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}

func splitLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// elide keeps contextLines of an unchanged run on each side that touches a
// change, replacing the middle with an ellipsis marker. The run before the
// first change needs no leading context, the run after the last change no
// trailing context.
func elide(lines []string, first, last bool) []string {
	prefix := func(ls []string) []string {
		out := make([]string, len(ls))
		for i, l := range ls {
			out[i] = "  " + l
		}
		return out
	}

	keepHead := contextLines // context after the previous change
	keepTail := contextLines // context before the next change
	if first {
		keepHead = 0
	}
	if last {
		keepTail = 0
	}
	if len(lines) <= keepHead+keepTail+1 {
		return prefix(lines)
	}

	var out []string
	out = append(out, prefix(lines[:keepHead])...)
	out = append(out, "  ...")
	if keepTail > 0 {
		out = append(out, prefix(lines[len(lines)-keepTail:])...)
	}
	return out
}
