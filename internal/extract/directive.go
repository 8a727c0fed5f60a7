package extract

import (
	"go/ast"
	"strings"

	"github.com/typebridge/typebridge/internal/casing"
	"github.com/typebridge/typebridge/internal/diag"
)

// DirectivePrefix introduces a typebridge directive in a doc comment, in the
// style of Go compiler directives: //typebridge:generate, //typebridge:tag kind.
const DirectivePrefix = "typebridge:"

// directive is one parsed doc-comment directive.
type directive struct {
	name string
	arg  string
}

// directives extracts all typebridge directives from a comment group.
// Directive lines never count as documentation text.
func directives(doc *ast.CommentGroup) []directive {
	if doc == nil {
		return nil
	}
	var out []directive
	for _, c := range doc.List {
		text := strings.TrimPrefix(c.Text, "//")
		if !strings.HasPrefix(text, DirectivePrefix) {
			continue
		}
		body := strings.TrimPrefix(text, DirectivePrefix)
		name, arg, _ := strings.Cut(body, " ")
		out = append(out, directive{name: strings.TrimSpace(name), arg: strings.TrimSpace(arg)})
	}
	return out
}

// hasDirective reports whether the comment group carries the named directive.
func hasDirective(doc *ast.CommentGroup, name string) bool {
	for _, d := range directives(doc) {
		if d.name == name {
			return true
		}
	}
	return false
}

// itemAttrs are the serialization attributes read from one item's directives.
type itemAttrs struct {
	renameAll casing.Style
	tag       string
	content   string
	rename    string
	skip      bool
}

// parseAttrs interprets the recognized directives on an item. Unrecognized
// directives are ignored for forward compatibility; recognized directives
// with malformed values produce MalformedAttribute diagnostics without
// aborting extraction of the rest of the file.
func parseAttrs(doc *ast.CommentGroup, pos diag.Position) (itemAttrs, diag.List) {
	attrs := itemAttrs{renameAll: casing.StyleOriginal}
	var diags diag.List
	for _, d := range directives(doc) {
		switch d.name {
		case "generate":
			// Participation marker, handled by the predicate.
		case "rename_all":
			style, err := casing.ParseStyle(d.arg)
			if err != nil {
				diags = append(diags, diag.Errorf(diag.KindMalformedAttribute, pos,
					"rename_all: %v", err))
				continue
			}
			attrs.renameAll = style
		case "tag":
			if d.arg == "" {
				diags = append(diags, diag.Errorf(diag.KindMalformedAttribute, pos,
					"tag directive requires a field name"))
				continue
			}
			attrs.tag = d.arg
		case "content":
			if d.arg == "" {
				diags = append(diags, diag.Errorf(diag.KindMalformedAttribute, pos,
					"content directive requires a field name"))
				continue
			}
			attrs.content = d.arg
		case "rename":
			if d.arg == "" {
				diags = append(diags, diag.Errorf(diag.KindMalformedAttribute, pos,
					"rename directive requires a name"))
				continue
			}
			attrs.rename = d.arg
		case "skip":
			attrs.skip = true
		}
	}
	return attrs, diags
}

// docLines returns the documentation text of a comment group as trimmed
// lines, with directive lines removed.
func docLines(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(doc.Text(), "\n"), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), DirectivePrefix) {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	// Drop leading and trailing blank lines left behind by removed directives.
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil
	}
	return lines
}
