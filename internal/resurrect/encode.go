package resurrect

import (
	"fmt"
	"strconv"
	"strings"
)

const indentUnit = "    "

// Encode serializes doc as the KDL-like indented document described
// in spec.md section 6. Pane/tab templates are written as top-level
// `pane_template`/`tab_template` declarations ahead of the tabs that
// reference them.
func Encode(doc *Document) []byte {
	var b strings.Builder
	b.WriteString("layout {\n")
	for name, t := range doc.PaneTemplates {
		writePaneTemplate(&b, 1, name, t)
	}
	for name, t := range doc.TabTemplates {
		writeTabTemplate(&b, 1, name, t)
	}
	for _, tab := range doc.Tabs {
		writeTab(&b, 1, tab)
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentUnit)
	}
}

func writeTab(b *strings.Builder, depth int, t *TabNode) {
	writeIndent(b, depth)
	fmt.Fprintf(b, "tab name=%q {\n", t.Name)
	for _, p := range t.Panes {
		writePane(b, depth+1, p)
	}
	writeIndent(b, depth)
	b.WriteString("}\n")
}

func writeTabTemplate(b *strings.Builder, depth int, name string, t *TabNode) {
	writeIndent(b, depth)
	fmt.Fprintf(b, "tab_template name=%q {\n", name)
	for _, p := range t.Panes {
		writePane(b, depth+1, p)
	}
	writeIndent(b, depth)
	b.WriteString("}\n")
}

func writePaneTemplate(b *strings.Builder, depth int, name string, p *PaneNode) {
	writeIndent(b, depth)
	fmt.Fprintf(b, "pane_template name=%q {\n", name)
	for _, c := range p.Children {
		writePane(b, depth+1, c)
	}
	writeIndent(b, depth)
	b.WriteString("}\n")
}

func writePane(b *strings.Builder, depth int, p *PaneNode) {
	writeIndent(b, depth)

	if p.ChildrenSplice {
		b.WriteString("children\n")
		return
	}

	name := "pane"
	if p.TemplateRef != "" {
		name = p.TemplateRef
	}
	b.WriteString(name)

	if p.Size.Kind != SizeNone {
		fmt.Fprintf(b, " size=%s", sizeAttr(p.Size))
	}
	if p.SplitDirection != "" {
		fmt.Fprintf(b, " split_direction=%q", p.SplitDirection)
	}
	if p.Command != "" {
		fmt.Fprintf(b, " command=%q", p.Command)
	}
	if p.Cwd != "" {
		fmt.Fprintf(b, " cwd=%q", p.Cwd)
	}

	if len(p.Args) == 0 && len(p.Children) == 0 {
		b.WriteString("\n")
		return
	}

	b.WriteString(" {\n")
	if len(p.Args) > 0 {
		writeIndent(b, depth+1)
		b.WriteString("args")
		for _, a := range p.Args {
			fmt.Fprintf(b, " %q", a)
		}
		b.WriteString("\n")
	}
	for _, c := range p.Children {
		writePane(b, depth+1, c)
	}
	writeIndent(b, depth)
	b.WriteString("}\n")
}

func sizeAttr(s Size) string {
	switch s.Kind {
	case SizeCells:
		return strconv.Itoa(s.Cells)
	case SizePercent:
		return fmt.Sprintf("%q", fmt.Sprintf("%g%%", s.Percent))
	default:
		return ""
	}
}
