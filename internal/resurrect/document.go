// Package resurrect implements the Resurrection Serializer (spec.md
// section 4.9): converting a live session into the declarative
// layout document described in spec.md section 6, and instantiating
// panes/tabs back from that document.
//
// The document shape is grounded on original_source's
// zellij-utils/src/persistence.rs (tabs_to_kdl / stringify_tab) and
// zellij-utils/src/kdl/kdl_layout_parser.rs for the pane_template /
// tab_template / children-splice grammar; no KDL library exists
// anywhere in the retrieval pack, so both directions are hand-written
// recursive descent, in the teacher's own hand-parsing idiom (see
// internal/config/user_settings.go's manual JSON merge).
package resurrect

import "github.com/zmux-dev/zmux/internal/layout"

// Document is the root of a parsed or to-be-serialized resurrection
// file: one top-level `layout { ... }` block.
type Document struct {
	Tabs          []*TabNode
	PaneTemplates map[string]*PaneNode
	TabTemplates  map[string]*TabNode
}

// TabNode is one `tab name="..." { ... }` block.
type TabNode struct {
	Name  string
	Panes []*PaneNode
}

// SizeKind discriminates a pane's declared size attribute.
type SizeKind int

const (
	SizeNone SizeKind = iota
	SizeCells
	SizePercent
)

// Size is a pane node's `size=` attribute: either absent, an integer
// cell count, or a percentage (written "NN%").
type Size struct {
	Kind    SizeKind
	Cells   int
	Percent float64
}

// PaneNode is one `pane { ... }` block: a leaf running a command, or
// a split node with nested panes.
type PaneNode struct {
	Size           Size
	SplitDirection string // "horizontal", "vertical", or "" for a leaf
	Command        string
	Args           []string
	Cwd            string
	TemplateRef    string // name of a pane_template this node instantiates
	Children       []*PaneNode
	// ChildrenSplice marks this node as the splice point ("children"
	// marker) inside a template, per spec.md section 6.
	ChildrenSplice bool
}

// IsLeaf reports whether n has no nested panes.
func (n *PaneNode) IsLeaf() bool { return len(n.Children) == 0 }

// dimensionToSize converts a resolved layout.Dimension into the
// document's Size attribute.
func dimensionToSize(d *layout.Dimension) Size {
	if d == nil || d.IsZero() {
		return Size{}
	}
	if d.IsFixed() {
		return Size{Kind: SizeCells, Cells: d.FixedCells()}
	}
	return Size{Kind: SizePercent, Percent: d.PercentValue()}
}

// toDimension converts a document Size back into a layout.Dimension,
// nil when the size was never declared (equal-share leaf).
func (s Size) toDimension() *layout.Dimension {
	switch s.Kind {
	case SizeCells:
		d := layout.Fixed(s.Cells)
		return &d
	case SizePercent:
		d := layout.Percent(s.Percent)
		return &d
	default:
		return nil
	}
}
