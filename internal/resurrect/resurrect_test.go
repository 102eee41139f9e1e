package resurrect

import (
	"testing"

	"github.com/zmux-dev/zmux/internal/layout"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := BuildDocument([]TabSnapshot{
		{
			Name: "main",
			Panes: []PaneSnapshot{
				{Geom: layout.PaneGeom{X: 0, Y: 0, Cols: 60, Rows: 24}, Command: "vim", Cwd: "/work"},
				{Geom: layout.PaneGeom{X: 60, Y: 0, Cols: 60, Rows: 24}, Command: "htop"},
			},
		},
	})

	data := Encode(doc)

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v\n--- document ---\n%s", err, data)
	}
	if len(decoded.Tabs) != 1 {
		t.Fatalf("tabs = %d, want 1", len(decoded.Tabs))
	}
	if decoded.Tabs[0].Name != "main" {
		t.Errorf("tab name = %q, want main", decoded.Tabs[0].Name)
	}

	expanded := Instantiate(decoded)
	if len(expanded) != 1 {
		t.Fatalf("expanded tabs = %d, want 1", len(expanded))
	}
	leaves := expanded[0].Root.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("leaves = %d, want 2", len(leaves))
	}

	var commands []string
	for _, l := range leaves {
		if l.Run != nil {
			commands = append(commands, l.Run.Cmd)
		}
	}
	if len(commands) != 2 || commands[0] != "vim" || commands[1] != "htop" {
		t.Errorf("commands = %v, want [vim htop]", commands)
	}
}

func TestDecodeLiteralDocument(t *testing.T) {
	doc := `
layout {
    tab name="main" {
        pane size=60 split_direction="horizontal" command="vim" {
            args "-u" "NONE"
        }
    }
}
`
	parsed, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(parsed.Tabs) != 1 || parsed.Tabs[0].Name != "main" {
		t.Fatalf("unexpected tabs: %+v", parsed.Tabs)
	}
	pane := parsed.Tabs[0].Panes[0]
	if pane.Command != "vim" {
		t.Errorf("command = %q, want vim", pane.Command)
	}
	if pane.Size.Kind != SizeCells || pane.Size.Cells != 60 {
		t.Errorf("size = %+v, want 60 cells", pane.Size)
	}
	if len(pane.Args) != 2 || pane.Args[0] != "-u" || pane.Args[1] != "NONE" {
		t.Errorf("args = %v, want [-u NONE]", pane.Args)
	}
}

func TestParsePercentSize(t *testing.T) {
	doc := `
layout {
    tab name="t" {
        pane size="33.5%" command="cat"
    }
}
`
	parsed, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	size := parsed.Tabs[0].Panes[0].Size
	if size.Kind != SizePercent || size.Percent != 33.5 {
		t.Errorf("size = %+v, want 33.5%%", size)
	}
}
