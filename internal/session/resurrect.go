package session

import (
	"fmt"

	"github.com/zmux-dev/zmux/internal/config"
	"github.com/zmux-dev/zmux/internal/layout"
	"github.com/zmux-dev/zmux/internal/output"
	"github.com/zmux-dev/zmux/internal/pane"
	"github.com/zmux-dev/zmux/internal/resurrect"
	"github.com/zmux-dev/zmux/internal/tab"
)

// NewFromResurrection rebuilds a Session from a parsed resurrection
// Document, per spec.md section 4.9: "resurrect inverts the
// transformation: parse the document, instantiate panes, launch
// commands." Every leaf's command is re-executed fresh -- the
// document never carries screen contents, only geometry and command
// lines.
func NewFromResurrection(name string, cfg *config.Config, doc *resurrect.Document) (*Session, error) {
	expanded := resurrect.Instantiate(doc)
	if len(expanded) == 0 {
		return New(name, cfg)
	}

	s := &Session{
		Name:        name,
		cfg:         cfg,
		activeTab:   map[string]int{},
		nextPaneID:  1,
		cols:        80,
		rows:        24,
		sixels:      output.NewSixelStore(),
		pinnedPanes: map[int]bool{},
	}

	for _, et := range expanded {
		t, err := s.instantiateTabLocked(et)
		if err != nil {
			s.Shutdown()
			return nil, fmt.Errorf("session: resurrect tab %q: %w", et.Name, err)
		}
		s.tabs = append(s.tabs, t)
	}
	return s, nil
}

// instantiateTabLocked spawns one pane per leaf of et.Root and
// assembles them into a Tab via tab.NewFromLayout. Caller must not
// hold s.mu (the session is still being constructed, single-owner).
func (s *Session) instantiateTabLocked(et resurrect.ExpandedTab) (*tab.Tab, error) {
	panes := map[int]*pane.Pane{}

	// t is resolved once NewFromLayout returns below; every OnClose
	// closure spawned in the meantime captures this variable by
	// reference, the same forward-reference trick newTabLocked uses
	// for its single pane.
	var t *tab.Tab

	var spawnLeaves func(n *layout.Node) error
	spawnLeaves = func(n *layout.Node) error {
		if !n.IsLeaf() {
			for _, c := range n.Children {
				if err := spawnLeaves(c); err != nil {
					return err
				}
			}
			return nil
		}

		id := s.allocPaneID()
		n.PaneID = id

		command := s.cfg.DefaultShell
		dir := s.cfg.StartDir
		if n.Run != nil && n.Run.Kind == layout.RunCommand {
			if n.Run.Cmd != "" {
				command = n.Run.Cmd
			}
			if n.Run.Cwd != "" {
				dir = n.Run.Cwd
			}
		}

		p, err := pane.New(pane.Options{
			ID:      id,
			Command: command,
			Dir:     dir,
			Env:     s.childEnv(),
			Rows:    s.rows,
			Cols:    s.cols,
			OnClose: func(exited *pane.Pane, exitCode int) { s.handlePaneExit(t, exited) },
		})
		if err != nil {
			return fmt.Errorf("spawn pane: %w", err)
		}
		panes[id] = p
		return nil
	}

	if err := spawnLeaves(et.Root); err != nil {
		return nil, err
	}

	t = tab.NewFromLayout(et.Name, et.Root, panes, s.cols, s.rows)
	return t, nil
}
