package pane

import "strings"

// SearchFlags controls how SetSearch matches a needle against the
// Grid's lines, per spec.md section 4.1 set_search.
type SearchFlags struct {
	CaseSensitive bool
	WholeWord     bool
	Wrap          bool
}

// SearchState is the per-pane incremental-search cursor: the needle,
// the set of matching line indices (in the combined scrollback+screen
// buffer), and which one is active.
type SearchState struct {
	Needle string
	Flags  SearchFlags
	Matches []int
	Active  int // index into Matches, -1 if none
}

// SetSearch computes matches for needle against the pane's current
// buffer and jumps the view to the first match.
func (p *Pane) SetSearch(needle string, flags SearchFlags) *SearchState {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := &SearchState{Needle: needle, Flags: flags, Active: -1}
	if needle != "" {
		s.Matches = findMatches(p.grid.GetAllLines(), needle, flags)
		if len(s.Matches) > 0 {
			s.Active = 0
			p.grid.ScrollToLine(s.Matches[0])
		}
	}
	p.search = s
	return s
}

// SearchNext advances to the next match, wrapping if Flags.Wrap is
// set.
func (p *Pane) SearchNext() *SearchState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.advanceSearch(1)
}

// SearchPrev moves to the previous match, wrapping if Flags.Wrap is
// set.
func (p *Pane) SearchPrev() *SearchState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.advanceSearch(-1)
}

// advanceSearch must be called with p.mu held.
func (p *Pane) advanceSearch(delta int) *SearchState {
	s := p.search
	if s == nil || len(s.Matches) == 0 {
		return s
	}
	next := s.Active + delta
	if next < 0 {
		if !s.Flags.Wrap {
			return s
		}
		next = len(s.Matches) - 1
	}
	if next >= len(s.Matches) {
		if !s.Flags.Wrap {
			return s
		}
		next = 0
	}
	s.Active = next
	p.grid.ScrollToLine(s.Matches[next])
	return s
}

// ClearSearch discards the pane's search state.
func (p *Pane) ClearSearch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = nil
}

// Search returns the pane's current search state, or nil if none is
// active.
func (p *Pane) Search() *SearchState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.search
}

func findMatches(lines []string, needle string, flags SearchFlags) []int {
	var out []int
	n := needle
	if !flags.CaseSensitive {
		n = strings.ToLower(n)
	}
	for i, line := range lines {
		l := line
		if !flags.CaseSensitive {
			l = strings.ToLower(l)
		}
		if flags.WholeWord {
			if wholeWordMatch(l, n) {
				out = append(out, i)
			}
			continue
		}
		if strings.Contains(l, n) {
			out = append(out, i)
		}
	}
	return out
}

func wholeWordMatch(line, needle string) bool {
	idx := 0
	for {
		pos := strings.Index(line[idx:], needle)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(needle)
		leftOK := start == 0 || !isWordByte(line[start-1])
		rightOK := end == len(line) || !isWordByte(line[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
		if idx >= len(line) {
			return false
		}
	}
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
