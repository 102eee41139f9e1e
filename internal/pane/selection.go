package pane

// SelectStart begins a selection at the given screen coordinate
// (mouse-press), per spec.md section 4.12.
func (p *Pane) SelectStart(x, screenY int, rect bool) {
	absLine := p.grid.ScreenYToAbsoluteLine(screenY)
	p.grid.SetSelection(x, absLine, x, absLine, true, rect)
}

// SelectExtend extends the active selection to the given screen
// coordinate (mouse-drag).
func (p *Pane) SelectExtend(x, screenY int) {
	if !p.grid.HasSelection() {
		return
	}
	absLine := p.grid.ScreenYToAbsoluteLine(screenY)
	p.grid.SetSelection(p.grid.SelStartX(), p.grid.SelStartY(), x, absLine, true, false)
}

// SelectEnd commits the selection (mouse-release); the selection
// stays visible/addressable until explicitly cleared.
func (p *Pane) SelectEnd() {}

// ClearSelection discards the pane's selection.
func (p *Pane) ClearSelection() {
	p.grid.ClearSelection()
}

// SelectionText returns the plain text (styles stripped) of the
// active selection, or "" if none.
func (p *Pane) SelectionText() string {
	if !p.grid.HasSelection() {
		return ""
	}
	return p.grid.GetSelectedText(p.grid.SelStartX(), p.grid.SelStartY(), p.grid.SelEndX(), p.grid.SelEndY())
}
