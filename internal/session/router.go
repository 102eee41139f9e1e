package session

// Router implements the Session Router (spec.md section 4.7): the
// server's central dispatch loop. It owns no channels of its own in
// this package -- the channel plumbing (one per attached client, one
// per PTY reader, driven by safego.Go/supervisor.Supervisor) lives in
// cmd/zmuxd, which is the single-owner loop that
// calls Router.Dispatch for every inbound ClientToServerMsg and
// Router.RenderTick on a fixed interval. Router itself holds the
// per-client bookkeeping and the pure logic: which Tab/Pane operation
// a message maps to, and how a render tick turns dirty Grids into
// per-client serialized bytes, per spec.md section 4.3.
import (
	"errors"
	"sync"
	"time"

	"github.com/zmux-dev/zmux/internal/clipboard"
	"github.com/zmux-dev/zmux/internal/client"
	"github.com/zmux-dev/zmux/internal/config"
	"github.com/zmux-dev/zmux/internal/errctx"
	"github.com/zmux-dev/zmux/internal/ipc"
	"github.com/zmux-dev/zmux/internal/logging"
	"github.com/zmux-dev/zmux/internal/output"
	"github.com/zmux-dev/zmux/internal/resurrect"
	"github.com/zmux-dev/zmux/internal/tab"
)

// RenderInterval is the coalescing period named in spec.md section
// 5's ordering guarantees: "Render ticks are coalesced: multiple
// mark-dirty events between render ticks produce a single serialized
// update." Every dirty Grid accumulated during one interval is
// flushed as one RenderMsg per affected client.
const RenderInterval = 16 * time.Millisecond

// ResizeStep is the number of cells a ResizeMode action moves a
// border by, per spec.md section 8 scenario 3.
const ResizeStep = 10

// Sender delivers a ServerToClientMsg to one attached client; the IPC
// transport and the web bridge each provide their own implementation
// over their respective wire formats.
type Sender func(ipc.ServerToClientMsg) error

// ErrUnknownClient is returned by operations naming a client ID the
// Router has no record of (already detached, or never attached).
var ErrUnknownClient = errors.New("session: unknown client")

type clientHandle struct {
	state *client.State
	send  Sender
}

// Router dispatches ClientToServerMsg traffic against a Session and
// serializes render output back to every attached client.
type Router struct {
	mu      sync.Mutex
	sess    *Session
	cfg     *config.Config
	clip    *clipboard.Copier
	clients map[string]*clientHandle
	stack   errctx.Stack

	// OnSessionExit is invoked once, from Dispatch, when a client
	// requests ExitMsg.KillSession; the caller (cmd/zmuxd) is
	// responsible for actually tearing down the listener.
	OnSessionExit func(reason string)
}

// NewRouter creates a Router over sess. cfg supplies the clipboard
// copy destination default.
func NewRouter(sess *Session, cfg *config.Config) *Router {
	return &Router{
		sess:    sess,
		cfg:     cfg,
		clip:    &clipboard.Copier{},
		clients: map[string]*clientHandle{},
	}
}

// Attach registers a newly attached client, focuses it on tab 0 (or
// its last-known tab, if resurrect ever calls Attach twice for the
// same ID -- not currently exercised but harmless), and sizes the
// session to the attaching client's terminal if no client has set a
// size yet.
func (r *Router) Attach(clientID string, cols, rows int, send Sender) {
	defer errctx.Enter(&r.stack, errctx.KindAttach, clientID)()

	r.mu.Lock()
	r.clients[clientID] = &clientHandle{
		state: client.NewState(clientID, cols, rows, client.PaletteTrueColor),
		send:  send,
	}
	first := len(r.clients) == 1
	r.mu.Unlock()

	if first {
		r.sess.Resize(cols, rows)
	}
	_ = r.sess.SetActiveTab(clientID, r.sess.ActiveTabIndex(clientID))
}

// Detach unregisters a client, per spec.md section 4.7's cancellation
// rule: outstanding messages addressed to it are simply never sent
// again (there is nothing further to cancel in this in-process
// design -- the client's own IPC connection close is what unblocks
// any pending write on the transport side).
func (r *Router) Detach(clientID string) {
	defer errctx.Enter(&r.stack, errctx.KindDetach, clientID)()
	r.mu.Lock()
	delete(r.clients, clientID)
	r.mu.Unlock()
	r.sess.ForgetClient(clientID)
}

func (r *Router) handle(clientID string) (*clientHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.clients[clientID]
	if !ok {
		return nil, ErrUnknownClient
	}
	return h, nil
}

// Dispatch routes one ClientToServerMsg to the operation it names.
func (r *Router) Dispatch(clientID string, msg ipc.ClientToServerMsg) error {
	switch {
	case msg.Key != nil:
		defer errctx.Enter(&r.stack, errctx.KindClientInput, clientID)()
		return r.handleKey(clientID, msg.Key.Bytes)
	case msg.Action != nil:
		defer errctx.Enter(&r.stack, errctx.KindScreenOp, msg.Action.Name)()
		return r.handleAction(clientID, msg.Action)
	case msg.Resize != nil:
		defer errctx.Enter(&r.stack, errctx.KindResize, clientID)()
		return r.handleResize(clientID, msg.Resize)
	case msg.Paste != nil:
		defer errctx.Enter(&r.stack, errctx.KindClientInput, clientID)()
		return r.handlePaste(clientID, msg.Paste.Data)
	case msg.Exit != nil:
		defer errctx.Enter(&r.stack, errctx.KindDetach, clientID)()
		return r.handleExit(clientID, msg.Exit)
	case msg.ConfigWrite != nil:
		defer errctx.Enter(&r.stack, errctx.KindBackgroundJob, clientID)()
		return r.handleConfigWrite(clientID, msg.ConfigWrite)
	default:
		return nil
	}
}

func (r *Router) activeTab(clientID string) *tab.Tab {
	tabs := r.sess.Tabs()
	idx := r.sess.ActiveTabIndex(clientID)
	if idx < 0 || idx >= len(tabs) {
		return nil
	}
	return tabs[idx]
}

func (r *Router) handleKey(clientID string, raw []byte) error {
	t := r.activeTab(clientID)
	if t == nil {
		return nil
	}
	active, ok := t.ActivePane(clientID)
	if !ok {
		return nil
	}
	if t.SyncInput() {
		for _, p := range t.AllTiledPanes() {
			_, _ = p.Write(raw)
		}
		return nil
	}
	_, err := active.Write(raw)
	return err
}

// bracketedPasteStart/End wrap pasted content per xterm's bracketed
// paste convention so a pane application that requested it (and only
// such an application -- others simply see the markers as literal
// bytes, which is standard xterm behavior too) can distinguish pasted
// text from typed text.
var (
	bracketedPasteStart = []byte("\x1b[200~")
	bracketedPasteEnd   = []byte("\x1b[201~")
)

func (r *Router) handlePaste(clientID string, data []byte) error {
	t := r.activeTab(clientID)
	if t == nil {
		return nil
	}
	active, ok := t.ActivePane(clientID)
	if !ok {
		return nil
	}
	_, _ = active.Write(bracketedPasteStart)
	_, _ = active.Write(data)
	_, err := active.Write(bracketedPasteEnd)
	return err
}

func (r *Router) handleResize(clientID string, msg *ipc.ResizeMsg) error {
	h, err := r.handle(clientID)
	if err != nil {
		return err
	}
	h.state.Resize(msg.Cols, msg.Rows)
	// The canonical tab geometry follows whichever client most
	// recently reported a resize (spec.md section 9's approach to the
	// multi-client-viewport question this raises but does not
	// resolve for tiling -- see DESIGN.md). Other attached clients
	// with a smaller viewport see the result cropped, per spec.md
	// section 4.3's serialize_with_size.
	r.sess.Resize(msg.Cols, msg.Rows)
	return nil
}

func (r *Router) handleExit(clientID string, msg *ipc.ExitMsg) error {
	if msg.KillSession {
		if r.OnSessionExit != nil {
			r.OnSessionExit("killed by client " + clientID)
		}
		return nil
	}
	r.Detach(clientID)
	return nil
}

func (r *Router) handleConfigWrite(clientID string, msg *ipc.ConfigWriteMsg) error {
	if err := r.cfg.ApplyUISetting(msg.Key, msg.Value); err != nil {
		return err
	}
	if err := r.cfg.SaveUISettings(); err != nil {
		logging.Error("session: save config: %v", err)
		return err
	}
	h, err := r.handle(clientID)
	if err != nil {
		return nil
	}
	return h.send(ipc.ServerToClientMsg{WriteConfig: &ipc.WriteConfigMsg{Key: msg.Key, Value: msg.Value}})
}

func (r *Router) handleAction(clientID string, msg *ipc.ActionMsg) error {
	t := r.activeTab(clientID)
	switch client.Action(msg.Name) {
	case client.ActionSplitRight, client.ActionSplitDown:
		return r.split(clientID, t, client.Action(msg.Name))
	case client.ActionClosePane:
		return r.closePane(clientID, t)
	case client.ActionFocusLeft:
		r.moveFocus(clientID, t, tab.Left)
	case client.ActionFocusRight:
		r.moveFocus(clientID, t, tab.Right)
	case client.ActionFocusUp:
		r.moveFocus(clientID, t, tab.Up)
	case client.ActionFocusDown:
		r.moveFocus(clientID, t, tab.Down)
	case client.ActionToggleFloat:
		return r.toggleFloat(clientID, t)
	case client.ActionToggleFullscr:
		return r.toggleFullscreen(clientID, t)
	case client.ActionTabNew:
		_, err := r.sess.NewTab("", "")
		return err
	case client.ActionTabNext:
		r.sess.NextTab(clientID)
	case client.ActionTabPrev:
		r.sess.PrevTab(clientID)
	case client.ActionTabClose:
		return r.sess.CloseTab(r.sess.ActiveTabIndex(clientID))
	case client.ActionResizeIncrease:
		return r.resize(clientID, t, false)
	case client.ActionResizeDecrease:
		return r.resize(clientID, t, true)
	case client.ActionScrollUp:
		r.scroll(t, clientID, ResizeStep)
	case client.ActionScrollDown:
		r.scroll(t, clientID, -ResizeStep)
	case client.ActionScrollToTop:
		r.scrollToTop(t, clientID)
	case client.ActionScrollToEdge:
		r.scrollToBottom(t, clientID)
	case client.ActionSearchNext:
		r.searchNext(t, clientID)
	case client.ActionSearchPrev:
		r.searchPrev(t, clientID)
	}
	return nil
}

func (r *Router) split(clientID string, t *tab.Tab, action client.Action) error {
	if t == nil {
		return nil
	}
	active, ok := t.ActivePane(clientID)
	if !ok {
		return nil
	}
	newPane, err := r.sess.SpawnPane(t, "")
	if err != nil {
		return err
	}
	if action == client.ActionSplitRight {
		return t.SplitHorizontally(active.ID, newPane)
	}
	return t.SplitVertically(active.ID, newPane)
}

func (r *Router) closePane(clientID string, t *tab.Tab) error {
	if t == nil {
		return nil
	}
	active, ok := t.ActivePane(clientID)
	if !ok {
		return nil
	}
	return active.Close()
}

func (r *Router) moveFocus(clientID string, t *tab.Tab, d tab.Direction) {
	if t == nil {
		return
	}
	t.MoveFocus(clientID, d, true)
}

func (r *Router) toggleFloat(clientID string, t *tab.Tab) error {
	if t == nil {
		return nil
	}
	active, ok := t.ActivePane(clientID)
	if !ok {
		return nil
	}
	return t.ToggleFloating(active.ID)
}

func (r *Router) toggleFullscreen(clientID string, t *tab.Tab) error {
	if t == nil {
		return nil
	}
	active, ok := t.ActivePane(clientID)
	if !ok {
		return nil
	}
	return t.ToggleFullscreen(active.ID)
}

func (r *Router) resize(clientID string, t *tab.Tab, shrink bool) error {
	if t == nil {
		return nil
	}
	d := tab.Right
	if shrink {
		d = tab.Left
	}
	return t.ResizePane(clientID, d)
}

func (r *Router) scroll(t *tab.Tab, clientID string, delta int) {
	if t == nil {
		return
	}
	active, ok := t.ActivePane(clientID)
	if !ok {
		return
	}
	active.Grid().ScrollView(delta)
}

func (r *Router) scrollToTop(t *tab.Tab, clientID string) {
	if t == nil {
		return
	}
	if active, ok := t.ActivePane(clientID); ok {
		active.Grid().ScrollViewToTop()
	}
}

func (r *Router) scrollToBottom(t *tab.Tab, clientID string) {
	if t == nil {
		return
	}
	if active, ok := t.ActivePane(clientID); ok {
		active.Grid().ScrollViewToBottom()
	}
}

func (r *Router) searchNext(t *tab.Tab, clientID string) {
	if t == nil {
		return
	}
	if active, ok := t.ActivePane(clientID); ok {
		active.SearchNext()
	}
}

func (r *Router) searchPrev(t *tab.Tab, clientID string) {
	if t == nil {
		return
	}
	if active, ok := t.ActivePane(clientID); ok {
		active.SearchPrev()
	}
}

// RenderTick collects every dirty chunk from every attached-to tab
// exactly once, then serializes a per-client frame cropped and
// occluded for that client's own viewport, per spec.md section 4.3.
// Render output to one client is strictly ordered since Sender is
// called synchronously and RenderTick itself runs from a single
// goroutine (spec.md section 5's ordering guarantee).
func (r *Router) RenderTick() {
	defer errctx.Enter(&r.stack, errctx.KindScreenOp, "render-tick")()

	r.mu.Lock()
	byTab := map[*tab.Tab][]string{}
	for id, h := range r.clients {
		_ = h
		t := r.activeTab(id)
		if t != nil {
			byTab[t] = append(byTab[t], id)
		}
	}
	r.mu.Unlock()

	for t, clientIDs := range byTab {
		chunks, sixels, cols, rows := r.collectTab(t)
		store := r.sess.SixelStore()
		// Put left each image with one ref; retain the extra shares
		// needed so every attached client can release its own copy
		// without freeing the image out from under the others.
		for range clientIDs[1:] {
			for _, sc := range sixels {
				store.Retain(sc.ImageID)
			}
		}
		for _, id := range clientIDs {
			r.renderOne(id, t, chunks, sixels, output.Size{Cols: cols, Rows: rows})
		}
	}
}

func (r *Router) collectTab(t *tab.Tab) (chunks []output.CharacterChunk, sixels []output.SixelImageChunk, cols, rows int) {
	stack := FloatingStack(t, r.sess.PinnedGeomsExcept(t))
	store := r.sess.SixelStore()
	for _, p := range t.AllTiledPanes() {
		g := p.Geom()
		src := output.PaneSource{ID: p.ID, Geom: g, Grid: p.Grid()}
		cs := output.CollectDirtyChunks(src)
		chunks = append(chunks, output.ApplyOcclusion(cs, stack, -1)...)
		sixels = append(sixels, output.CollectSixelChunks(src, store)...)
	}
	for zIndex, p := range t.Floating() {
		g := p.Geom()
		src := output.PaneSource{ID: p.ID, Geom: g, Grid: p.Grid()}
		cs := output.CollectDirtyChunks(src)
		chunks = append(chunks, output.ApplyOcclusion(cs, stack, zIndex)...)
		sixels = append(sixels, output.CollectSixelChunks(src, store)...)
	}
	cols, rows = t.Size()
	return chunks, sixels, cols, rows
}

func (r *Router) renderOne(clientID string, t *tab.Tab, chunks []output.CharacterChunk, sixels []output.SixelImageChunk, contentSize output.Size) {
	store := r.sess.SixelStore()
	h, err := r.handle(clientID)
	if err != nil {
		for _, sc := range sixels {
			store.Release(sc.ImageID)
		}
		return
	}

	maxSize := output.Size{Cols: h.state.Cols, Rows: h.state.Rows}
	cropped := output.CropChunks(chunks, maxSize)
	croppedSixels := output.CropSixelChunks(sixels, maxSize, store)

	var buf output.ClientBuffer
	buf.Chunks = cropped
	buf.SixelChunks = croppedSixels
	output.PadForSmallerContent(&buf, contentSize, maxSize)

	cursor := r.cursorFor(clientID, t)
	if !output.CursorWithinBounds(cursor, maxSize) {
		cursor.Visible = false
	}

	bytes := output.Serialize(&buf, cursor, store)
	if len(bytes) == 0 {
		return
	}
	if err := h.send(ipc.ServerToClientMsg{Render: &ipc.RenderMsg{Bytes: bytes}}); err != nil {
		logging.Debug("session: render send to %s: %v", clientID, err)
	}
}

func (r *Router) cursorFor(clientID string, t *tab.Tab) output.CursorState {
	if t == nil {
		return output.CursorState{}
	}
	active, ok := t.ActivePane(clientID)
	if !ok {
		return output.CursorState{}
	}
	g := active.Geom()
	grid := active.Grid()
	visible := grid.ShowCursor && !grid.CursorHidden && !grid.IsScrolled()
	stack := FloatingStack(t, r.sess.PinnedGeomsExcept(t))
	zIndex := -1
	for i, p := range t.Floating() {
		if p.ID == active.ID {
			zIndex = i
		}
	}
	if visible {
		visible = output.CursorVisible(g.X+grid.CursorX, g.Y+grid.CursorY, stack, zIndex)
	}
	return output.CursorState{
		X:       g.X + grid.CursorX,
		Y:       g.Y + grid.CursorY,
		Visible: visible,
	}
}

// CopySelection copies active's current selection to dest, per
// spec.md section 4.12.
func (r *Router) CopySelection(clientID string, dest clipboard.Destination) error {
	t := r.activeTab(clientID)
	if t == nil {
		return nil
	}
	active, ok := t.ActivePane(clientID)
	if !ok {
		return nil
	}
	text := active.SelectionText()
	if text == "" {
		return nil
	}
	return r.clip.Copy(text, dest)
}

// Run starts a render-tick loop on the calling goroutine; it returns
// when stop is closed. cmd/zmuxd runs this under its
// supervisor.Supervisor as the "screen" worker.
func (r *Router) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(RenderInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.RenderTick()
		case <-stop:
			return
		}
	}
}

// Snapshot returns the resurrection-serializable TabSnapshots for
// every tab currently open, per spec.md section 4.9.
func (r *Router) Snapshot() []resurrect.TabSnapshot {
	var out []resurrect.TabSnapshot
	for _, t := range r.sess.Tabs() {
		snap := resurrect.TabSnapshot{Name: t.Name}
		for id, g := range t.Panes() {
			p, ok := t.Pane(id)
			if !ok {
				continue
			}
			snap.Panes = append(snap.Panes, resurrect.PaneSnapshot{Geom: g, Command: p.Command(), Cwd: p.Cwd()})
		}
		out = append(out, snap)
	}
	return out
}
