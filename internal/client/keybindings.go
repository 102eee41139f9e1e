package client

// Action identifies a keybinding-resolved command sent to the session
// router as an ActionMsg, rather than forwarded to the PTY as raw
// bytes.
type Action string

const (
	ActionNone Action = ""

	ActionSplitRight    Action = "split_right"
	ActionSplitDown     Action = "split_down"
	ActionClosePane     Action = "close_pane"
	ActionFocusLeft     Action = "focus_left"
	ActionFocusRight    Action = "focus_right"
	ActionFocusUp       Action = "focus_up"
	ActionFocusDown     Action = "focus_down"
	ActionToggleFloat   Action = "toggle_floating"
	ActionToggleFullscr Action = "toggle_fullscreen"

	ActionTabNew   Action = "new_tab"
	ActionTabNext  Action = "next_tab"
	ActionTabPrev  Action = "prev_tab"
	ActionTabClose Action = "close_tab"

	ActionResizeIncrease Action = "resize_increase"
	ActionResizeDecrease Action = "resize_decrease"

	ActionScrollUp     Action = "scroll_up"
	ActionScrollDown   Action = "scroll_down"
	ActionScrollToTop  Action = "scroll_to_top"
	ActionScrollToEdge Action = "scroll_to_bottom"

	ActionSearchNext Action = "search_next"
	ActionSearchPrev Action = "search_prev"

	ActionEnterMode Action = "enter_mode"
	ActionLockMode  Action = "lock_mode"
	ActionQuit      Action = "quit"
)

// binding pairs a Key match with the Action it resolves to in one
// Mode.
type binding struct {
	key Key
	act Action
}

// Keymap holds the per-mode keybinding tables used to interpret keys
// in every mode except Normal, where keys are forwarded to the PTY
// unchanged.
type Keymap struct {
	tables map[Mode][]binding
}

// DefaultKeymap returns the built-in keybinding table. Per-mode
// overrides loaded from the user's config are applied on top of it
// by Override.
func DefaultKeymap() *Keymap {
	km := &Keymap{tables: map[Mode][]binding{
		ModePane: {
			{Key{Code: KeyRune, Rune: 'h'}, ActionFocusLeft},
			{Key{Code: KeyRune, Rune: 'l'}, ActionFocusRight},
			{Key{Code: KeyRune, Rune: 'k'}, ActionFocusUp},
			{Key{Code: KeyRune, Rune: 'j'}, ActionFocusDown},
			{Key{Code: KeyRune, Rune: 'n'}, ActionSplitRight},
			{Key{Code: KeyRune, Rune: 'd'}, ActionSplitDown},
			{Key{Code: KeyRune, Rune: 'x'}, ActionClosePane},
			{Key{Code: KeyRune, Rune: 'f'}, ActionToggleFloat},
			{Key{Code: KeyRune, Rune: 'z'}, ActionToggleFullscr},
			{Key{Code: KeyEscape}, ActionEnterMode},
		},
		ModeTab: {
			{Key{Code: KeyRune, Rune: 'n'}, ActionTabNew},
			{Key{Code: KeyTab}, ActionTabNext},
			{Key{Code: KeyTab, Mod: ModShift}, ActionTabPrev},
			{Key{Code: KeyRune, Rune: 'x'}, ActionTabClose},
			{Key{Code: KeyEscape}, ActionEnterMode},
		},
		ModeResize: {
			{Key{Code: KeyRune, Rune: 'h'}, ActionResizeDecrease},
			{Key{Code: KeyRune, Rune: 'l'}, ActionResizeIncrease},
			{Key{Code: KeyEscape}, ActionEnterMode},
		},
		ModeScroll: {
			{Key{Code: KeyRune, Rune: 'k'}, ActionScrollUp},
			{Key{Code: KeyRune, Rune: 'j'}, ActionScrollDown},
			{Key{Code: KeyRune, Rune: 'g'}, ActionScrollToTop},
			{Key{Code: KeyRune, Rune: 'G'}, ActionScrollToEdge},
			{Key{Code: KeyEscape}, ActionEnterMode},
		},
		ModeSearch: {
			{Key{Code: KeyEnter}, ActionSearchNext},
			{Key{Code: KeyRune, Rune: 'n', Mod: ModCtrl}, ActionSearchNext},
			{Key{Code: KeyRune, Rune: 'p', Mod: ModCtrl}, ActionSearchPrev},
			{Key{Code: KeyEscape}, ActionEnterMode},
		},
		ModeLocked: {
			{Key{Code: KeyRune, Rune: 'g', Mod: ModCtrl}, ActionEnterMode},
		},
	}}
	return km
}

// Override replaces or adds a binding for mode, letting a user's
// config customize the defaults.
func (km *Keymap) Override(mode Mode, key Key, act Action) {
	table := km.tables[mode]
	for i, b := range table {
		if b.key == key {
			table[i].act = act
			return
		}
	}
	km.tables[mode] = append(table, binding{key, act})
}

// Resolve looks up the action bound to key in mode. It returns
// ActionNone if the mode forwards keys unmodified (Normal) or no
// binding matches.
func (km *Keymap) Resolve(mode Mode, key Key) Action {
	if mode == ModeNormal {
		return ActionNone
	}
	for _, b := range km.tables[mode] {
		if b.key == key {
			return b.act
		}
	}
	return ActionNone
}
