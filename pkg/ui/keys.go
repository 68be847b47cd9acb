package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevCourse key.Binding
	NextCourse key.Binding
	PickCourse key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Career     key.Binding
	Skills     key.Binding
	Market     key.Binding
	ScrollDown key.Binding
	ScrollUp   key.Binding
	PageDown   key.Binding
	PageUp     key.Binding
	Apply      key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding

	// Application modal
	Portal     key.Binding
	Email      key.Binding
	Phone      key.Binding
	Copy       key.Binding
	FocusUp    key.Binding
	FocusDown  key.Binding
	Activate   key.Binding
	CloseModal key.Binding
}

var keys = keyMap{
	PrevCourse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev course")),
	NextCourse: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next course")),
	PickCourse: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "pick course"),
	),
	NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
	Career:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "career path")),
	Skills:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skill gaps")),
	Market:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "job market")),
	ScrollDown: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "scroll")),
	ScrollUp:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "scroll up")),
	PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	Apply:      key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a/enter", "start application")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),

	Portal:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "apply online")),
	Email:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "email admissions")),
	Phone:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "call admissions")),
	Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy contact")),
	FocusUp:    key.NewBinding(key.WithKeys("up", "k", "shift+tab"), key.WithHelp("↑/↓", "choose")),
	FocusDown:  key.NewBinding(key.WithKeys("down", "j", "tab")),
	Activate:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	CloseModal: key.NewBinding(key.WithKeys("esc", "x"), key.WithHelp("esc/x", "close")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevCourse, k.NextCourse, k.NextTab, k.Apply, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevCourse, k.NextCourse, k.PickCourse},
		{k.NextTab, k.PrevTab, k.Career, k.Skills, k.Market},
		{k.ScrollDown, k.ScrollUp, k.PageDown, k.PageUp},
		{k.Apply, k.Help, k.Quit},
	}
}

// modalKeyMap is the help shown while the application modal is open.
type modalKeyMap struct{ keyMap }

func (k modalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Portal, k.Email, k.Phone, k.Copy, k.FocusUp, k.CloseModal}
}

func (k modalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Portal, k.Email, k.Phone, k.Copy}, {k.FocusUp, k.Activate, k.CloseModal}}
}
