package watcher

import tea "github.com/charmbracelet/bubbletea"

// ChangedMsg is delivered to a bubbletea program when the watched file
// settles after a change.
type ChangedMsg struct {
	Path string
}

// ErrorMsg is delivered when watching fails, for example ErrFileRemoved
// when the file is deleted. Watching continues; a file that reappears
// produces a ChangedMsg.
type ErrorMsg struct {
	Path string
	Err  error
}

func (m ErrorMsg) Error() string { return m.Path + ": " + m.Err.Error() }

// WaitCmd blocks until the next change or error. Re-issue it after each
// ChangedMsg or ErrorMsg.
func (w *Watcher) WaitCmd() tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.changeCh:
			return ChangedMsg{Path: w.path}
		case err := <-w.errCh:
			return ErrorMsg{Path: w.path, Err: err}
		}
	}
}
