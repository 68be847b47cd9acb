package ui

import (
	"os"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/unimatch/pkg/debug"
)

// Admissions contact targets.
const (
	PortalURL       = "https://www.unidirectory.lk/"
	AdmissionsEmail = "admissions@university.lk"
	AdmissionsPhone = "+94112123456"

	MailtoURL = "mailto:" + AdmissionsEmail
	TelURL    = "tel:" + AdmissionsPhone
)

// Navigator hands URLs to the host environment.
type Navigator interface {
	// OpenNew opens url in a new browsing context.
	OpenNew(url string) error
	// Navigate sends the current context to url (mailto:, tel:).
	Navigate(url string) error
}

// SystemNavigator launches the platform URL handler.
type SystemNavigator struct{}

func (SystemNavigator) OpenNew(url string) error  { return launch(url) }
func (SystemNavigator) Navigate(url string) error { return launch(url) }

// launch starts $BROWSER or the OS opener and does not wait for it.
func launch(url string) error {
	var cmd *exec.Cmd
	if browser := os.Getenv("BROWSER"); browser != "" {
		cmd = exec.Command(browser, url)
	} else {
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", "", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// navigatedMsg reports the outcome of a navigation.
type navigatedMsg struct {
	url string
	err error
}

func navigateCmd(nav Navigator, url string, newContext bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if newContext {
			err = nav.OpenNew(url)
		} else {
			err = nav.Navigate(url)
		}
		if err != nil {
			debug.Log("navigate %s: %v", url, err)
		}
		return navigatedMsg{url: url, err: err}
	}
}

// ContactText is what the copy action puts on the clipboard.
func ContactText() string {
	return "Email: " + AdmissionsEmail + "\nPhone: " + AdmissionsPhone + "\nPortal: " + PortalURL
}

type copiedMsg struct{ err error }

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		err := write(text)
		if err != nil {
			debug.Log("clipboard: %v", err)
		}
		return copiedMsg{err: err}
	}
}
