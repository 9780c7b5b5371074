package tui

import (
	"errors"
	"strings"

	"adapterctl/config/validation"
	"adapterctl/internal/adapters"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// FormKind identifies what a prompt collects
type FormKind int

const (
	FormLocation FormKind = iota // adapter location to configure
	FormNavigate                 // port to navigate the play view to
)

// Form styles
var (
	formLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	formErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	formHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

var inputValidator = validation.NewInputValidator()

// NewFormInput creates the text input for a prompt
func NewFormInput(kind FormKind) textinput.Model {
	in := textinput.New()
	in.Prompt = "› "
	in.CharLimit = 255
	in.Width = 40
	switch kind {
	case FormNavigate:
		in.Placeholder = "10000"
	default:
		in.Placeholder = "localhost:10000"
	}
	in.Focus()
	return in
}

// ValidateFormValue checks a submitted prompt value and returns it trimmed.
// Locations may also be pasted URLs or catalog names, as on the command line.
func ValidateFormValue(kind FormKind, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("value cannot be empty")
	}
	switch kind {
	case FormNavigate:
		// adapters without a port are keyed by their location
		check := inputValidator.ValidatePort
		if strings.Contains(value, ":") {
			check = inputValidator.ValidateLocation
		}
		if err := check(value); err != nil {
			return "", err
		}
	default:
		value = adapters.NormalizeLocation(value)
		if err := inputValidator.ValidateLocation(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

// formTitle returns the label shown above a prompt
func formTitle(kind FormKind) string {
	if kind == FormNavigate {
		return "Go to adapter port"
	}
	return "Configure adapter at location (host:port)"
}
