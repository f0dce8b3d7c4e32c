package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/pressdesk/internal/agents"
)

// Credentials are the values collected by the sign-in and registration prompts.
type Credentials struct {
	Email    string
	Password string
	FullName string
	Company  string
}

// PromptCredentials asks for every empty field of c. Registration also asks
// for the full name and company.
func PromptCredentials(c *Credentials, register bool) error {
	var fields []huh.Field

	if c.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@company.com").
			Value(&c.Email).
			Validate(required("email")))
	}
	if c.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&c.Password).
			Validate(required("password")))
	}
	if register {
		if c.FullName == "" {
			fields = append(fields, huh.NewInput().
				Title("Full name").
				Value(&c.FullName))
		}
		if c.Company == "" {
			fields = append(fields, huh.NewInput().
				Title("Company").
				Description("Optional").
				Value(&c.Company))
		}
	}

	if len(fields) == 0 {
		return nil
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	c.Email = strings.TrimSpace(c.Email)
	c.FullName = strings.TrimSpace(c.FullName)
	c.Company = strings.TrimSpace(c.Company)
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// PromptForString displays an interactive prompt and returns the user's input
func PromptForString(title, placeholder string, long bool) (string, error) {
	var value string

	var field huh.Field
	if long {
		field = huh.NewText().Title(title).Placeholder(placeholder).Value(&value)
	} else {
		field = huh.NewInput().Title(title).Placeholder(placeholder).Value(&value)
	}

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// PromptForOption displays a selection prompt over agent options and returns
// the chosen value. current preselects an option.
func PromptForOption(title string, options []agents.Option, current string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options provided")
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt.Label, opt.Value)
	}

	selected := current
	selectField := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&selected)

	if err := huh.NewForm(huh.NewGroup(selectField)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return selected, nil
}

// PromptForConfirmation displays a yes/no confirmation prompt
func PromptForConfirmation(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	confirm := huh.NewConfirm().
		Title(message).
		Value(&confirmed)

	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt returns true if prompts should be shown based on environment
// Prompts are disabled in CI environments or when stdin is not a terminal
func ShouldPrompt() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"BUILDKITE",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return IsInteractive()
}
