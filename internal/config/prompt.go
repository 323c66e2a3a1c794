package config

import (
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

const asciiLogo = `
██████╗ ██████╗ ██╗██╗     ██╗     ███████╗
██╔══██╗██╔══██╗██║██║     ██║     ██╔════╝
██║  ██║██████╔╝██║██║     ██║     ███████╗
██║  ██║██╔══██╗██║██║     ██║     ╚════██║
██████╔╝██║  ██║██║███████╗███████╗███████║
╚═════╝ ╚═╝  ╚═╝╚═╝╚══════╝╚══════╝╚══════╝`

// PromptOptions holds the user's responses to the first run prompts.
type PromptOptions struct {
	BaseURL         string
	RefreshInterval int
}

// WithPromptConfig asks for the backend address when no config file exists
// at configPath yet. It must run before WithViperConfig writes the file.
func WithPromptConfig(configPath string) Option {
	return func(c *Config) error {
		_, err := os.Stat(configPath)
		if err == nil || !errors.Is(err, os.ErrNotExist) {
			return nil
		}

		opts, err := promptUser()
		if err != nil {
			return errPrompt.Wrap(err)
		}

		return applyPromptOptions(c, opts)
	}
}

func promptUser() (PromptOptions, error) {
	opts := PromptOptions{BaseURL: DefaultBaseURL}

	pterm.Println(asciiLogo)

	_ = putils.BulletListFromString(`Follow the prompts below to configure drills for the first time.
Press ENTER to accept the defaults.
Edit the config file with 'drills edit-config' to change any settings.`, " ").
		Render()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend address").
				Value(&opts.BaseURL),
		),
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Refresh every").
				Options(
					huh.NewOption("15 seconds", 15),
					huh.NewOption("30 seconds", 30).Selected(true),
					huh.NewOption("1 minute", 60),
					huh.NewOption("5 minutes", 300),
				).
				Value(&opts.RefreshInterval),
		),
	)

	if err := form.Run(); err != nil {
		return opts, err
	}

	return opts, nil
}

// applyPromptOptions stores the answers so WithViperConfig can write them.
func applyPromptOptions(c *Config, opts PromptOptions) error {
	c.API.BaseURL = opts.BaseURL
	c.Refresh.Interval = time.Duration(opts.RefreshInterval) * time.Second

	return nil
}
