package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
	"github.com/vango-dev/contactform/internal/config"
	"github.com/vango-dev/contactform/internal/errors"
	"github.com/vango-dev/contactform/pkg/contact"
	"github.com/vango-dev/contactform/pkg/toast"
)

// prompter asks the user for input. The survey implementation is swapped
// out in tests.
type prompter interface {
	Input(message, help string) (string, error)
	Multiline(message, help string) (string, error)
	Confirm(message string, def bool) (bool, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Input(message, help string) (string, error) {
	var out string
	err := survey.AskOne(&survey.Input{Message: message, Help: help}, &out)
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Multiline(message, help string) (string, error) {
	var out string
	err := survey.AskOne(&survey.Multiline{Message: message, Help: help}, &out)
	return out, translateSurveyErr(err)
}

func (surveyPrompter) Confirm(message string, def bool) (bool, error) {
	var out bool
	err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &out)
	return out, translateSurveyErr(err)
}

func translateSurveyErr(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, terminal.InterruptErr) {
		return errors.New("C130")
	}
	return err
}

func promptCmd(g *globalOptions) *cobra.Command {
	var (
		flags endpointFlags
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill in the contact form interactively",
		Long: `Ask for each field in turn, check it when you leave it, and submit.

An invalid email is asked for again. Press Ctrl-C to abort.

Examples:
  contactform prompt
  contactform prompt --endpoint https://example.com/contact --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g, &flags)
			if err != nil {
				return err
			}
			return runPrompt(cmd.Context(), cmd.OutOrStdout(), g, cfg, surveyPrompter{}, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Submit without asking for confirmation")
	flags.register(cmd)

	return cmd
}

var fieldPrompts = map[contact.Field]string{
	contact.FieldName:    "Name:",
	contact.FieldEmail:   "Email:",
	contact.FieldContact: "Phone:",
	contact.FieldMessage: "Message:",
}

func runPrompt(ctx context.Context, out io.Writer, g *globalOptions, cfg *config.Config, p prompter, yes bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := g.logger(slog.LevelWarn)

	tr, err := newTransport(cfg, logger)
	if err != nil {
		return err
	}
	opts := append(controllerOptions(cfg, logger), contact.WithNotifier(toast.NewWriter(out, g.color())))
	ctrl := contact.New(tr, opts...)

	for _, field := range contact.AllFields() {
		if err := askField(out, p, ctrl, field); err != nil {
			return err
		}
	}

	if !yes {
		ok, err := p.Confirm("Send this message?", true)
		if err != nil {
			return err
		}
		if !ok {
			info(out, "Not sent.")
			return nil
		}
	}

	a, err := ctrl.Submit(ctx)
	if err != nil {
		return err
	}
	if a.Phase() == contact.Blocked {
		for _, hint := range ctrl.Validation().Hints() {
			warn(out, "%s", hint)
		}
	}
	if cerr := errors.FromContact(a.Err()); cerr != nil {
		return cerr
	}
	return nil
}

// askField asks for one field until it is non-empty and, for the email,
// valid. Every answer is entered and left like a form field.
func askField(out io.Writer, p prompter, ctrl *contact.Controller, field contact.Field) error {
	help := fmt.Sprintf("Up to %d characters", field.MaxLength())
	for {
		var value string
		var err error
		if field == contact.FieldMessage {
			value, err = p.Multiline(fieldPrompts[field], help)
		} else {
			value, err = p.Input(fieldPrompts[field], help)
		}
		if err != nil {
			return err
		}

		ctrl.OnFieldChange(field, value)
		ctrl.OnBlur(field)

		if ctrl.Fields().Get(field) == "" {
			warn(out, "%s", contact.HintMissingRequired)
			continue
		}
		if field == contact.FieldEmail && ctrl.Validation().EmailInvalid {
			warn(out, "%s", contact.HintInvalidEmail)
			continue
		}
		return nil
	}
}
