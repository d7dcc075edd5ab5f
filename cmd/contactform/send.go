package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"github.com/vango-dev/contactform/internal/config"
	"github.com/vango-dev/contactform/internal/errors"
	"github.com/vango-dev/contactform/pkg/contact"
	"github.com/vango-dev/contactform/pkg/toast"
)

func sendCmd(g *globalOptions) *cobra.Command {
	var (
		form    contact.Fields
		flags   endpointFlags
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit the contact form once",
		Long: `Fill the form from flags and submit it.

Each field is entered and left in order, so the same checks run as in the
browser form: an empty field or an invalid email blocks the submission.

Examples:
  contactform send --name Ada --email ada@example.com --phone 555-0100 --message "Hello"
  contactform send -e https://example.com/contact --name Ada ... --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g, &flags)
			if err != nil {
				return err
			}
			return runSend(cmd.Context(), cmd.OutOrStdout(), g, cfg, form, jsonOut)
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "Sender name")
	cmd.Flags().StringVar(&form.Email, "email", "", "Sender email address")
	cmd.Flags().StringVar(&form.Contact, "phone", "", "Sender phone or other contact detail")
	cmd.Flags().StringVar(&form.Message, "message", "", "Message body")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON")
	flags.register(cmd)

	return cmd
}

// sendResult is the --json output.
type sendResult struct {
	Attempt    string          `json:"attempt"`
	Phase      string          `json:"phase"`
	DurationMs int64           `json:"durationMs"`
	Payload    contact.Payload `json:"payload"`
	Error      any             `json:"error,omitempty"`
}

func runSend(ctx context.Context, out io.Writer, g *globalOptions, cfg *config.Config, form contact.Fields, jsonOut bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := g.logger(slog.LevelWarn)

	tr, err := newTransport(cfg, logger)
	if err != nil {
		return err
	}

	notifier := toast.Notifier(toast.NewWriter(out, g.color()))
	if jsonOut {
		notifier = toast.Discard
	}
	opts := append(controllerOptions(cfg, logger), contact.WithNotifier(notifier))
	ctrl := contact.New(tr, opts...)

	for _, field := range contact.AllFields() {
		ctrl.OnFieldChange(field, form.Get(field))
		ctrl.OnBlur(field)
	}

	a, err := ctrl.Submit(ctx)
	if err != nil {
		return err
	}
	cerr := errors.FromContact(a.Err())

	if jsonOut {
		res := sendResult{
			Attempt:    a.ID,
			Phase:      a.Phase().String(),
			DurationMs: a.Duration().Milliseconds(),
			Payload:    a.Payload(),
		}
		if cerr != nil {
			res.Error = json.RawMessage(cerr.FormatJSON())
		}
		s, err := sonic.MarshalString(res)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
		if cerr != nil {
			return exitError{code: 1}
		}
		return nil
	}

	if a.Phase() == contact.Blocked {
		for _, hint := range ctrl.Validation().Hints() {
			warn(out, "%s", hint)
		}
	}
	if cerr != nil {
		return cerr
	}
	return nil
}
