package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/contactform/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┌┐┌┌┬┐┌─┐┌─┐┌┬┐
  │  │ ││││ │ ├─┤│   │
  └─┘└─┘┘└┘ ┴ ┴ ┴└─┘ ┴
`

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	verbose    bool
	noColor    bool
}

// color reports whether output may use ANSI colors.
func (g *globalOptions) color() bool {
	return !g.noColor && os.Getenv("NO_COLOR") == ""
}

// logger returns a stderr logger. min is the level used without --verbose.
func (g *globalOptions) logger(min slog.Level) *slog.Logger {
	level := min
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// exitError ends the process with code without printing anything more.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		var ee exitError
		if stderrors.As(err, &ee) {
			return ee.code
		}
		errors.Fprint(stderr, err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "contactform",
		Short: "Fill in and send a contact form",
		Long: `contactform drives a four-field contact form (name, email, contact,
message) and posts it to an HTTP endpoint as multipart form data.

  • send     submit once from flags
  • prompt   fill the form interactively
  • serve    host the form over WebSocket for browsers
  • init     write a starter contact.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !g.color() {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file (default: contact.json in the working directory or a parent)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		sendCmd(g),
		promptCmd(g),
		serveCmd(g),
		initCmd(),
		versionCmd(),
	)

	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
