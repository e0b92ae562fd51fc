// Package commands provides CLI commands for webchat.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// NewRootCmd creates the webchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	flags := &globalFlags{}
	var fileFlag, outputFlag string

	cmd := &cobra.Command{
		Use:   "webchat [message]",
		Short: "Terminal client for a web chat server",
		Long: `webchat talks to a chat server exposing /get_history and /send_message.
It renders replies as markdown in the terminal and can hold an interactive
session, send a single message, or export the server-side history.

Examples:
  webchat chat                           Start interactive chat
  webchat "What is Go?"                  Send a single message
  webchat -f prompt.md                   Read the message from a file
  cat prompt.md | webchat                Read the message from stdin
  webchat "Hello" -o reply.md            Save the reply to a file
  webchat history --format html -o c.html
  webchat reset                          Wipe the server-side conversation`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "webchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			text, ok, err := readMessage(cmd, args, fileFlag)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return runSend(cmd, deps, flags, text, outputFlag)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the reply to a file")
	cmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the message from a file")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(deps, flags))
	cmd.AddCommand(newHistoryCmd(deps, flags))
	cmd.AddCommand(newResetCmd(deps, flags))
	cmd.AddCommand(newConfigCmd(flags))

	return cmd
}

// readMessage picks the message from --file, piped stdin or the argument
func readMessage(cmd *cobra.Command, args []string, file string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", false, nil
		}
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", false, fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(data) == 0 {
		return "", false, nil
	}
	return string(data), true, nil
}

var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "webchat"))
		stop()
		os.Exit(1)
	}
}
