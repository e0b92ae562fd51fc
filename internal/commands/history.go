package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/webchat/internal/chat"
	"github.com/diogo/webchat/internal/render"
	"github.com/diogo/webchat/internal/transcript"
)

func newHistoryCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or export the server-side conversation",
		Long: `Fetch the conversation from the server and print it.

Without --format the history is rendered for the terminal. With --format
(markdown, json or html) it is exported, to stdout or to the file given with -o.
When only -o is given the format follows the file extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := flags.setup(deps)
			if err != nil {
				return err
			}
			defer rt.close()

			tr := transcript.New()
			renderer := chat.NewRenderer(tr)
			if err := chat.NewHistoryLoader(rt.client, renderer, rt.log).LoadHistory(cmd.Context()); err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}

			if format == "" && output == "" {
				if tr.Len() == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No messages yet.")
					return nil
				}
				newPrinter(cmd.OutOrStdout(), render.OptionsFromConfig(rt.cfg)).print(tr.Nodes())
				return nil
			}

			exportFormat := transcript.FormatForPath(output)
			if format != "" {
				if exportFormat, err = transcript.ParseExportFormat(format); err != nil {
					return err
				}
			}

			out, err := transcript.Export(tr.Nodes(), exportFormat)
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d messages to %s\n", tr.Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Export format: markdown, json or html")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the export to a file")
	return cmd
}
