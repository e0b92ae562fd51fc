package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/webchat/internal/models"
)

func newResetCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Wipe the server-side conversation",
		Long: fmt.Sprintf(`Send the server's reset command (%q) and wait for the acknowledgement.
The reset always uses the json transport.`, models.ResetCommand),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := flags.setup(deps)
			if err != nil {
				return err
			}
			defer rt.close()

			reply, err := rt.client.SendJSON(cmd.Context(), models.ResetCommand)
			if err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}

			switch reply.Kind {
			case models.ReplyReset:
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Conversation reset")
				return nil
			case models.ReplyError:
				return fmt.Errorf("reset failed: %s", reply.Detail)
			default:
				msg, _ := reply.Message()
				return fmt.Errorf("server did not acknowledge the reset: %q", msg.Content)
			}
		},
	}
}
