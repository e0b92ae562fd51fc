package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/webchat/internal/render"
	"github.com/diogo/webchat/internal/tui"
)

func newChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the server.

History is loaded from the server when the session starts. Press Esc to
cancel a pending reply; type /exit, press Esc when idle or Ctrl+C to quit.

Commands inside the chat:
  /copy            Copy the last reply to the clipboard
  /export <file>   Save the transcript (.md, .json or .html)
  /clear           Reload the view from the server
  /chat reset      Ask the server to wipe the conversation`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := flags.setup(deps)
			if err != nil {
				return err
			}
			defer rt.close()

			tui.UpdateTheme()
			return deps.TUI.RunChat(rt.client, tui.Options{
				ServerURL:     rt.cfg.ServerURL,
				Transport:     rt.cfg.Transport,
				SuppressEmpty: rt.cfg.SuppressEmpty,
				FocusDelay:    rt.cfg.FocusDelay(),
				Render:        render.OptionsFromConfig(rt.cfg),
				Logger:        rt.log.Named("tui"),
			})
		},
	}
}
