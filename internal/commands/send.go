package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/webchat/internal/chat"
	"github.com/diogo/webchat/internal/models"
	"github.com/diogo/webchat/internal/render"
	"github.com/diogo/webchat/internal/transcript"
)

// clipboardWrite is replaced in tests
var clipboardWrite = clipboard.WriteAll

// staticInput is an Input holding text given on the command line
type staticInput struct {
	text string
}

func (s *staticInput) Value() string { return s.text }
func (s *staticInput) Reset()        { s.text = "" }

// runSend sends one message and prints what the server replied
func runSend(cmd *cobra.Command, deps *Dependencies, flags *globalFlags, text, output string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("message cannot be empty")
	}

	rt, err := flags.setup(deps)
	if err != nil {
		return err
	}
	defer rt.close()

	tr := transcript.New()
	session, err := chat.NewSession(chat.Options{
		Client:    rt.client,
		Container: tr,
		Transport: rt.cfg.Transport,
		Logger:    rt.log,
	})
	if err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	p := newPrinter(cmd.OutOrStdout(), render.OptionsFromConfig(rt.cfg))

	var spin *spinner
	if p.tty {
		spin = newSpinner(errOut, "Waiting for reply")
		spin.start()
	}

	res := session.Sender.Submit(cmd.Context(), &staticInput{text: text})

	if res.State == chat.StateFailed {
		if spin != nil {
			spin.stopWithError()
		}
		if res.Err == nil {
			return fmt.Errorf("send failed")
		}
		return fmt.Errorf("send failed: %w", res.Err)
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	switch {
	case res.Reset:
		p.success("Conversation reset")
		return nil
	case res.Refresh:
		p.success("Server asked for a reload; run 'webchat history' to see the conversation")
		return nil
	}

	// Everything after the optimistic user node is the reply
	nodes := tr.Nodes()
	if len(nodes) > 0 && nodes[0].Role == models.RoleUser {
		nodes = nodes[1:]
	}
	rt.log.Debug("reply received", zap.Int("nodes", len(nodes)))

	replyText := joinSources(nodes)

	if rt.cfg.CopyToClipboard && replyText != "" {
		if err := clipboardWrite(replyText); err != nil {
			fmt.Fprintf(errOut, "⚠ Failed to copy to clipboard: %v\n", err)
		} else {
			fmt.Fprintln(errOut, "✓ Copied to clipboard")
		}
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(replyText), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(errOut, "✓ Reply saved to %s\n", output)
		return nil
	}

	p.print(nodes)
	return nil
}

// joinSources concatenates the raw content of nodes
func joinSources(nodes []transcript.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.Source)
	}
	return strings.Join(parts, "\n\n")
}
