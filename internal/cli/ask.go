// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jeranaias/dva-tui/internal/attachment"
	"github.com/jeranaias/dva-tui/internal/model"
	"github.com/jeranaias/dva-tui/internal/ui/components"
	"github.com/jeranaias/dva-tui/internal/widget"
)

// maxStdinQuestion caps a question read from a pipe.
const maxStdinQuestion = 64 * 1024

// askOptions are the flags of "dva ask".
type askOptions struct {
	attach []string
	json   bool
	raw    bool
}

func newAskCommand(g *globalFlags) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [QUESTION...]",
		Short: "Ask one question and print the reply",
		Long: `Send one message to the backend and print the reply.

The question is read from the arguments, or from stdin when it is piped.
The reply is rendered as markdown when stdout is a terminal. If the
exchange fails, the error text the widget would show is printed and the
exit status is 1.`,
		Example: `  dva ask "What can you do?"
  dva ask --model gpt-4o "Summarise Go channels in two sentences"
  echo "hello" | dva ask
  dva ask --attach notes.txt --json "Thanks"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if strings.TrimSpace(question) == "" && !IsTTY() {
				data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxStdinQuestion))
				if err != nil {
					return fmt.Errorf("failed to read question from stdin: %w", err)
				}
				question = strings.TrimSpace(string(data))
			}
			if strings.TrimSpace(question) == "" {
				return usageError("no question given")
			}

			a, err := g.setup()
			if err != nil {
				return err
			}
			defer a.close()

			if IsStdoutTTY() && !opts.json && !opts.raw {
				opts.raw = a.cfg.UI.PlainText
			} else {
				opts.raw = true
			}

			return runAsk(cmd.Context(), a.newWidget(), a.client, question, opts, cmd.OutOrStdout(), a.cfg.UI.Theme, a.logger.Component("ask"))
		},
	}

	cmd.Flags().StringArrayVarP(&opts.attach, "attach", "a", nil, "attach a file to the conversation (repeatable)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the whole conversation as JSON")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the reply without markdown rendering")
	return cmd
}

// runAsk performs one exchange on w and writes the result to out.
func runAsk(ctx context.Context, w *widget.Widget, c widget.Completer, question string, opts *askOptions, out io.Writer, theme string, log *logrus.Entry) error {
	for _, path := range opts.attach {
		msg, err := attachment.IngestFile(path)
		if err != nil {
			return usageError("cannot attach %s: %v", path, err)
		}
		if err := w.Attach(msg); err != nil {
			return err
		}
	}

	w.SetInput(question)
	reply, sendErr := w.Exchange(ctx, c)
	if reply.ID == "" {
		// Submit itself failed; nothing was appended.
		return sendErr
	}
	if sendErr != nil {
		log.WithError(sendErr).Warn("exchange failed")
	}

	if opts.json {
		if err := writeTranscript(out, w.Messages()); err != nil {
			return err
		}
	} else {
		text := reply.Content
		if !opts.raw {
			md := components.NewMarkdownRenderer(theme, false)
			text = md.Render(text, GetTerminalWidth()-2)
		}
		fmt.Fprintln(out, text)
	}

	if sendErr != nil {
		return &ExitError{Code: ExitGeneralError, Err: sendErr, Silent: true}
	}
	return nil
}

// writeTranscript writes the conversation in its wire JSON shape.
func writeTranscript(out io.Writer, msgs []model.Message) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(msgs)
}
