// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jeranaias/dva-tui/internal/attachment"
	"github.com/jeranaias/dva-tui/internal/config"
	"github.com/jeranaias/dva-tui/internal/export"
	"github.com/jeranaias/dva-tui/internal/model"
	"github.com/jeranaias/dva-tui/internal/ui/components"
	"github.com/jeranaias/dva-tui/internal/widget"
)

func newChatCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat line by line without the full-screen widget",
		Long: `Start a line-oriented chat session with input history.

Commands:
  /model [ID]      show or switch the model
  /models          list available models
  /attach PATH     add a file to the conversation
  /restart         start over from the greeting
  /help            show this list
  /quit            leave (ctrl+d also works)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.setup()
			if err != nil {
				return err
			}
			defer a.close()

			s := newChatSession(a.newWidget(), a.client, cmd.OutOrStdout(), a.logger.Component("chat"))
			s.attachEnabled = a.cfg.UI.AttachmentsEnabled
			if IsStdoutTTY() && !a.cfg.UI.PlainText {
				s.markdown = components.NewMarkdownRenderer(a.cfg.UI.Theme, false)
			}
			return s.run(cmd.Context(), a.cfg.Chat.Title)
		},
	}
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader provides input history and line editing.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &lineReader{line: line, historyFile: filepath.Join(dir, "chat_history")}
	if f, err := os.Open(r.historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetCompleter(completeCommand)
	return r
}

func (r *lineReader) prompt(p string) (string, error) {
	input, err := r.line.Prompt(p)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// close saves history with owner-only permissions and restores the terminal.
func (r *lineReader) close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = r.line.WriteHistory(f)
			f.Close()
		}
	}
	r.line.Close()
}

var slashCommands = []string{"/attach ", "/download ", "/export ", "/help", "/model ", "/models", "/quit", "/restart"}

func completeCommand(line string) []string {
	if !strings.HasPrefix(line, "/") {
		return nil
	}
	var out []string
	for _, c := range slashCommands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

// =============================================================================
// SESSION
// =============================================================================

// chatSession drives a widget from typed lines.
type chatSession struct {
	widget        *widget.Widget
	client        widget.Completer
	out           io.Writer
	markdown      *components.MarkdownRenderer
	attachEnabled bool
	title         string
	log           *logrus.Entry
}

func newChatSession(w *widget.Widget, c widget.Completer, out io.Writer, log *logrus.Entry) *chatSession {
	return &chatSession{widget: w, client: c, out: out, title: config.Default().Chat.Title, log: log}
}

func (s *chatSession) run(ctx context.Context, title string) error {
	r := newLineReader()
	defer r.close()
	s.title = title

	fmt.Fprintln(s.out, TitleStyle.Render(title))
	fmt.Fprintln(s.out, DimStyle.Render("Model: "+s.widget.ModelInfo().Name+"  ·  /help for commands"))
	fmt.Fprintln(s.out)

	s.widget.Open()
	if greeting, ok := s.widget.LastReply(); ok {
		s.printReply(greeting)
	}

	for {
		input, err := r.prompt("You › ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if s.handle(ctx, input) {
			return nil
		}
	}
}

// handle processes one line and reports whether the session should end.
func (s *chatSession) handle(ctx context.Context, input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "/") {
		return s.command(trimmed)
	}

	reqCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintln(s.out, DimStyle.Render(s.widget.TypingText()))
	s.widget.SetInput(input)
	reply, err := s.widget.Exchange(reqCtx, s.client)
	if reply.ID == "" {
		s.log.WithError(err).Debug("submit rejected")
		return false
	}
	s.printReply(reply)
	return false
}

func (s *chatSession) command(input string) bool {
	fields := strings.Fields(input)
	name, args := fields[0], fields[1:]

	switch name {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Fprintln(s.out, DimStyle.Render(strings.Join([]string{
			"/model [ID]        show or switch the model",
			"/models            list available models",
			"/attach PATH       add a file to the conversation",
			"/download [PATH]   save the last attachment",
			"/export [PATH]     save the transcript (.md or .json)",
			"/restart           start over",
			"/quit              leave",
		}, "\n")))

	case "/model":
		if len(args) == 0 {
			info := s.widget.ModelInfo()
			fmt.Fprintf(s.out, "%s %s (%s)\n", RenderLabel("Model"), info.Name, info.ID)
			return false
		}
		if err := s.widget.SelectModel(args[0]); err != nil {
			fmt.Fprintln(s.out, ErrorStyle.Render(err.Error()+didYouMean(args[0])))
			return false
		}
		fmt.Fprintln(s.out, HighlightStyle.Render("Model: "+s.widget.ModelInfo().Name))

	case "/models":
		writeModels(s.out, s.widget.Model())

	case "/restart":
		s.widget.Restart()
		fmt.Fprintln(s.out, DimStyle.Render("Conversation restarted."))
		if greeting, ok := s.widget.LastReply(); ok {
			s.printReply(greeting)
		}

	case "/attach":
		if !s.attachEnabled {
			fmt.Fprintln(s.out, ErrorStyle.Render("attachments are disabled"))
			return false
		}
		if len(args) == 0 {
			fmt.Fprintln(s.out, ErrorStyle.Render("usage: /attach PATH"))
			return false
		}
		path := strings.Join(args, " ")
		msg, err := attachment.IngestFile(path)
		if err == nil {
			err = s.widget.Attach(msg)
		}
		if err != nil {
			fmt.Fprintln(s.out, ErrorStyle.Render("Cannot attach: "+err.Error()))
			return false
		}
		fmt.Fprintf(s.out, "%s attached %s (%s)\n", DimStyle.Render("·"), msg.Name, msg.MediaType)

	case "/export":
		path, err := s.export(strings.Join(args, " "))
		if err != nil {
			fmt.Fprintln(s.out, ErrorStyle.Render("Cannot export: "+err.Error()))
			return false
		}
		fmt.Fprintf(s.out, "%s saved transcript to %s\n", DimStyle.Render("·"), path)

	case "/download":
		path, err := s.download(strings.Join(args, " "))
		if err != nil {
			fmt.Fprintln(s.out, ErrorStyle.Render("Cannot download: "+err.Error()))
			return false
		}
		fmt.Fprintf(s.out, "%s saved %s\n", DimStyle.Render("·"), path)

	default:
		fmt.Fprintln(s.out, ErrorStyle.Render("unknown command "+name+" (try /help)"))
	}
	return false
}

// export writes the transcript to path, or to the transcripts directory
// when path is empty. The format follows the extension.
func (s *chatSession) export(path string) (string, error) {
	t := export.NewTranscript(s.title, s.widget.Model(), s.widget.Messages())
	if path == "" {
		return export.ToFile(t, export.NewMarkdownExporter(nil), nil)
	}
	exp, err := export.ForFormat(filepath.Ext(path), nil)
	if err != nil {
		return "", err
	}
	return path, export.ToPath(t, exp, path)
}

// download saves the most recent attachment to path, defaulting to its own
// name in the working directory.
func (s *chatSession) download(path string) (string, error) {
	msgs := s.widget.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		if !msg.Kind.IsAttachment() {
			continue
		}
		if path == "" {
			path = msg.Name
		}
		if path == "" {
			return "", errors.New("attachment has no name; give a path")
		}
		return path, attachment.Save(msg.Content, path)
	}
	return "", errors.New("no attachments in this conversation")
}

func (s *chatSession) printReply(msg model.Message) {
	text := msg.Content
	if s.markdown != nil {
		text = s.markdown.Render(text, GetTerminalWidth()-2)
	}
	fmt.Fprintf(s.out, "%s\n%s\n\n", AssistantStyle.Render(s.widget.AssistantName()+":"), text)
}
