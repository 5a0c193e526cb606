// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/dva-tui/internal/export"
	"github.com/jeranaias/dva-tui/internal/ui/components"
	"github.com/jeranaias/dva-tui/internal/ui/styles"
	"github.com/jeranaias/dva-tui/internal/widget"
)

// =============================================================================
// STATE
// =============================================================================

// State is what the widget is currently showing.
type State int

const (
	// StateClosed shows only the launcher.
	StateClosed State = iota
	// StateChat shows the conversation panel.
	StateChat
	// StateSelectingModel shows the model list inside the panel.
	StateSelectingModel
	// StateAttaching shows the file path prompt.
	StateAttaching
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateChat:
		return "chat"
	case StateSelectingModel:
		return "selecting-model"
	case StateAttaching:
		return "attaching"
	default:
		return "unknown"
	}
}

// noticeDuration is how long status notices stay visible.
const noticeDuration = 3 * time.Second

// Options configures the chat program.
type Options struct {
	Title              string
	ThemeMode          string
	AttachmentsEnabled bool
	StartOpen          bool
	PlainText          bool
	// ExportDir overrides where ctrl+s writes transcripts.
	ExportDir string
	Logger    *logrus.Entry
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the widget.
type Model struct {
	widget *widget.Widget
	client widget.Completer

	theme     *styles.Theme
	keys      KeyMap
	input     textinput.Model
	attach    textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	selector  *components.ModelSelector
	statusBar *components.StatusBar
	launcher  *components.Launcher
	markdown  *components.MarkdownRenderer

	state         State
	title         string
	attachEnabled bool
	exportDir     string
	width         int
	height        int
	renderedRev   uint64
	noticeSeq     int

	ctx    context.Context
	cancel context.CancelFunc
	log    *logrus.Entry
}

// New creates the chat model around w, sending requests through client.
func New(w *widget.Widget, client widget.Completer, opts Options) Model {
	theme := styles.NewTheme(opts.ThemeMode)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type your message..."
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Focus()

	at := textinput.New()
	at.Prompt = "file: "
	at.Placeholder = "path to an image, audio, .txt, .pdf, .doc or .docx file"
	at.PromptStyle = theme.InputPrompt
	at.PlaceholderStyle = theme.InputPlaceholder

	vp := viewport.New(60, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
		FPS:    time.Second / 6,
	}
	sp.Style = theme.Typing

	keys := DefaultKeyMap()
	keys.Attach.SetEnabled(opts.AttachmentsEnabled)

	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}

	title := opts.Title
	if title == "" {
		title = "Duncan's Virtual Assistant"
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		widget:        w,
		client:        client,
		theme:         theme,
		keys:          keys,
		input:         ti,
		attach:        at,
		viewport:      vp,
		spinner:       sp,
		statusBar:     components.NewStatusBar(theme),
		launcher:      components.NewLauncher(theme),
		markdown:      components.NewMarkdownRenderer(opts.ThemeMode, opts.PlainText),
		state:         StateClosed,
		title:         title,
		attachEnabled: opts.AttachmentsEnabled,
		exportDir:     opts.ExportDir,
		ctx:           ctx,
		cancel:        cancel,
		log:           log,
	}
	m.statusBar.SetBindings(keys.ChatHelp())

	if opts.StartOpen {
		m.open()
	}
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case CompletionMsg:
		return m.handleCompletion(msg)

	case AttachmentMsg:
		return m.handleAttachment(msg)

	case ClipboardMsg:
		if msg.Err != nil {
			return m.notify("Failed to copy: "+msg.Err.Error(), components.NoticeError)
		}
		return m.notify("Copied reply to clipboard", components.NoticeInfo)

	case ExportMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, export.ErrEmpty) {
				return m.notify("Nothing to save yet", components.NoticeInfo)
			}
			return m.notify("Failed to save: "+msg.Err.Error(), components.NoticeError)
		}
		return m.notify("Saved transcript to "+msg.Path, components.NoticeInfo)

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.statusBar.ClearNotice()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.widget.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.state == StateAttaching {
		m.attach, cmd = m.attach.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// View renders the model.
func (m Model) View() string {
	if m.state == StateClosed {
		return m.launcher.View(m.width, m.height)
	}
	return m.renderPanel()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Widget returns the underlying widget state.
func (m Model) Widget() *widget.Widget {
	return m.widget
}

// State returns the current view state.
func (m Model) State() State {
	return m.state
}

// InputValue returns the text in the input line.
func (m Model) InputValue() string {
	return m.input.Value()
}

// Notice returns the status notice, if any.
func (m Model) Notice() string {
	return m.statusBar.Notice()
}

// =============================================================================
// LAYOUT
// =============================================================================

// Fixed rows inside the panel border: header, model bar, typing line,
// input (border + line) and status bar.
const panelChromeRows = 6

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.layout()
	m.updateViewport()
	return m, nil
}

// layout sizes the sub-models to the panel.
func (m *Model) layout() {
	pw, ph := m.theme.PanelSize()
	inner := pw - m.theme.Panel.GetHorizontalFrameSize()

	m.viewport.Width = inner
	m.viewport.Height = ph - m.theme.Panel.GetVerticalFrameSize() - panelChromeRows
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}

	inputWidth := inner - m.theme.InputContainer.GetHorizontalFrameSize() - len(m.input.Prompt) - 1
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth
	m.attach.Width = inputWidth - len(m.attach.Prompt) + len(m.input.Prompt)

	m.statusBar.SetWidth(inner)
	if m.selector != nil {
		m.selector.SetWidth(inner)
		m.selector.SetHeight(m.viewport.Height)
	}
}

// updateViewport re-renders the conversation and scrolls to the newest
// message whenever the conversation changed since the last render.
func (m *Model) updateViewport() {
	content := components.RenderConversation(
		m.widget.Messages(),
		m.viewport.Width,
		m.widget.AssistantName(),
		m.theme,
		m.markdown,
	)
	m.viewport.SetContent(content)

	if rev := m.widget.Revision(); rev != m.renderedRev {
		m.viewport.GotoBottom()
		m.renderedRev = rev
	}
}
