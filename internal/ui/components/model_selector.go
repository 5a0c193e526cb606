// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/dva-tui/internal/model"
	"github.com/jeranaias/dva-tui/internal/ui/styles"
	"github.com/jeranaias/dva-tui/internal/util"
)

// =============================================================================
// MODEL SELECTOR
// =============================================================================

// ModelSelector is a drop-down list over the model catalog, grouped by
// provider. Typing narrows the list with a fuzzy filter.
type ModelSelector struct {
	models []model.ModelInfo
	filter string
	cursor int
	width  int
	height int
	theme  *styles.Theme
}

// NewModelSelector creates a selector with the cursor on current.
func NewModelSelector(current string, theme *styles.Theme) *ModelSelector {
	s := &ModelSelector{
		models: model.Catalog,
		width:  40,
		theme:  theme,
	}
	if i := model.IndexOf(current); i >= 0 {
		s.cursor = i
	}
	return s
}

// SetWidth sets the rendered width.
func (s *ModelSelector) SetWidth(width int) {
	s.width = width
}

// SetHeight limits the rendered height, border included. Zero means no
// limit. The list scrolls to keep the cursor visible.
func (s *ModelSelector) SetHeight(height int) {
	s.height = height
}

// SetFilter narrows the list to models matching query, best first. The
// cursor stays on the highlighted model while it remains visible.
func (s *ModelSelector) SetFilter(query string) {
	var keep string
	if m, ok := s.Selected(); ok {
		keep = m.ID
	}
	s.filter = query
	s.cursor = 0
	if query != "" {
		s.models = model.Search(query)
		return
	}
	s.models = model.Catalog
	if i := model.IndexOf(keep); i >= 0 {
		s.cursor = i
	}
}

// Filter returns the current filter text.
func (s *ModelSelector) Filter() string {
	return s.filter
}

// Len returns the number of visible models.
func (s *ModelSelector) Len() int {
	return len(s.models)
}

// Up moves the cursor up, wrapping at the top.
func (s *ModelSelector) Up() {
	if len(s.models) == 0 {
		return
	}
	s.cursor--
	if s.cursor < 0 {
		s.cursor = len(s.models) - 1
	}
}

// Down moves the cursor down, wrapping at the bottom.
func (s *ModelSelector) Down() {
	if len(s.models) == 0 {
		return
	}
	s.cursor++
	if s.cursor >= len(s.models) {
		s.cursor = 0
	}
}

// Selected returns the model under the cursor. It reports false when the
// filter matches nothing.
func (s *ModelSelector) Selected() (model.ModelInfo, bool) {
	if len(s.models) == 0 {
		return model.ModelInfo{}, false
	}
	return s.models[s.cursor], true
}

// View renders the list.
func (s *ModelSelector) View() string {
	inner := s.width - s.theme.SelectorBox.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}

	filter := s.theme.SelectorGroup.Render("type to filter")
	if s.filter != "" {
		filter = s.theme.ModelName.Render("/ " + util.TruncateWidth(s.filter, inner-2))
	}

	var lines []string
	cursorLine := 0
	provider := ""
	if len(s.models) == 0 {
		lines = append(lines, s.theme.SelectorItem.Render("no matching models"))
	}
	for i, m := range s.models {
		if m.Provider != provider {
			provider = m.Provider
			lines = append(lines, s.theme.SelectorGroup.Render(m.ProviderName()))
		}
		name := util.TruncateWidth(m.Name, inner-2)
		if i == s.cursor {
			cursorLine = len(lines)
			lines = append(lines, s.theme.SelectorSelected.Width(inner).Render(name))
		} else {
			lines = append(lines, s.theme.SelectorItem.Render(name))
		}
	}

	if rows := s.height - s.theme.SelectorBox.GetVerticalFrameSize() - 1; s.height > 0 && rows > 0 && len(lines) > rows {
		start := cursorLine - rows/2
		if start < 0 {
			start = 0
		}
		if start+rows > len(lines) {
			start = len(lines) - rows
		}
		lines = lines[start : start+rows]
	}
	return s.theme.SelectorBox.Width(inner + s.theme.SelectorBox.GetHorizontalPadding()).Render(filter + "\n" + strings.Join(lines, "\n"))
}
