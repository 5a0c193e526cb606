// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the dva widget.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. The palette is built around the DVA greens:

	Forest  - primary: launcher, header, user bubbles
	Sea     - secondary: focus, selections, the typing indicator
	Mint    - assistant bubble background
	Border  - panel and bubble borders

# Theme

NewTheme builds every style the widget needs. The mode argument forces a
light or dark palette; "auto" asks the terminal.

	theme := styles.NewTheme("auto")
	fmt.Println(theme.UserBubble.Render("hello"))
*/
package styles
