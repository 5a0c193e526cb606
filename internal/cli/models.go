// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeranaias/dva-tui/internal/model"
	"github.com/jeranaias/dva-tui/internal/util"
)

func newModelsCommand(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "models",
		Aliases: []string{"model"},
		Short:   "List the models the backend accepts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(model.Catalog)
			}
			current := model.DefaultModelID
			if cfg, err := g.loadConfig(); err == nil {
				current = cfg.Chat.DefaultModel
			}
			writeModels(cmd.OutOrStdout(), current)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}

// writeModels prints the catalog grouped by provider, marking current.
func writeModels(out io.Writer, current string) {
	for _, provider := range model.Providers() {
		models := model.ByProvider(provider)
		fmt.Fprintln(out, SectionStyle.Render(models[0].ProviderName()))
		for _, m := range models {
			marker := "  "
			name := util.PadRight(m.Name, 26)
			if m.ID == current {
				marker = "* "
				name = HighlightStyle.Render(name)
			}
			fmt.Fprintf(out, "%s%s %s\n", marker, name, DimStyle.Render(m.ID))
		}
	}
}
