// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dva %s\n", info.Version)
			fmt.Fprintf(out, "%s %s\n", RenderLabel("Commit:"), info.GitCommit)
			fmt.Fprintf(out, "%s %s\n", RenderLabel("Built:"), info.BuildDate)
			fmt.Fprintf(out, "%s %s %s/%s\n", RenderLabel("Go:"), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
