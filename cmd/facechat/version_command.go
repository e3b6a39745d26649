package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiroemons/go-facechat/internal/facechat/config"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "バージョンを表示します",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "facechat version %s\n", config.Version)
			return nil
		},
	}
}
