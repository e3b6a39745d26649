package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shiroemons/go-facechat/internal/facechat/app"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "入力ディレクトリのアーカイブをすべてXMLに変換します",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, ctx)
		},
	}
}

func runExtract(cmd *cobra.Command, ctx *commandContext) error {
	application, err := app.NewWithOptions(ctx.config, app.Options{Logger: ctx.logger})
	if err != nil {
		return err
	}

	summary, err := application.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "アーカイブ: %d  スクリプト: %d  書き出し: %d  失敗: %d\n",
		summary.Archives, summary.Scripts, summary.Written, len(summary.Failures))
	for _, f := range summary.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", f)
	}
	return summary.Err()
}
