package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:   "facechat",
		Short: "FaceChat スクリプトから翻訳用XMLを生成します",
		Long: `EZBIND アーカイブ (.arc) に含まれる FaceChat スクリプト (.scr) を解析し、
台詞・選択肢・話者・未参照文字列を翻訳用のXMLに書き出します。
サブコマンドを省略した場合は extract を実行します。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			return ctx.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, ctx)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configFlag, "config", "c", defaultConfigPath, "設定ファイルのパス")
	flags.StringVarP(&ctx.inputFlag, "input", "i", "", "アーカイブを検索するディレクトリ")
	flags.StringVarP(&ctx.outputFlag, "output", "o", "", "XMLの出力先ディレクトリ")
	flags.IntVarP(&ctx.workersFlag, "workers", "w", 1, "同時に処理するアーカイブ数")
	flags.BoolVarP(&ctx.dryRunFlag, "dry-run", "n", false, "ファイルを書き出さずに処理内容だけを表示する")
	flags.BoolVarP(&ctx.debugFlag, "debug", "d", false, "デバッグログを出力する")
	flags.StringVar(&ctx.logFormatFlag, "log-format", "auto", "ログ形式 (auto, console, json)")
	flags.BoolVar(&ctx.friendlyNameFlag, "friendly-name", false, "XMLに FriendlyName を出力する")

	rootCmd.AddCommand(newExtractCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newUnpackCommand(ctx))
	rootCmd.AddCommand(newDecodeCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
