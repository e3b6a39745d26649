package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/shiroemons/go-facechat/pkg/ezbind"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <archive>",
		Short: "アーカイブ内のファイル一覧を表示します",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive := ezbind.NewArchive()
			if err := archive.Open(args[0]); err != nil {
				return err
			}
			defer archive.Close()

			entries := archive.Entries()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d エントリ (アライメント 0x%X)\n", args[0], len(entries), archive.Alignment())
			if len(entries) == 0 {
				fmt.Fprintln(out, "ファイルがありません")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for i, e := range entries {
				script := ""
				if ezbind.HasMarker(e.Name, ctx.config.Input.Marker) {
					script = "yes"
				}
				rows = append(rows, []string{
					strconv.Itoa(i),
					e.Name,
					humanize.IBytes(uint64(e.PayloadSize)),
					fmt.Sprintf("0x%08X", e.PayloadOffset),
					fmt.Sprintf("%08X", e.Checksum),
					script,
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"#", "ファイル名", "圧縮サイズ", "オフセット", "チェックサム", "スクリプト"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
