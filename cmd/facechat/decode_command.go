package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/shiroemons/go-facechat/internal/facechat/builder"
	"github.com/shiroemons/go-facechat/internal/facechat/models"
	"github.com/shiroemons/go-facechat/internal/facechat/xmldoc"
	"github.com/shiroemons/go-facechat/pkg/facechat"
)

var gzipMagic = []byte{0x1f, 0x8b}

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file.scr>",
		Short: "単体の FaceChat スクリプトを解析してXMLを標準出力に書き出します",
		Long: `アーカイブから取り出した FaceChat スクリプトを解析し、XMLを標準出力に書き出します。
gzip 圧縮されたままのファイルも受け付けます。`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			r, err := maybeGunzip(bufio.NewReader(file))
			if err != nil {
				return err
			}
			defer r.Close()

			script, err := facechat.DecodeReader(r)
			if err != nil {
				return err
			}
			speakers, err := ctx.speakers()
			if err != nil {
				return err
			}

			var title *string
			if ctx.config.Output.FriendlyName {
				title = models.Ptr(filepath.Base(args[0]))
			}
			ctx.logger.Debug("スクリプトを解析しました",
				"file", args[0],
				"strings", len(script.Strings),
				"lines", len(script.Events),
				"speakers", len(script.Speakers),
				"unreferenced", len(script.Unreferenced))

			return xmldoc.Write(cmd.OutOrStdout(), builder.Build(script, speakers, title))
		},
	}
}

// maybeGunzip は先頭が gzip のマジックなら展開する Reader を返します
func maybeGunzip(br *bufio.Reader) (io.ReadCloser, error) {
	head, err := br.Peek(len(gzipMagic))
	if err != nil || !bytes.Equal(head, gzipMagic) {
		return io.NopCloser(br), nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return zr, nil
}
