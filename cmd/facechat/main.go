// facechat は EZBIND アーカイブ内の FaceChat スクリプトから翻訳用XMLを生成するコマンドです
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "エラー:", err)
		}
		stop()
		os.Exit(1)
	}
}
