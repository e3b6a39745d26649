package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shiroemons/go-facechat/pkg/ezbind"
)

var errUnsafeEntryName = errors.New("出力先の外を指すエントリ名です")

func newUnpackCommand(ctx *commandContext) *cobra.Command {
	var destFlag string
	var rawFlag bool

	cmd := &cobra.Command{
		Use:   "unpack <archive> [names...]",
		Short: "アーカイブ内のファイルを展開します",
		Long: `アーカイブ内のファイルを gzip 展開して書き出します。
ファイル名を指定した場合はそのファイルだけを展開します。`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive := ezbind.NewArchive()
			if err := archive.Open(args[0]); err != nil {
				return err
			}
			defer archive.Close()

			opts := unpackOptions{
				dest:    destFlag,
				raw:     rawFlag,
				workers: ctx.config.Workers,
				dryRun:  ctx.config.DryRun,
				names:   args[1:],
			}
			res, err := unpackArchive(cmd.Context(), archive, opts, ctx.logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d 個のファイルを展開しました\n", res.success)
			for _, name := range res.notFound {
				fmt.Fprintf(cmd.ErrOrStderr(), "見つかりません: %s\n", name)
			}
			if len(res.notFound) > 0 {
				return fmt.Errorf("%d 個のファイルがアーカイブにありません", len(res.notFound))
			}
			return res.firstErr
		},
	}

	cmd.Flags().StringVarP(&destFlag, "dest", "D", ".", "展開先ディレクトリ")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "gzip 展開せずにそのまま書き出す")
	return cmd
}

type unpackOptions struct {
	dest    string
	raw     bool
	workers int
	dryRun  bool
	names   []string // 空なら全ファイル
}

type unpackResult struct {
	success  int
	notFound []string
	firstErr error
}

// unpackArchive はアーカイブのエントリを opts.workers 並列でファイルに書き出します。
// エントリ単位の失敗は記録して続行し、最初のエラーを firstErr に返します。
func unpackArchive(ctx context.Context, archive *ezbind.Archive, opts unpackOptions, logger *slog.Logger) (unpackResult, error) {
	var res unpackResult

	if !opts.dryRun {
		if err := os.MkdirAll(opts.dest, 0755); err != nil {
			return res, fmt.Errorf("出力ディレクトリを作成できません: %w", err)
		}
	}

	extractSet := make(map[string]bool, len(opts.names))
	for _, n := range opts.names {
		extractSet[n] = false
	}

	var mu sync.Mutex
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			logger.Error("展開に失敗しました", "entry", name, "error", err)
			if res.firstErr == nil {
				res.firstErr = fmt.Errorf("展開エラー: %s: %w", name, err)
			}
			return
		}
		res.success++
		logger.Debug("展開しました", "entry", name)
	}

	var eg errgroup.Group
	eg.SetLimit(max(opts.workers, 1))
	for _, entry := range archive.Entries() {
		if err := ctx.Err(); err != nil {
			break
		}
		if len(extractSet) > 0 {
			if _, ok := extractSet[entry.Name]; !ok {
				continue
			}
			extractSet[entry.Name] = true
		}

		eg.Go(func() error {
			record(entry.Name, unpackEntry(entry, opts))
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	for name, found := range extractSet {
		if !found {
			res.notFound = append(res.notFound, name)
		}
	}
	slices.Sort(res.notFound)
	return res, nil
}

// unpackEntry は1エントリを dest 以下に書き出します。失敗した場合は書きかけのファイルを削除します。
func unpackEntry(entry *ezbind.Entry, opts unpackOptions) error {
	name := filepath.FromSlash(entry.Name)
	if !filepath.IsLocal(name) {
		return fmt.Errorf("%w: %q", errUnsafeEntryName, entry.Name)
	}
	outPath := filepath.Join(opts.dest, name)

	if opts.dryRun {
		if opts.raw {
			_, err := entry.Raw()
			return err
		}
		_, err := entry.Extract(io.Discard)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(outFile)
	if opts.raw {
		var data []byte
		if data, err = entry.Raw(); err == nil {
			_, err = writer.Write(data)
		}
	} else {
		_, err = entry.Extract(writer)
	}
	if err == nil {
		err = writer.Flush()
	}
	if closeErr := outFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(outPath)
		return err
	}
	return nil
}
