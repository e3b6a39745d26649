// Package app はアプリケーションのメインロジックを実装します
package app

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/shiroemons/go-facechat/internal/facechat/archive"
	"github.com/shiroemons/go-facechat/internal/facechat/builder"
	"github.com/shiroemons/go-facechat/internal/facechat/config"
	fcerrors "github.com/shiroemons/go-facechat/internal/facechat/errors"
	"github.com/shiroemons/go-facechat/internal/facechat/fileutil"
	"github.com/shiroemons/go-facechat/internal/facechat/interfaces"
	"github.com/shiroemons/go-facechat/internal/facechat/logging"
	"github.com/shiroemons/go-facechat/internal/facechat/models"
	"github.com/shiroemons/go-facechat/internal/facechat/speaker"
	"github.com/shiroemons/go-facechat/internal/facechat/xmldoc"
	"github.com/shiroemons/go-facechat/pkg/facechat"
)

// App はアプリケーションのメインロジックを管理します
type App struct {
	config    *config.Config
	logger    *slog.Logger
	extractor interfaces.Extractor
	fs        interfaces.FileSystem
	speakers  speaker.Table
}

// Options はAppの設定オプション
type Options struct {
	Logger     *slog.Logger
	FileSystem interfaces.FileSystem
	Extractor  interfaces.Extractor
}

// Summary は Run の実行結果です
type Summary struct {
	Archives int                   // 処理したアーカイブ数
	Scripts  int                   // 見つかったスクリプト数
	Written  int                   // 書き出したXMLの数
	Failures []*fcerrors.FileError // アーカイブ、エントリ名順
}

// Err は失敗したファイルがあれば ErrScriptFailures を返します
func (s Summary) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d 件", ErrScriptFailures, len(s.Failures))
}

// New は新しいAppを作成します
func New(cfg *config.Config) (*App, error) {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions は新しいAppをオプション付きで作成します
func NewWithOptions(cfg *config.Config, opts Options) (*App, error) {
	overrides, err := cfg.SpeakerOverrides()
	if err != nil {
		return nil, err
	}

	logger := logging.NewComponentLogger(opts.Logger, "app")

	fs := opts.FileSystem
	if fs == nil {
		fs = fileutil.NewOSFileSystem()
	}

	extractor := opts.Extractor
	if extractor == nil {
		extractor = archive.NewExtractor(opts.Logger, cfg.Input.Marker)
	}

	return &App{
		config:    cfg,
		logger:    logger,
		extractor: extractor,
		fs:        fs,
		speakers:  speaker.Default().With(overrides),
	}, nil
}

type archiveResult struct {
	scripts  int
	rendered []renderedScript
	failures []*fcerrors.FileError
}

// renderedScript は書き出し待ちのXMLです
type renderedScript struct {
	archive string
	entry   string
	output  string
	data    []byte
	attrs   []any
}

// Run は入力ディレクトリのアーカイブをすべて処理します。
// ファイル単位の失敗は Summary.Failures に記録して処理を続けます。
// エラーを返すのはアーカイブの検索に失敗した場合とキャンセルされた場合だけです。
//
// 解析は Workers 並列で行い、出力パスの割り当てはアーカイブ名順、エントリ順に決めます。
// 同じ出力パスになるスクリプトが複数ある場合は、この順で最後のものだけを書き出します。
func (a *App) Run(ctx context.Context) (Summary, error) {
	archives, err := a.fs.FindArchives(a.config.Input.Dir, a.config.Input.Extension)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrFindArchives, err)
	}
	if len(archives) == 0 {
		a.logger.Warn("アーカイブが見つかりません", "dir", a.config.Input.Dir, "extension", a.config.Input.Extension)
		return Summary{}, nil
	}

	a.logger.Info("アーカイブを処理します", "count", len(archives), "workers", a.config.Workers, "dry_run", a.config.DryRun)

	results := make([]archiveResult, len(archives))
	var eg errgroup.Group
	eg.SetLimit(max(a.config.Workers, 1))
	for i, path := range archives {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			results[i] = a.processArchive(ctx, path)
			return nil
		})
	}
	_ = eg.Wait()

	summary := Summary{Archives: len(archives)}
	var rendered []renderedScript
	for _, r := range results {
		summary.Scripts += r.scripts
		summary.Failures = append(summary.Failures, r.failures...)
		rendered = append(rendered, r.rendered...)
	}

	if err := ctx.Err(); err != nil {
		sortFailures(summary.Failures)
		return summary, err
	}

	written, failures := a.writeOutputs(ctx, resolveOutputs(rendered, a.logger))
	summary.Written = written
	summary.Failures = append(summary.Failures, failures...)
	sortFailures(summary.Failures)

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	a.logger.Info("処理が完了しました",
		"archives", summary.Archives,
		"scripts", summary.Scripts,
		"written", summary.Written,
		"failures", len(summary.Failures))
	return summary, nil
}

func sortFailures(failures []*fcerrors.FileError) {
	slices.SortStableFunc(failures, func(x, y *fcerrors.FileError) int {
		return cmp.Or(cmp.Compare(x.Archive, y.Archive), cmp.Compare(x.Entry, y.Entry))
	})
}

// resolveOutputs は出力パスごとに最後のスクリプトを残し、rendered の順序で返します。
// 重複して書き出されなくなったスクリプトは警告します。
func resolveOutputs(rendered []renderedScript, logger *slog.Logger) []renderedScript {
	last := make(map[string]int, len(rendered))
	for i, r := range rendered {
		if prev, ok := last[r.output]; ok {
			logger.Warn("出力ファイルが重複しています。後から処理したものが残ります",
				"output", r.output,
				"previous", rendered[prev].archive+"|"+rendered[prev].entry,
				"current", r.archive+"|"+r.entry)
		}
		last[r.output] = i
	}

	winners := make([]renderedScript, 0, len(last))
	for i, r := range rendered {
		if last[r.output] == i {
			winners = append(winners, r)
		}
	}
	return winners
}

// writeOutputs は XML を Workers 並列で書き出します。出力パスはすべて異なります。
func (a *App) writeOutputs(ctx context.Context, outputs []renderedScript) (int, []*fcerrors.FileError) {
	if a.config.DryRun {
		for _, r := range outputs {
			a.logger.Info("ドライラン: XMLは書き出しません", r.attrs...)
		}
		return 0, nil
	}

	errs := make([]*fcerrors.FileError, len(outputs))
	saved := make([]bool, len(outputs))
	var eg errgroup.Group
	eg.SetLimit(max(a.config.Workers, 1))
	for i, r := range outputs {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := a.fs.SaveFile(r.output, r.data); err != nil {
				errs[i] = a.fail(fcerrors.StageWrite, r.archive, r.entry, err)
				return nil
			}
			saved[i] = true
			a.logger.Info("XMLを書き出しました", r.attrs...)
			return nil
		})
	}
	_ = eg.Wait()

	written := 0
	var failures []*fcerrors.FileError
	for i, ferr := range errs {
		if ferr != nil {
			failures = append(failures, ferr)
		}
		if saved[i] {
			written++
		}
	}
	return written, failures
}

// processArchive は1つのアーカイブ内のスクリプトを解析してXMLに変換します
func (a *App) processArchive(ctx context.Context, archivePath string) archiveResult {
	var res archiveResult

	scripts, err := a.extractor.ExtractScripts(ctx, archivePath)
	if err != nil {
		if ctx.Err() == nil {
			err = fmt.Errorf("%w: %w", fcerrors.ErrInvalidArchive, err)
			res.failures = append(res.failures, a.fail(fcerrors.StageOpen, archivePath, "", err))
		}
		return res
	}

	for _, s := range scripts {
		if ctx.Err() != nil {
			return res
		}
		res.scripts++

		if s.Err != nil {
			res.failures = append(res.failures, a.fail(fcerrors.StageExtract, archivePath, s.Name, s.Err))
			continue
		}

		r, ferr := a.renderScript(archivePath, s)
		if ferr != nil {
			res.failures = append(res.failures, ferr)
			continue
		}
		res.rendered = append(res.rendered, r)
	}

	return res
}

// renderScript はスクリプトを解析してXMLに変換し、出力パスを決めます
func (a *App) renderScript(archivePath string, s models.ExtractedScript) (renderedScript, *fcerrors.FileError) {
	script, err := facechat.Decode(s.Data)
	if err != nil {
		err = fmt.Errorf("%w: %w", fcerrors.ErrInvalidScript, err)
		return renderedScript{}, a.fail(fcerrors.StageDecode, archivePath, s.Name, err)
	}

	var title *string
	if a.config.Output.FriendlyName {
		title = models.Ptr(fileutil.FriendlyName(archivePath, s.Name))
	}

	doc := builder.Build(script, a.speakers, title)
	data, err := xmldoc.Marshal(doc)
	if err != nil {
		return renderedScript{}, a.fail(fcerrors.StageRender, archivePath, s.Name, err)
	}

	outputPath, err := fileutil.OutputPath(a.config.Output.Dir, s.Name, a.config.Output.Extension)
	if err != nil {
		return renderedScript{}, a.fail(fcerrors.StageWrite, archivePath, s.Name, err)
	}

	return renderedScript{
		archive: archivePath,
		entry:   s.Name,
		output:  outputPath,
		data:    data,
		attrs: []any{
			"archive", archivePath,
			"entry", s.Name,
			"output", outputPath,
			"lines", len(script.Events),
			"unreferenced", len(script.Unreferenced),
		},
	}, nil
}

func (a *App) fail(stage, archivePath, entry string, err error) *fcerrors.FileError {
	ferr := fcerrors.NewFileError(stage, archivePath, entry, err)
	a.logger.Error("ファイルの処理に失敗しました",
		"stage", stage,
		"archive", archivePath,
		"entry", entry,
		"error", err)
	return ferr
}
