// Package archive は EZBIND アーカイブからスクリプトを取り出します
package archive

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shiroemons/go-facechat/internal/facechat/logging"
	"github.com/shiroemons/go-facechat/internal/facechat/models"
	"github.com/shiroemons/go-facechat/pkg/ezbind"
)

// Extractor はアーカイブからスクリプトを抽出します
type Extractor struct {
	logger          *slog.Logger
	marker          string
	opener          ArchiveOpener
	memoryExtractor MemoryExtractor
}

// NewExtractor は新しいExtractorを作成します。
// エントリ名に marker を含むものだけをスクリプトとして扱います。
func NewExtractor(logger *slog.Logger, marker string) *Extractor {
	return NewExtractorWithOptions(logger, marker, &DefaultArchiveOpener{}, &DefaultMemoryExtractor{})
}

// NewExtractorWithOptions は新しいExtractorを差し替え可能な実装付きで作成します
func NewExtractorWithOptions(logger *slog.Logger, marker string, opener ArchiveOpener, extractor MemoryExtractor) *Extractor {
	return &Extractor{
		logger:          logging.NewComponentLogger(logger, "archive"),
		marker:          marker,
		opener:          opener,
		memoryExtractor: extractor,
	}
}

// ExtractScripts は archivePath のアーカイブからスクリプトをメモリに展開します。
// エントリ単位の展開失敗は ExtractedScript.Err に記録し、処理を続けます。
// アーカイブ自体を開けない場合はエラーを返します。
func (e *Extractor) ExtractScripts(ctx context.Context, archivePath string) ([]models.ExtractedScript, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	archive, err := e.opener.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenFailed, archivePath, err)
	}
	defer archive.Close()

	var scripts []models.ExtractedScript
	skipped := 0
	for ok := archive.EnumFirst(); ok; ok = archive.EnumNext() {
		if err := ctx.Err(); err != nil {
			return scripts, err
		}

		name := archive.GetEntryName()
		if !ezbind.HasMarker(name, e.marker) {
			skipped++
			continue
		}

		script := models.ExtractedScript{Archive: archivePath, Name: name}
		data, err := e.memoryExtractor.ExtractToMemory(archive.GetEntry())
		if err != nil {
			script.Err = fmt.Errorf("%w: %w", ErrExtractFailed, err)
			e.logger.Debug("エントリの展開に失敗しました", "archive", archivePath, "entry", name, "error", err)
		} else {
			script.Data = data
			e.logger.Debug("エントリをメモリに展開しました", "archive", archivePath, "entry", name, "bytes", len(data))
		}
		scripts = append(scripts, script)
	}

	e.logger.Debug("アーカイブを走査しました", "archive", archivePath, "scripts", len(scripts), "skipped", skipped)
	return scripts, nil
}
