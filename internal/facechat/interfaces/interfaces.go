// Package interfaces は facechat コマンドで使用するインターフェースを定義します
package interfaces

import (
	"context"

	"github.com/shiroemons/go-facechat/internal/facechat/models"
)

// Extractor はアーカイブからスクリプトを抽出するインターフェースです
type Extractor interface {
	ExtractScripts(ctx context.Context, archivePath string) ([]models.ExtractedScript, error)
}

// FileSystem はファイルシステム操作のインターフェース
type FileSystem interface {
	FindArchives(dir, ext string) ([]string, error)
	SaveFile(path string, data []byte) error
}
