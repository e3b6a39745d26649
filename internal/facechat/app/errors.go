package app

import "errors"

var (
	// ErrFindArchives はアーカイブの検索に失敗した場合のエラー
	ErrFindArchives = errors.New("アーカイブの検索に失敗しました")

	// ErrScriptFailures は一部のファイルの処理に失敗した場合のエラー
	ErrScriptFailures = errors.New("処理に失敗したファイルがあります")
)
