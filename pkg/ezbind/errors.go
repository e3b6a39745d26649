package ezbind

import "errors"

var (
	// ErrNotOpen はアーカイブが読み込まれていない場合のエラー
	ErrNotOpen = errors.New("archive not open")

	// ErrInvalidIndex はインデックスがファイルに収まらない場合のエラー
	ErrInvalidIndex = errors.New("invalid index")

	// ErrDecompress はペイロードの展開に失敗した場合のエラー
	ErrDecompress = errors.New("failed to decompress payload")
)
