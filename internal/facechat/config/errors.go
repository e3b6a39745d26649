package config

import "errors"

var (
	// ErrInvalidConfig は設定値が不正な場合のエラー
	ErrInvalidConfig = errors.New("設定が不正です")

	// ErrParseConfig は設定ファイルの解析に失敗した場合のエラー
	ErrParseConfig = errors.New("設定ファイルの解析に失敗しました")
)
