// Package errors はカスタムエラータイプを提供します
package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidArchive はアーカイブが無効な場合のエラー
	ErrInvalidArchive = errors.New("無効なアーカイブファイルです")

	// ErrInvalidScript はスクリプトの解析に失敗した場合のエラー
	ErrInvalidScript = errors.New("スクリプトの解析に失敗しました")
)

// 処理段階
const (
	StageOpen    = "open"
	StageExtract = "extract"
	StageDecode  = "decode"
	StageRender  = "render"
	StageWrite   = "write"
)

// FileError はアーカイブ内の1ファイルに関するエラー
type FileError struct {
	Stage   string // 失敗した処理段階
	Archive string // アーカイブファイルのパス
	Entry   string // アーカイブ内のエントリ名 (アーカイブ全体の場合は空)
	Err     error  // 元のエラー
}

// Error はエラーメッセージを返します
func (e *FileError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("%s %s|%s: %v", e.Stage, e.Archive, e.Entry, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Archive, e.Err)
}

// Unwrap は元のエラーを返します
func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError は新しいFileErrorを作成します
func NewFileError(stage, archive, entry string, err error) *FileError {
	return &FileError{
		Stage:   stage,
		Archive: archive,
		Entry:   entry,
		Err:     err,
	}
}
