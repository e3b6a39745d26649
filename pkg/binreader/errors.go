package binreader

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds は読み込み範囲がデータ外にある場合のエラー
	ErrOutOfBounds = errors.New("read out of bounds")

	// ErrBadMagic はフォーマット識別タグが一致しない場合のエラー
	ErrBadMagic = errors.New("bad magic")
)

// BoundsError はデータ範囲外の読み込みを表します
type BoundsError struct {
	Offset int64 // 読み込み開始位置
	Length int64 // 要求したバイト数
	Size   int64 // データ全体のサイズ
}

// Error はエラーメッセージを返します
func (e *BoundsError) Error() string {
	return fmt.Sprintf("read of %d bytes at 0x%X exceeds size 0x%X", e.Length, e.Offset, e.Size)
}

// Is は ErrOutOfBounds との比較を可能にします
func (e *BoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

// FormatError は識別タグの不一致を表します
type FormatError struct {
	Format string // 期待したフォーマット名
	Want   []byte
	Got    []byte // データが短すぎる場合は nil
}

// Error はエラーメッセージを返します
func (e *FormatError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("not a %s file: data too short for magic %q", e.Format, e.Want)
	}
	return fmt.Sprintf("not a %s file: magic %q, want %q", e.Format, e.Got, e.Want)
}

// Is は ErrBadMagic との比較を可能にします
func (e *FormatError) Is(target error) bool {
	return target == ErrBadMagic
}
