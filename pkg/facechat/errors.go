package facechat

import (
	"errors"
	"fmt"

	"github.com/shiroemons/go-facechat/pkg/binreader"
)

var (
	// ErrInvalidHeader はヘッダの値が不正な場合のエラー
	ErrInvalidHeader = errors.New("invalid FaceChat header")

	// ErrEncoding は文字列を EUC-JP として復号できない場合のエラー
	ErrEncoding = errors.New("invalid EUC-JP string")
)

// EncodingError は文字列の復号失敗を表します
type EncodingError struct {
	Index  int   // 文字列インデックス
	Offset int64 // 文字列の位置
	Raw    []byte
	Err    error // 復号器のエラー（置換文字で検出した場合は nil）
}

// Error はエラーメッセージを返します
func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("string %d at 0x%X: %v: %v", e.Index, e.Offset, ErrEncoding, e.Err)
	}
	return fmt.Sprintf("string %d at 0x%X: %v: % X", e.Index, e.Offset, ErrEncoding, e.Raw)
}

// Is は ErrEncoding との比較を可能にします
func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

// Unwrap は元のエラーを返します
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// IndexError は文字列表の範囲外を指すインデックスを表します
type IndexError struct {
	Index int
	Count int
}

// Error はエラーメッセージを返します
func (e *IndexError) Error() string {
	return fmt.Sprintf("string index %d out of range [0, %d)", e.Index, e.Count)
}

// Is は範囲外エラーとして扱えるようにします
func (e *IndexError) Is(target error) bool {
	return target == binreader.ErrOutOfBounds
}

// CommandError は抽出対象のコマンドの引数が足りない場合のエラー
type CommandError struct {
	Command uint16
	Offset  int64
	Params  int
}

// Error はエラーメッセージを返します
func (e *CommandError) Error() string {
	return fmt.Sprintf("command 0x%X at 0x%X has %d parameters, want 3", e.Command, e.Offset, e.Params)
}

// Is は範囲外エラーとして扱えるようにします
func (e *CommandError) Is(target error) bool {
	return target == binreader.ErrOutOfBounds
}
