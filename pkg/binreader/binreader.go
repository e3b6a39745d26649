// Package binreader はバイナリデータをオフセット指定で読み込むためのパッケージです。
//
// Reader は読み込み位置を持ちません。すべての読み込みは絶対オフセットを
// 指定して行うため、インデックスを読みながら名前やペイロードを参照しても
// 呼び出し側の位置が乱れることはありません。
//
//	r := binreader.New(bytes.NewReader(data), int64(len(data)))
//	if err := r.ExpectMagic(0, []byte("EZBIND\x00\x00"), "EZBIND"); err != nil {
//	    return err
//	}
//	count, err := r.Uint32At(8)
package binreader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// maxCStringChunk は CStringAt が一度に読み込むバイト数
const maxCStringChunk = 64

// Reader は io.ReaderAt をオフセット指定で読み込みます (リトルエンディアン)
type Reader struct {
	r    io.ReaderAt
	size int64
}

// New は新しい Reader を作成します
func New(r io.ReaderAt, size int64) *Reader {
	return &Reader{r: r, size: size}
}

// FromBytes はバイト列から Reader を作成します
func FromBytes(data []byte) *Reader {
	return New(bytes.NewReader(data), int64(len(data)))
}

// Size はデータ全体のサイズを返します
func (r *Reader) Size() int64 {
	return r.size
}

// InBounds は [off, off+n) がデータ内に収まっているかを返します
func (r *Reader) InBounds(off, n int64) bool {
	return off >= 0 && n >= 0 && off <= r.size && n <= r.size-off
}

// BytesAt は off から n バイトを読み込みます
func (r *Reader) BytesAt(off, n int64) ([]byte, error) {
	if !r.InBounds(off, n) {
		return nil, &BoundsError{Offset: off, Length: n, Size: r.size}
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if _, err := r.r.ReadAt(buf, off); err != nil && !(errors.Is(err, io.EOF) && off+n == r.size) {
		return nil, err
	}
	return buf, nil
}

// Uint16At は off から uint16 を読み込みます
func (r *Reader) Uint16At(off int64) (uint16, error) {
	b, err := r.BytesAt(off, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Int16At は off から int16 を読み込みます
func (r *Reader) Int16At(off int64) (int16, error) {
	v, err := r.Uint16At(off)
	return int16(v), err
}

// Uint32At は off から uint32 を読み込みます
func (r *Reader) Uint32At(off int64) (uint32, error) {
	b, err := r.BytesAt(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint16sAt は off から count 個の uint16 を読み込みます
func (r *Reader) Uint16sAt(off int64, count int) ([]uint16, error) {
	if count < 0 {
		return nil, &BoundsError{Offset: off, Length: int64(count) * 2, Size: r.size}
	}
	b, err := r.BytesAt(off, int64(count)*2)
	if err != nil {
		return nil, err
	}
	values := make([]uint16, count)
	for i := range values {
		values[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return values, nil
}

// CStringAt は off から NUL 終端文字列を読み込みます (NUL は含みません)。
// データ末尾までに NUL が見つからない場合は BoundsError を返します。
func (r *Reader) CStringAt(off int64) ([]byte, error) {
	if off < 0 || off >= r.size {
		return nil, &BoundsError{Offset: off, Length: 1, Size: r.size}
	}

	var out []byte
	pos := off
	for pos < r.size {
		n := min(int64(maxCStringChunk), r.size-pos)
		chunk, err := r.BytesAt(pos, n)
		if err != nil {
			return nil, err
		}
		if i := bytes.IndexByte(chunk, 0); i >= 0 {
			return append(out, chunk[:i]...), nil
		}
		out = append(out, chunk...)
		pos += n
	}

	return nil, &BoundsError{Offset: off, Length: r.size - off + 1, Size: r.size}
}

// ExpectMagic は off の位置に magic があることを確認します。
// 一致しない場合は format を名前に持つ FormatError を返します。
func (r *Reader) ExpectMagic(off int64, magic []byte, format string) error {
	got, err := r.BytesAt(off, int64(len(magic)))
	if err != nil {
		var be *BoundsError
		if errors.As(err, &be) {
			// 短すぎるデータはタグ不一致として扱う
			return &FormatError{Format: format, Want: magic, Got: nil}
		}
		return err
	}
	if !bytes.Equal(got, magic) {
		return &FormatError{Format: format, Want: magic, Got: got}
	}
	return nil
}
