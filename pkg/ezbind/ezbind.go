// Package ezbind は EZBIND アーカイブ（.arcファイル）を読み込むためのパッケージです。
//
// EZBIND のレイアウト:
//
//	0x00  magic     "EZBIND\x00\x00"
//	0x08  count     uint32  エントリ数
//	0x0C  alignment uint32  ペイロードのアライメント
//	0x10  index     count * 16 バイト
//	      { nameOffset, payloadSize, payloadOffset, checksum uint32 }
//
// nameOffset と payloadOffset はどちらもファイル先頭からの絶対オフセットです。
// ペイロードは gzip で圧縮されています。
//
// 基本的な使い方:
//
//	archive := ezbind.NewArchive()
//	if err := archive.Open("chat01.arc"); err != nil {
//	    return err
//	}
//	defer archive.Close()
//	for ok := archive.EnumFirst(); ok; ok = archive.EnumNext() {
//	    name := archive.GetEntryName()
//	    // エントリを処理...
//	}
package ezbind

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/shiroemons/go-facechat/pkg/binreader"
)

const (
	// HeaderSize はヘッダのサイズ
	HeaderSize = 0x10

	// IndexEntrySize はインデックス1件のサイズ
	IndexEntrySize = 0x10
)

// Magic は EZBIND アーカイブの識別タグ
var Magic = []byte("EZBIND\x00\x00")

// IndexEntry はインデックス上の1レコードです
type IndexEntry struct {
	NameOffset    uint32
	PayloadSize   uint32
	PayloadOffset uint32
	Checksum      uint32 // 検証はしない
}

// Entry はアーカイブ内のエントリを表します
type Entry struct {
	IndexEntry
	Name string

	src *binreader.Reader
}

// GetEntryName はエントリ名を取得します
func (e *Entry) GetEntryName() string {
	return e.Name
}

// GetCompressedSize は圧縮後のサイズを取得します
func (e *Entry) GetCompressedSize() uint32 {
	return e.PayloadSize
}

// Raw は圧縮されたままのペイロードを返します。
// ペイロードの範囲は Load では検証せず、読み込み時に検証します。
func (e *Entry) Raw() ([]byte, error) {
	if e.src == nil {
		return nil, ErrNotOpen
	}
	data, err := e.src.BytesAt(int64(e.PayloadOffset), int64(e.PayloadSize))
	if err != nil {
		return nil, fmt.Errorf("payload of %s: %w", e.Name, err)
	}
	return data, nil
}

// Extract はペイロードを展開して w に書き込みます
func (e *Entry) Extract(w io.Writer) (int64, error) {
	raw, err := e.Raw()
	if err != nil {
		return 0, err
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrDecompress, e.Name, err)
	}
	defer zr.Close()

	n, err := io.Copy(w, zr)
	if err != nil {
		return n, fmt.Errorf("%w: %s: %w", ErrDecompress, e.Name, err)
	}
	return n, nil
}

// Decompress はペイロードを展開したバイト列を返します
func (e *Entry) Decompress() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := e.Extract(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Archive は EZBIND アーカイブを表します
type Archive struct {
	file      *os.File
	src       *binreader.Reader
	alignment uint32
	entries   []Entry
	curIndex  int
}

// NewArchive は新しい Archive を作成します
func NewArchive() *Archive {
	return &Archive{
		entries:  make([]Entry, 0),
		curIndex: -1,
	}
}

// Open はアーカイブファイルを開きます
func (a *Archive) Open(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}

	fileInfo, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}

	if err := a.Load(file, fileInfo.Size()); err != nil {
		file.Close()
		return err
	}
	a.file = file
	return nil
}

// Load は r からアーカイブのヘッダとインデックスを読み込みます。
// r はアーカイブを使い終わるまで有効である必要があります。
func (a *Archive) Load(r io.ReaderAt, size int64) error {
	src := binreader.New(r, size)

	if err := src.ExpectMagic(0, Magic, "EZBIND"); err != nil {
		return err
	}

	count, err := src.Uint32At(8)
	if err != nil {
		return fmt.Errorf("failed to read entry count: %w", err)
	}
	alignment, err := src.Uint32At(12)
	if err != nil {
		return fmt.Errorf("failed to read alignment: %w", err)
	}

	// インデックス全体がファイルに収まっていること
	if !src.InBounds(HeaderSize, int64(count)*IndexEntrySize) {
		return fmt.Errorf("%w: index of %d entries exceeds file size %d", ErrInvalidIndex, count, size)
	}

	entries := make([]Entry, 0, count)
	for i := range int64(count) {
		rec, err := src.BytesAt(HeaderSize+i*IndexEntrySize, IndexEntrySize)
		if err != nil {
			return fmt.Errorf("failed to read entry %d: %w", i, err)
		}

		entry := Entry{
			IndexEntry: IndexEntry{
				NameOffset:    binary.LittleEndian.Uint32(rec[0:]),
				PayloadSize:   binary.LittleEndian.Uint32(rec[4:]),
				PayloadOffset: binary.LittleEndian.Uint32(rec[8:]),
				Checksum:      binary.LittleEndian.Uint32(rec[12:]),
			},
			src: src,
		}

		name, err := src.CStringAt(int64(entry.NameOffset))
		if err != nil {
			return fmt.Errorf("invalid name for entry %d: %w", i, err)
		}
		entry.Name = string(name)

		entries = append(entries, entry)
	}

	a.src = src
	a.alignment = alignment
	a.entries = entries
	a.curIndex = -1
	return nil
}

// Close はアーカイブファイルを閉じます
func (a *Archive) Close() error {
	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}

// Alignment はヘッダに記録されたアライメントを返します
func (a *Archive) Alignment() uint32 {
	return a.alignment
}

// Entries は全エントリをインデックス順に返します
func (a *Archive) Entries() []*Entry {
	out := make([]*Entry, len(a.entries))
	for i := range a.entries {
		out[i] = &a.entries[i]
	}
	return out
}

// EnumFirst は最初のエントリに移動します
func (a *Archive) EnumFirst() bool {
	if len(a.entries) == 0 {
		return false
	}
	a.curIndex = 0
	return true
}

// EnumNext は次のエントリに移動します
func (a *Archive) EnumNext() bool {
	if a.curIndex < 0 || a.curIndex >= len(a.entries)-1 {
		return false
	}
	a.curIndex++
	return true
}

// GetEntryName は現在のエントリ名を取得します
func (a *Archive) GetEntryName() string {
	if e := a.GetEntry(); e != nil {
		return e.Name
	}
	return ""
}

// GetCompressedSize は現在のエントリの圧縮後のサイズを取得します
func (a *Archive) GetCompressedSize() uint32 {
	if e := a.GetEntry(); e != nil {
		return e.PayloadSize
	}
	return 0
}

// GetEntry は現在のエントリを取得します
func (a *Archive) GetEntry() *Entry {
	if a.curIndex < 0 || a.curIndex >= len(a.entries) {
		return nil
	}
	return &a.entries[a.curIndex]
}

// HasMarker はエントリ名にスクリプトの拡張子マーカーが含まれるかを返します
func HasMarker(name, marker string) bool {
	return strings.Contains(name, marker)
}
