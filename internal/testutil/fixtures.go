// Package testutil はテスト用の EZBIND / FaceChat データを組み立てます
package testutil

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/japanese"
)

// ArchiveFile はアーカイブに格納するファイル
type ArchiveFile struct {
	Name     string
	Payload  []byte // 格納するバイト列（圧縮は呼び出し側で行う）
	Checksum uint32
}

// Gzip は data を gzip 圧縮します
func Gzip(t testing.TB, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// BuildArchive は files を格納した EZBIND アーカイブを組み立てます。
// レイアウトはヘッダ、インデックス、名前領域、ペイロード領域の順です。
func BuildArchive(files ...ArchiveFile) []byte {
	const headerSize, recordSize = 0x10, 0x10

	var names bytes.Buffer
	nameBase := headerSize + recordSize*len(files)
	nameOffsets := make([]int, len(files))
	for i, f := range files {
		nameOffsets[i] = nameBase + names.Len()
		names.WriteString(f.Name)
		names.WriteByte(0)
	}

	var payloads bytes.Buffer
	payloadBase := nameBase + names.Len()
	payloadOffsets := make([]int, len(files))
	for i, f := range files {
		payloadOffsets[i] = payloadBase + payloads.Len()
		payloads.Write(f.Payload)
	}

	out := make([]byte, 0, payloadBase+payloads.Len())
	out = append(out, []byte("EZBIND\x00\x00")...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(files)))
	out = binary.LittleEndian.AppendUint32(out, 0x10)
	for i, f := range files {
		out = binary.LittleEndian.AppendUint32(out, uint32(nameOffsets[i]))
		out = binary.LittleEndian.AppendUint32(out, uint32(len(f.Payload)))
		out = binary.LittleEndian.AppendUint32(out, uint32(payloadOffsets[i]))
		out = binary.LittleEndian.AppendUint32(out, f.Checksum)
	}
	out = append(out, names.Bytes()...)
	out = append(out, payloads.Bytes()...)
	return out
}

// WriteArchive は files を格納したアーカイブを dir/name に書き出し、そのパスを返します
func WriteArchive(t testing.TB, dir, name string, files ...ArchiveFile) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, BuildArchive(files...), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

// Opcode は command と引数の数の区分から命令語を作ります
func Opcode(command uint16, paramClass uint16) uint16 {
	return command<<2 | paramClass&3
}

// Dialogue は台詞命令 (0xF) を返します。speaker は 1 始まりの話者ID です。
func Dialogue(speaker, index uint16) []uint16 {
	return []uint16{Opcode(0xF, 2), 0, speaker - 1, index}
}

// Choice は選択肢命令 (0x1C) を返します。target は命令領域先頭からのワード位置です。
func Choice(first, second, target uint16) []uint16 {
	return []uint16{Opcode(0x1C, 2), first, second, target}
}

// Nop は引数なしの無関係な命令を返します
func Nop() []uint16 {
	return []uint16{Opcode(0x01, 0)}
}

// Script は FaceChat スクリプトの組み立て用データ
type Script struct {
	Unknown int16
	Strings []string // UTF-8。EUC-JP に変換して格納する
	Code    [][]uint16
}

// Words は命令列を連結したワード列を返します
func (s Script) Words() []uint16 {
	var words []uint16
	for _, c := range s.Code {
		words = append(words, c...)
	}
	return words
}

// Build は展開済みの FaceChat スクリプトを組み立てます
func (s Script) Build(t testing.TB) []byte {
	t.Helper()

	words := s.Words()
	enc := japanese.EUCJP.NewEncoder()

	var block bytes.Buffer
	offsets := make([]uint16, len(s.Strings))
	for i, str := range s.Strings {
		encoded, err := enc.String(str)
		if err != nil {
			t.Fatalf("encode %q: %v", str, err)
		}
		offsets[i] = uint16(block.Len())
		block.WriteString(encoded)
		block.WriteByte(0)
	}

	out := []byte("FaceChat")
	out = binary.LittleEndian.AppendUint16(out, uint16(s.Unknown))
	out = binary.LittleEndian.AppendUint16(out, uint16(len(s.Strings)))
	out = binary.LittleEndian.AppendUint16(out, uint16(len(words)))
	out = binary.LittleEndian.AppendUint16(out, 0)
	for _, w := range words {
		out = binary.LittleEndian.AppendUint16(out, w)
	}
	for _, off := range offsets {
		out = binary.LittleEndian.AppendUint16(out, off)
	}
	return append(out, block.Bytes()...)
}
