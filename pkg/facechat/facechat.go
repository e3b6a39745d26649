// Package facechat は FaceChat スクリプト（展開済みの .scr）を解析し、
// 台詞・選択肢・話者を取り出すためのパッケージです。
//
// スクリプトのレイアウト:
//
//	0x00  magic "FaceChat"
//	0x08  unknown int16, stringCount int16, instructionCount int16, reserved uint16
//	0x10  命令列 instructionCount ワード
//	      文字列オフセット表 stringCount ワード
//	      文字列領域 (EUC-JP, NUL 終端)
//
// 命令は1ワードの命令語と、命令語の下位2ビットで決まる数の引数ワードからなります。
// 解析はゲームロジックを再現しません。台詞 (0xF) と選択肢 (0x1C) 以外の命令は
// 引数を読み飛ばすだけです。
package facechat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"

	"github.com/shiroemons/go-facechat/pkg/binreader"
)

const (
	// InstructionBase は命令列の開始位置
	InstructionBase = 0x10

	// CmdDialogue は台詞命令のコマンドID
	CmdDialogue = 0x0F

	// CmdChoice は選択肢命令のコマンドID
	CmdChoice = 0x1C

	// RejoinNote は選択肢2の分岐が合流する位置の台詞に付ける注記
	RejoinNote = "Previous Choice 2 leads here"

	// Choice1Note と Choice2Note は選択肢に付ける注記
	Choice1Note = "Choice 1"
	Choice2Note = "Choice 2"
)

// Magic は FaceChat スクリプトの識別タグ
var Magic = []byte("FaceChat")

// Header はスクリプトのヘッダです
type Header struct {
	Unknown          int16
	StringCount      int16
	InstructionCount int16 // 命令列のワード数
	Reserved         uint16
}

// LenOffset は文字列オフセット表の開始位置を返します
func (h Header) LenOffset() int64 {
	return InstructionBase + int64(h.InstructionCount)*2
}

// StrOffset は文字列領域の開始位置を返します
func (h Header) StrOffset() int64 {
	return h.LenOffset() + int64(h.StringCount)*2
}

// ParamCount は命令語から引数の数を求めます (0, 1, 3, 7)
func ParamCount(opcode uint16) int {
	return (1 << (opcode & 3)) - 1
}

// CommandID は命令語からコマンドIDを求めます
func CommandID(opcode uint16) uint16 {
	return opcode >> 2
}

// EventKind は抽出したイベントの種類
type EventKind int

const (
	EventDialogue EventKind = iota
	EventChoice1
	EventChoice2
)

// String はイベント種類の名前を返します
func (k EventKind) String() string {
	switch k {
	case EventDialogue:
		return "dialogue"
	case EventChoice1:
		return "choice1"
	case EventChoice2:
		return "choice2"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event は台詞または選択肢1件です
type Event struct {
	Kind        EventKind
	StringIndex int
	SpeakerID   int    // 台詞のみ。選択肢では 0
	Note        string // 空なら注記なし
	Offset      int64  // 命令の開始位置
}

// Script は解析結果です
type Script struct {
	Header       Header
	Strings      []string
	Events       []Event
	Speakers     []int // 初出順の話者ID
	Unreferenced []int // どの命令からも参照されない文字列のインデックス（昇順）
}

// Decode は展開済みのスクリプトを解析します
func Decode(data []byte) (*Script, error) {
	return decode(binreader.FromBytes(data))
}

// DecodeReader は r からスクリプトを読み込んで解析します
func DecodeReader(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func decode(src *binreader.Reader) (*Script, error) {
	if err := src.ExpectMagic(0, Magic, "FaceChat"); err != nil {
		return nil, err
	}

	header, err := readHeader(src)
	if err != nil {
		return nil, err
	}

	lenOffset, strOffset := header.LenOffset(), header.StrOffset()
	strs, err := readStrings(src, int(header.StringCount), lenOffset, strOffset)
	if err != nil {
		return nil, err
	}

	d := &walker{
		src:        src,
		strings:    strs,
		end:        lenOffset,
		unrefs:     make([]bool, len(strs)),
		seenSpeak:  make(map[int]bool),
		jumpMarker: noMarker,
	}
	for i := range d.unrefs {
		d.unrefs[i] = true
	}
	if err := d.walk(); err != nil {
		return nil, err
	}

	script := &Script{
		Header:   header,
		Strings:  strs,
		Events:   d.events,
		Speakers: d.speakers,
	}
	for i, unref := range d.unrefs {
		if unref {
			script.Unreferenced = append(script.Unreferenced, i)
		}
	}
	return script, nil
}

func readHeader(src *binreader.Reader) (Header, error) {
	b, err := src.BytesAt(8, 8)
	if err != nil {
		return Header{}, fmt.Errorf("header: %w", err)
	}
	h := Header{
		Unknown:          int16(binary.LittleEndian.Uint16(b[0:])),
		StringCount:      int16(binary.LittleEndian.Uint16(b[2:])),
		InstructionCount: int16(binary.LittleEndian.Uint16(b[4:])),
		Reserved:         binary.LittleEndian.Uint16(b[6:]),
	}
	if h.StringCount < 0 || h.InstructionCount < 0 {
		return Header{}, fmt.Errorf("%w: stringCount=%d instructionCount=%d", ErrInvalidHeader, h.StringCount, h.InstructionCount)
	}
	return h, nil
}

func readStrings(src *binreader.Reader, count int, lenOffset, strOffset int64) ([]string, error) {
	offsets, err := src.Uint16sAt(lenOffset, count)
	if err != nil {
		return nil, fmt.Errorf("string table: %w", err)
	}

	dec := japanese.EUCJP.NewDecoder()
	strs := make([]string, count)
	for i, off := range offsets {
		at := strOffset + int64(off)
		raw, err := src.CStringAt(at)
		if err != nil {
			return nil, fmt.Errorf("string %d: %w", i, err)
		}
		text, err := dec.Bytes(raw)
		// EUC-JP の復号器は不正なバイトを U+FFFD に置き換えるため、それも失敗とみなす
		if err != nil || bytes.ContainsRune(text, utf8.RuneError) {
			return nil, &EncodingError{Index: i, Offset: at, Raw: raw, Err: err}
		}
		strs[i] = string(text)
	}
	return strs, nil
}
