package facechat

import (
	"fmt"

	"github.com/shiroemons/go-facechat/pkg/binreader"
)

// noMarker は合流マーカーが未設定であることを表します
const noMarker = -1

// walker は命令列を先頭から線形に走査します。
// 分岐先へジャンプはせず、選択肢の合流位置を1つだけ覚えておきます。
type walker struct {
	src     *binreader.Reader
	strings []string
	end     int64 // 命令列の終端 (文字列オフセット表の開始位置)

	events    []Event
	unrefs    []bool
	speakers  []int
	seenSpeak map[int]bool

	// 未解決の合流位置。新しい選択肢で上書きされる
	jumpMarker int64
}

func (w *walker) walk() error {
	pos := int64(InstructionBase)
	for pos < w.end {
		start := pos
		opcode, err := w.word(pos)
		if err != nil {
			return fmt.Errorf("opcode at 0x%X: %w", start, err)
		}
		pos += 2

		count := ParamCount(opcode)
		params := make([]uint16, count)
		for i := range params {
			if params[i], err = w.word(pos); err != nil {
				return fmt.Errorf("parameter %d of opcode 0x%04X at 0x%X: %w", i, opcode, start, err)
			}
			pos += 2
		}

		emitted, err := w.dispatch(CommandID(opcode), params, start)
		if err != nil {
			return err
		}
		if emitted && w.jumpMarker != noMarker && pos >= w.jumpMarker {
			w.events[len(w.events)-1].Note = RejoinNote
			w.jumpMarker = noMarker
		}
	}
	// 終端に達した時点で残っている合流マーカーは捨てる
	return nil
}

// word は命令列の範囲内から1ワード読み込みます
func (w *walker) word(pos int64) (uint16, error) {
	if pos+2 > w.end {
		return 0, &binreader.BoundsError{Offset: pos, Length: 2, Size: w.end}
	}
	return w.src.Uint16At(pos)
}

// dispatch はコマンドごとの処理を行い、イベントを出力したかを返します
func (w *walker) dispatch(cmd uint16, params []uint16, at int64) (bool, error) {
	switch cmd {
	case CmdDialogue:
		if len(params) < 3 {
			return false, &CommandError{Command: cmd, Offset: at, Params: len(params)}
		}
		index, speaker := int(params[2]), int(params[1])+1
		if err := w.reference(index, at); err != nil {
			return false, err
		}
		w.events = append(w.events, Event{Kind: EventDialogue, StringIndex: index, SpeakerID: speaker, Offset: at})
		if !w.seenSpeak[speaker] {
			w.seenSpeak[speaker] = true
			w.speakers = append(w.speakers, speaker)
		}
		return true, nil

	case CmdChoice:
		if len(params) < 3 {
			return false, &CommandError{Command: cmd, Offset: at, Params: len(params)}
		}
		first, second := int(params[0]), int(params[1])
		if err := w.reference(first, at); err != nil {
			return false, err
		}
		if err := w.reference(second, at); err != nil {
			return false, err
		}
		w.events = append(w.events,
			Event{Kind: EventChoice1, StringIndex: first, Note: Choice1Note, Offset: at},
			Event{Kind: EventChoice2, StringIndex: second, Note: Choice2Note, Offset: at},
		)
		w.jumpMarker = InstructionBase + int64(params[2])*2
		return true, nil

	default:
		// 引数は読み込み済み。抽出に関係しない命令は無視する
		return false, nil
	}
}

// reference は文字列インデックスを検証し、未参照集合から取り除きます
func (w *walker) reference(index int, at int64) error {
	if index < 0 || index >= len(w.strings) {
		return fmt.Errorf("instruction at 0x%X: %w", at, &IndexError{Index: index, Count: len(w.strings)})
	}
	w.unrefs[index] = false
	return nil
}
