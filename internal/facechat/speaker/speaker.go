// Package speaker は話者IDと表示名の対応表を提供します
package speaker

import (
	"fmt"
	"maps"
)

// defaultNames はゲーム本体の話者名リストです (EBOOT VADDR 0x8C9636C)
var defaultNames = map[int]string{
	0x00: "パスカ・カノンノ",
	0x01: "————",
	0x02: "クレス",
	0x03: "チェスター",
	0x04: "ミント",
	0x05: "アーチェ",
	0x06: "すず",
	0x07: "ダオス",
	0x08: "スタン",
	0x09: "ルーティ",
	0x0A: "リオン",
	0x0B: "フィリア",
	0x0C: "ウッドロウ",
	0x0D: "リリス",
	0x0E: "コングマン",
	0x0F: "リッド",
	0x10: "ファラ",
	0x11: "キール",
	0x12: "チャット",
	0x13: "カイル",
	0x14: "リアラ",
	0x15: "ナナリー",
	0x16: "ハロルド",
	0x17: "バルバトス",
	0x18: "ロイド",
	0x19: "コレット",
	0x1A: "ジーニアス",
	0x1B: "リフィル",
	0x1C: "クラトス",
	0x1D: "ゼロス",
	0x1E: "プレセア",
	0x1F: "セルシウス",
	0x20: "ヴェイグ",
	0x21: "クレア",
	0x22: "ユージーン",
	0x23: "マオ",
	0x24: "アニー",
	0x25: "セネル",
	0x26: "クロエ",
	0x27: "ルーク",
	0x28: "ティア",
	0x29: "ガイ",
	0x2A: "ジェイド",
	0x2B: "アニス",
	0x2C: "アッシュ",
	0x2D: "カイウス",
	0x2E: "ルビア",
	0x2F: "ルカ",
	0x30: "イリア",
	0x31: "スパーダ",
	0x32: "カノンノ",
	0x33: "ユーリ",
	0x34: "エステル",
	0x35: "パニール",
	0x36: "ニアタ",
	0x37: "ジャニス",
	0x38: "助手",
	0x3A: "受付お姉さん",
	0x3B: "ゲーデ",
	0x3C: "ショー・コーロン",
	0x3D: "エコー・フラワー",
	0x3E: "ナディ構成員",
	0x3F: "ナディ構成員",
	0x40: "ナディ構成員",
	0x41: "ビクター",
	0x42: "傷ついた兵士",
	0x43: "青年",
	0x44: "男",
	0x46: "謎の男",
	0x47: "アニス？",
	0x48: "クロエ？",
	0x4E: "ファラ？",
}

// Table は変更不可の話者名表です
type Table struct {
	names map[int]string
}

var defaultTable = Table{names: defaultNames}

// Default はゲーム本体の話者名表を返します
func Default() Table {
	return defaultTable
}

// New は names の写しから Table を作成します
func New(names map[int]string) Table {
	return Table{names: maps.Clone(names)}
}

// With は overrides を上書きした新しい Table を返します。元の Table は変更しません。
func (t Table) With(overrides map[int]string) Table {
	if len(overrides) == 0 {
		return t
	}
	names := maps.Clone(t.names)
	if names == nil {
		names = make(map[int]string, len(overrides))
	}
	maps.Copy(names, overrides)
	return Table{names: names}
}

// Lookup は話者名を返します。見つからない場合は false を返します。
func (t Table) Lookup(id int) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}

// Name は話者名を返します。未知のIDは "<Name:XX>" (16進) になります。
func (t Table) Name(id int) string {
	if name, ok := t.names[id]; ok {
		return name
	}
	return fmt.Sprintf("<Name:%X>", id)
}

// Len は登録されている話者の数を返します
func (t Table) Len() int {
	return len(t.names)
}
