// Package models は facechat コマンドで使用するデータモデルを定義します
package models

// Status は翻訳作業の状態
type Status string

// StatusToDo は未翻訳
const StatusToDo Status = "To Do"

// セクション名
const (
	SectionSpeaker      = "Speaker"
	SectionMainText     = "Main Text"
	SectionUnreferenced = "Unreferenced"
)

// TextEntry は翻訳対象の1レコードです
type TextEntry struct {
	SourceText     string
	TranslatedText *string // 抽出時は常に nil
	Notes          *string
	ID             int // 文字列表のインデックス、話者の場合は話者ID
	Status         Status
	VoiceID        *int
	SpeakerID      *int
}

// Section は名前付きのレコード列です
type Section struct {
	Name    string
	Entries []TextEntry
}

// ScriptDocument はスクリプト1本分の出力内容です
type ScriptDocument struct {
	Title    *string
	Speakers []TextEntry
	Sections []Section
}

// Section は名前で Section を探します
func (d *ScriptDocument) Section(name string) (*Section, bool) {
	for i := range d.Sections {
		if d.Sections[i].Name == name {
			return &d.Sections[i], true
		}
	}
	return nil, false
}

// ExtractedScript はアーカイブから展開したスクリプトを表します
type ExtractedScript struct {
	Archive string // アーカイブファイルのパス
	Name    string // アーカイブ内のエントリ名
	Data    []byte
	Err     error // 展開に失敗した場合のエラー
}

// Ptr は値のポインタを返します
func Ptr[T any](v T) *T {
	return &v
}
