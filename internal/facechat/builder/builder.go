// Package builder は解析結果から翻訳用のドキュメントを組み立てます
package builder

import (
	"github.com/shiroemons/go-facechat/internal/facechat/models"
	"github.com/shiroemons/go-facechat/pkg/facechat"
)

// Names は話者名を解決するインターフェース
type Names interface {
	Name(id int) string
}

// Build は script から ScriptDocument を作成します。
// 話者は初出順、本文は出現順、未参照文字列はインデックス昇順で並びます。
func Build(script *facechat.Script, names Names, title *string) *models.ScriptDocument {
	doc := &models.ScriptDocument{
		Title:    title,
		Speakers: make([]models.TextEntry, 0, len(script.Speakers)),
	}

	for _, id := range script.Speakers {
		doc.Speakers = append(doc.Speakers, models.TextEntry{
			SourceText: names.Name(id),
			ID:         id,
			Status:     models.StatusToDo,
		})
	}

	mainText := models.Section{Name: models.SectionMainText, Entries: make([]models.TextEntry, 0, len(script.Events))}
	for _, ev := range script.Events {
		entry := models.TextEntry{
			SourceText: script.Strings[ev.StringIndex],
			ID:         ev.StringIndex,
			Status:     models.StatusToDo,
		}
		if ev.Note != "" {
			entry.Notes = models.Ptr(ev.Note)
		}
		if ev.Kind == facechat.EventDialogue {
			entry.SpeakerID = models.Ptr(ev.SpeakerID)
		}
		mainText.Entries = append(mainText.Entries, entry)
	}

	unref := models.Section{Name: models.SectionUnreferenced, Entries: make([]models.TextEntry, 0, len(script.Unreferenced))}
	for _, i := range script.Unreferenced {
		unref.Entries = append(unref.Entries, models.TextEntry{
			SourceText: script.Strings[i],
			ID:         i,
			Status:     models.StatusToDo,
		})
	}

	doc.Sections = []models.Section{mainText, unref}
	return doc
}
