// Package xmldoc は ScriptDocument と翻訳用XMLの相互変換を行います
package xmldoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shiroemons/go-facechat/internal/facechat/models"
)

type sceneText struct {
	XMLName      xml.Name         `xml:"SceneText"`
	FriendlyName *string          `xml:"FriendlyName,omitempty"`
	Speakers     sectionElement   `xml:"Speakers"`
	Strings      []sectionElement `xml:"Strings"`
}

type sectionElement struct {
	Section string         `xml:"Section"`
	Entries []entryElement `xml:"Entry"`
}

type entryElement struct {
	VoiceID      *int    `xml:"VoiceId,omitempty"`
	JapaneseText string  `xml:"JapaneseText"`
	EnglishText  string  `xml:"EnglishText"`
	Notes        *string `xml:"Notes,omitempty"`
	SpeakerID    *int    `xml:"SpeakerId,omitempty"`
	ID           int     `xml:"Id"`
	Status       string  `xml:"Status"`
}

// Marshal は doc をXML宣言付き、2スペースインデントのXMLに変換します
func Marshal(doc *models.ScriptDocument) ([]byte, error) {
	if doc.Title != nil {
		if err := checkText(*doc.Title); err != nil {
			return nil, fmt.Errorf("FriendlyName: %w", err)
		}
	}
	speakers, err := toElement(models.SectionSpeaker, doc.Speakers)
	if err != nil {
		return nil, err
	}
	root := sceneText{
		FriendlyName: doc.Title,
		Speakers:     speakers,
		Strings:      make([]sectionElement, 0, len(doc.Sections)),
	}
	for _, s := range doc.Sections {
		el, err := toElement(s.Name, s.Entries)
		if err != nil {
			return nil, err
		}
		root.Strings = append(root.Strings, el)
	}

	body, err := xml.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scene text: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(body) + 1)
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Write は doc をXMLとして w に書き出します
func Write(w io.Writer, doc *models.ScriptDocument) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Unmarshal はXMLを ScriptDocument に戻します。
// 空の EnglishText は未翻訳 (TranslatedText == nil) として扱います。
func Unmarshal(data []byte) (*models.ScriptDocument, error) {
	var root sceneText
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("unmarshal scene text: %w", err)
	}

	doc := &models.ScriptDocument{
		Title:    root.FriendlyName,
		Speakers: fromElement(root.Speakers),
		Sections: make([]models.Section, 0, len(root.Strings)),
	}
	for _, s := range root.Strings {
		doc.Sections = append(doc.Sections, models.Section{
			Name:    s.Section,
			Entries: fromElement(s),
		})
	}
	return doc, nil
}

func toElement(name string, entries []models.TextEntry) (sectionElement, error) {
	if err := checkText(name); err != nil {
		return sectionElement{}, fmt.Errorf("section %q: %w", name, err)
	}
	el := sectionElement{Section: name, Entries: make([]entryElement, 0, len(entries))}
	for _, e := range entries {
		item := entryElement{
			VoiceID:      e.VoiceID,
			JapaneseText: strings.ReplaceAll(e.SourceText, "\r\n", "\n"),
			Notes:        e.Notes,
			SpeakerID:    e.SpeakerID,
			ID:           e.ID,
			Status:       string(e.Status),
		}
		if e.TranslatedText != nil {
			item.EnglishText = *e.TranslatedText
		}
		for _, text := range []*string{&item.JapaneseText, &item.EnglishText, item.Notes, &item.Status} {
			if text == nil {
				continue
			}
			if err := checkText(*text); err != nil {
				return sectionElement{}, fmt.Errorf("section %q entry %d: %w", name, e.ID, err)
			}
		}
		el.Entries = append(el.Entries, item)
	}
	return el, nil
}

// checkText は s がXML 1.0 の Char だけで構成されているかを検証します。
// encoding/xml は範囲外の文字を U+FFFD に置き換えるため、書き出す前に検出します。
func checkText(s string) error {
	for i, r := range s {
		if r == utf8.RuneError && !strings.HasPrefix(s[i:], "\uFFFD") {
			return fmt.Errorf("%w: invalid UTF-8 at byte %d", ErrInvalidCharacter, i)
		}
		if !isXMLChar(r) {
			return fmt.Errorf("%w: %U at byte %d", ErrInvalidCharacter, r, i)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

func fromElement(el sectionElement) []models.TextEntry {
	entries := make([]models.TextEntry, 0, len(el.Entries))
	for _, item := range el.Entries {
		e := models.TextEntry{
			SourceText: item.JapaneseText,
			Notes:      item.Notes,
			ID:         item.ID,
			Status:     models.Status(item.Status),
			VoiceID:    item.VoiceID,
			SpeakerID:  item.SpeakerID,
		}
		if item.EnglishText != "" {
			e.TranslatedText = models.Ptr(item.EnglishText)
		}
		entries = append(entries, e)
	}
	return entries
}
