package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiroemons/go-facechat/internal/facechat/models"
	"github.com/shiroemons/go-facechat/internal/facechat/speaker"
	"github.com/shiroemons/go-facechat/internal/testutil"
	"github.com/shiroemons/go-facechat/pkg/facechat"
)

func TestBuild(t *testing.T) {
	script, err := facechat.Decode(testutil.Script{
		Strings: []string{"どうする？", "戦う", "逃げる", "使われない", "よし！"},
		Code: [][]uint16{
			testutil.Dialogue(0x02, 0),
			testutil.Choice(1, 2, 0x7F),
			testutil.Dialogue(0x99, 4),
			testutil.Dialogue(0x02, 4),
		},
	}.Build(t))
	require.NoError(t, err)

	doc := Build(script, speaker.Default(), nil)

	assert.Nil(t, doc.Title)
	assert.Equal(t, []models.TextEntry{
		{SourceText: "クレス", ID: 0x02, Status: models.StatusToDo},
		{SourceText: "<Name:99>", ID: 0x99, Status: models.StatusToDo},
	}, doc.Speakers)

	require.Len(t, doc.Sections, 2)
	mainText, ok := doc.Section(models.SectionMainText)
	require.True(t, ok)
	assert.Equal(t, []models.TextEntry{
		{SourceText: "どうする？", ID: 0, Status: models.StatusToDo, SpeakerID: models.Ptr(2)},
		{SourceText: "戦う", ID: 1, Status: models.StatusToDo, Notes: models.Ptr("Choice 1")},
		{SourceText: "逃げる", ID: 2, Status: models.StatusToDo, Notes: models.Ptr("Choice 2")},
		{SourceText: "よし！", ID: 4, Status: models.StatusToDo, SpeakerID: models.Ptr(0x99)},
		{SourceText: "よし！", ID: 4, Status: models.StatusToDo, SpeakerID: models.Ptr(2)},
	}, mainText.Entries)

	unref, ok := doc.Section(models.SectionUnreferenced)
	require.True(t, ok)
	assert.Equal(t, []models.TextEntry{
		{SourceText: "使われない", ID: 3, Status: models.StatusToDo},
	}, unref.Entries)

	for _, e := range mainText.Entries {
		assert.Nil(t, e.TranslatedText)
		assert.Nil(t, e.VoiceID)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	script, err := facechat.Decode(testutil.Script{
		Strings: []string{"a", "b"},
		Code:    [][]uint16{testutil.Dialogue(0x03, 1)},
	}.Build(t))
	require.NoError(t, err)

	title := "chat01"
	first := Build(script, speaker.Default(), &title)
	second := Build(script, speaker.Default(), &title)
	assert.Equal(t, first, second)
	assert.Equal(t, "chat01", *first.Title)
}

func TestBuild_Empty(t *testing.T) {
	doc := Build(&facechat.Script{}, speaker.Default(), nil)
	assert.Empty(t, doc.Speakers)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, models.SectionMainText, doc.Sections[0].Name)
	assert.Equal(t, models.SectionUnreferenced, doc.Sections[1].Name)
	assert.Empty(t, doc.Sections[0].Entries)
	assert.Empty(t, doc.Sections[1].Entries)

	_, ok := doc.Section("Other")
	assert.False(t, ok)
}
