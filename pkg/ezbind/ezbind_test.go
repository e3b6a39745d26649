package ezbind

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiroemons/go-facechat/internal/testutil"
	"github.com/shiroemons/go-facechat/pkg/binreader"
)

func loadArchive(t *testing.T, data []byte) *Archive {
	t.Helper()
	archive := NewArchive()
	require.NoError(t, archive.Load(bytes.NewReader(data), int64(len(data))))
	return archive
}

func TestArchive_Load(t *testing.T) {
	data := testutil.BuildArchive(
		testutil.ArchiveFile{Name: "chat01.scr", Payload: testutil.Gzip(t, []byte("script body")), Checksum: 0xDEADBEEF},
		testutil.ArchiveFile{Name: "face01.tm2", Payload: []byte("raw image")},
	)
	archive := loadArchive(t, data)

	entries := archive.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "chat01.scr", entries[0].Name)
	assert.Equal(t, uint32(0xDEADBEEF), entries[0].Checksum)
	assert.Equal(t, "face01.tm2", entries[1].Name)
	assert.Equal(t, uint32(0x10), archive.Alignment())

	for _, e := range entries {
		// 名前と残りのデータ長の関係、ペイロード範囲の検証
		assert.Less(t, int64(len(e.Name)), int64(len(data))-int64(e.NameOffset))
		assert.LessOrEqual(t, int64(e.PayloadOffset)+int64(e.PayloadSize), int64(len(data)))
	}

	raw, err := entries[1].Raw()
	require.NoError(t, err)
	assert.Equal(t, []byte("raw image"), raw)

	body, err := entries[0].Decompress()
	require.NoError(t, err)
	assert.Equal(t, []byte("script body"), body)
}

func TestArchive_Enum(t *testing.T) {
	archive := NewArchive()
	assert.False(t, archive.EnumFirst(), "EnumFirst() should return false before Load()")
	assert.False(t, archive.EnumNext(), "EnumNext() should return false before Load()")
	assert.Empty(t, archive.GetEntryName())
	assert.Zero(t, archive.GetCompressedSize())
	assert.Nil(t, archive.GetEntry())

	archive = loadArchive(t, testutil.BuildArchive(
		testutil.ArchiveFile{Name: "a.scr", Payload: []byte("12")},
		testutil.ArchiveFile{Name: "b.scr", Payload: []byte("345")},
	))

	var names []string
	var sizes []uint32
	for ok := archive.EnumFirst(); ok; ok = archive.EnumNext() {
		names = append(names, archive.GetEntryName())
		sizes = append(sizes, archive.GetCompressedSize())
	}
	assert.Equal(t, []string{"a.scr", "b.scr"}, names)
	assert.Equal(t, []uint32{2, 3}, sizes)
}

func TestArchive_LoadErrors(t *testing.T) {
	valid := testutil.BuildArchive(testutil.ArchiveFile{Name: "a.scr", Payload: []byte("xyz")})

	badCount := append([]byte(nil), valid...)
	badCount[8] = 0xFF

	badName := append([]byte(nil), valid...)
	badName[0x10] = 0xFF // nameOffset をファイル外へ

	tests := []struct {
		name   string
		data   []byte
		target error
	}{
		{"マジック不一致", []byte("NOTEZBIN\x00\x00\x00\x00\x00\x00\x00\x00"), binreader.ErrBadMagic},
		{"短すぎるデータ", []byte("EZB"), binreader.ErrBadMagic},
		{"ヘッダが途中で切れている", []byte("EZBIND\x00\x00\x01\x00"), binreader.ErrOutOfBounds},
		{"インデックスがファイル外", badCount, ErrInvalidIndex},
		{"名前がファイル外", badName, binreader.ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewArchive().Load(bytes.NewReader(tt.data), int64(len(tt.data)))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "error = %v, want %v", err, tt.target)
		})
	}
}

func TestArchive_PayloadOutOfRange(t *testing.T) {
	data := testutil.BuildArchive(
		testutil.ArchiveFile{Name: "face.tm2", Payload: []byte("image")},
		testutil.ArchiveFile{Name: "chat001.scr", Payload: testutil.Gzip(t, []byte("script body"))},
	)
	data[0x16] = 0xFF // face.tm2 の payloadSize を過大に

	// ペイロードの範囲外はエントリ単位のエラーになり、他のエントリは読める
	archive := loadArchive(t, data)
	entries := archive.Entries()
	require.Len(t, entries, 2)

	_, err := entries[0].Raw()
	assert.ErrorIs(t, err, binreader.ErrOutOfBounds)
	_, err = entries[0].Decompress()
	assert.ErrorIs(t, err, binreader.ErrOutOfBounds)

	body, err := entries[1].Decompress()
	require.NoError(t, err)
	assert.Equal(t, []byte("script body"), body)
}

func TestEntry_DecompressInvalid(t *testing.T) {
	archive := loadArchive(t, testutil.BuildArchive(testutil.ArchiveFile{Name: "a.scr", Payload: []byte("not gzip")}))
	_, err := archive.Entries()[0].Decompress()
	assert.ErrorIs(t, err, ErrDecompress)
}

func TestEntry_RawWithoutArchive(t *testing.T) {
	_, err := (&Entry{}).Raw()
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestArchive_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.arc")
	data := testutil.BuildArchive(testutil.ArchiveFile{Name: "chat.scr", Payload: testutil.Gzip(t, []byte("body"))})
	require.NoError(t, os.WriteFile(path, data, 0644))

	archive := NewArchive()
	require.NoError(t, archive.Open(path))
	defer archive.Close()

	require.True(t, archive.EnumFirst())
	body, err := archive.GetEntry().Decompress()
	require.NoError(t, err)
	assert.Equal(t, "body", string(body))
}

func TestArchive_OpenNonExistent(t *testing.T) {
	err := NewArchive().Open("/nonexistent/path/to/file.arc")
	assert.Error(t, err)
}

func TestArchive_CloseUnopened(t *testing.T) {
	assert.NoError(t, NewArchive().Close())
}

func TestHasMarker(t *testing.T) {
	assert.True(t, HasMarker("chat01.scr", ".scr"))
	assert.True(t, HasMarker("chat01.scr.bak", ".scr"))
	assert.False(t, HasMarker("face01.tm2", ".scr"))
}
