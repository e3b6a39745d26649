package archive

import (
	"github.com/shiroemons/go-facechat/pkg/ezbind"
)

// ScriptArchive は列挙可能なアーカイブのインターフェース
type ScriptArchive interface {
	EnumFirst() bool
	EnumNext() bool
	GetEntryName() string
	GetEntry() *ezbind.Entry
	Close() error
}

// ArchiveOpener はアーカイブを開くためのインターフェース
type ArchiveOpener interface {
	Open(filename string) (ScriptArchive, error)
}

// DefaultArchiveOpener は ezbind.Archive を開く実装
type DefaultArchiveOpener struct{}

func (o *DefaultArchiveOpener) Open(filename string) (ScriptArchive, error) {
	archive := ezbind.NewArchive()
	if err := archive.Open(filename); err != nil {
		return nil, err
	}
	return archive, nil
}

// MemoryExtractor はメモリへの抽出を行うインターフェース
type MemoryExtractor interface {
	ExtractToMemory(entry *ezbind.Entry) ([]byte, error)
}

// DefaultMemoryExtractor はデフォルトのメモリ抽出実装
type DefaultMemoryExtractor struct{}

func (e *DefaultMemoryExtractor) ExtractToMemory(entry *ezbind.Entry) ([]byte, error) {
	if entry == nil {
		return nil, ezbind.ErrNotOpen
	}
	return entry.Decompress()
}
