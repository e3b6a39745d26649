package mocks

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
)

// MockFileSystem はテスト用のファイルシステムモック
type MockFileSystem struct {
	mu sync.Mutex

	Archives  []string          // FindArchives が返すパス
	Files     map[string][]byte // SaveFile で保存された内容
	FindError error
	SaveError map[string]error // パスごとの保存エラー
}

// NewMockFileSystem は新しいMockFileSystemを作成します
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:     make(map[string][]byte),
		SaveError: make(map[string]error),
	}
}

// FindArchives は Archives のうち拡張子が ext のものを返します
func (fs *MockFileSystem) FindArchives(dir, ext string) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.FindError != nil {
		return nil, fs.FindError
	}
	var out []string
	for _, a := range fs.Archives {
		if strings.HasSuffix(strings.ToLower(a), strings.ToLower(ext)) {
			out = append(out, a)
		}
	}
	return out, nil
}

// SaveFile は内容を Files に保存します
func (fs *MockFileSystem) SaveFile(path string, data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.SaveError[path]; err != nil {
		return err
	}
	if path == "" {
		return errors.New("empty path")
	}
	fs.Files[path] = slices.Clone(data)
	return nil
}

// SavedPaths は保存されたパスを名前順で返します
func (fs *MockFileSystem) SavedPaths() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return slices.Sorted(maps.Keys(fs.Files))
}
