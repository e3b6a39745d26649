// Package mocks はテスト用のモック実装を提供します
package mocks

import (
	"context"
	"sync"

	"github.com/shiroemons/go-facechat/internal/facechat/models"
)

// MockExtractor はExtractorのモック実装です
type MockExtractor struct {
	mu sync.Mutex

	Scripts   map[string][]models.ExtractedScript // アーカイブパスごとの結果
	Errors    map[string]error                    // アーカイブパスごとのエラー
	CallCount int
}

// NewMockExtractor は新しいMockExtractorを作成します
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{
		Scripts: make(map[string][]models.ExtractedScript),
		Errors:  make(map[string]error),
	}
}

// ExtractScripts はモック実装です
func (m *MockExtractor) ExtractScripts(ctx context.Context, archivePath string) ([]models.ExtractedScript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.Errors[archivePath]; err != nil {
		return nil, err
	}
	return m.Scripts[archivePath], nil
}
