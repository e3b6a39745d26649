package fileutil

// OSFileSystem は実際のOSファイルシステムを使用する実装
type OSFileSystem struct{}

// NewOSFileSystem は新しいOSFileSystemを作成します
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// FindArchives は FindArchives を呼び出します
func (fs *OSFileSystem) FindArchives(dir, ext string) ([]string, error) {
	return FindArchives(dir, ext)
}

// SaveFile は SaveFile を呼び出します
func (fs *OSFileSystem) SaveFile(path string, data []byte) error {
	return SaveFile(path, data)
}
