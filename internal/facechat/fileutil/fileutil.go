// Package fileutil はファイル操作のユーティリティ関数を提供します
package fileutil

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// FindArchives は dir 直下から拡張子 ext のファイルを名前順で返します。
// 拡張子の比較は大文字小文字を区別しません。
func FindArchives(dir, ext string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadDirectory, dir, err)
	}

	var archives []string
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		if strings.EqualFold(filepath.Ext(name), ext) {
			archives = append(archives, filepath.Join(dir, name))
		}
	}
	slices.Sort(archives)

	return archives, nil
}

// OutputPath はアーカイブ内のエントリ名から出力ファイルのパスを生成します。
// エントリ名のディレクトリ部分と最後の拡張子を取り除き、ext を付けて root 以下に置きます。
func OutputPath(root, entryName, ext string) (string, error) {
	name := path.Base(strings.ReplaceAll(entryName, `\`, "/"))
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" || name == "." || name == "/" || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryName, entryName)
	}
	return filepath.Join(root, name+ext), nil
}

// FriendlyName は出力XMLの表示名 "<ディレクトリ>/<アーカイブ>|<エントリ>" を生成します
func FriendlyName(archivePath, entryName string) string {
	dir := filepath.Base(filepath.Dir(archivePath))
	return fmt.Sprintf("%s/%s|%s", dir, filepath.Base(archivePath), entryName)
}

// SaveFile は data を outputPath に書き込みます。
// 同じディレクトリの一時ファイルに書いてから rename で置き換えます。
func SaveFile(outputPath string, data []byte) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateDirectory, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outputPath)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateFile, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrWriteContent, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteContent, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateFile, err)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateFile, err)
	}

	return nil
}
