package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFindArchives(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.arc", "a.ARC", "c.txt", "d.arc.bak"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.arc"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindArchives(dir, ".arc")
	if err != nil {
		t.Fatalf("FindArchives() error = %v", err)
	}

	want := []string{filepath.Join(dir, "a.ARC"), filepath.Join(dir, "b.arc")}
	if len(got) != len(want) {
		t.Fatalf("FindArchives() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FindArchives()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestFindArchives_MissingDir(t *testing.T) {
	_, err := FindArchives(filepath.Join(t.TempDir(), "missing"), ".arc")
	if !errors.Is(err, ErrReadDirectory) {
		t.Errorf("FindArchives() error = %v, want ErrReadDirectory", err)
	}
}

func TestOutputPath(t *testing.T) {
	root := filepath.Join("2_translated", "facechat")

	tests := []struct {
		entry   string
		want    string
		wantErr bool
	}{
		{"chat001.scr", filepath.Join(root, "chat001.xml"), false},
		{"/facechat/chat002.scr", filepath.Join(root, "chat002.xml"), false},
		{`dir\chat003.scr`, filepath.Join(root, "chat003.xml"), false},
		{"chat004.scr.gz", filepath.Join(root, "chat004.scr.xml"), false},
		{"noext", filepath.Join(root, "noext.xml"), false},
		{"../../evil.scr", filepath.Join(root, "evil.xml"), false},
		{".scr", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := OutputPath(root, tt.entry, ".xml")
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidEntryName) {
				t.Errorf("OutputPath(%q) error = %v, want ErrInvalidEntryName", tt.entry, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("OutputPath(%q) error = %v", tt.entry, err)
			continue
		}
		if got != tt.want {
			t.Errorf("OutputPath(%q) = %s, want %s", tt.entry, got, tt.want)
		}
	}
}

func TestFriendlyName(t *testing.T) {
	got := FriendlyName(filepath.Join("0_disc", "USRDIR", "facechat", "fc01.arc"), "chat001.scr")
	if want := "facechat/fc01.arc|chat001.scr"; got != want {
		t.Errorf("FriendlyName() = %q, want %q", got, want)
	}
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "deep", "chat.xml")

	if err := SaveFile(out, []byte("first")); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if err := SaveFile(out, []byte("second")); err != nil {
		t.Fatalf("SaveFile() overwrite error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	// 一時ファイルが残っていないこと
	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestSaveFile_DirectoryError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := SaveFile(filepath.Join(blocker, "chat.xml"), []byte("x"))
	if !errors.Is(err, ErrCreateDirectory) {
		t.Errorf("SaveFile() error = %v, want ErrCreateDirectory", err)
	}
}
