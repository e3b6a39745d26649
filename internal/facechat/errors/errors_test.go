package errors

import (
	"errors"
	"io"
	"testing"
)

func TestFileError(t *testing.T) {
	tests := []struct {
		name string
		err  *FileError
		want string
	}{
		{
			name: "エントリあり",
			err:  NewFileError(StageDecode, "fc01.arc", "chat001.scr", io.ErrUnexpectedEOF),
			want: "decode fc01.arc|chat001.scr: unexpected EOF",
		},
		{
			name: "アーカイブ全体",
			err:  NewFileError(StageOpen, "fc01.arc", "", ErrInvalidArchive),
			want: "open fc01.arc: 無効なアーカイブファイルです",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileError_Unwrap(t *testing.T) {
	err := error(NewFileError(StageWrite, "a.arc", "b.scr", io.ErrShortWrite))
	if !errors.Is(err, io.ErrShortWrite) {
		t.Error("errors.Is should find the wrapped error")
	}

	var fe *FileError
	if !errors.As(err, &fe) || fe.Entry != "b.scr" {
		t.Errorf("errors.As = %v", fe)
	}
}
