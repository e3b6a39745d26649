package xmldoc

import "errors"

// ErrInvalidCharacter はXML 1.0 で表現できない文字を含むテキストのエラー
var ErrInvalidCharacter = errors.New("text contains a character not allowed in XML")
