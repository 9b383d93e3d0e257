package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// decodeText returns content as UTF-8. Valid UTF-8 (with or without a BOM) is
// returned as-is; anything else is decoded as Latin-1, which maps every byte.
func decodeText(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if utf8.Valid(content) {
		return string(content), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("decode as Latin-1: %w", err)
	}
	return string(decoded), nil
}

// extractPlain returns the whole content as a single section.
func extractPlain(content []byte) ([]string, string, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, "", err
	}
	return []string{text}, "", nil
}

// extractCSV returns one section per line. Line endings are normalized and
// trailing newlines dropped so the last record is not followed by an empty section.
func extractCSV(content []byte) ([]string, string, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, "", err
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, "\n")
	return strings.Split(text, "\n"), "\n", nil
}
