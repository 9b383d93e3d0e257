package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lu4p/cat/rtftxt"
)

// extractRTF strips control words and groups and returns the text as one section.
func extractRTF(content []byte) (sections []string, sep string, err error) {
	defer func() {
		if r := recover(); r != nil {
			sections, sep, err = nil, "", fmt.Errorf("extract RTF: %v", r)
		}
	}()
	buf, err := rtftxt.Text(bytes.NewReader(content))
	if err != nil {
		return nil, "", fmt.Errorf("extract RTF: %w", err)
	}
	return []string{strings.TrimSpace(buf.String())}, "", nil
}
