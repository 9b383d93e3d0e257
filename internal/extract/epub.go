package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

// extractEPUB returns one section per spine document that has text, in reading order.
// Unreadable or unparsable spine items are skipped.
func extractEPUB(content []byte) ([]string, string, error) {
	rc, err := epub.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, "", fmt.Errorf("open EPUB: %w", err)
	}
	if len(rc.Rootfiles) == 0 {
		return nil, "", fmt.Errorf("open EPUB: no rootfiles found")
	}

	var sections []string
	for _, ref := range rc.Rootfiles[0].Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		_ = r.Close()
		if err != nil {
			continue
		}
		doc, err := html.Parse(bytes.NewReader(data))
		if err != nil {
			continue
		}
		if text := strings.Join(nonEmptyLines(htmlText(doc)), "\n"); text != "" {
			sections = append(sections, text)
		}
	}
	return sections, "\n\n", nil
}
