package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// pptxSlidePath matches slide parts inside a .pptx zip and captures the slide number.
var pptxSlidePath = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// atTag matches <a:t>text</a:t> or <a:t xml:space="preserve">text</a:t> (and any other attributes).
var atTag = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)

// xmlUnescaper decodes the entities that may appear inside <a:t> text.
var xmlUnescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")

type slide struct {
	num  int
	file *zip.File
}

// extractPPTX returns one section per slide in slide order, each the slide's
// shape texts joined by newlines. Slides without text keep an empty section.
func extractPPTX(content []byte) ([]string, string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, "", fmt.Errorf("extract PPTX: not a zip: %w", err)
	}
	var slides []slide
	for _, f := range zr.File {
		m := pptxSlidePath.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, slide{num: n, file: f})
	}
	if len(slides) == 0 {
		return nil, "", fmt.Errorf("extract PPTX: no slides found")
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	sections := make([]string, 0, len(slides))
	for _, s := range slides {
		data, err := readZipFile(s.file)
		if err != nil {
			return nil, "", fmt.Errorf("extract PPTX: %w", err)
		}
		var texts []string
		for _, p := range atTag.FindAllSubmatch(data, -1) {
			if t := strings.TrimSpace(xmlUnescaper.Replace(string(p[1]))); t != "" {
				texts = append(texts, t)
			}
		}
		sections = append(sections, strings.Join(texts, "\n"))
	}
	return sections, "\n\n", nil
}
