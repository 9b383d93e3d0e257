package extract

import (
	"bytes"

	"github.com/hyperjump/docqa/internal/models"
)

// sectioner splits a document into sections and returns the separator that joins them.
type sectioner func(data []byte) (sections []string, sep string, err error)

// extensionFormats maps lower-cased extensions to formats.
var extensionFormats = map[string]models.Format{
	"txt":      models.FormatText,
	"text":     models.FormatText,
	"md":       models.FormatMarkdown,
	"markdown": models.FormatMarkdown,
	"csv":      models.FormatCSV,
	"html":     models.FormatHTML,
	"htm":      models.FormatHTML,
	"rtf":      models.FormatRTF,
	"docx":     models.FormatDOCX,
	"doc":      models.FormatDOCX,
	"pptx":     models.FormatPPTX,
	"ppt":      models.FormatPPTX,
	"xlsx":     models.FormatXLSX,
	"xls":      models.FormatXLSX,
	"epub":     models.FormatEPUB,
	"pdf":      models.FormatPDF,
	"gz":       models.FormatGzip,
}

// probeOrder is the order formats are tried when the extension does not decide.
// Structured containers come first; plain text accepts any bytes and is last.
var probeOrder = []models.Format{
	models.FormatDOCX,
	models.FormatPPTX,
	models.FormatXLSX,
	models.FormatEPUB,
	models.FormatPDF,
	models.FormatRTF,
	models.FormatHTML,
	models.FormatGzip,
	models.FormatText,
}

// probes reject data a format cannot be, before the extractor runs.
var probes = map[models.Format]func([]byte) bool{
	models.FormatDOCX: isZip,
	models.FormatPPTX: isZip,
	models.FormatXLSX: isZip,
	models.FormatEPUB: isZip,
	models.FormatPDF:  isPDF,
	models.FormatRTF:  isRTF,
	models.FormatHTML: looksLikeHTML,
	models.FormatGzip: isGzip,
	models.FormatText: looksLikeText,
}

var sectioners = map[models.Format]sectioner{
	models.FormatText:     extractPlain,
	models.FormatMarkdown: extractPlain,
	models.FormatCSV:      extractCSV,
	models.FormatHTML:     extractHTML,
	models.FormatRTF:      extractRTF,
	models.FormatDOCX:     extractDOCX,
	models.FormatPPTX:     extractPPTX,
	models.FormatXLSX:     extractExcel,
	models.FormatEPUB:     extractEPUB,
}

var (
	zipMagic  = []byte("PK\x03\x04")
	pdfMagic  = []byte("%PDF-")
	rtfMagic  = []byte(`{\rtf`)
	gzipMagic = []byte{0x1f, 0x8b}
)

// pdfHeaderWindow is how far into the file the %PDF- marker may appear.
const pdfHeaderWindow = 1024

func isZip(data []byte) bool { return bytes.HasPrefix(data, zipMagic) }

func isPDF(data []byte) bool {
	head := data
	if len(head) > pdfHeaderWindow {
		head = head[:pdfHeaderWindow]
	}
	return bytes.Contains(head, pdfMagic)
}

func isRTF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\xef\xbb\xbf \t\r\n"), rtfMagic)
}

func isGzip(data []byte) bool { return bytes.HasPrefix(data, gzipMagic) }

// looksLikeText rejects binary containers and data with NUL bytes, so that a
// PDF or archive no other extractor could read is not reported as text.
func looksLikeText(data []byte) bool {
	return !isPDF(data) && !isZip(data) && !isGzip(data) && bytes.IndexByte(data, 0) < 0
}

func looksLikeHTML(data []byte) bool {
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}
	head = bytes.ToLower(head)
	return bytes.Contains(head, []byte("<html")) ||
		bytes.Contains(head, []byte("<body")) ||
		bytes.Contains(head, []byte("<!doctype"))
}
