package pdf

import (
	"strconv"
	"strings"
)

// buildTextPDF returns a valid PDF with one page per entry in pages, each
// showing its text with a Helvetica Tj operator.
func buildTextPDF(pages ...string) []byte {
	// Objects: 1 catalog, 2 page tree, 3 font, then a page and a content stream per page.
	n := 3 + 2*len(pages)
	offsets := make([]int, n+1)

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	var kids []string
	for i := range pages {
		kids = append(kids, strconv.Itoa(4+2*i)+" 0 R")
	}

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [" + strings.Join(kids, " ") + "] /Count " + strconv.Itoa(len(pages)) + " >>\nendobj\n")
	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	for i, text := range pages {
		pageObj, contentObj := 4+2*i, 5+2*i
		stream := "BT\n/F1 12 Tf\n72 720 Td\n(" + escapePDFString(text) + ") Tj\nET"

		offsets[pageObj] = b.Len()
		b.WriteString(strconv.Itoa(pageObj) + " 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents " +
			strconv.Itoa(contentObj) + " 0 R /Resources << /Font << /F1 3 0 R >> >> >>\nendobj\n")

		offsets[contentObj] = b.Len()
		b.WriteString(strconv.Itoa(contentObj) + " 0 obj\n<< /Length " + strconv.Itoa(len(stream)) + " >>\nstream\n")
		b.WriteString(stream)
		b.WriteString("\nendstream\nendobj\n")
	}

	writeXref(&b, offsets)
	return []byte(b.String())
}

// buildEmptyPDF returns a structurally valid PDF whose page tree has no pages.
func buildEmptyPDF() []byte {
	offsets := make([]int, 3)
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n")
	writeXref(&b, offsets)
	return []byte(b.String())
}

func writeXref(b *strings.Builder, offsets []int) {
	xrefOffset := b.Len()
	size := strconv.Itoa(len(offsets))
	b.WriteString("xref\n0 " + size + "\n")
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		off := strconv.Itoa(offsets[i])
		b.WriteString(strings.Repeat("0", 10-len(off)) + off + " 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size " + size + " /Root 1 0 R >>\nstartxref\n")
	b.WriteString(strconv.Itoa(xrefOffset))
	b.WriteString("\n%%EOF\n")
}

func escapePDFString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	return strings.ReplaceAll(s, ")", `\)`)
}
