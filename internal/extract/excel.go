package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractExcel returns one section per worksheet: a "Sheet: <name>" header
// followed by its rows, cells tab-joined. Rows with no non-blank cell are dropped.
func extractExcel(content []byte) ([]string, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, "", fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var sections []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, "", fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		var buf strings.Builder
		buf.WriteString("Sheet: " + sheet)
		for _, row := range rows {
			line := strings.Join(row, "\t")
			if strings.TrimSpace(line) == "" {
				continue
			}
			buf.WriteByte('\n')
			buf.WriteString(line)
		}
		sections = append(sections, buf.String())
	}
	return sections, "\n\n", nil
}
