package statement

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerScanLimit bounds the search for the header row in a workbook; bank
// exports often put a title block above the table.
const headerScanLimit = 10

func parseWorkbook(r io.Reader) ([]Transaction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrEmptyStatement)
	}

	// first worksheet only
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptyStatement
	}

	headerIdx := 0
	limit := headerScanLimit
	if len(rows) < limit {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		nonEmpty := 0
		for _, c := range rows[i] {
			if strings.TrimSpace(c) != "" {
				nonEmpty++
			}
		}
		if nonEmpty >= 3 {
			headerIdx = i
			break
		}
	}

	return extractAll(rows, headerIdx)
}
