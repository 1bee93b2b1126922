package workbook

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

func readSheet(excelFile *excelize.File, sheets []string, sheetName string) ([][]string, error) {
	if !slices.Contains(sheets, sheetName) {
		return nil, NewErrMissingSheet(sheetName)
	}

	rows, err := excelFile.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	return rows, nil
}

func buildColumnMap(headers []string) map[string]int {
	colMap := make(map[string]int)
	for i, header := range headers {
		key := strings.ToLower(strings.TrimSpace(header))
		if _, exists := colMap[key]; exists {
			continue
		}
		colMap[key] = i
	}
	return colMap
}

func hasColumn(colMap map[string]int, column string) bool {
	_, ok := colMap[strings.ToLower(column)]
	return ok
}

func getColumnValue(row []string, colMap map[string]int, key string) string {
	if idx, exists := colMap[strings.ToLower(key)]; exists && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func splitSheet(rows [][]string) (header []string, data [][]string) {
	if len(rows) == 0 {
		return []string{}, [][]string{}
	}
	return rows[0], rows[1:]
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseNumber reads a raw cell value. Raw values carry no grouping
// separators, so a comma can only be a locale decimal mark and is rejected.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		return 0, fmt.Errorf("ambiguous separator in %q", s)
	}
	return strconv.ParseFloat(s, 64)
}

func parseBooleanValue(s string) bool {
	if s == "" {
		return false
	}
	cleanStr := strings.ToLower(strings.TrimSpace(s))
	return cleanStr == "true" || cleanStr == "1" || cleanStr == "yes" || cleanStr == "enabled"
}

// IsExcelFile reports whether content is an xlsx document excelize can open.
func IsExcelFile(content []byte) bool {
	if len(content) < 2 {
		return false
	}

	if content[0] == 0x50 && content[1] == 0x4B {
		f, err := excelize.OpenReader(bytes.NewReader(content))
		if err != nil {
			return false
		}
		defer f.Close()
		return true
	}

	return false
}
