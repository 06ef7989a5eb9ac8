package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

func ParseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ParseCSVRecords maps every data row onto the header row, keys lower-cased.
func ParseCSVRecords(r io.Reader) ([]map[string]string, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	headers := Map(rows[0], func(h string) string { return strings.ToLower(strings.TrimSpace(h)) })
	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
