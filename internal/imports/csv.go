// Package imports parses uploaded spreadsheets for preview. Nothing is persisted.
package imports

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// MaxUploadSize bounds an upload.
const MaxUploadSize = 5 << 20

const previewRows = 5

var (
	ErrNotCSV    = errors.New("only .csv files are accepted")
	ErrEmptyFile = errors.New("file is empty")
	ErrTooLarge  = fmt.Errorf("file exceeds %d bytes", MaxUploadSize)
)

// Result summarises a parsed CSV upload.
type Result struct {
	FileName string              `json:"file_name"`
	Columns  []string            `json:"columns"`
	Rows     int                 `json:"rows"`
	Preview  []map[string]string `json:"preview"`
}

// IsCSV accepts a .csv extension or a text/csv content type.
func IsCSV(fileName, contentType string) bool {
	if strings.EqualFold(filepath.Ext(fileName), ".csv") {
		return true
	}
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(mediaType), "text/csv")
}

// ParseCSV reads r (header row first) and returns the column names, the data row count
// and a preview of the first rows.
func ParseCSV(fileName, contentType string, r io.Reader) (Result, error) {
	if !IsCSV(fileName, contentType) {
		return Result{}, ErrNotCSV
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return Result{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return Result{}, ErrTooLarge
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return Result{}, ErrEmptyFile
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("parse csv header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	res := Result{FileName: filepath.Base(fileName), Columns: columns, Preview: []map[string]string{}}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("parse csv row %d: %w", res.Rows+2, err)
		}
		res.Rows++
		if len(res.Preview) < previewRows {
			row := make(map[string]string, len(columns))
			for i, col := range columns {
				if i < len(record) {
					row[col] = record[i]
				}
			}
			res.Preview = append(res.Preview, row)
		}
	}
	return res, nil
}
