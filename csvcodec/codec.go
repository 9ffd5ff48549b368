// codec.go - Reads and writes the header-first CSV files

// Package csvcodec converts between CSV text and ordered records keyed by column name.
//
// Quoting follows RFC 4180, so values containing commas, quotes or line breaks
// survive a round trip.
//
// Malformed rows are handled positionally: a row shorter than the header yields
// a record whose missing columns are empty strings, and fields beyond the last
// header column are discarded. Blank lines are skipped. A broken quote is a
// decode error for the whole document.
package csvcodec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Record maps a column name to its raw string value.
type Record map[string]string

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ErrMalformed wraps every decode failure.
var ErrMalformed = errors.New("malformed csv")

// Decode parses text into records. The first line is the header; every
// expected column is present in each record, empty when the header or the
// row does not provide it.
func Decode(text string, expectedColumns []string) ([]Record, error) {
	records := []Record{} // never nil, even for empty input
	if strings.TrimSpace(text) == "" {
		return records, nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1 // row length policy is applied below

	header, err := r.Read() // First line names the columns
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	for {
		row, err := r.Read()
		if err == io.EOF { // End of file
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		rec := make(Record, len(expectedColumns))
		for _, col := range expectedColumns {
			rec[col] = ""
		}
		for i, name := range header {
			if name == "" || i >= len(row) { // Short row: leave the rest empty
				continue
			}
			rec[name] = row[i] // Surplus fields beyond the header are never read
		}
		records = append(records, rec)
	}
	return records, nil
}

// Encode writes the header row followed by one row per record, always in the
// order of columns. Missing values are written empty; keys outside columns are dropped.
func Encode(records []Record, columns []string) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(columns); err != nil { // Header row first
		return "", err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = rec[col]
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush() // Push buffered rows into sb
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ParseBool reports whether value is "true", ignoring case and surrounding space.
func ParseBool(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

// FormatBool renders b the way the files store it.
func FormatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
