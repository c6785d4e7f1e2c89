package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ReadCSV parses rows of the form
//
//	time,price[,...]
//
// where time is RFC3339, RFC3339Nano or a bare 2006-01-02 date.
// A single header row ("time,...") is allowed and empty rows are skipped.
// The result is returned in file order; use PriceLoader.Register to
// normalize it.
func ReadCSV(r io.Reader) (Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var out Series
	first := true
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		b, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = append(out, b)
	}
}

// LoadCSV reads a price file from disk.
func LoadCSV(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ser, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ser, nil
}

func parseBarRow(row []string) (Bar, error) {
	if len(row) < 2 {
		return Bar{}, fmt.Errorf("want time,price got %d fields: %w", len(row), ErrInvalidSeries)
	}

	t, err := parseTime(strings.TrimSpace(row[0]))
	if err != nil {
		return Bar{}, err
	}

	p, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return Bar{}, fmt.Errorf("bad price %q: %w", row[1], err)
	}
	return Bar{Time: t, Price: p}, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q: %w", s, ErrInvalidSeries)
}
