package timeseries

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TableOptions holds options for loading a delimited numeric table.
type TableOptions struct {
	Delimiter rune // Field delimiter (default: ',')
	SkipRows  int  // Number of rows to skip at start
	Transpose bool // Swap rows and columns after loading (default: true)
}

// DefaultTableOptions returns the options for the tephra input layout: no
// header, comma separated, rows are time steps and columns are series.
func DefaultTableOptions() *TableOptions {
	return &TableOptions{
		Delimiter: ',',
		Transpose: true,
	}
}

// LoadTable loads a headerless numeric table from a file.
func LoadTable(filename string, opts *TableOptions) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening table '%s'", filename)
	}
	defer file.Close()

	t, err := LoadTableFromReader(file, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "loading table '%s'", filename)
	}
	return t, nil
}

// LoadTableFromReader loads a headerless numeric table from an io.Reader.
// Every record must have the same number of fields and every field must parse
// as a float. "NaN" is accepted and kept as a missing value.
func LoadTableFromReader(r io.Reader, opts *TableOptions) (*Table, error) {
	if opts == nil {
		opts = DefaultTableOptions()
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, errors.Wrapf(err, "skipping row %d", i)
		}
	}

	var rows [][]float64
	for line := opts.SkipRows; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading row %d", line)
		}

		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing row %d column %d", line, j)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, errors.New("no data found in table")
	}

	t, err := NewTable(rows)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if opts.Transpose {
		return t.Transpose(), nil
	}
	return t, nil
}
