package importer

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/cctvdash/internal/branch"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFor picks the format from a file name, defaulting to CSV.
func FormatFor(filename string) Format {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return FormatXLSX
	}

	return FormatCSV
}

type Importer interface {
	Parse(r io.Reader) ([]branch.ImportParams, error)
}
