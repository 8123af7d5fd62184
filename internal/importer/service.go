package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/cctvdash/internal/branch"
	"github.com/MrJamesThe3rd/cctvdash/internal/importer/branchlist"
)

type Service struct {
	csvImporter  Importer
	xlsxImporter Importer
}

func NewService() *Service {
	return &Service{
		csvImporter:  branchlist.NewParser(),
		xlsxImporter: branchlist.NewWorkbookParser(),
	}
}

func (s *Service) Parse(format Format, r io.Reader) ([]branch.ImportParams, error) {
	var importer Importer

	switch format {
	case FormatCSV:
		importer = s.csvImporter
	case FormatXLSX:
		importer = s.xlsxImporter
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	return importer.Parse(r)
}
