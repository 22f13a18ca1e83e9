package services

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/leaderboard/internal/errors"
	"github.com/conneroisu/leaderboard/pkg/leaderboard"
	"github.com/conneroisu/leaderboard/pkg/styler"
)

// Data file formats accepted by LoadSource.
const (
	FormatAuto  = "auto"
	FormatCSV   = "csv"
	FormatArrow = "arrow"
	FormatHTML  = "html"
)

var formatByExt = map[string]string{
	".csv":     FormatCSV,
	".arrow":   FormatArrow,
	".ipc":     FormatArrow,
	".feather": FormatArrow,
	".html":    FormatHTML,
	".htm":     FormatHTML,
}

// DetectFormat resolves "auto" (or "") from the file extension.
func DetectFormat(path, format string) (string, error) {
	if format != "" && format != FormatAuto {
		return format, nil
	}
	f, ok := formatByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", errors.NewConfigError("unknown_format", "cannot detect data format").
			WithContext("path", path)
	}
	return f, nil
}

// LoadSource opens a data file as a value Postprocess accepts. CSV and Arrow
// files are returned as paths and read by the codec; HTML tables are parsed
// into a styled table. An empty path yields nil, the empty table.
func LoadSource(path, format string) (interface{}, error) {
	if path == "" {
		return nil, nil
	}
	f, err := DetectFormat(path, format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatCSV:
		return leaderboard.CSVFile(path), nil
	case FormatArrow:
		return leaderboard.ArrowFile(path), nil
	case FormatHTML:
		file, err := os.Open(path)
		if err != nil {
			return nil, errors.WrapIO(err, "read_failed", "opening "+path)
		}
		defer file.Close()

		st, err := styler.ParseHTML(file)
		if err != nil {
			return nil, errors.WrapIO(err, "parse_failed", "parsing "+path)
		}
		return st, nil
	default:
		return nil, errors.NewConfigError("unknown_format", "unsupported data format "+f)
	}
}
