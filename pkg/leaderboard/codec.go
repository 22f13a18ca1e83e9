package leaderboard

import (
	"context"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"golang.org/x/mod/semver"

	"github.com/conneroisu/leaderboard/internal/logging"
	"github.com/conneroisu/leaderboard/pkg/dataset"
	"github.com/conneroisu/leaderboard/pkg/styler"
)

// MinStylingVersion is the oldest styling engine whose tables can be encoded.
const MinStylingVersion = "v1.5.0"

// emptyColumn names the single column of the table sent for a nil value.
const emptyColumn = "column 1"

// StyledTable is a dataset with per-cell display strings and styles.
// *styler.Styler implements it.
type StyledTable interface {
	Data() *dataset.Dataset
	EngineVersion() string
	CellGrid() [][]styler.Cell
	StyleRulesFor(id string) []styler.Declaration
}

// CSVFile is a path to a comma separated file with a header row.
type CSVFile string

// ArrowFile is a path to an Arrow IPC file.
type ArrowFile string

// encoder turns outbound values into payloads.
type encoder struct {
	interactive bool
	logger      logging.Logger
}

// Encode converts a value into a payload the way a non-interactive
// component would. Accepted values are nil, *dataset.Dataset, CSVFile, a
// string path to a CSV file, ArrowFile, arrow.Record and StyledTable.
func Encode(ctx context.Context, value interface{}) (Payload, error) {
	p, _, err := encoder{logger: logging.NewNopLogger()}.encode(ctx, value)
	return p, err
}

// encode returns the payload together with the dataset it was built from.
func (e encoder) encode(ctx context.Context, value interface{}) (Payload, *dataset.Dataset, error) {
	switch v := value.(type) {
	case nil:
		ds := dataset.Empty(emptyColumn)
		return EncodeDataset(ds), ds, nil

	case *dataset.Dataset:
		if v == nil {
			return e.encode(ctx, nil)
		}
		return EncodeDataset(v), v, nil

	case CSVFile:
		return e.encodeCSV(string(v))

	case string:
		return e.encodeCSV(v)

	case ArrowFile:
		ds, err := dataset.ReadArrowIPC(string(v))
		if err != nil {
			return Payload{}, nil, ErrUnsupportedSource.Detail("reading %s: %v", v, err)
		}
		return EncodeDataset(ds), ds, nil

	case arrow.Record:
		ds, err := dataset.FromArrow(v)
		if err != nil {
			return Payload{}, nil, ErrUnsupportedSource.Detail("arrow record: %v", err)
		}
		return EncodeDataset(ds), ds, nil

	case StyledTable:
		return e.encodeStyled(ctx, v)

	default:
		return Payload{}, nil, ErrUnsupportedSource.Detail("cannot display value of type %T", value)
	}
}

func (e encoder) encodeCSV(path string) (Payload, *dataset.Dataset, error) {
	ds, err := dataset.ReadCSV(path)
	if err != nil {
		return Payload{}, nil, ErrUnsupportedSource.Detail("reading %s: %v", path, err)
	}
	return EncodeDataset(ds), ds, nil
}

func (e encoder) encodeStyled(ctx context.Context, st StyledTable) (Payload, *dataset.Dataset, error) {
	if !stylingSupported(st.EngineVersion()) {
		return Payload{}, nil, ErrUnsupportedDependencyVersion.Detail(
			"styled tables require styling engine %s or newer, got %q", MinStylingVersion, st.EngineVersion())
	}

	ds := st.Data()
	if ds == nil {
		return Payload{}, nil, ErrUnsupportedSource.Detail("styled table has no data")
	}
	if e.interactive {
		e.logger.Warn(ctx, ErrStyleDiscarded, "styled table shown without styles", "rows", ds.NumRows())
		return EncodeDataset(ds), ds, nil
	}

	p := EncodeDataset(ds)
	p.Metadata = extractMetadata(st)
	return p, ds, nil
}

// stylingSupported compares an engine version against MinStylingVersion.
// Versions may omit the leading "v".
func stylingSupported(version string) bool {
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.IsValid(version) {
		return false
	}
	return semver.Compare(version, MinStylingVersion) >= 0
}

// extractMetadata collects display strings and joined declarations from the
// data cells of every grid row.
func extractMetadata(st StyledTable) *Metadata {
	grid := st.CellGrid()
	md := &Metadata{
		DisplayValue: make([][]string, 0, len(grid)),
		Styling:      make([][]string, 0, len(grid)),
	}

	for _, row := range grid {
		display := make([]string, 0, len(row))
		styles := make([]string, 0, len(row))
		for _, cell := range row {
			if cell.Kind != styler.KindData {
				continue
			}
			display = append(display, cell.DisplayValue)
			styles = append(styles, styler.JoinDeclarations(st.StyleRulesFor(cell.ID)))
		}
		md.DisplayValue = append(md.DisplayValue, display)
		md.Styling = append(md.Styling, styles)
	}
	return md
}
