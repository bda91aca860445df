// Package export writes log sets to interchange formats: Arrow IPC for
// columnar consumers and CSV for spreadsheets. All logs in an exported set
// must share one depth grid; composite or resample first when they do not.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/ambia/UTAPWeLS/internal/curves"
)

// DepthColumn is the name of the exported depth column.
const DepthColumn = "DEPT"

// ErrGridMismatch is returned when the logs of a set do not share one
// depth grid.
var ErrGridMismatch = errors.New("logs do not share a depth grid")

// ErrEmptySet is returned when exporting a set with no logs.
var ErrEmptySet = errors.New("log set is empty")

// commonGrid returns the shared depth grid of a set, or ErrGridMismatch.
func commonGrid(set *curves.LogSet) ([]float64, error) {
	names := set.Names()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySet, set.Name)
	}
	first, err := set.Get(names[0])
	if err != nil {
		return nil, err
	}
	grid := first.Depths
	for _, name := range names[1:] {
		l, err := set.Get(name)
		if err != nil {
			return nil, err
		}
		if len(l.Depths) != len(grid) {
			return nil, fmt.Errorf("%w: %q has %d samples, %q has %d",
				ErrGridMismatch, l.Name, len(l.Depths), first.Name, len(grid))
		}
		for i := range grid {
			if l.Depths[i] != grid[i] {
				return nil, fmt.Errorf("%w: %q diverges from %q at sample %d",
					ErrGridMismatch, l.Name, first.Name, i)
			}
		}
	}
	return grid, nil
}

// WriteArrow writes a log set as a single-record Arrow IPC file: one
// float64 column per log plus the depth column. Each log column carries
// its unit as field metadata.
func WriteArrow(w io.Writer, set *curves.LogSet) error {
	grid, err := commonGrid(set)
	if err != nil {
		return err
	}

	fields := []arrow.Field{{
		Name:     DepthColumn,
		Type:     arrow.PrimitiveTypes.Float64,
		Metadata: arrow.NewMetadata([]string{"unit"}, []string{"m"}),
	}}
	names := set.Names()
	for _, name := range names {
		l, err := set.Get(name)
		if err != nil {
			return err
		}
		fields = append(fields, arrow.Field{
			Name:     name,
			Type:     arrow.PrimitiveTypes.Float64,
			Metadata: arrow.NewMetadata([]string{"unit"}, []string{string(l.Unit)}),
		})
	}
	schema := arrow.NewSchema(fields, nil)

	mem := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	builder.Field(0).(*array.Float64Builder).AppendValues(grid, nil)
	for i, name := range names {
		l, err := set.Get(name)
		if err != nil {
			return err
		}
		builder.Field(i + 1).(*array.Float64Builder).AppendValues(l.Values, nil)
	}

	rec := builder.NewRecord()
	defer rec.Release()

	// ipc.NewFileWriter needs an io.WriteSeeker; buffer the file in
	// memory so callers can keep passing a plain io.Writer.
	var buf writeSeekBuffer
	fw, err := ipc.NewFileWriter(&buf, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("failed to create IPC writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := fw.Close(); err != nil {
		return err
	}
	_, err = w.Write(buf.data)
	return err
}

// writeSeekBuffer is an in-memory io.WriteSeeker for ipc.NewFileWriter.
type writeSeekBuffer struct {
	data []byte
	off  int
}

func (b *writeSeekBuffer) Write(p []byte) (int, error) {
	if end := b.off + len(p); end > len(b.data) {
		b.data = append(b.data, make([]byte, end-len(b.data))...)
	}
	n := copy(b.data[b.off:], p)
	b.off += n
	return n, nil
}

func (b *writeSeekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.off) + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, fmt.Errorf("writeSeekBuffer: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("writeSeekBuffer: negative position %d", abs)
	}
	b.off = int(abs)
	return abs, nil
}

// WriteArrowFile writes a log set to an Arrow IPC file on disk.
func WriteArrowFile(path string, set *curves.LogSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteArrow(f, set); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes a log set as CSV with a two-row header: column names,
// then units.
func WriteCSV(w io.Writer, set *curves.LogSet) error {
	grid, err := commonGrid(set)
	if err != nil {
		return err
	}

	names := set.Names()
	header := append([]string{DepthColumn}, names...)
	units := []string{"m"}
	logs := make([]*curves.Log, 0, len(names))
	for _, name := range names {
		l, err := set.Get(name)
		if err != nil {
			return err
		}
		logs = append(logs, l)
		units = append(units, string(l.Unit))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.Write(units); err != nil {
		return fmt.Errorf("failed to write units: %w", err)
	}

	row := make([]string, len(header))
	for i := range grid {
		row[0] = strconv.FormatFloat(grid[i], 'g', -1, 64)
		for j, l := range logs {
			row[j+1] = strconv.FormatFloat(l.Values[i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes a log set to a CSV file on disk.
func WriteCSVFile(path string, set *curves.LogSet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, set); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
