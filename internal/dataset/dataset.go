package dataset

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"opcvcli/internal/errors"
	"opcvcli/internal/files"
	"opcvcli/pkg/contracts/domain"
)

// requiredColumns are the source columns every part file must carry
var requiredColumns = []string{"state", "plate", "issue_date", "violation", "amount_due"}

// Part is one Parquet part file of the dataset
type Part struct {
	Path string
	Rows int64
	Size int64
}

// Dataset is an immutable, lazy handle on a partitioned Parquet dataset.
// Open reads only part-file footers (schema and row counts); row data is
// touched exclusively by a plan's Collect. The handle takes no lock and is
// read-only, so any number of plans may be built and executed against it.
type Dataset struct {
	dir   string
	parts []Part
	rows  int64
}

// Open opens the dataset directory and validates part-file metadata.
// It never reads row data.
func Open(dir string) (*Dataset, error) {
	found, err := files.FindParquetFiles(dir)
	if err != nil {
		return nil, errors.Dataset("open "+dir, err)
	}
	if len(found) == 0 {
		return nil, errors.Dataset("open "+dir, fmt.Errorf("no part files found"))
	}

	ds := &Dataset{dir: dir}
	for _, fi := range found {
		part, err := openPartMetadata(fi)
		if err != nil {
			return nil, err
		}
		ds.parts = append(ds.parts, part)
		ds.rows += part.Rows
	}

	return ds, nil
}

// openPartMetadata reads the footer of one part file: schema + row count only
func openPartMetadata(fi files.FileInfo) (Part, error) {
	f, err := os.Open(fi.Path)
	if err != nil {
		return Part{}, errors.Dataset("open "+fi.Name, err)
	}
	defer f.Close()

	pf, err := parquet.OpenFile(f, fi.Size)
	if err != nil {
		return Part{}, errors.Dataset("read footer of "+fi.Name, err)
	}

	schema := pf.Schema()
	for _, col := range requiredColumns {
		if _, ok := schema.Lookup(col); !ok {
			return Part{}, errors.Dataset("validate "+fi.Name, fmt.Errorf("missing column %q", col))
		}
	}

	return Part{Path: fi.Path, Rows: pf.NumRows(), Size: fi.Size}, nil
}

// Dir returns the dataset directory
func (d *Dataset) Dir() string {
	return d.dir
}

// NumRows returns the total row count across all parts, from footer metadata
func (d *Dataset) NumRows() int64 {
	return d.rows
}

// Parts returns the part files in scan order
func (d *Dataset) Parts() []Part {
	return d.parts
}

// Scan starts a new deferred query plan over the full dataset
func (d *Dataset) Scan() Plan {
	return Plan{ds: d}
}

// scanBatchSize is how many rows each read pulls from a part file.
// Memory per scan is bounded by this batch, not the dataset.
const scanBatchSize = 4096

// scan streams every row of every part through fn in part order.
// fn returning an error aborts the scan.
func (d *Dataset) scan(fn func(*domain.Violation) error) error {
	buf := make([]domain.Violation, scanBatchSize)

	for _, part := range d.parts {
		if err := scanPart(part, buf, fn); err != nil {
			return err
		}
	}
	return nil
}

func scanPart(part Part, buf []domain.Violation, fn func(*domain.Violation) error) error {
	f, err := os.Open(part.Path)
	if err != nil {
		return errors.Dataset("open "+part.Path, err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[domain.Violation](f)
	defer reader.Close()

	for {
		n, err := reader.Read(buf)
		for i := 0; i < n; i++ {
			if fnErr := fn(&buf[i]); fnErr != nil {
				return fnErr
			}
		}
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				return nil
			}
			return errors.Dataset("scan "+part.Path, err)
		}
	}
}
