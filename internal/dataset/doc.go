// Package dataset provides the lazy columnar query layer over the Parquet
// violations dataset.
//
// # Architecture
//
// Open returns an immutable handle that reads only part-file footers. All
// query construction is deferred: Plan chains row filters, GroupBy starts an
// aggregation, Having filters aggregated output, and nothing touches row
// data until the terminal Collect. Evaluation follows relational order -
// row filters, then grouping and aggregation, then Having, then sorting -
// so memory stays bounded by the result, never the dataset.
//
// # Usage
//
//	ds, err := dataset.Open(paths.DatasetDir)
//	if err != nil {
//	    return err
//	}
//
//	res, err := ds.Scan().
//	    Filter(dataset.IssueDateContains("2024")).
//	    GroupBy(dataset.KeyState(), dataset.KeyPlate()).
//	    Having(func(g dataset.Group) bool { return g.Sum >= 350 }).
//	    Collect(ctx)
//
// Null amounts contribute zero to sums. Rows whose group key cannot be
// resolved are excluded from that grouping but counted in Result.Unresolved.
package dataset
