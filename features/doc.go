// Package features turns a panel of series into fixed-length feature
// vectors for clustering.
//
// Two representations are provided behind the Representation interface:
//
//   - MSP, the mean seasonal profile: per-phase averages over the period,
//     z-scored with the sample standard deviation. Output length is the
//     period. A constant profile becomes the zero vector and is reported
//     as degenerate instead of producing NaN.
//   - FeaClip: per-window clipping statistics (runs above and below the
//     window mean). Output length is 8 per window. Invariant to scale by
//     construction.
//
// # Usage
//
//	rep, err := features.New(&features.Config{Method: features.MethodMSP, Period: 12})
//	fm, err := features.Extract(panel, rep)
//	if n := len(fm.Degenerate()); n > 0 {
//	    // n series were constant and carry no seasonal signal
//	}
//
// Extraction fails with an error matching ErrShapeMismatch when a series
// length does not fit the period or window:
//
//	var shape *features.ShapeError
//	if errors.As(err, &shape) {
//	    fmt.Println(shape.Series, shape.Length, shape.Unit)
//	}
//
// The resulting Matrix implements gonum's mat.Matrix.
package features
