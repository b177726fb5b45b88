// Package timeseries provides the series and panel types the clustering
// pipeline consumes.
//
// A Series is one named sequence of monthly observations. A Matrix is an
// ordered, rectangular panel of Series: every row has the same length and
// the same time alignment, and row order is the index used by every
// derived artifact (feature rows, cluster labels).
//
// # Creating a Matrix
//
//	start := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
//	m, err := timeseries.NewMatrix(
//	    timeseries.NewMonthly("Acadia", start, acadia),
//	    timeseries.NewMonthly("Zion", start, zion),
//	)
//
// # Loading from CSV
//
// Long files carry one observation per row, in the unique_id,ds,y layout:
//
//	m, dropped, err := timeseries.LoadPanelCSV("visits.csv", nil)
//
// Wide files carry one series per row:
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.Format = timeseries.FormatWide
//	opts.IDColumn = "park"
//	m, dropped, err := timeseries.LoadPanelCSV("visits_wide.csv", opts)
//
// Observations are aligned on calendar months. Series missing any month in
// the panel's span are dropped (DropIncomplete, the default) and reported
// in dropped, so the resulting matrix never has gaps.
//
// # Writing
//
//	err := timeseries.WriteMatrixCSV(os.Stdout, m)
package timeseries
