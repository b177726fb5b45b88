// Package seasonclust groups monthly time series by the shape of their
// seasonal pattern rather than by their magnitude.
//
// Each series of a panel is reduced to a fixed-length feature vector and the
// vectors are partitioned with k-means. An elbow scan over a range of k
// helps the analyst choose the number of clusters.
//
// # Features
//
//   - Panel loading from long (unique_id,ds,y) or wide CSV files
//   - Mean seasonal profile (MSP): per-phase means, z-normalized
//   - FeaClip: clipped-bit run statistics per window
//   - Seeded, reproducible k-means with restarts and empty-cluster recovery
//   - Concurrent elbow scan of the total within-cluster sum of squares
//   - YAML configuration, structured logging and Prometheus metrics
//
// # Quick Start
//
// Reduce a panel to mean seasonal profiles and cluster it:
//
//	m, _, _ := timeseries.LoadPanelCSV("visits.csv", nil)
//	rep, _ := features.New(features.DefaultConfig())
//	fm, _ := features.Extract(m, rep)
//	curve, _ := elbow.Scan(fm, elbow.DefaultConfig())
//	result, _ := kmeans.Cluster(fm, 4, kmeans.DefaultConfig())
//
// Or run the same stages from the command line:
//
//	seasonclust elbow   --input visits.csv --kmax 12
//	seasonclust cluster --input visits.csv --k 4 --out clusters.json
//
// # Packages
//
// The library is organized into the following packages:
//
//   - timeseries: Series, the aligned series matrix and panel CSV I/O
//   - stats: Seasonal profiles, z-normalization and sums of squares
//   - features: The MSP and FeaClip representations
//   - kmeans: Lloyd's algorithm with Forgy initialization
//   - elbow: SSE over a range of k
//   - config: YAML run configuration
//   - metrics: Prometheus collectors for a run
//   - pipeline: The stages wired together with logging and metrics
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Bagnall, A., & Janacek, G. (2005). Clustering time series with clipped data
//   - Lloyd, S. (1982). Least squares quantization in PCM
package seasonclust
