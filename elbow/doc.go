// Package elbow computes the within-cluster SSE curve used to choose k.
//
// Scan clusters the same feature matrix once per candidate k and records
// the total within-cluster sum of squares:
//
//	config := elbow.DefaultConfig()
//	config.KMax = 12
//	config.Workers = 4
//	curve, err := elbow.Scan(fm, config)
//	for _, p := range curve {
//	    fmt.Printf("k=%2d  SSE=%10.3f  explained=%.1f%%\n", p.K, p.SSE, 100*p.Explained)
//	}
//
// The scan does not pick k. The bend of the curve, where adding a cluster
// stops paying off, is judged by whoever reads it; pass the chosen k to
// kmeans.Cluster.
//
// A range that reaches below 1 or above the number of rows fails with
// kmeans.ErrInvalidClusterCount before any run starts.
package elbow
