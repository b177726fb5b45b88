// Package kmeans implements seeded, deterministic k-means clustering.
//
// Cluster runs Lloyd's algorithm over the rows of any gonum mat.Matrix:
//
//	res, err := kmeans.Cluster(fm, 4, &kmeans.Config{Seed: 42, Restarts: 10})
//	if errors.Is(err, kmeans.ErrInvalidClusterCount) {
//	    // k < 1 or k > rows
//	}
//	for i, label := range res.Labels {
//	    fmt.Println(fm.Name(i), label) // labels are 1..k
//	}
//	fmt.Printf("SSE: %.4f in %d iterations\n", res.SSE, res.Iterations)
//
// # Determinism
//
// Initial centroids are k distinct rows drawn from a PCG generator seeded
// with Config.Seed. Distance ties go to the lower-indexed centroid, and a
// centroid that loses all its rows is reseeded on the row farthest from
// its centroid. Identical inputs therefore always produce identical
// labels, centroids and SSE.
//
// # Restarts
//
// With Restarts > 1 the generator supplies a fresh set of initial rows for
// each attempt and the lowest-SSE result is kept (the earliest on ties).
// The first attempt always matches a single-restart run with the same
// seed.
package kmeans
