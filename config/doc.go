// Package config loads the YAML configuration of a clustering run.
//
// A file only needs the keys it changes; everything else keeps the
// defaults of the library packages:
//
//	input:
//	  path: visits.csv
//	  format: long          # unique_id,ds,y rows; or "wide"
//	features:
//	  method: msp           # or feaclip
//	  period: 12
//	elbow:
//	  k_min: 1
//	  k_max: 10
//	  workers: 4
//	cluster:
//	  k: 4
//	  seed: 42
//	  restarts: 10
//	log:
//	  level: info
//
// Load the file and convert it to package configurations:
//
//	cfg, err := config.Load("seasonclust.yaml")
//	rep, err := features.New(cfg.FeaturesConfig())
//	curve, err := elbow.Scan(fm, cfg.ElbowConfig())
package config
