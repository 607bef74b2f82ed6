// Package io reads and writes poster configuration files.
//
// # Formats
//
// Configurations are stored as TOML (the default, written by
// `genposter config init`) or JSON. The format is chosen from the file
// extension:
//
//	palette = "pastel"
//	preset = "minimal"
//	layers = 3
//	blobs_per_layer = 4
//	seed = 42
//	background = "#ffffff"
//
//	[wobble]
//	min = 0.0
//	max = 0.1
//
//	[radius]
//	min = 10.0
//	max = 50.0
//
//	[size]
//	width = 800
//	height = 600
//
// # Import
//
// [ReadConfig] and [ImportConfig] decode on top of [poster.Default], so a
// file only needs the keys it changes. Unknown keys are rejected, which
// catches typos such as "wobbel". The decoded configuration is not
// validated here; the pipeline validates it before drawing.
//
// # Export
//
// [WriteConfig] and [ExportConfig] write every field, so an exported file
// reproduces the poster exactly, seed included.
//
// [poster.Default]: github.com/matzehuels/genposter/pkg/poster.Default
package io
