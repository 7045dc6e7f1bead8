// Package analysis provides flock measures computed from a snapshot view.
//
// The package includes:
//
//   - [Polarization]: alignment of headings, 0 for random and 1 for a single direction
//   - [Centroid]: mean agent position
//   - [Spread]: RMS distance from the centroid
//   - [Series]: fixed-size history of a measure for live plots
//
// # Order Detection
//
// Polarization near 1 means the flock moves as one:
//
//	if analysis.Polarization(view) > 0.9 {
//	    // flock is aligned
//	}
package analysis
