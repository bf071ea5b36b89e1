// Package gapfill densifies an irregular dataset frame to one row per
// calendar day and fills the introduced gaps from a centered rolling average.
package gapfill

import "github.com/quantbay/stockcast/pkg/timeseries"

// Window is the rolling-average window used to fill resampled gaps.
const Window = 30

// Fill re-indexes the frame to every calendar day in its date span, computes
// a centered 30-day rolling mean (minimum one observation) per column, and
// replaces every missing cell with the rolling mean at that date. Cells whose
// window holds no observation at all stay missing; that can only happen at
// the far calendar edges.
func Fill(frame *timeseries.Frame) *timeseries.Frame {
	dense := frame.ResampleDaily()
	rolling := dense.RollingMeanCentered(Window, 1)
	return dense.FillMissing(rolling)
}
