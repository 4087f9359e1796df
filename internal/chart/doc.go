// Package chart renders closing-price line charts as PNG files.
//
// Renderer draws two chart shapes: a single-ticker chart of raw closes,
// where download gaps break the line, and a combined chart overlaying the
// cleaned close columns of every ticker with a legend. Both use a shaded
// plot area with white gridlines and a fixed ten-color palette, so a run's
// charts stay visually consistent regardless of ticker count.
//
// Rendering needs no display or font files; the face is parsed from the
// embedded Go Regular font.
package chart
