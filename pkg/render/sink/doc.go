// Package sink writes canvas scenes as SVG or PNG.
//
// Both sinks draw on a white background of the requested pixel size and
// honor every object's frame. Text is drawn in a monospace face sized by
// the label's font size.
package sink
