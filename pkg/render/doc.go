// Package render turns canvas scenes into files.
//
// The [sink] subpackage walks a [canvas.Object] tree and writes it as SVG
// (through svgo) or PNG (through gg). Scenes are produced by the view package;
// sinks know nothing about graphs.
//
//	var buf bytes.Buffer
//	if err := sink.WriteSVG(&buf, scene, 1200, 800); err != nil {
//	    return err
//	}
package render
