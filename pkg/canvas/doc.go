// Package canvas is a retained 2D scene graph.
//
// A scene is a tree of [Object] values: [Container] groups children under a
// shared transform, [Graphics] records vector shapes issued through a
// drawing-pen API (LineStyle, MoveTo, LineTo, DrawRect...), and [Text] holds a
// label measured in monospace cells. Nothing is rasterized here; sinks walk the
// scene and emit SVG or PNG.
//
// # Coordinates
//
// Every object has a [Frame]: a position, a uniform scale and a rotation in
// radians. A point p in the object's local space maps to its parent's space as
// position + rotate(scale * p). [Object.LocalBounds] is the box of the
// object's content in local space; Bounds is that box mapped into the
// parent's space.
//
//	root := canvas.NewContainer()
//	g := canvas.NewGraphics()
//	g.LineStyle(1.5, 0xff0000)
//	g.DrawRect(0, 0, 10, 5)
//	root.AddChild(g)
//	root.Frame().Rotation = math.Pi
package canvas
