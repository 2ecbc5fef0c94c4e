// Package layout assigns coordinates to a hierarchy tree.
//
// The layout algorithm itself is delegated: [GraphvizEngine] feeds the
// expanded tree to the Graphviz "dot" engine and reads node positions back.
// [CachedEngine] memoizes any [Engine] through a [cache.Cache].
//
// # Coordinates
//
// A positioned [Tree] uses tree-layout convention: the root sits at the
// origin and children extend towards positive y, one level per
// [Size].Height. Siblings are at least [Size].Width apart horizontally.
//
// # Node size policy
//
// [Policy.SizeFor] picks the spacing from the raw graph's node count:
// graphs above the threshold (200 nodes) get a 300x300 cell, smaller ones
// 50x75. The same policy drives the viewport orientation, so both must use
// the same count.
package layout
