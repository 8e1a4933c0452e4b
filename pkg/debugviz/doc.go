// Package debugviz renders a solver.RandomizationDebugInfo as an SVG
// diagram: one node per problem variable, laid out by sparse-strategy
// order group, colored by how far the search reached before falling back
// or failing. It is a development aid, not part of the solve path.
package debugviz
