// Package ast holds the syntax tree of one JavaScript or TypeScript file.
//
// Nodes live in 1-based arenas owned by a Builder; the zero id of every kind
// means "absent". Kind-specific data is stored in payload arenas and fetched
// through typed accessors that check the node kind.
package ast
