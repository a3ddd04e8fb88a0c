package exprql

import "github.com/zoobzio/exprql/internal/types"

// Direction is the sort direction of an OrderSpecifier.
type Direction = types.Direction

// NodeKind distinguishes paths, constants and operations.
type NodeKind = types.NodeKind

// Re-export direction constants for public API.
const (
	ASC  = types.ASC
	DESC = types.DESC
)

// Re-export node kinds for public API.
const (
	KindPath      = types.KindPath
	KindConstant  = types.KindConstant
	KindOperation = types.KindOperation
)
