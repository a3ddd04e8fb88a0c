package types

// Direction represents sort direction.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// NodeKind distinguishes the three structural node shapes.
type NodeKind int

const (
	KindPath NodeKind = iota + 1
	KindConstant
	KindOperation
)

func (k NodeKind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindConstant:
		return "constant"
	case KindOperation:
		return "operation"
	default:
		return "unknown"
	}
}
