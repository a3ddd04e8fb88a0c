package types

// Operator identifies the operation an expression node applies to its operands.
// Values are renderer neutral; backends map them to their own syntax.
type Operator string

const (
	// Comparison operators.
	EQ  Operator = "EQ"
	NE  Operator = "NE"
	LT  Operator = "LT"
	GT  Operator = "GT"
	LOE Operator = "LOE"
	GOE Operator = "GOE"

	// Range and membership.
	BETWEEN Operator = "BETWEEN"
	IN      Operator = "IN"
	NotIn   Operator = "NOT_IN"

	// Boolean logic.
	AND Operator = "AND"
	OR  Operator = "OR"
	NOT Operator = "NOT"

	// Null checks.
	IsNull    Operator = "IS_NULL"
	IsNotNull Operator = "IS_NOT_NULL"

	// Casts.
	NumCast    Operator = "NUMCAST"
	StringCast Operator = "STRING_CAST"

	// String operators.
	LIKE           Operator = "LIKE"
	StartsWith     Operator = "STARTS_WITH"
	EndsWith       Operator = "ENDS_WITH"
	StringContains Operator = "STRING_CONTAINS"
	Lower          Operator = "LOWER"
	Upper          Operator = "UPPER"
	StringLength   Operator = "STRING_LENGTH"

	// Arithmetic.
	Add  Operator = "ADD"
	Sub  Operator = "SUB"
	Mult Operator = "MULT"
	Div  Operator = "DIV"
)

// OperandClass constrains the result type an operand may have.
type OperandClass int

const (
	AnyOperand        OperandClass = iota // any result type
	BooleanOperand                        // bool
	NumericOperand                        // integer or floating point
	StringOperand                         // string
	OrderableOperand                      // numeric, string, bool or time.Time
	CollectionOperand                     // constant slice of the first operand's type
	TypeOperand                           // constant reflect.Type naming a numeric type
)

// ResultRule determines the declared result type of an operation.
type ResultRule int

const (
	ResultBoolean ResultRule = iota // bool
	ResultString                    // string
	ResultInt                       // int
	ResultFirst                     // same as the first operand
	ResultTarget                    // the type carried by the TypeOperand
)

// Signature describes the operands an operator accepts and what it yields.
type Signature struct {
	Operands []OperandClass
	Result   ResultRule
	// SameType requires every operand except collection and type operands
	// to share the first operand's result type.
	SameType bool
}

// Arity returns the number of operands the operator takes.
func (s Signature) Arity() int {
	return len(s.Operands)
}

var signatures = map[Operator]Signature{
	EQ:  {Operands: []OperandClass{AnyOperand, AnyOperand}, Result: ResultBoolean, SameType: true},
	NE:  {Operands: []OperandClass{AnyOperand, AnyOperand}, Result: ResultBoolean, SameType: true},
	LT:  {Operands: []OperandClass{OrderableOperand, OrderableOperand}, Result: ResultBoolean, SameType: true},
	GT:  {Operands: []OperandClass{OrderableOperand, OrderableOperand}, Result: ResultBoolean, SameType: true},
	LOE: {Operands: []OperandClass{OrderableOperand, OrderableOperand}, Result: ResultBoolean, SameType: true},
	GOE: {Operands: []OperandClass{OrderableOperand, OrderableOperand}, Result: ResultBoolean, SameType: true},

	BETWEEN: {Operands: []OperandClass{OrderableOperand, OrderableOperand, OrderableOperand}, Result: ResultBoolean, SameType: true},
	IN:      {Operands: []OperandClass{AnyOperand, CollectionOperand}, Result: ResultBoolean},
	NotIn:   {Operands: []OperandClass{AnyOperand, CollectionOperand}, Result: ResultBoolean},

	AND: {Operands: []OperandClass{BooleanOperand, BooleanOperand}, Result: ResultBoolean},
	OR:  {Operands: []OperandClass{BooleanOperand, BooleanOperand}, Result: ResultBoolean},
	NOT: {Operands: []OperandClass{BooleanOperand}, Result: ResultBoolean},

	IsNull:    {Operands: []OperandClass{AnyOperand}, Result: ResultBoolean},
	IsNotNull: {Operands: []OperandClass{AnyOperand}, Result: ResultBoolean},

	NumCast:    {Operands: []OperandClass{OrderableOperand, TypeOperand}, Result: ResultTarget},
	StringCast: {Operands: []OperandClass{AnyOperand}, Result: ResultString},

	LIKE:           {Operands: []OperandClass{StringOperand, StringOperand}, Result: ResultBoolean},
	StartsWith:     {Operands: []OperandClass{StringOperand, StringOperand}, Result: ResultBoolean},
	EndsWith:       {Operands: []OperandClass{StringOperand, StringOperand}, Result: ResultBoolean},
	StringContains: {Operands: []OperandClass{StringOperand, StringOperand}, Result: ResultBoolean},
	Lower:          {Operands: []OperandClass{StringOperand}, Result: ResultString},
	Upper:          {Operands: []OperandClass{StringOperand}, Result: ResultString},
	StringLength:   {Operands: []OperandClass{StringOperand}, Result: ResultInt},

	Add:  {Operands: []OperandClass{NumericOperand, NumericOperand}, Result: ResultFirst, SameType: true},
	Sub:  {Operands: []OperandClass{NumericOperand, NumericOperand}, Result: ResultFirst, SameType: true},
	Mult: {Operands: []OperandClass{NumericOperand, NumericOperand}, Result: ResultFirst, SameType: true},
	Div:  {Operands: []OperandClass{NumericOperand, NumericOperand}, Result: ResultFirst, SameType: true},
}

// SignatureOf returns the signature registered for op.
func SignatureOf(op Operator) (Signature, bool) {
	sig, ok := signatures[op]
	return sig, ok
}
