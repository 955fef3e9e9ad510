package domain

// Definition is the validated description of one agent, as delivered by a parser.
// Its identity is its position in the definition slice.
type Definition struct {
	Name      string
	Items     []int64
	Transform Operation
	Divisor   int64
	IfTrue    int
	IfFalse   int
}

// Agent is the mutable runtime record of one agent.
type Agent struct {
	ID          int
	Name        string
	Items       []int64
	Transform   Operation
	Divisor     int64
	IfTrue      int
	IfFalse     int
	Inspections int64
}

