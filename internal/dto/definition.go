package dto

// Document is the structured (YAML/JSON) form of a set of agent definitions.
// It uses "mapstructure" tags so both formats decode through the same generic map.
type Document struct {
	Agents []AgentDocument `json:"agents" yaml:"agents" mapstructure:"agents"`
}

// AgentDocument describes one agent; its position in Agents is its id.
type AgentDocument struct {
	Name      string            `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Items     []int64           `json:"items" yaml:"items" mapstructure:"items"`
	Operation OperationDocument `json:"operation" yaml:"operation" mapstructure:"operation"`
	Divisor   int64             `json:"divisor" yaml:"divisor" mapstructure:"divisor"`
	IfTrue    int               `json:"if_true" yaml:"if_true" mapstructure:"if_true"`
	IfFalse   int               `json:"if_false" yaml:"if_false" mapstructure:"if_false"`
}

// OperationDocument holds the transform. Operand is an integer or "old".
type OperationDocument struct {
	Kind    string `json:"kind" yaml:"kind" mapstructure:"kind"`
	Operand string `json:"operand" yaml:"operand" mapstructure:"operand"`
}
