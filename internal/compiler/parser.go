package compiler

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/keepaway/pkg/domain"
)

const (
	prefixItems   = "Starting items:"
	prefixOp      = "Operation: new = old"
	prefixTest    = "Test: divisible by"
	prefixIfTrue  = "If true: throw to monkey"
	prefixIfFalse = "If false: throw to monkey"

	blockLines = 6
)

// ParseError reports the input line a definition failed on.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Unwrap lets callers match parse failures with domain.ErrMalformedDefinition.
func (e *ParseError) Unwrap() error {
	return domain.ErrMalformedDefinition
}

type line struct {
	no   int
	text string
}

// Parser converts the puzzle text format into agent definitions.
//
//	Monkey 0:
//	  Starting items: 79, 98
//	  Operation: new = old * 19
//	  Test: divisible by 23
//	    If true: throw to monkey 2
//	    If false: throw to monkey 3
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads blank-line separated blocks; block i becomes agent i.
func (p *Parser) Parse(data []byte) ([]domain.Definition, error) {
	var (
		defs  []domain.Definition
		block []line
	)
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		def, err := parseBlock(block)
		if err != nil {
			return err
		}
		defs = append(defs, def)
		block = block[:0]
		return nil
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	// The whole input is in memory, so no line can outgrow it.
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), max(len(data)+1, bufio.MaxScanTokenSize))
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line{no: n, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Line: n + 1, Msg: fmt.Sprintf("failed to read input: %v", err)}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, &ParseError{Msg: "no agent definitions found"}
	}
	return defs, nil
}

func parseBlock(block []line) (domain.Definition, error) {
	if len(block) != blockLines {
		return domain.Definition{}, &ParseError{Line: block[0].no, Msg: fmt.Sprintf("expected %d lines per agent, got %d", blockLines, len(block))}
	}

	var def domain.Definition
	var err error

	if !strings.HasSuffix(block[0].text, ":") {
		return def, &ParseError{Line: block[0].no, Msg: fmt.Sprintf("expected agent header ending in ':', got %q", block[0].text)}
	}
	def.Name = strings.TrimSuffix(block[0].text, ":")

	if def.Items, err = parseItems(block[1]); err != nil {
		return def, err
	}
	if def.Transform, err = parseOperation(block[2]); err != nil {
		return def, err
	}
	if def.Divisor, err = parseInt(block[3], prefixTest); err != nil {
		return def, err
	}
	ifTrue, err := parseInt(block[4], prefixIfTrue)
	if err != nil {
		return def, err
	}
	ifFalse, err := parseInt(block[5], prefixIfFalse)
	if err != nil {
		return def, err
	}
	def.IfTrue, def.IfFalse = int(ifTrue), int(ifFalse)
	return def, nil
}

func field(l line, prefix string) (string, error) {
	if !strings.HasPrefix(l.text, prefix) {
		return "", &ParseError{Line: l.no, Msg: fmt.Sprintf("expected %q", prefix)}
	}
	return strings.TrimSpace(strings.TrimPrefix(l.text, prefix)), nil
}

func parseItems(l line) ([]int64, error) {
	rest, err := field(l, prefixItems)
	if err != nil {
		return nil, err
	}
	if rest == "" {
		return []int64{}, nil
	}
	parts := strings.Split(rest, ",")
	items := make([]int64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || v < 0 {
			return nil, &ParseError{Line: l.no, Msg: fmt.Sprintf("invalid item %q", strings.TrimSpace(part))}
		}
		items = append(items, v)
	}
	return items, nil
}

func parseOperation(l line) (domain.Operation, error) {
	rest, err := field(l, prefixOp)
	if err != nil {
		return domain.Operation{}, err
	}
	parts := strings.Fields(rest)
	if len(parts) != 2 {
		return domain.Operation{}, &ParseError{Line: l.no, Msg: fmt.Sprintf("expected '<op> <operand>', got %q", rest)}
	}
	kind, err := domain.ParseOpKind(parts[0])
	if err != nil {
		return domain.Operation{}, &ParseError{Line: l.no, Msg: fmt.Sprintf("unknown operation %q", parts[0])}
	}
	operand, err := ParseOperand(parts[1])
	if err != nil {
		return domain.Operation{}, &ParseError{Line: l.no, Msg: err.Error()}
	}
	return domain.Operation{Kind: kind, Operand: operand}, nil
}

// ParseOperand resolves "old" to the self operand and integers to literals.
func ParseOperand(s string) (domain.Operand, error) {
	s = strings.TrimSpace(s)
	if s == domain.SelfToken {
		return domain.Self(), nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return domain.Operand{}, fmt.Errorf("%w: unresolvable operand %q", domain.ErrMalformedDefinition, s)
	}
	return domain.Literal(v), nil
}

func parseInt(l line, prefix string) (int64, error) {
	rest, err := field(l, prefix)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, &ParseError{Line: l.no, Msg: fmt.Sprintf("invalid number %q", rest)}
	}
	return v, nil
}
