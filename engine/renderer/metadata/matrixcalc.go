package metadata

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/anima/engine/math"
)

// MatrixInputName identifies one of the ten matrices a MatrixCalc program
// may reference.
type MatrixInputName string

const (
	MatrixInputLeftViewProj     MatrixInputName = "left_view_proj"
	MatrixInputRightViewProj    MatrixInputName = "right_view_proj"
	MatrixInputProjection       MatrixInputName = "projection"
	MatrixInputLeftView         MatrixInputName = "left_view"
	MatrixInputRightView        MatrixInputName = "right_view"
	MatrixInputInverseLeftView  MatrixInputName = "inverse_left_view"
	MatrixInputInverseRightView MatrixInputName = "inverse_right_view"
	MatrixInputModel            MatrixInputName = "model"
	MatrixInputLeftMVP          MatrixInputName = "left_mvp"
	MatrixInputRightMVP         MatrixInputName = "right_mvp"
)

// MatrixCalcInputs supplies the ten named matrices a program may read from.
type MatrixCalcInputs map[MatrixInputName]math.Mat4

// MaxMatrixCalcOutputs bounds the number of statements (and thus outputs) a
// MatrixCalc program may produce.
const MaxMatrixCalcOutputs = 10

// matrixOp is the kind of node in a parsed expression tree.
type matrixOp int

const (
	opLeaf matrixOp = iota
	opAdd
	opSub
	opMul
	opInverse
	opTranspose
)

type matrixNode struct {
	op    matrixOp
	name  MatrixInputName // valid when op == opLeaf
	left  *matrixNode
	right *matrixNode // nil for unary ops
}

// MatrixCalc is a parsed arithmetic program over the ten named input
// matrices, built from source text per the grammar documented on
// matrixCalcParser.
// Parse failure (or an empty/absent program) leaves NumStatements() == 0,
// so callers fall back to the direct u_mvp path.
type MatrixCalc struct {
	statements []*matrixNode
	source     string
}

// NumStatements returns how many output matrices this program produces.
func (c *MatrixCalc) NumStatements() int {
	if c == nil {
		return 0
	}
	return len(c.statements)
}

// ParseMatrixCalc parses source into a MatrixCalc program. On any syntax
// error it returns a MatrixCalc with zero statements rather than an error,
// matching the spec's failure policy (shader falls back to direct upload).
func ParseMatrixCalc(source string) *MatrixCalc {
	p := &matrixCalcParser{src: source}
	statements, err := p.parseProgram()
	if err != nil || len(statements) > MaxMatrixCalcOutputs {
		return &MatrixCalc{source: source}
	}
	return &MatrixCalc{statements: statements, source: source}
}

// Calc evaluates each top-level statement against inputs, writing the i-th
// statement's result into outputs[i], and returns the number of statements
// evaluated (0 if the program is empty/invalid).
func (c *MatrixCalc) Calc(inputs MatrixCalcInputs, outputs []math.Mat4) int {
	if c == nil || len(c.statements) == 0 {
		return 0
	}
	n := len(c.statements)
	if n > len(outputs) {
		n = len(outputs)
	}
	for i := 0; i < n; i++ {
		outputs[i] = evalMatrixNode(c.statements[i], inputs)
	}
	return n
}

func evalMatrixNode(n *matrixNode, inputs MatrixCalcInputs) math.Mat4 {
	switch n.op {
	case opLeaf:
		return inputs[n.name]
	case opAdd:
		return mat4Add(evalMatrixNode(n.left, inputs), evalMatrixNode(n.right, inputs))
	case opSub:
		return mat4Sub(evalMatrixNode(n.left, inputs), evalMatrixNode(n.right, inputs))
	case opMul:
		return evalMatrixNode(n.left, inputs).Mul(evalMatrixNode(n.right, inputs))
	case opInverse:
		return evalMatrixNode(n.left, inputs).Inverse()
	case opTranspose:
		return math.NewMat4Transposed(evalMatrixNode(n.left, inputs))
	}
	return math.NewMat4Identity()
}

func mat4Add(a, b math.Mat4) math.Mat4 {
	var out math.Mat4
	for i := range out.Data {
		out.Data[i] = a.Data[i] + b.Data[i]
	}
	return out
}

func mat4Sub(a, b math.Mat4) math.Mat4 {
	var out math.Mat4
	for i := range out.Data {
		out.Data[i] = a.Data[i] - b.Data[i]
	}
	return out
}

// matrixCalcParser is a small recursive-descent parser for:
//
//	expr      := term (('+' | '-') term)*
//	term      := factor ('*' factor)*
//	factor    := unary | group | operand
//	unary     := '~' operand   // inverse
//	           | '^' operand   // transpose
//	group     := '(' expr ')'
//	operand   := name | group
//	statement := expr (';' | ',')
//	program   := statement+
//
// The terminator of the final statement may be omitted.
type matrixCalcParser struct {
	src string
	pos int
}

func (p *matrixCalcParser) parseProgram() ([]*matrixNode, error) {
	var statements []*matrixNode
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, nil
	}
	for p.pos < len(p.src) {
		p.skipSpace()
		if p.pos >= len(p.src) {
			break
		}
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		statements = append(statements, n)
		p.skipSpace()
		if p.pos < len(p.src) && (p.peek() == ';' || p.peek() == ',') {
			p.pos++
			continue
		}
		if p.pos < len(p.src) {
			return nil, fmt.Errorf("matrix calc: expected statement terminator at %d", p.pos)
		}
	}
	if len(statements) == 0 {
		return nil, fmt.Errorf("matrix calc: empty program")
	}
	return statements, nil
}

func (p *matrixCalcParser) parseExpr() (*matrixNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			break
		}
		c := p.peek()
		if c != '+' && c != '-' {
			break
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		op := opAdd
		if c == '-' {
			op = opSub
		}
		left = &matrixNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *matrixCalcParser) parseTerm() (*matrixNode, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) || p.peek() != '*' {
			break
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &matrixNode{op: opMul, left: left, right: right}
	}
	return left, nil
}

func (p *matrixCalcParser) parseFactor() (*matrixNode, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("matrix calc: unexpected end of input")
	}
	switch p.peek() {
	case '~':
		p.pos++
		operand, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &matrixNode{op: opInverse, left: operand}, nil
	case '^':
		p.pos++
		operand, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return &matrixNode{op: opTranspose, left: operand}, nil
	default:
		return p.parseOperand()
	}
}

func (p *matrixCalcParser) parseOperand() (*matrixNode, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("matrix calc: unexpected end of input")
	}
	if p.peek() == '(' {
		p.pos++
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.peek() != ')' {
			return nil, fmt.Errorf("matrix calc: expected ')' at %d", p.pos)
		}
		p.pos++
		return n, nil
	}
	start := p.pos
	for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return nil, fmt.Errorf("matrix calc: expected matrix name at %d", p.pos)
	}
	name := MatrixInputName(strings.ToLower(p.src[start:p.pos]))
	if !validMatrixInputName(name) {
		return nil, fmt.Errorf("matrix calc: unknown matrix name %q", name)
	}
	return &matrixNode{op: opLeaf, name: name}, nil
}

func validMatrixInputName(name MatrixInputName) bool {
	switch name {
	case MatrixInputLeftViewProj, MatrixInputRightViewProj, MatrixInputProjection,
		MatrixInputLeftView, MatrixInputRightView,
		MatrixInputInverseLeftView, MatrixInputInverseRightView,
		MatrixInputModel, MatrixInputLeftMVP, MatrixInputRightMVP:
		return true
	}
	return false
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *matrixCalcParser) peek() byte { return p.src[p.pos] }

func (p *matrixCalcParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}
