package metadata

import (
	"testing"

	"github.com/spaghettifunk/anima/engine/math"
)

func approxEqualMat4(a, b math.Mat4, eps float32) bool {
	for i := range a.Data {
		d := a.Data[i] - b.Data[i]
		if d < -eps || d > eps {
			return false
		}
	}
	return true
}

func TestMatrixCalcEmptyProgramHasNoStatements(t *testing.T) {
	c := ParseMatrixCalc("")
	if c.NumStatements() != 0 {
		t.Fatalf("NumStatements() = %d, want 0", c.NumStatements())
	}
}

func TestMatrixCalcSingleStatement(t *testing.T) {
	c := ParseMatrixCalc("model;")
	if c.NumStatements() != 1 {
		t.Fatalf("NumStatements() = %d, want 1", c.NumStatements())
	}
	m := math.NewMat4Translation(math.Vec3{X: 1, Y: 2, Z: 3})
	inputs := MatrixCalcInputs{MatrixInputModel: m}
	outputs := make([]math.Mat4, 1)
	if n := c.Calc(inputs, outputs); n != 1 {
		t.Fatalf("Calc() = %d, want 1", n)
	}
	if outputs[0] != m {
		t.Fatalf("Calc() output = %v, want %v", outputs[0], m)
	}
}

func TestMatrixCalcAcceptsCommaTerminator(t *testing.T) {
	c := ParseMatrixCalc("model, projection,")
	if c.NumStatements() != 2 {
		t.Fatalf("NumStatements() = %d, want 2", c.NumStatements())
	}
}

func TestMatrixCalcAcceptsMixedTerminators(t *testing.T) {
	c := ParseMatrixCalc("model; projection,left_view;")
	if c.NumStatements() != 3 {
		t.Fatalf("NumStatements() = %d, want 3", c.NumStatements())
	}
}

func TestMatrixCalcDoubleInverseIsIdentityTransform(t *testing.T) {
	c := ParseMatrixCalc("~(~model);")
	m := math.NewMat4Translation(math.Vec3{X: 1, Y: 2, Z: 3})
	inputs := MatrixCalcInputs{MatrixInputModel: m}
	outputs := make([]math.Mat4, 1)
	c.Calc(inputs, outputs)
	if !approxEqualMat4(outputs[0], m, 1e-4) {
		t.Fatalf("~(~model) = %v, want %v", outputs[0], m)
	}
}

func TestMatrixCalcDoubleTransposeIsIdentityTransform(t *testing.T) {
	c := ParseMatrixCalc("^(^model);")
	m := math.NewMat4Translation(math.Vec3{X: 1, Y: 2, Z: 3})
	inputs := MatrixCalcInputs{MatrixInputModel: m}
	outputs := make([]math.Mat4, 1)
	c.Calc(inputs, outputs)
	if !approxEqualMat4(outputs[0], m, 1e-4) {
		t.Fatalf("^(^model) = %v, want %v", outputs[0], m)
	}
}

func TestMatrixCalcMulIsAssociative(t *testing.T) {
	left := ParseMatrixCalc("(model*left_view)*projection;")
	right := ParseMatrixCalc("model*(left_view*projection);")

	a := math.NewMat4Translation(math.Vec3{X: 1, Y: 0, Z: 0})
	b := math.NewMat4Translation(math.Vec3{X: 0, Y: 2, Z: 0})
	cMat := math.NewMat4Translation(math.Vec3{X: 0, Y: 0, Z: 3})
	inputs := MatrixCalcInputs{
		MatrixInputModel:     a,
		MatrixInputLeftView:  b,
		MatrixInputProjection: cMat,
	}
	leftOut := make([]math.Mat4, 1)
	rightOut := make([]math.Mat4, 1)
	left.Calc(inputs, leftOut)
	right.Calc(inputs, rightOut)

	if !approxEqualMat4(leftOut[0], rightOut[0], 1e-4) {
		t.Fatalf("(A*B)*C = %v, A*(B*C) = %v, want equal", leftOut[0], rightOut[0])
	}
}

func TestMatrixCalcUnknownNameFailsToParse(t *testing.T) {
	c := ParseMatrixCalc("bogus_matrix;")
	if c.NumStatements() != 0 {
		t.Fatalf("NumStatements() = %d, want 0 for a program referencing an unknown matrix", c.NumStatements())
	}
}

func TestMatrixCalcMissingTerminatorFailsToParse(t *testing.T) {
	c := ParseMatrixCalc("model projection")
	if c.NumStatements() != 0 {
		t.Fatalf("NumStatements() = %d, want 0 for a program missing statement separators", c.NumStatements())
	}
}

func TestMatrixCalcTooManyStatementsFailsToParse(t *testing.T) {
	src := ""
	for i := 0; i < MaxMatrixCalcOutputs+1; i++ {
		src += "model;"
	}
	c := ParseMatrixCalc(src)
	if c.NumStatements() != 0 {
		t.Fatalf("NumStatements() = %d, want 0 when exceeding MaxMatrixCalcOutputs", c.NumStatements())
	}
}

func TestMatrixCalcNilReceiverHasNoStatements(t *testing.T) {
	var c *MatrixCalc
	if c.NumStatements() != 0 {
		t.Fatalf("nil.NumStatements() = %d, want 0", c.NumStatements())
	}
	if n := c.Calc(MatrixCalcInputs{}, make([]math.Mat4, 1)); n != 0 {
		t.Fatalf("nil.Calc() = %d, want 0", n)
	}
}
