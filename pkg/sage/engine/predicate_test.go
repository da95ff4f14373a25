package engine

import (
	"testing"

	"github.com/cognicore/sage/pkg/sage/answer"
)

func comparison(q Question, op Op, a answer.Answer) Comparison {
	return Comparison{LHS: QuestionExpr{Question: q}, Op: op, RHS: AnswerExpr{Answer: a}}
}

func TestPredicateSize(t *testing.T) {
	cmp := comparison("a", OpEqual, answer.Int(1))
	cases := []struct {
		name string
		p    Predicate
		want int
	}{
		{"false", False{}, 0},
		{"true", True{}, 0},
		{"comparison", cmp, 1},
		{"not", Not{Operand: cmp}, 1},
		{"and", And{Operands: []Predicate{cmp, cmp, cmp}}, 3},
		{"and empty", And{}, 0},
		{"or takes max", Or{Operands: []Predicate{cmp, And{Operands: []Predicate{cmp, cmp}}}}, 2},
		{"or empty", Or{}, 0},
		{"not of and", Not{Operand: And{Operands: []Predicate{cmp, cmp}}}, 2},
	}
	for _, c := range cases {
		if got := c.p.Size(); got != c.want {
			t.Errorf("%s: Size() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestPredicateEqual(t *testing.T) {
	a := comparison("q", OpLess, answer.Int(3))
	b := comparison("q", OpLess, answer.Int(3))
	if !a.Equal(b) {
		t.Error("identical comparisons are not Equal")
	}
	if a.Equal(comparison("q", OpLess, answer.Double(3))) {
		t.Error("comparisons with different literal variants are Equal")
	}
	if a.Equal(comparison("q", OpGreater, answer.Int(3))) {
		t.Error("comparisons with different operators are Equal")
	}

	left := And{Operands: []Predicate{True{}, Not{Operand: a}}}
	right := And{Operands: []Predicate{True{}, Not{Operand: b}}}
	if !left.Equal(right) {
		t.Error("structurally identical trees are not Equal")
	}
	if left.Equal(Or{Operands: left.Operands}) {
		t.Error("And equals Or with the same operands")
	}
	if (True{}).Equal(False{}) {
		t.Error("True equals False")
	}
}

func TestOpNames(t *testing.T) {
	for op, want := range map[Op]string{
		OpEqual:          "isEqualTo",
		OpNotEqual:       "isNotEqualTo",
		OpLess:           "isLessThan",
		OpGreater:        "isGreaterThan",
		OpLessOrEqual:    "isLessThanOrEqualTo",
		OpGreaterOrEqual: "isGreaterThanOrEqualTo",
	} {
		if op.String() != want {
			t.Errorf("%d.String() = %s, want %s", op, op.String(), want)
		}
		parsed, err := ParseOp(want)
		if err != nil || parsed != op {
			t.Errorf("ParseOp(%s) = %v, %v", want, parsed, err)
		}
	}
	if _, err := ParseOp("isRoughlyEqualTo"); err == nil {
		t.Error("ParseOp accepted an unknown name")
	}
}

func TestOpSwap(t *testing.T) {
	swaps := map[Op]Op{
		OpEqual:          OpEqual,
		OpNotEqual:       OpNotEqual,
		OpLess:           OpGreater,
		OpGreater:        OpLess,
		OpLessOrEqual:    OpGreaterOrEqual,
		OpGreaterOrEqual: OpLessOrEqual,
	}
	for op, want := range swaps {
		if got := op.swapped(); got != want {
			t.Errorf("%v.swapped() = %v, want %v", op, got, want)
		}
	}
}

func TestQuestionSet(t *testing.T) {
	s := NewQuestionSet("a", "b")
	s.Add("c")
	s.Union(NewQuestionSet("b", "d"))

	if !s.Equal(NewQuestionSet("a", "b", "c", "d")) {
		t.Errorf("set = %v", s.Slice())
	}
	if got := s.Slice(); len(got) != 4 || got[0] != "a" || got[3] != "d" {
		t.Errorf("Slice() = %v, want sorted [a b c d]", got)
	}

	clone := s.Clone()
	clone.Add("e")
	if s.Contains("e") {
		t.Error("Clone shares storage with the original")
	}
}
