package rulefile

import (
	"errors"
	"testing"

	"github.com/cognicore/sage/pkg/sage/answer"
	"github.com/cognicore/sage/pkg/sage/engine"
)

func mustParseOne(t *testing.T, line string) engine.Rule {
	t.Helper()
	rules, errs := Parse(line)
	if len(errs) > 0 {
		t.Fatalf("Parse(%q): %v", line, errs[0])
	}
	if len(rules) != 1 {
		t.Fatalf("Parse(%q) yielded %d rules", line, len(rules))
	}
	return rules[0].Rule
}

func TestParseBeachRules(t *testing.T) {
	src := `
// beach example
1: TRUEPREDICATE => sky = blue
1: TRUEPREDICATE => season = summer
1: sky == "blue" => weather = sunny
0: TRUEPREDICATE => beach = empty
2: weather == "sunny" AND season == "summer" => beach = full
`
	rules, errs := Parse(src)
	if len(errs) > 0 {
		t.Fatalf("Parse: %v", errs[0])
	}
	if len(rules) != 5 {
		t.Fatalf("parsed %d rules, want 5", len(rules))
	}

	last := rules[4]
	if last.Line != 7 {
		t.Errorf("last rule line = %d, want 7", last.Line)
	}
	if last.Rule.Priority != 2 || last.Rule.Question != "beach" {
		t.Errorf("last rule = %+v", last.Rule)
	}
	want := engine.And{Operands: []engine.Predicate{
		engine.Comparison{
			LHS: engine.QuestionExpr{Question: "weather"},
			Op:  engine.OpEqual,
			RHS: engine.AnswerExpr{Answer: answer.String("sunny")},
		},
		engine.Comparison{
			LHS: engine.QuestionExpr{Question: "season"},
			Op:  engine.OpEqual,
			RHS: engine.AnswerExpr{Answer: answer.String("summer")},
		},
	}}
	if !last.Rule.Predicate.Equal(want) {
		t.Errorf("predicate = %v, want %v", last.Rule.Predicate, want)
	}
	if s, _ := last.Rule.Answer.Str(); s != "full" {
		t.Errorf("answer = %v", last.Rule.Answer)
	}
}

func TestParseTypedAnswers(t *testing.T) {
	cases := []struct {
		line string
		want answer.Answer
	}{
		{`1: TRUEPREDICATE => q = (bool)true`, answer.Bool(true)},
		{`1: TRUEPREDICATE => q = (int)-4`, answer.Int(-4)},
		{`1: TRUEPREDICATE => q = (double)2.5`, answer.Double(2.5)},
		{`1: TRUEPREDICATE => q = (string)hello world`, answer.String("hello world")},
		{`1: TRUEPREDICATE => q = plain text`, answer.String("plain text")},
	}
	for _, c := range cases {
		r := mustParseOne(t, c.line)
		if !r.Answer.Same(c.want) {
			t.Errorf("%s: answer = %v, want %v", c.line, r.Answer, c.want)
		}
		if r.Assignment != "" {
			t.Errorf("%s: unexpected assignment %q", c.line, r.Assignment)
		}
	}
}

func TestParseAssignment(t *testing.T) {
	r := mustParseOne(t, `3: TRUEPREDICATE => total = (sum)a b c`)
	if r.Assignment != "sum" {
		t.Errorf("assignment = %q, want sum", r.Assignment)
	}
	if s, _ := r.Answer.Str(); s != "a b c" {
		t.Errorf("payload = %v", r.Answer)
	}
}

func TestParseOperators(t *testing.T) {
	cases := []struct {
		src string
		op  engine.Op
	}{
		{`n == 3`, engine.OpEqual},
		{`n != 3`, engine.OpNotEqual},
		{`n < 3`, engine.OpLess},
		{`n > 3`, engine.OpGreater},
		{`n <= 3`, engine.OpLessOrEqual},
		{`n >= 3`, engine.OpGreaterOrEqual},
	}
	for _, c := range cases {
		p, err := ParsePredicate(c.src)
		if err != nil {
			t.Fatalf("ParsePredicate(%q): %v", c.src, err)
		}
		cmp, ok := p.(engine.Comparison)
		if !ok {
			t.Fatalf("ParsePredicate(%q) = %T", c.src, p)
		}
		if cmp.Op != c.op {
			t.Errorf("%q: op = %v, want %v", c.src, cmp.Op, c.op)
		}
	}
}

func TestParsePredicateShapes(t *testing.T) {
	cases := []struct {
		src  string
		want engine.Predicate
	}{
		{`TRUEPREDICATE`, engine.True{}},
		{`FALSEPREDICATE`, engine.False{}},
		{`NOT n == 3`, engine.Not{Operand: engine.Comparison{
			LHS: engine.QuestionExpr{Question: "n"},
			Op:  engine.OpEqual,
			RHS: engine.AnswerExpr{Answer: answer.Int(3)},
		}}},
		{`a == 1 OR b == 2 AND c == 3`, engine.Or{Operands: []engine.Predicate{
			engine.Comparison{
				LHS: engine.QuestionExpr{Question: "a"},
				Op:  engine.OpEqual,
				RHS: engine.AnswerExpr{Answer: answer.Int(1)},
			},
			engine.And{Operands: []engine.Predicate{
				engine.Comparison{
					LHS: engine.QuestionExpr{Question: "b"},
					Op:  engine.OpEqual,
					RHS: engine.AnswerExpr{Answer: answer.Int(2)},
				},
				engine.Comparison{
					LHS: engine.QuestionExpr{Question: "c"},
					Op:  engine.OpEqual,
					RHS: engine.AnswerExpr{Answer: answer.Int(3)},
				},
			}},
		}}},
		{`(a == 1 OR b == 2) AND c == 3`, engine.And{Operands: []engine.Predicate{
			engine.Or{Operands: []engine.Predicate{
				engine.Comparison{
					LHS: engine.QuestionExpr{Question: "a"},
					Op:  engine.OpEqual,
					RHS: engine.AnswerExpr{Answer: answer.Int(1)},
				},
				engine.Comparison{
					LHS: engine.QuestionExpr{Question: "b"},
					Op:  engine.OpEqual,
					RHS: engine.AnswerExpr{Answer: answer.Int(2)},
				},
			}},
			engine.Comparison{
				LHS: engine.QuestionExpr{Question: "c"},
				Op:  engine.OpEqual,
				RHS: engine.AnswerExpr{Answer: answer.Int(3)},
			},
		}}},
		{`level.alarm == true`, engine.Comparison{
			LHS: engine.QuestionExpr{Question: "level.alarm"},
			Op:  engine.OpEqual,
			RHS: engine.AnswerExpr{Answer: answer.Bool(true)},
		}},
		{`n >= -2.5`, engine.Comparison{
			LHS: engine.QuestionExpr{Question: "n"},
			Op:  engine.OpGreaterOrEqual,
			RHS: engine.AnswerExpr{Answer: answer.Double(-2.5)},
		}},
		{`(a == 1) == flag`, engine.Comparison{
			LHS: engine.PredicateExpr{Predicate: engine.Comparison{
				LHS: engine.QuestionExpr{Question: "a"},
				Op:  engine.OpEqual,
				RHS: engine.AnswerExpr{Answer: answer.Int(1)},
			}},
			Op:  engine.OpEqual,
			RHS: engine.QuestionExpr{Question: "flag"},
		}},
		{`a == 1 && b == 2`, engine.And{Operands: []engine.Predicate{
			engine.Comparison{
				LHS: engine.QuestionExpr{Question: "a"},
				Op:  engine.OpEqual,
				RHS: engine.AnswerExpr{Answer: answer.Int(1)},
			},
			engine.Comparison{
				LHS: engine.QuestionExpr{Question: "b"},
				Op:  engine.OpEqual,
				RHS: engine.AnswerExpr{Answer: answer.Int(2)},
			},
		}}},
	}
	for _, c := range cases {
		p, err := ParsePredicate(c.src)
		if err != nil {
			t.Fatalf("ParsePredicate(%q): %v", c.src, err)
		}
		if !p.Equal(c.want) {
			t.Errorf("ParsePredicate(%q) = %v, want %v", c.src, p, c.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		line string
		want error
	}{
		{`x: TRUEPREDICATE => q = a`, ErrNotARule},
		{`1 TRUEPREDICATE => q = a`, ErrMissingPriority},
		{`1: TRUEPREDICATE q = a`, ErrMissingImplication},
		{`1: TRUEPREDICATE => q a`, ErrMissingAnswer},
		{`1: TRUEPREDICATE => = a`, ErrEmptyQuestion},
		{`1: TRUEPREDICATE => q = (bool)maybe`, ErrUnknownAnswerKeyword},
		{`1: TRUEPREDICATE => q = (not a name)x`, ErrUnknownAnswerKeyword},
		{`1: TRUEPREDICATE => q = (sum)`, ErrEmptyAnswer},
		{`1: n == => q = a`, ErrInputWasNotRecognized},
		{`1: 3 => q = a`, ErrUnsupportedConstantValue},
		{`1: n => q = a`, ErrUnsupportedExpression},
	}
	for _, c := range cases {
		_, errs := Parse(c.line)
		if len(errs) != 1 {
			t.Fatalf("Parse(%q) yielded %d errors, want 1", c.line, len(errs))
		}
		if !errors.Is(errs[0], c.want) {
			t.Errorf("Parse(%q) error = %v, want %v", c.line, errs[0], c.want)
		}
	}
}

func TestParseCollectsAllErrors(t *testing.T) {
	src := `1: TRUEPREDICATE => q = a
2: broken
3: TRUEPREDICATE q = b`
	rules, errs := Parse(src)
	if len(rules) != 1 {
		t.Errorf("parsed %d rules, want 1", len(rules))
	}
	if len(errs) != 2 {
		t.Fatalf("collected %d errors, want 2", len(errs))
	}
	if errs[0].Line != 2 || errs[1].Line != 3 {
		t.Errorf("error lines = %d, %d", errs[0].Line, errs[1].Line)
	}
}

func TestConversionRejects(t *testing.T) {
	if _, err := ParsePredicate(``); !errors.Is(err, ErrInputWasNotRecognized) {
		t.Errorf("empty predicate error = %v", err)
	}
	if _, err := ParsePredicate(`"lonely"`); !errors.Is(err, ErrUnsupportedConstantValue) {
		t.Errorf("bare string error = %v", err)
	}
}
