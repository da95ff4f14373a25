package rulefile

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/cognicore/sage/pkg/sage/answer"
	"github.com/cognicore/sage/pkg/sage/engine"
)

// Rule-line errors.
var (
	ErrNotARule             = errors.New("line is not a rule")
	ErrMissingPriority      = errors.New(`missing ":" after priority`)
	ErrInvalidPriority      = errors.New("invalid priority")
	ErrMissingImplication   = errors.New(`missing "=>"`)
	ErrMissingAnswer        = errors.New(`missing "=" before answer`)
	ErrEmptyQuestion        = errors.New("empty question")
	ErrUnknownAnswerKeyword = errors.New("unknown typed-answer keyword")
	ErrEmptyAnswer          = errors.New("empty answer after assignment delimiter")
)

// ParseError is a rule-file diagnostic tied to a source line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParsedRule is a rule together with its source line, kept for linting
// and diagnostics.
type ParsedRule struct {
	Line   int
	Source string
	Rule   engine.Rule
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse reads a human rule file. Comments start with "//", blank lines
// are skipped, and every line whose first non-whitespace character is a
// digit must be a well-formed rule. Parsing continues past bad lines so
// a single pass reports every diagnostic.
func Parse(src string) ([]ParsedRule, []*ParseError) {
	var rules []ParsedRule
	var errs []*ParseError

	for i, line := range strings.Split(src, "\n") {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		rule, err := parseLine(trimmed)
		if err != nil {
			errs = append(errs, &ParseError{Line: lineNum, Err: err})
			continue
		}
		rules = append(rules, ParsedRule{Line: lineNum, Source: trimmed, Rule: rule})
	}

	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].Line != errs[j].Line {
			return errs[i].Line < errs[j].Line
		}
		return errs[i].Err.Error() < errs[j].Err.Error()
	})
	return rules, errs
}

func parseLine(line string) (engine.Rule, error) {
	if !unicode.IsDigit(rune(line[0])) {
		return engine.Rule{}, ErrNotARule
	}

	colon := strings.Index(line, ":")
	if colon < 0 {
		return engine.Rule{}, ErrMissingPriority
	}
	priority, err := strconv.Atoi(strings.TrimSpace(line[:colon]))
	if err != nil {
		return engine.Rule{}, fmt.Errorf("%w: %q", ErrInvalidPriority, strings.TrimSpace(line[:colon]))
	}

	rest := line[colon+1:]
	arrow := strings.Index(rest, "=>")
	if arrow < 0 {
		return engine.Rule{}, ErrMissingImplication
	}
	predicateSrc := strings.TrimSpace(rest[:arrow])
	consequent := rest[arrow+2:]

	eq := strings.Index(consequent, "=")
	if eq < 0 {
		return engine.Rule{}, ErrMissingAnswer
	}
	question := strings.TrimSpace(consequent[:eq])
	if question == "" {
		return engine.Rule{}, ErrEmptyQuestion
	}
	answerSpec := strings.TrimSpace(consequent[eq+1:])

	predicate, err := ParsePredicate(predicateSrc)
	if err != nil {
		return engine.Rule{}, err
	}

	ans, assignment, err := parseAnswerSpec(answerSpec)
	if err != nil {
		return engine.Rule{}, err
	}

	return engine.Rule{
		Priority:   priority,
		Predicate:  predicate,
		Question:   engine.Question(question),
		Answer:     ans,
		Assignment: assignment,
	}, nil
}

// parseAnswerSpec handles the right-hand side after "=": either a bare
// string answer, a typed answer `(bool|int|double|string)payload`, or an
// assignment `(<name>)payload` carrying a string answer.
func parseAnswerSpec(spec string) (answer.Answer, string, error) {
	if !strings.HasPrefix(spec, "(") {
		return answer.String(spec), "", nil
	}
	end := strings.Index(spec, ")")
	if end < 0 {
		return answer.Answer{}, "", fmt.Errorf("%w: unterminated %q", ErrUnknownAnswerKeyword, spec)
	}
	keyword := strings.TrimSpace(spec[1:end])
	payload := strings.TrimSpace(spec[end+1:])

	switch keyword {
	case "bool":
		v, err := strconv.ParseBool(payload)
		if err != nil {
			return answer.Answer{}, "", fmt.Errorf("%w: (bool)%s", ErrUnknownAnswerKeyword, payload)
		}
		return answer.Bool(v), "", nil
	case "int":
		v, err := strconv.ParseInt(payload, 10, 64)
		if err != nil {
			return answer.Answer{}, "", fmt.Errorf("%w: (int)%s", ErrUnknownAnswerKeyword, payload)
		}
		return answer.Int(v), "", nil
	case "double":
		v, err := strconv.ParseFloat(payload, 64)
		if err != nil {
			return answer.Answer{}, "", fmt.Errorf("%w: (double)%s", ErrUnknownAnswerKeyword, payload)
		}
		return answer.Double(v), "", nil
	case "string":
		return answer.String(payload), "", nil
	}

	if !identPattern.MatchString(keyword) {
		return answer.Answer{}, "", fmt.Errorf("%w: %q", ErrUnknownAnswerKeyword, keyword)
	}
	if payload == "" {
		return answer.Answer{}, "", ErrEmptyAnswer
	}
	return answer.String(payload), keyword, nil
}
