package studytutor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseError reports a quiz payload that could not be read as literal data.
// Raw carries the cleaned payload so the caller can surface it for
// diagnostics.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to load quiz: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseQuizPayload interprets a model reply as a list of quiz questions.
// The payload is read with a literal-only parser: strings, numbers, booleans,
// None/null, lists and mappings. Anything else, identifiers and function
// calls included, is rejected. The text is never executed.
//
// The question count is not validated: the generator is asked for 10, but
// fewer or more are passed through as-is.
func ParseQuizPayload(raw string) ([]QuizQuestion, error) {
	cleaned := stripCodeFences(raw)

	p := &literalParser{input: cleaned}
	val, err := p.parse()
	if err != nil {
		return nil, &ParseError{Raw: cleaned, Err: err}
	}

	questions, err := shapeQuestions(val)
	if err != nil {
		return nil, &ParseError{Raw: cleaned, Err: err}
	}

	logger.WithField("questions", len(questions)).Debug("parsed quiz payload")
	return questions, nil
}

// stripCodeFences drops fence-only lines when the payload arrives wrapped in
// a markdown code block despite the prompt asking for none.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return trimmed
	}

	var kept []string
	for _, line := range strings.Split(trimmed, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func shapeQuestions(val interface{}) ([]QuizQuestion, error) {
	list, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a list of questions, got %T", val)
	}

	questions := make([]QuizQuestion, 0, len(list))
	for i, item := range list {
		record, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("question %d: expected a mapping, got %T", i+1, item)
		}
		q, err := shapeQuestion(record)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func shapeQuestion(record map[string]interface{}) (QuizQuestion, error) {
	var q QuizQuestion

	text, ok := record["question"].(string)
	if !ok {
		return q, fmt.Errorf(`field "question" must be a string`)
	}
	answer, ok := record["answer"].(string)
	if !ok {
		return q, fmt.Errorf(`field "answer" must be a string`)
	}
	rawOptions, ok := record["options"].(map[string]interface{})
	if !ok {
		return q, fmt.Errorf(`field "options" must be a mapping`)
	}

	options := make(map[string]string, len(rawOptions))
	for label, v := range rawOptions {
		optionText, ok := v.(string)
		if !ok {
			return q, fmt.Errorf("option %q must be a string", label)
		}
		options[label] = optionText
	}

	q.Question = text
	q.Options = options
	q.Answer = answer
	return q, nil
}

// literalParser is a recursive-descent reader for constant literals. It
// accepts the grammar the learning-tracking agent is instructed to emit and
// nothing more; in particular there is no identifier, call, or operator
// syntax, which keeps untrusted model output from ever being evaluated.
type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) parse() (interface{}, error) {
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, fmt.Errorf("unexpected trailing input at offset %d", p.pos)
	}
	return v, nil
}

func (p *literalParser) value() (interface{}, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("unexpected end of input")
	}

	switch ch := p.input[p.pos]; {
	case ch == '[':
		return p.list()
	case ch == '{':
		return p.mapping()
	case ch == '\'' || ch == '"':
		return p.stringLit()
	case ch == '-' || ch == '+' || unicode.IsDigit(rune(ch)):
		return p.number()
	default:
		return p.word()
	}
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) list() (interface{}, error) {
	p.pos++ // consume '['
	items := []interface{}{}

	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == ']' {
		p.pos++
		return items, nil
	}

	for {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, fmt.Errorf("unterminated list")
		}
		switch p.input[p.pos] {
		case ',':
			p.pos++
			p.skipSpace()
			// trailing comma
			if p.pos < len(p.input) && p.input[p.pos] == ']' {
				p.pos++
				return items, nil
			}
		case ']':
			p.pos++
			return items, nil
		default:
			return nil, fmt.Errorf("expected ',' or ']' at offset %d", p.pos)
		}
	}
}

func (p *literalParser) mapping() (interface{}, error) {
	p.pos++ // consume '{'
	m := map[string]interface{}{}

	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '}' {
		p.pos++
		return m, nil
	}

	for {
		p.skipSpace()
		if p.pos >= len(p.input) || (p.input[p.pos] != '\'' && p.input[p.pos] != '"') {
			return nil, fmt.Errorf("mapping key must be a string at offset %d", p.pos)
		}
		key, err := p.stringLit()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != ':' {
			return nil, fmt.Errorf("expected ':' at offset %d", p.pos)
		}
		p.pos++

		v, err := p.value()
		if err != nil {
			return nil, err
		}
		m[key.(string)] = v

		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, fmt.Errorf("unterminated mapping")
		}
		switch p.input[p.pos] {
		case ',':
			p.pos++
			p.skipSpace()
			if p.pos < len(p.input) && p.input[p.pos] == '}' {
				p.pos++
				return m, nil
			}
		case '}':
			p.pos++
			return m, nil
		default:
			return nil, fmt.Errorf("expected ',' or '}' at offset %d", p.pos)
		}
	}
}

func (p *literalParser) stringLit() (interface{}, error) {
	quote := p.input[p.pos]
	p.pos++

	var sb strings.Builder
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch ch {
		case quote:
			p.pos++
			return sb.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.input) {
				return nil, fmt.Errorf("unterminated string escape")
			}
			switch esc := p.input[p.pos]; esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"':
				sb.WriteByte(esc)
			default:
				return nil, fmt.Errorf("unsupported string escape %q", string(esc))
			}
			p.pos++
		default:
			sb.WriteByte(ch)
			p.pos++
		}
	}
	return nil, fmt.Errorf("unterminated string")
}

func (p *literalParser) number() (interface{}, error) {
	start := p.pos
	if p.input[p.pos] == '-' || p.input[p.pos] == '+' {
		p.pos++
	}
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if unicode.IsDigit(rune(ch)) || ch == '.' || ch == 'e' || ch == 'E' {
			p.pos++
			continue
		}
		// exponent sign
		if (ch == '+' || ch == '-') && (p.input[p.pos-1] == 'e' || p.input[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}

	text := p.input[start:p.pos]
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return f, nil
}

func (p *literalParser) word() (interface{}, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsLetter(rune(p.input[p.pos])) || p.input[p.pos] == '_') {
		p.pos++
	}
	w := p.input[start:p.pos]

	switch w {
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	case "None", "null":
		return nil, nil
	case "":
		return nil, fmt.Errorf("unexpected character %q at offset %d", string(p.input[p.pos]), p.pos)
	default:
		return nil, fmt.Errorf("identifier %q is not a literal; expressions are not allowed", w)
	}
}
