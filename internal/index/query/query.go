// Package query traduce los parámetros de búsqueda del query string
// (q, df, analyzer, default_operator, ...) en un objeto Query evaluable.
// Es el colaborador de construcción de queries: consume los mismos inputs de
// request que el resolver de versiones, pero no toca versiones ni storage.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Operator es el operador booleano por defecto entre términos.
type Operator int

const (
	// OperatorOr: alcanza con que un término matchee (default).
	OperatorOr Operator = iota
	// OperatorAnd: todos los términos tienen que matchear.
	OperatorAnd
)

// ErrUnknownOperator indica un default_operator que no es "and" ni "or".
var ErrUnknownOperator = errors.New("unknown default operator")

// OperatorFromString parsea "and"/"or" (case-insensitive).
func OperatorFromString(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "or":
		return OperatorOr, nil
	case "and":
		return OperatorAnd, nil
	default:
		return OperatorOr, fmt.Errorf("%w: %q", ErrUnknownOperator, s)
	}
}

func (o Operator) String() string {
	if o == OperatorAnd {
		return "and"
	}
	return "or"
}

// Query es una búsqueda por texto sobre los campos de un documento.
// Inmutable una vez construida.
type Query struct {
	Text            string   // texto crudo de "q"
	DefaultField    string   // "df": si está, solo se busca en ese campo
	Analyzer        string   // nombre del analyzer ("standard" default)
	AnalyzeWildcard bool     // habilita matching con sufijo '*'
	Lenient         bool     // tolera valores no-string en los documentos
	Operator        Operator // operador entre términos

	terms []string
}

// FromURLParams construye una Query desde los parámetros del request.
// Devuelve (nil, nil) si no hay parámetro "q": el caller decide qué hacer con
// una búsqueda vacía (match-all).
func FromURLParams(values url.Values) (*Query, error) {
	text := values.Get("q")
	if text == "" {
		return nil, nil
	}

	q := &Query{
		Text:         text,
		DefaultField: values.Get("df"),
		Analyzer:     values.Get("analyzer"),
	}
	if q.Analyzer == "" {
		q.Analyzer = "standard"
	}

	if v := values.Get("analyze_wildcard"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid analyze_wildcard %q", v)
		}
		q.AnalyzeWildcard = b
	}
	if v := values.Get("lenient"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid lenient %q", v)
		}
		q.Lenient = b
	}
	if v := values.Get("default_operator"); v != "" {
		op, err := OperatorFromString(v)
		if err != nil {
			return nil, err
		}
		q.Operator = op
	}

	q.terms = analyze(text)
	return q, nil
}

// analyze tokeniza el texto en términos lowercase separados por espacios.
func analyze(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, f)
	}
	return terms
}

// Matches evalúa la query contra el source JSON de un documento.
// Con Lenient, un source que no parsea simplemente no matchea en vez de
// devolver error.
func (q *Query) Matches(source json.RawMessage) (bool, error) {
	var doc map[string]any
	if err := json.Unmarshal(source, &doc); err != nil {
		if q.Lenient {
			return false, nil
		}
		return false, fmt.Errorf("malformed document source: %w", err)
	}

	if len(q.terms) == 0 {
		return true, nil
	}

	matched := 0
	for _, term := range q.terms {
		if q.termMatches(term, doc) {
			matched++
		}
	}
	if q.Operator == OperatorAnd {
		return matched == len(q.terms), nil
	}
	return matched > 0, nil
}

func (q *Query) termMatches(term string, doc map[string]any) bool {
	wildcard := false
	if q.AnalyzeWildcard && strings.HasSuffix(term, "*") {
		term = strings.TrimSuffix(term, "*")
		wildcard = true
	}

	match := func(v string) bool {
		v = strings.ToLower(v)
		for _, tok := range strings.Fields(v) {
			if tok == term {
				return true
			}
			if wildcard && strings.HasPrefix(tok, term) {
				return true
			}
		}
		return false
	}

	if q.DefaultField != "" {
		return matchValue(doc[q.DefaultField], match, q.Lenient)
	}
	for _, v := range doc {
		if matchValue(v, match, q.Lenient) {
			return true
		}
	}
	return false
}

// matchValue baja a strings los valores escalares de un documento.
// Valores no representables (objetos anidados) solo se ignoran si lenient.
func matchValue(v any, match func(string) bool, lenient bool) bool {
	switch t := v.(type) {
	case string:
		return match(t)
	case float64:
		return match(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		return match(strconv.FormatBool(t))
	case []any:
		for _, e := range t {
			if matchValue(e, match, lenient) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
