package query_test

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/dropDatabas3/searchjohn/internal/index/query"
)

func mustValues(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("parse query %q: %v", raw, err)
	}
	return v
}

func TestFromURLParams_NoQ(t *testing.T) {
	q, err := query.FromURLParams(mustValues(t, "df=title"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != nil {
		t.Fatal("no q param should yield nil query")
	}
}

func TestFromURLParams_AllParams(t *testing.T) {
	q, err := query.FromURLParams(mustValues(t,
		"q=red+shoes&df=title&analyzer=whitespace&analyze_wildcard=true&lenient=true&default_operator=AND"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.DefaultField != "title" || q.Analyzer != "whitespace" {
		t.Fatalf("df/analyzer not picked up: %+v", q)
	}
	if !q.AnalyzeWildcard || !q.Lenient {
		t.Fatalf("flags not picked up: %+v", q)
	}
	if q.Operator != query.OperatorAnd {
		t.Fatalf("operator=%v, want and", q.Operator)
	}
}

func TestFromURLParams_BadOperator(t *testing.T) {
	_, err := query.FromURLParams(mustValues(t, "q=x&default_operator=xor"))
	if !errors.Is(err, query.ErrUnknownOperator) {
		t.Fatalf("expected ErrUnknownOperator, got %v", err)
	}
}

func TestMatches_Operators(t *testing.T) {
	doc := json.RawMessage(`{"title":"red shoes","desc":"leather"}`)

	qOr, err := query.FromURLParams(mustValues(t, "q=red+hat"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if ok, _ := qOr.Matches(doc); !ok {
		t.Fatal("OR: one matching term should match")
	}

	qAnd, err := query.FromURLParams(mustValues(t, "q=red+hat&default_operator=and"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if ok, _ := qAnd.Matches(doc); ok {
		t.Fatal("AND: missing term should not match")
	}

	qAnd2, err := query.FromURLParams(mustValues(t, "q=red+shoes&default_operator=and"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if ok, _ := qAnd2.Matches(doc); !ok {
		t.Fatal("AND: all terms present should match")
	}
}

func TestMatches_DefaultField(t *testing.T) {
	doc := json.RawMessage(`{"title":"red shoes","desc":"blue box"}`)

	q, err := query.FromURLParams(mustValues(t, "q=blue&df=title"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if ok, _ := q.Matches(doc); ok {
		t.Fatal("df=title should not look at desc")
	}
}

func TestMatches_Wildcard(t *testing.T) {
	doc := json.RawMessage(`{"title":"searching"}`)

	q, err := query.FromURLParams(mustValues(t, "q=search*&analyze_wildcard=true"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if ok, _ := q.Matches(doc); !ok {
		t.Fatal("wildcard prefix should match")
	}

	// sin analyze_wildcard el '*' es literal
	q2, err := query.FromURLParams(mustValues(t, "q=search*"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if ok, _ := q2.Matches(doc); ok {
		t.Fatal("literal '*' should not match")
	}
}

func TestMatches_Lenient(t *testing.T) {
	bad := json.RawMessage(`{not json`)

	strict, err := query.FromURLParams(mustValues(t, "q=x"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if _, err := strict.Matches(bad); err == nil {
		t.Fatal("strict query should error on malformed source")
	}

	lenient, err := query.FromURLParams(mustValues(t, "q=x&lenient=true"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	ok, err := lenient.Matches(bad)
	if err != nil || ok {
		t.Fatalf("lenient should skip malformed source: ok=%v err=%v", ok, err)
	}
}

func TestMatches_NumberAndBool(t *testing.T) {
	doc := json.RawMessage(`{"stock":42,"active":true}`)

	q, err := query.FromURLParams(mustValues(t, "q=42"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if ok, _ := q.Matches(doc); !ok {
		t.Fatal("numeric value should be searchable as text")
	}
}
