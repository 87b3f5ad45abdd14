package helpers_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dropDatabas3/searchjohn/internal/http/helpers"
	"github.com/dropDatabas3/searchjohn/internal/version"
)

func TestResolveVersion_ParamWinsOverHeader(t *testing.T) {
	r := httptest.NewRequest("PUT", "/v1/indices/idx/docs/1?version=5", nil)
	r.Header.Set("If-Match", "9")

	v, err := helpers.ResolveVersion(r)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if v != 5 {
		t.Fatalf("v=%d, want 5 (param has precedence)", v)
	}
}

func TestResolveVersion_HeaderFallback(t *testing.T) {
	r := httptest.NewRequest("PUT", "/v1/indices/idx/docs/1", nil)
	r.Header.Set("If-Match", "9")

	v, err := helpers.ResolveVersion(r)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if v != 9 {
		t.Fatalf("v=%d, want 9", v)
	}
}

func TestResolveVersion_AbsentIsMatchAny(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/indices/idx/docs/1", nil)

	v, err := helpers.ResolveVersion(r)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !version.IsMatchAny(v) {
		t.Fatalf("v=%d, want match-any sentinel", v)
	}
}

func TestResolveVersion_MalformedParam(t *testing.T) {
	r := httptest.NewRequest("PUT", "/v1/indices/idx/docs/1?version=abc", nil)

	_, err := helpers.ResolveVersion(r)
	var parseErr *version.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("want *version.ParseError, got %v", err)
	}
	if parseErr.Source != "version" || parseErr.Value != "abc" {
		t.Fatalf("parse error fields: %+v", parseErr)
	}
}

func TestResolveVersion_MalformedHeader(t *testing.T) {
	r := httptest.NewRequest("PUT", "/v1/indices/idx/docs/1", nil)
	r.Header.Set("If-Match", "not-a-version")

	_, err := helpers.ResolveVersion(r)
	var parseErr *version.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("want *version.ParseError, got %v", err)
	}
	if parseErr.Source != "If-Match" {
		t.Fatalf("source=%q, want If-Match", parseErr.Source)
	}
}

func TestResolveVersion_EmptyParamValueStillParses(t *testing.T) {
	// ?version= presente pero vacío: es un valor explícito inválido, no una
	// ausencia. Debe fallar, no degradar al centinela.
	r := httptest.NewRequest("PUT", "/v1/indices/idx/docs/1?version=", nil)

	if _, err := helpers.ResolveVersion(r); err == nil {
		t.Fatal("empty explicit version should fail to parse")
	}
}

func TestResolveVersionDefault_UsesDefaultWhenAbsent(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/indices/idx/docs/1", nil)

	v, err := helpers.ResolveVersionDefault(r, 3)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if v != 3 {
		t.Fatalf("v=%d, want default 3", v)
	}
}

func TestResolveVersionDefault_ExplicitWinsOverDefault(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/indices/idx/docs/1?version=7", nil)

	v, err := helpers.ResolveVersionDefault(r, 3)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if v != 7 {
		t.Fatalf("v=%d, want explicit 7", v)
	}
}

func TestResolveVersionDefault_MalformedDoesNotFallBack(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/indices/idx/docs/1?version=xyz", nil)

	if _, err := helpers.ResolveVersionDefault(r, 3); err == nil {
		t.Fatal("malformed version must error, never silently use default")
	}
}
