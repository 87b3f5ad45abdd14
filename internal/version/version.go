// Package version define la semántica de versiones de documentos usada para
// control de concurrencia optimista (OCC). Es puro parsing: el chequeo contra
// el documento almacenado vive en internal/index.
package version

import (
	"fmt"
	"strconv"
)

// MatchAny es el sentinel "sin restricción de versión": la operación se aplica
// sin importar la versión actual del documento.
const MatchAny int64 = -3

// ParseError indica que un valor de versión (query param o header) no es un
// entero de 64 bits válido. Es un error de request malformado: se reporta al
// cliente, no se recupera.
type ParseError struct {
	Source string // "version" | "If-Match"
	Value  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid version %q in %s", e.Value, e.Source)
}

// Parse convierte un string en una versión. source identifica de dónde vino el
// valor para armar un mensaje de error útil.
func Parse(source, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ParseError{Source: source, Value: s}
	}
	return v, nil
}

// IsMatchAny reporta si v es el sentinel MatchAny.
func IsMatchAny(v int64) bool { return v == MatchAny }
