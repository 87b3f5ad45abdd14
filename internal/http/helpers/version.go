package helpers

import (
	"net/http"

	"github.com/dropDatabas3/searchjohn/internal/version"
)

// ResolveVersion extrae la versión esperada de un request.
//
// Precedencia: el query param `version` gana siempre; si no está presente se
// consulta el header If-Match; si tampoco está, se devuelve version.MatchAny
// (la operación acepta cualquier versión actual). Un valor presente pero no
// parseable corta con *version.ParseError, nunca se degrada al default.
func ResolveVersion(r *http.Request) (int64, error) {
	q := r.URL.Query()
	if q.Has("version") {
		return version.Parse("version", q.Get("version"))
	}
	if h := r.Header.Get("If-Match"); h != "" {
		return version.Parse("If-Match", h)
	}
	return version.MatchAny, nil
}

// ResolveVersionDefault es ResolveVersion con un default distinto: si el
// request no trae versión explícita (ni param ni header), devuelve def en
// lugar del centinela. Una versión explícita siempre gana sobre def.
func ResolveVersionDefault(r *http.Request, def int64) (int64, error) {
	v, err := ResolveVersion(r)
	if err != nil {
		return 0, err
	}
	if version.IsMatchAny(v) {
		return def, nil
	}
	return v, nil
}
