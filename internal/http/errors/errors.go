package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/searchjohn/internal/action"
	"github.com/dropDatabas3/searchjohn/internal/index"
	"github.com/dropDatabas3/searchjohn/internal/index/query"
	"github.com/dropDatabas3/searchjohn/internal/version"
)

// errorResponse estructura interna para la serialización JSON.
// Nos permite controlar exactamente qué campos se envían al cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// FromError convierte un error genérico en un AppError.
// Mapea los sentinelas del dominio a su status HTTP; cualquier otro error
// termina como 500 conservando la causa para los logs.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var parseErr *version.ParseError
	if stderrors.As(err, &parseErr) {
		return ErrInvalidVersion.WithDetail(parseErr.Error()).WithCause(err)
	}

	switch {
	case stderrors.Is(err, index.ErrInvalidName):
		return ErrInvalidIndexName.WithDetail(err.Error()).WithCause(err)
	case stderrors.Is(err, index.ErrIndexNotFound):
		return ErrIndexNotFound.WithCause(err)
	case stderrors.Is(err, index.ErrDocNotFound):
		return ErrDocumentNotFound.WithCause(err)
	case stderrors.Is(err, index.ErrIndexExists):
		return ErrIndexExists.WithCause(err)
	case stderrors.Is(err, index.ErrVersionConflict):
		return ErrVersionConflict.WithDetail(err.Error()).WithCause(err)
	case stderrors.Is(err, index.ErrIndexClosed):
		return ErrIndexClosed.WithCause(err)
	case stderrors.Is(err, query.ErrUnknownOperator):
		return ErrInvalidQuery.WithDetail(err.Error()).WithCause(err)
	case stderrors.Is(err, action.ErrInvariant):
		// Contadores inconsistentes en un header: bug nuestro, nunca del cliente.
		return ErrInternalServerError.WithCause(err)
	}
	return ErrInternalServerError.WithCause(err)
}

// WriteError escribe una respuesta HTTP basada en el error proporcionado.
// Maneja automáticamente errores de tipo *AppError y errores genéricos.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
