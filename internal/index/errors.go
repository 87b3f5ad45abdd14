package index

import "errors"

// Errores de dominio del store. Los controllers los mapean a AppError HTTP.
var (
	ErrInvalidName     = errors.New("invalid index name")
	ErrIndexNotFound   = errors.New("index not found")
	ErrIndexExists     = errors.New("index already exists")
	ErrIndexClosed     = errors.New("index closed")
	ErrDocNotFound     = errors.New("document not found")
	ErrVersionConflict = errors.New("version conflict")
)
