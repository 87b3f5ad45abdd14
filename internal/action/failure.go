// Package action contiene los value objects de agregación para operaciones
// distribuidas: fallos por unidad (shard/nodo), headers _shards/_nodes y el
// envelope de respuestas multi-nodo.
//
// Todo acá es puro y request-scoped: los structs son inmutables una vez
// construidos, no hay estado compartido entre requests y no se requiere
// locking. La distribución (fan-out/fan-in) es externa; este paquete solo
// transforma resultados ya materializados en estructuras listas para
// serializar.
package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Failure es la capacidad común de un fallo por unidad de ejecución.
// Cada fallo es atribuible a exactamente una unidad (shard o nodo).
type Failure interface {
	// Reason devuelve el mensaje del fallo (nivel superior de la cadena).
	Reason() string
}

// ShardFailure describe el fallo de un shard durante una operación broadcast.
// Inmutable después de construido.
type ShardFailure struct {
	Index  string // índice al que pertenece el shard
	Shard  int    // id del shard dentro del índice
	Status int    // status HTTP equivalente del fallo
	Err    error  // causa (cadena navegable via errors.Unwrap)
}

// NewShardFailure construye un ShardFailure.
func NewShardFailure(index string, shard, status int, err error) *ShardFailure {
	return &ShardFailure{Index: index, Shard: shard, Status: status, Err: err}
}

func (f *ShardFailure) Reason() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// MarshalJSON serializa el fallo con su cadena de causas.
func (f *ShardFailure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Shard  int         `json:"shard"`
		Index  string      `json:"index"`
		Status int         `json:"status"`
		Reason *reasonJSON `json:"reason"`
	}{
		Shard:  f.Shard,
		Index:  f.Index,
		Status: f.Status,
		Reason: newReasonJSON(f.Err),
	})
}

// NodeFailure describe el fallo de un nodo en una operación multi-nodo.
// Inmutable después de construido.
type NodeFailure struct {
	NodeID string
	Err    error
}

// NewNodeFailure construye un NodeFailure.
func NewNodeFailure(nodeID string, err error) *NodeFailure {
	return &NodeFailure{NodeID: nodeID, Err: err}
}

func (f *NodeFailure) Reason() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

func (f *NodeFailure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		NodeID string      `json:"node_id"`
		Reason *reasonJSON `json:"reason"`
	}{
		NodeID: f.NodeID,
		Reason: newReasonJSON(f.Err),
	})
}

// reasonJSON es la forma serializada de una cadena de errores:
// {"type": "...", "reason": "...", "caused_by": {...}}
type reasonJSON struct {
	Type     string      `json:"type"`
	Reason   string      `json:"reason"`
	CausedBy *reasonJSON `json:"caused_by,omitempty"`
}

func newReasonJSON(err error) *reasonJSON {
	if err == nil {
		return nil
	}
	return &reasonJSON{
		Type:     errorType(err),
		Reason:   err.Error(),
		CausedBy: newReasonJSON(errors.Unwrap(err)),
	}
}

// errorType devuelve un nombre estable para el tipo del error, sin el prefijo
// de puntero. Para errores de fmt.Errorf queda "fmt.wrapError"; para sentinels
// de errors.New, "errors.errorString".
func errorType(err error) string {
	t := fmt.Sprintf("%T", err)
	return strings.TrimPrefix(t, "*")
}

// ErrInvariant marca una violación de invariantes de conteo (valores negativos
// o successful+failed != total). Indica un bug del collector que invocó al
// builder: se aborta la agregación, no se corrige en silencio.
var ErrInvariant = errors.New("invariant violation")
