package action

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NodesHeader es el header "_nodes" de una operación multi-nodo. Misma forma
// que ShardsHeader, pero los fallos de nodo NUNCA se agrupan: los fallos a
// nivel nodo son pocos y específicos, a diferencia del fan-out por shard que
// puede ser de miles. Es una decisión de política, no una restricción
// inherente.
type NodesHeader struct {
	Total      int            `json:"total"`
	Successful int            `json:"successful"`
	Failed     int            `json:"failed"`
	Failures   []*NodeFailure `json:"failures,omitempty"`
}

// NewNodesHeader construye el header desde conteos crudos. Los fallos se
// listan individualmente, en orden de llegada. "failures" se omite cuando no
// hay ninguno. Devuelve ErrInvariant ante conteos inconsistentes.
func NewNodesHeader(total, successful, failed int, failures []*NodeFailure) (*NodesHeader, error) {
	if err := checkCounts(total, successful, failed); err != nil {
		return nil, err
	}
	h := &NodesHeader{Total: total, Successful: successful, Failed: failed}
	if failed > 0 && len(failures) > 0 {
		h.Failures = failures
	}
	return h, nil
}

// NodesHeaderFromOutcome deriva los conteos de una colección de respuestas
// por nodo: total = successful + len(failures). Conviene usar esta variante;
// la de conteos crudos existe para mantener la regla de derivación visible y
// testeable por separado.
func NodesHeaderFromOutcome(successful int, failures []*NodeFailure) (*NodesHeader, error) {
	failed := len(failures)
	return NewNodesHeader(successful+failed, successful, failed, failures)
}

// Envelope es la respuesta top-level de una operación multi-nodo:
//
//	{ "_nodes": {...}, "cluster_name": "...", <campos de la operación...> }
//
// Body es el payload específico de la operación; debe serializar a un objeto
// JSON (sus campos se aplanan en el top-level). Se arma una vez por request y
// se descarta después de serializar.
type Envelope struct {
	Header      *NodesHeader
	ClusterName string
	Body        any
}

// NewEnvelope compone header + identidad del cluster + payload.
func NewEnvelope(header *NodesHeader, clusterName string, body any) *Envelope {
	return &Envelope{Header: header, ClusterName: clusterName, Body: body}
}

// MarshalJSON emite "_nodes" y "cluster_name" primero y después los campos del
// body, aplanados.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"_nodes":`)

	hdr, err := json.Marshal(e.Header)
	if err != nil {
		return nil, err
	}
	buf.Write(hdr)

	name, err := json.Marshal(e.ClusterName)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`,"cluster_name":`)
	buf.Write(name)

	if e.Body != nil {
		raw, err := json.Marshal(e.Body)
		if err != nil {
			return nil, err
		}
		if len(raw) == 0 || raw[0] != '{' {
			return nil, fmt.Errorf("envelope body must serialize to a JSON object, got %q", truncate(raw, 32))
		}
		// aplanar: {"a":1} -> ,"a":1
		inner := raw[1 : len(raw)-1]
		if len(bytes.TrimSpace(inner)) > 0 {
			buf.WriteByte(',')
			buf.Write(inner)
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
