package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FailureGroup es el representante de un grupo de ShardFailure con la misma
// causa raíz. Transitorio: se produce por respuesta, nunca se persiste.
type FailureGroup struct {
	Representative *ShardFailure
	Members        int // cantidad de fallos colapsados en este grupo (>= 1)
}

// MarshalJSON serializa el representante más el tamaño del grupo.
func (g *FailureGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Shard     int         `json:"shard"`
		Index     string      `json:"index"`
		Status    int         `json:"status"`
		Reason    *reasonJSON `json:"reason"`
		GroupedBy int         `json:"grouped_by"`
	}{
		Shard:     g.Representative.Shard,
		Index:     g.Representative.Index,
		Status:    g.Representative.Status,
		Reason:    newReasonJSON(g.Representative.Err),
		GroupedBy: g.Members,
	})
}

func (g *FailureGroup) Reason() string { return g.Representative.Reason() }

// GroupShardFailures particiona los fallos por la firma estructural de su
// causa (tipo + mensaje + cadena de caused_by, más el status). Todos los
// fallos con la misma firma colapsan en un grupo cuyo representante es el
// primero visto; el orden de los grupos es el orden de primera aparición de
// cada firma. Así 500 shards que fallan con el mismo "index closed" producen
// una sola explicación en la respuesta, no quinientas.
//
// Función pura: mismo input, mismos grupos y mismo representante. Costo lineal
// en la cantidad de fallos. Input vacío devuelve slice vacío.
func GroupShardFailures(failures []*ShardFailure) []*FailureGroup {
	groups := make([]*FailureGroup, 0, len(failures))
	byKey := make(map[string]*FailureGroup, len(failures))

	for _, f := range failures {
		key := reasonSignature(f)
		if g, ok := byKey[key]; ok {
			g.Members++
			continue
		}
		g := &FailureGroup{Representative: f, Members: 1}
		byKey[key] = g
		groups = append(groups, g)
	}
	return groups
}

// reasonSignature arma una clave comparable a partir de la cadena de causas.
// La identidad de la unidad que falló (shard id) NO participa: dos shards
// distintos con la misma causa agrupan juntos.
func reasonSignature(f *ShardFailure) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(f.Status))
	for err := f.Err; err != nil; err = errors.Unwrap(err) {
		sb.WriteByte(0x1f)
		sb.WriteString(fmt.Sprintf("%T", err))
		sb.WriteByte(':')
		sb.WriteString(err.Error())
	}
	return sb.String()
}
