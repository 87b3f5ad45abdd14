package action

import "fmt"

// ShardsHeader es el header "_shards" de una operación broadcast: cuántos
// shards se tocaron, cuántos respondieron bien y cuántos fallaron, más la
// lista (opcionalmente agrupada) de fallos.
//
// El builder confía en los conteos del caller (la distribución real es
// externa) y solo valida invariantes defensivas.
type ShardsHeader struct {
	Total      int       `json:"total"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	Failures   []Failure `json:"failures,omitempty"`
}

// NewShardsHeader construye el header de una operación broadcast.
//
// Si failed == 0 o no hay fallos, el listado "failures" se omite por completo
// (nunca se serializa una lista vacía). Con group=true los fallos se colapsan
// por causa via GroupShardFailures; group=false lista uno por unidad en orden
// de llegada. Devuelve ErrInvariant (wrapped) ante conteos negativos o
// inconsistentes.
func NewShardsHeader(total, successful, failed int, failures []*ShardFailure, group bool) (*ShardsHeader, error) {
	if err := checkCounts(total, successful, failed); err != nil {
		return nil, err
	}

	h := &ShardsHeader{Total: total, Successful: successful, Failed: failed}
	if failed == 0 || len(failures) == 0 {
		return h, nil
	}

	if group {
		grouped := GroupShardFailures(failures)
		h.Failures = make([]Failure, len(grouped))
		for i, g := range grouped {
			h.Failures[i] = g
		}
	} else {
		h.Failures = make([]Failure, len(failures))
		for i, f := range failures {
			h.Failures[i] = f
		}
	}
	return h, nil
}

// checkCounts valida las invariantes defensivas compartidas entre el header de
// shards y el de nodos.
func checkCounts(total, successful, failed int) error {
	if total < 0 || successful < 0 || failed < 0 {
		return fmt.Errorf("%w: negative counts (total=%d successful=%d failed=%d)",
			ErrInvariant, total, successful, failed)
	}
	if successful+failed != total {
		return fmt.Errorf("%w: successful(%d)+failed(%d) != total(%d)",
			ErrInvariant, successful, failed, total)
	}
	return nil
}
