// Package applier implements the UpsertApplier algebra and the
// history-apply/materialization fold (spec §4.8). Nothing in the
// teacher models a partial-update delta — every teacher write is a
// full-document replace via the B+Tree's Upsert/Replace path — so the
// algebra itself is new functionality the spec requires; it reuses
// the teacher's bson.D document shape and field-lookup idiom from
// pkg/storage/bson.go (DoesTheKeyExist-style type switch).
package applier

import (
	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/GreeD3X/tarantool/pkg/errs"
	"github.com/GreeD3X/tarantool/pkg/wire"
)

// Apply composes a delta statement (an UPSERT) with a lower-LSN base
// tuple, producing a new owned tuple (spec §6 "UpsertApplier.apply").
// base may be nil, representing "no predecessor" (the delta acts on
// an implicit empty document).
//
// Open Question resolution (spec §9): the algebra chosen is field-wise
// numeric addition — each field present in the delta document is added
// to the same-named field in base (treated as zero if absent or
// non-numeric), and non-numeric delta fields simply overwrite. This is
// total and associative under repeated application, satisfying the
// right-fold requirement in spec §9's "Delta chain semantics" note.
func Apply(delta *wire.Statement, base *wire.Tuple) (*wire.Tuple, error) {
	if delta == nil || delta.Type != wire.Upsert {
		return nil, errs.UpsertFailure(errors.New("applier invoked on a non-upsert statement"))
	}
	if delta.Value == nil {
		return nil, errs.UpsertFailure(errors.New("upsert statement carries no delta document"))
	}

	var baseDoc bson.D
	if base != nil {
		baseDoc = base.Doc
	}

	result := make(bson.D, 0, len(baseDoc)+len(delta.Value.Doc))
	baseIdx := make(map[string]int, len(baseDoc))
	for i, e := range baseDoc {
		result = append(result, e)
		baseIdx[e.Key] = i
	}

	for _, d := range delta.Value.Doc {
		if i, ok := baseIdx[d.Key]; ok {
			merged, err := mergeField(result[i].Value, d.Value)
			if err != nil {
				return nil, errs.UpsertFailure(err)
			}
			result[i].Value = merged
			continue
		}
		result = append(result, d)
		baseIdx[d.Key] = len(result) - 1
	}

	return wire.NewTuple(result), nil
}

// mergeField adds numeric values; for non-numeric deltas the delta
// value simply replaces the base value.
func mergeField(baseVal, deltaVal any) (any, error) {
	bf, bok := asFloat(baseVal)
	df, dok := asFloat(deltaVal)
	if bok && dok {
		return numericLike(deltaVal, bf+df), nil
	}
	return deltaVal, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// numericLike preserves the delta's original numeric type so a
// counter stored as int64 stays int64 across repeated upserts.
func numericLike(sample any, sum float64) any {
	switch sample.(type) {
	case int:
		return int(sum)
	case int32:
		return int32(sum)
	case int64:
		return int64(sum)
	case float32:
		return float32(sum)
	default:
		return sum
	}
}
