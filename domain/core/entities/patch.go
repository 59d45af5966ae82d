package entities

import (
	"bytes"
	"encoding/json"
	"maps"

	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
)

// Patch is a partial update for an entity of type E. Implementations carry
// no identity fields, so a typed patch cannot change an id or an owner
// reference.
type Patch[E any] interface {
	Apply(existing E) E
}

// ApplyPatch applies p to e
func ApplyPatch[E any, P Patch[E]](e E, p P) E {
	return p.Apply(e)
}

// cloneData deep-copies a payload so a snapshot never shares a mutable map
// or slice with its caller.
func cloneData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = cloneValue(v)
	}
	return out
}

// CloneData is the exported form of the payload deep copy, for graph-level
// metadata.
func CloneData(data map[string]any) map[string]any {
	return cloneData(data)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneData(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// mergeData merges patch onto existing key by key, or replaces it wholesale
// when replace is set.
func mergeData(existing, patch map[string]any, replace bool) map[string]any {
	if replace {
		return cloneData(patch)
	}
	if patch == nil {
		return existing
	}
	merged := make(map[string]any, len(existing)+len(patch))
	maps.Copy(merged, existing)
	maps.Copy(merged, cloneData(patch))
	return merged
}

// rejectIdentityFields fails with an ImmutableFieldViolation if raw names
// any of the given identity fields.
func rejectIdentityFields(kind string, raw map[string]any, fields ...string) error {
	for _, f := range fields {
		if _, ok := raw[f]; ok {
			return pkgerrors.NewImmutableFieldError(kind, f)
		}
	}
	return nil
}

// decodeRaw round-trips an untyped patch through JSON into a typed one.
// Unknown keys are rejected so a misspelled field does not pass silently.
func decodeRaw(kind string, raw map[string]any, target any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return pkgerrors.NewValidationError(kind + " patch is not serializable").WithCause(err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return pkgerrors.NewValidationError("invalid " + kind + " patch").WithCause(err)
	}
	return nil
}
