package reactive

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Decode builds containers from JSON. Objects keep the key order of the
// document, numbers decode to float64.
func Decode(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode: %w", ErrInvalidJSON)
	}
	return fromJSON(gjson.ParseBytes(data)), nil
}

func fromJSON(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Float()
	case gjson.String:
		return r.String()
	}

	if r.IsArray() {
		a := &Array{items: []any{}}
		r.ForEach(func(_, value gjson.Result) bool {
			a.items = append(a.items, fromJSON(value))
			return true
		})
		return a
	}

	o := &Object{fields: map[string]any{}}
	r.ForEach(func(key, value gjson.Result) bool {
		o.Set(key.String(), fromJSON(value))
		return true
	})
	return o
}
