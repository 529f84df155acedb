// Package inspect turns reactive containers into plain values for devtools,
// logs and diffing.
package inspect

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/quanta/reactive"
)

// Circular replaces a container met again while it is still being visited.
const Circular = "[Circular]"

// Snapshot copies v into plain Go values: objects and maps become
// map[string]any, arrays and sets []any. Wrappers are unwrapped first and a
// container that contains itself is cut off with Circular.
func Snapshot(v any) any {
	return snapshot(reactive.ToRaw(v), mapset.NewThreadUnsafeSet[any]())
}

func snapshot(v any, visiting mapset.Set[any]) any {
	v = reactive.ToRaw(v)
	switch c := v.(type) {
	case *reactive.Object, *reactive.Array, *reactive.Map, *reactive.Set:
		if !visiting.Add(c) {
			return Circular
		}
		defer visiting.Remove(c)
	}

	switch c := v.(type) {
	case *reactive.Object:
		out := make(map[string]any, c.Len())
		for _, k := range c.Keys() {
			field, _ := c.Get(k)
			out[k] = snapshot(field, visiting)
		}
		return out
	case *reactive.Array:
		out := make([]any, 0, c.Len())
		for _, item := range c.Values() {
			out = append(out, snapshot(item, visiting))
		}
		return out
	case *reactive.Map:
		out := make(map[string]any, c.Len())
		for _, k := range c.Keys() {
			value, _ := c.Get(k)
			out[fmt.Sprint(k)] = snapshot(value, visiting)
		}
		return out
	case *reactive.Set:
		out := make([]any, 0, c.Len())
		for _, item := range c.Values() {
			out = append(out, snapshot(item, visiting))
		}
		return out
	default:
		return v
	}
}

// Fingerprint hashes the content of v. Equal trees hash equal regardless of
// container identity; key order matters.
func Fingerprint(v any) uint64 {
	d := xxhash.New()
	fingerprint(d, reactive.ToRaw(v), mapset.NewThreadUnsafeSet[any]())
	return d.Sum64()
}

func fingerprint(d *xxhash.Digest, v any, visiting mapset.Set[any]) {
	v = reactive.ToRaw(v)
	switch c := v.(type) {
	case *reactive.Object, *reactive.Array, *reactive.Map, *reactive.Set:
		if !visiting.Add(c) {
			d.WriteString(Circular)
			return
		}
		defer visiting.Remove(c)
	}

	switch c := v.(type) {
	case nil:
		d.WriteString("n")
	case *reactive.Object:
		d.WriteString("{")
		for _, k := range c.Keys() {
			field, _ := c.Get(k)
			d.WriteString(strconv.Quote(k))
			fingerprint(d, field, visiting)
		}
		d.WriteString("}")
	case *reactive.Array:
		d.WriteString("[")
		for _, item := range c.Values() {
			fingerprint(d, item, visiting)
		}
		d.WriteString("]")
	case *reactive.Map:
		d.WriteString("m{")
		for _, k := range c.Keys() {
			value, _ := c.Get(k)
			fingerprint(d, k, visiting)
			fingerprint(d, value, visiting)
		}
		d.WriteString("}")
	case *reactive.Set:
		d.WriteString("s[")
		for _, item := range c.Values() {
			fingerprint(d, item, visiting)
		}
		d.WriteString("]")
	case string:
		d.WriteString(strconv.Quote(c))
	case float64:
		d.WriteString(strconv.FormatUint(math.Float64bits(c), 16))
	default:
		fmt.Fprintf(d, "%T:%v;", v, v)
	}
}

// Node is one container met by Walk.
type Node struct {
	Path   []any
	Kind   reactive.Kind
	Len    int
	Parent int
}

// Walk lists the containers reachable from v depth first. Parent is the index
// of the enclosing node, -1 for the root. Containers already listed are not
// listed again.
func Walk(v any) []Node {
	var nodes []Node
	seen := mapset.NewThreadUnsafeSet[any]()
	var walk func(v any, path []any, parent int)
	walk = func(v any, path []any, parent int) {
		v = reactive.ToRaw(v)
		node := Node{Path: path, Parent: parent}
		var children func(visit func(key, child any))
		switch c := v.(type) {
		case *reactive.Object:
			node.Kind, node.Len = reactive.KindObject, c.Len()
			children = func(visit func(key, child any)) {
				for _, k := range c.Keys() {
					field, _ := c.Get(k)
					visit(k, field)
				}
			}
		case *reactive.Array:
			node.Kind, node.Len = reactive.KindArray, c.Len()
			children = func(visit func(key, child any)) {
				for i, item := range c.Values() {
					visit(i, item)
				}
			}
		case *reactive.Map:
			node.Kind, node.Len = reactive.KindMap, c.Len()
			children = func(visit func(key, child any)) {
				for _, k := range c.Keys() {
					value, _ := c.Get(k)
					visit(k, value)
				}
			}
		case *reactive.Set:
			node.Kind, node.Len = reactive.KindSet, c.Len()
			children = func(visit func(key, child any)) {
				for i, item := range c.Values() {
					visit(i, item)
				}
			}
		default:
			return
		}
		if !seen.Add(v) {
			return
		}

		index := len(nodes)
		nodes = append(nodes, node)
		children(func(key, child any) {
			walk(child, append(append([]any{}, path...), key), index)
		})
	}
	walk(v, []any{}, -1)
	return nodes
}
