package reactive

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// parentLink records the container a nested container was last read from or
// written into, and the key it sits under. One link per child: a container
// shared by two parents only bubbles to the most recent one.
type parentLink struct {
	parent uint64
	key    any
}

func (rs *ReactiveSystem) setParent(child, parent *header, key any) {
	childID := rs.adopt(child)
	parentID := rs.adopt(parent)

	if existing, ok := rs.parents[childID]; ok {
		if existing.parent == parentID && existing.key == key {
			return
		}
		if existing.parent != parentID && rs.live(existing.parent) {
			rs.logger.Warn("reactive: object is referenced from multiple parents, only the last parent receives bubbled triggers",
				"key", fmt.Sprint(key),
			)
		}
	}
	rs.parents[childID] = parentLink{parent: parentID, key: key}
	rs.logger.Debug("reactive: set parent", "key", fmt.Sprint(key), "child", childID, "parent", parentID)
}

// unlink drops the link of a container that left (parent, key). A link the
// container has since gained elsewhere is kept.
func (rs *ReactiveSystem) unlink(v any, parent *header, key any) {
	child := headerOf(v)
	if child == nil || child.id == 0 || parent.id == 0 {
		return
	}
	if link, ok := rs.parents[child.id]; ok && link.parent == parent.id && link.key == key {
		delete(rs.parents, child.id)
	}
}

// bubble walks up the parent links from id and hands the dependency of every
// (ancestor, key) slot to collect.
func (rs *ReactiveSystem) bubble(id uint64, key any, collect func(*Dependency)) {
	visited := mapset.NewThreadUnsafeSet[uint64]()
	current := id
	for {
		if !visited.Add(current) {
			rs.logger.Warn("reactive: cycle detected in bubble chain", "key", fmt.Sprint(key))
			return
		}
		link, ok := rs.parents[current]
		if !ok {
			return
		}
		if link.parent == current {
			return
		}
		if dep := rs.lookup(link.parent, link.key); dep != nil {
			collect(dep)
		}
		current = link.parent
	}
}

// Path returns the keys leading from the outermost linked ancestor down to
// target. It is empty for a container that was never reached through a
// parent.
func (rs *ReactiveSystem) Path(target Target) []any {
	rs.sweep()
	h := target.target()
	if h.id == 0 {
		return nil
	}
	var path []any
	visited := mapset.NewThreadUnsafeSet[uint64]()
	current := h.id
	for visited.Add(current) {
		link, ok := rs.parents[current]
		if !ok || link.parent == current {
			break
		}
		path = append(path, link.key)
		current = link.parent
	}
	slices.Reverse(path)
	return path
}
