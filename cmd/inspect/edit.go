package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/delaneyj/quanta/reactive"
)

var errBadPath = errors.New("path does not lead to a container")

// edit is one path=value assignment, path segments separated by dots.
type edit struct {
	path  []string
	value any
}

func parseEdits(args []string) ([]edit, error) {
	edits := make([]edit, 0, len(args))
	for _, arg := range args {
		path, raw, ok := strings.Cut(arg, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("edit %q: want path=value", arg)
		}
		var value any = raw
		if v, err := reactive.Decode([]byte(raw)); err == nil {
			value = v
		}
		edits = append(edits, edit{path: strings.Split(path, "."), value: value})
	}
	return edits, nil
}

func (e edit) apply(root reactive.Observed) error {
	var current any = root
	for _, segment := range e.path[:len(e.path)-1] {
		next, err := child(current, segment)
		if err != nil {
			return fmt.Errorf("edit %s: %w", strings.Join(e.path, "."), err)
		}
		current = next
	}

	last := e.path[len(e.path)-1]
	var err error
	switch c := current.(type) {
	case *reactive.ObservedObject:
		err = c.Set(last, e.value)
	case *reactive.ObservedArray:
		var i int
		if i, err = strconv.Atoi(last); err == nil {
			err = c.SetAt(i, e.value)
		}
	case *reactive.ObservedMap:
		err = c.Set(last, e.value)
	default:
		err = errBadPath
	}
	if err != nil {
		return fmt.Errorf("edit %s: %w", strings.Join(e.path, "."), err)
	}
	return nil
}

func child(v any, segment string) (any, error) {
	switch c := v.(type) {
	case *reactive.ObservedObject:
		if next, ok := c.Lookup(segment); ok {
			return next, nil
		}
	case *reactive.ObservedArray:
		i, err := strconv.Atoi(segment)
		if err != nil {
			return nil, err
		}
		if next := c.At(i); next != nil {
			return next, nil
		}
	case *reactive.ObservedMap:
		if next, ok := c.Get(segment); ok {
			return next, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", segment, errBadPath)
}
