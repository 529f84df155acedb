package templates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/delaneyj/quanta/pkg/inspect"
)

// pathString renders a key path the way it would be written in code,
// $.user.tags[0].
func pathString(path []any) string {
	var sb strings.Builder
	sb.WriteString("$")
	for _, key := range path {
		switch key := key.(type) {
		case int:
			sb.WriteString("[")
			sb.WriteString(strconv.Itoa(key))
			sb.WriteString("]")
		case string:
			sb.WriteString(".")
			sb.WriteString(key)
		default:
			sb.WriteString("[")
			sb.WriteString(fmt.Sprint(key))
			sb.WriteString("]")
		}
	}
	return sb.String()
}

func nodeLabel(n inspect.Node) string {
	return fmt.Sprintf("%s\n%s(%d)", pathString(n.Path), n.Kind, n.Len)
}

func edgeLabel(n inspect.Node) string {
	if len(n.Path) == 0 {
		return ""
	}
	return fmt.Sprint(n.Path[len(n.Path)-1])
}

func hex(v uint64) string {
	return fmt.Sprintf("%016x", v)
}
