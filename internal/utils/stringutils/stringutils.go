package stringutils

import (
	"fmt"
	"strings"
)

// INCluse builds "$1, $2, ..." placeholders and the matching argument list for an IN clause.
func INCluse[T any](list []T) (placeholders string, args []any) {
	parts := make([]string, len(list))
	args = make([]any, len(list))
	for i, id := range list {
		parts[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	return strings.Join(parts, ", "), args
}
