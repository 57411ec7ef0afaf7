package components

import (
	"strings"

	"github.com/litebase/pagedb/pkg/cli/styles"
)

type ListItem struct {
	Key   string
	Value string
}

// Render key and value pairs as aligned lines.
func TabularList(items []ListItem) string {
	lines := make([]string, 0, len(items))

	for _, item := range items {
		lines = append(lines, styles.KeyStyle.Render(item.Key)+item.Value)
	}

	return strings.Join(lines, "\n")
}
