package components

import "github.com/litebase/pagedb/pkg/cli/styles"

func ErrorAlert(message string) string {
	return styles.AlertDangerStyle.Render("Error") + "\n" + message
}
