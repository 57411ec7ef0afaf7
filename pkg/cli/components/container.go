package components

import "github.com/charmbracelet/lipgloss"

func Container(content ...string) string {
	text := ""

	for i, t := range content {
		marginTop := 1
		marginBottom := 0

		if i == 0 {
			marginTop = 0
		}

		if i == len(content)-1 {
			marginBottom = 1
		}

		text += lipgloss.NewStyle().
			MarginTop(marginTop).
			MarginBottom(marginBottom).
			Render(t)
	}

	return text
}
