package main

import (
	"fmt"
	"strings"
)

// markdownWriter accumulates a markdown document.
type markdownWriter struct {
	b strings.Builder
}

func (w *markdownWriter) header(level int, text string) {
	fmt.Fprintf(&w.b, "%s %s\n\n", strings.Repeat("#", level), text)
}

func (w *markdownWriter) paragraph(text string) {
	w.b.WriteString(strings.TrimSpace(text))
	w.b.WriteString("\n\n")
}

func (w *markdownWriter) codeBlock(lang, code string) {
	fmt.Fprintf(&w.b, "```%s\n%s\n```\n\n", lang, strings.TrimRight(code, "\n"))
}

func (w *markdownWriter) table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	w.b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	w.b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		w.b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	w.b.WriteString("\n")
}

func (w *markdownWriter) bytes() []byte { return []byte(w.b.String()) }

func inlineCode(s string) string { return "`" + s + "`" }
