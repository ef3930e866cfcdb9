package cli

import (
	"fmt"
	"io"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/view"
)

func render(out io.Writer, m view.Model) {
	fmt.Fprintln(out)
	if m.Header != nil {
		role := ""
		if m.Header.IsAdmin {
			role = " [admin]"
		}
		fmt.Fprintf(out, "=== %s%s ===\n", m.Header.DisplayName, role)
	}
	if m.Notice != "" {
		fmt.Fprintf(out, "! %s\n", m.Notice)
	}

	switch m.Screen {
	case entity.ScreenSelect, entity.ScreenAdmin:
		if m.AdminPanel {
			fmt.Fprintln(out, "Admin panel. Type 'help' for admin commands.")
		}
		if len(m.Tests) == 0 {
			fmt.Fprintln(out, "No tests assigned to you yet.")
			return
		}
		fmt.Fprintln(out, "Available tests:")
		for i, t := range m.Tests {
			fmt.Fprintf(out, "  %d. %s\n", i+1, t.Title)
		}
	case entity.ScreenExam:
		if m.Exam != nil {
			fmt.Fprintf(out, "%s (%d questions)\n", m.Exam.TestTitle, len(m.Exam.Questions))
		}
	case entity.ScreenResult:
		if m.Result == nil {
			return
		}
		fmt.Fprintf(out, "%s %s\n", m.Result.Title, m.Result.Icon)
		fmt.Fprintln(out, m.Result.Verdict)
		fmt.Fprintln(out, m.Result.Subtitle)
		for _, s := range m.Result.Stats {
			fmt.Fprintf(out, "  %-10s %s\n", s.Label+":", s.Value)
		}
	}
}

func printQuestion(out io.Writer, q view.QuestionView) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d: %s\n\n", q.Number, q.Text)
	for _, opt := range q.Options {
		fmt.Fprintf(out, "%s. %s\n", opt.Key, opt.Text)
	}
	fmt.Fprintln(out)
}
