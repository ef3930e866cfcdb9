package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/service"
	"github.com/yourusername/exam-portal/internal/view"
)

const maxAttempts = 3

var errQuit = errors.New("quit")

// App - терминальный клиент экзамена поверх тех же сервисов, что и портал
type App struct {
	auth    *service.AuthService
	exam    *service.ExamService
	results *service.ResultService

	reader *bufio.Reader
	out    io.Writer
	state  *entity.AppState
}

// NewApp создает терминальный клиент
func NewApp(auth *service.AuthService, exam *service.ExamService, results *service.ResultService, in io.Reader, out io.Writer) *App {
	return &App{
		auth:    auth,
		exam:    exam,
		results: results,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Run выполняет сеанс до команды quit или конца ввода
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Exam Portal. Type 'help' after signing in to see commands.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch {
		case a.state == nil || a.state.Session == nil:
			err = a.login(ctx)
		case a.state.Screen == entity.ScreenExam:
			a.render()
			err = a.runExam(ctx)
		case a.state.Screen == entity.ScreenResult:
			a.render()
			_, err = a.readLine("\nPress Enter to return to tests...")
			if err == nil {
				err = a.exam.BackToTests(a.state)
			}
		default:
			a.render()
			err = a.command(ctx)
		}

		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out, "Bye.")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) login(ctx context.Context) error {
	username, err := a.readLine("\nUsername: ")
	if err != nil {
		return err
	}
	password, err := a.readLine("Password: ")
	if err != nil {
		return err
	}

	state, err := a.auth.Authenticate(ctx, username, password)
	if err != nil {
		fmt.Fprintln(a.out, service.UserMessage(err))
		return nil
	}
	a.state = state
	return nil
}

func (a *App) command(ctx context.Context) error {
	line, err := a.readLine("> ")
	if err != nil {
		return err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	if n, convErr := strconv.Atoi(fields[0]); convErr == nil {
		return a.startTest(ctx, n)
	}

	switch strings.ToLower(fields[0]) {
	case "help":
		a.printHelp()
	case "quit", "exit":
		return errQuit
	case "logout":
		a.auth.Logout(a.state)
		a.state = nil
		fmt.Fprintln(a.out, "Signed out.")
	case "take":
		a.report(a.exam.AdminTakeTests(a.state))
	case "panel":
		a.report(a.exam.AdminPanel(a.state))
	case "results":
		a.listResults(ctx, parseFilter(fields[1:]))
	case "detail":
		if len(fields) != 2 {
			fmt.Fprintln(a.out, "Usage: detail <index>")
			return nil
		}
		idx, convErr := strconv.Atoi(fields[1])
		if convErr != nil {
			fmt.Fprintln(a.out, "Usage: detail <index>")
			return nil
		}
		a.showDetail(ctx, idx)
	case "export":
		if len(fields) < 3 {
			fmt.Fprintln(a.out, "Usage: export <csv|xlsx> <file> [user=.. test=.. passed=YES|NO]")
			return nil
		}
		a.export(ctx, fields[1], fields[2], parseFilter(fields[3:]))
	default:
		fmt.Fprintln(a.out, "Unknown command. Type 'help'.")
	}
	return nil
}

func (a *App) startTest(ctx context.Context, number int) error {
	tests := a.exam.VisibleTests(a.state)
	if number < 1 || number > len(tests) {
		fmt.Fprintf(a.out, "Please choose a test between 1 and %d.\n", len(tests))
		return nil
	}
	// Ошибка загрузки уже записана в Notice и будет показана при отрисовке
	a.exam.LoadTest(ctx, a.state, tests[number-1].SheetName)
	return nil
}

func (a *App) runExam(ctx context.Context) error {
	model := a.model()
	if model.Exam == nil {
		return a.exam.BackToTests(a.state)
	}

	for _, q := range model.Exam.Questions {
		if len(q.Options) == 0 {
			err := a.exam.BackToTests(a.state)
			a.state.Notice = service.UserMessage(service.ErrQuestionNoOptions)
			return err
		}
	}

	answers := make(map[string]string, len(model.Exam.Questions))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, q := range model.Exam.Questions {
			if _, ok := answers[q.ID]; ok {
				continue
			}
			printQuestion(a.out, q)
			key, ok, err := a.readAnswer(q.Options)
			if err != nil {
				return err
			}
			if ok {
				answers[q.ID] = key
			}
		}

		_, err := a.exam.Submit(ctx, a.state, answers)
		if err == nil {
			return nil
		}
		fmt.Fprintln(a.out, service.UserMessage(err))
		if !errors.Is(err, service.ErrUnansweredQuestions) {
			return a.exam.BackToTests(a.state)
		}
	}
}

// readAnswer принимает только ключи отображаемых вариантов
func (a *App) readAnswer(options []entity.Option) (string, bool, error) {
	if len(options) == 0 {
		return "", false, nil
	}
	keys := make([]string, 0, len(options))
	for _, opt := range options {
		keys = append(keys, opt.Key)
	}
	prompt := fmt.Sprintf("Answer (%s): ", strings.Join(keys, "/"))

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		line, err := a.readLine(prompt)
		if err != nil {
			return "", false, err
		}
		answer := strings.ToUpper(strings.TrimSpace(line))
		for _, k := range keys {
			if answer == k {
				return k, true, nil
			}
		}
		if attempt < maxAttempts {
			fmt.Fprintf(a.out, "Invalid input. Please enter one of %s.\n", strings.Join(keys, ", "))
		}
	}
	fmt.Fprintln(a.out, "Skipping for now.")
	return "", false, nil
}

func (a *App) listResults(ctx context.Context, filter service.ResultFilter) {
	rows, opts, err := a.results.ListResults(ctx, a.state, filter)
	if err != nil {
		fmt.Fprintln(a.out, service.UserMessage(err))
		return
	}
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No results found.")
		return
	}

	fmt.Fprintf(a.out, "%-5s %-16s %-24s %-20s %6s %8s  %s\n", "#", "Username", "Test", "Date", "Score", "Correct", "Status")
	for _, row := range rows {
		r := row.Record
		status := "FAILED"
		if r.IsPassed() {
			status = "PASSED"
		}
		date := r.Date.Trimmed()
		if t, ok := r.ParsedDate(); ok {
			date = t.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(a.out, "%-5d %-16s %-24s %-20s %6s %4s/%-3s  %s\n",
			row.Index, r.Username, r.Test, date, r.Score.Trimmed(), r.Correct.Trimmed(), r.Total.Trimmed(), status)
	}
	fmt.Fprintf(a.out, "Users: %s\nTests: %s\n", strings.Join(opts.Usernames, ", "), strings.Join(opts.Tests, ", "))
}

func (a *App) showDetail(ctx context.Context, index int) {
	detail, err := a.results.Detail(ctx, a.state, index)
	if err != nil {
		fmt.Fprintln(a.out, service.UserMessage(err))
		return
	}

	r := detail.Record
	fmt.Fprintf(a.out, "%s - %s (%s, %s)\n", r.Username, r.Test, r.Score.Trimmed(), r.Date.Trimmed())
	if len(detail.Answers) == 0 {
		fmt.Fprintln(a.out, "No answer details available for this result.")
		return
	}
	fmt.Fprintf(a.out, "%d correct out of %d questions\n", detail.CorrectCount, len(detail.Answers))
	for _, ans := range detail.Answers {
		mark := "x"
		if ans.IsCorrect {
			mark = "+"
		}
		line := fmt.Sprintf(" [%s] Q#%s  Answer: %s", mark, ans.QuestionID.Trimmed(), ans.UserAnswer.Trimmed())
		if !ans.IsCorrect {
			line += " -> Correct: " + ans.CorrectAnswer.Trimmed()
		}
		fmt.Fprintln(a.out, line)
	}
}

func (a *App) export(ctx context.Context, format, path string, filter service.ResultFilter) {
	buf, err := a.results.ExportBuffer(ctx, a.state, filter, strings.ToLower(format))
	if err != nil {
		fmt.Fprintln(a.out, service.UserMessage(err))
		return
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintf(a.out, "Failed to write %s: %v\n", path, err)
		return
	}
	fmt.Fprintf(a.out, "Exported to %s\n", path)
}

func (a *App) report(err error) {
	if err != nil {
		fmt.Fprintln(a.out, service.UserMessage(err))
	}
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "  <n>        start test number n")
	if a.state != nil && a.state.Session != nil && a.state.Session.IsAdmin() {
		fmt.Fprintln(a.out, "  take       take tests as a regular user")
		fmt.Fprintln(a.out, "  panel      return to the admin panel")
		fmt.Fprintln(a.out, "  results    [user=NAME] [test=TITLE] [passed=YES|NO]")
		fmt.Fprintln(a.out, "  detail <i> show answers of result i")
		fmt.Fprintln(a.out, "  export <csv|xlsx> <file> [filters]")
	}
	fmt.Fprintln(a.out, "  logout     sign out")
	fmt.Fprintln(a.out, "  quit       exit")
}

func (a *App) model() view.Model {
	return view.Build(a.state, a.exam.VisibleTests(a.state), a.exam.PassThreshold())
}

func (a *App) render() {
	m := a.model()
	a.state.Notice = ""
	render(a.out, m)
}

// readLine читает строку без перевода строки. Последняя строка без \n тоже возвращается.
func (a *App) readLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	line, err := a.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// parseFilter разбирает аргументы вида user=alice test=T1 passed=YES
func parseFilter(args []string) service.ResultFilter {
	var f service.ResultFilter
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "user", "username":
			f.Username = value
		case "test":
			f.Test = value
		case "passed":
			f.Passed = value
		}
	}
	return f
}
