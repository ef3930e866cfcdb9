package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/domain/repository"
	apperrors "github.com/yourusername/exam-portal/internal/pkg/errors"
)

const resultsCacheKey = "results:all"

// ResultFilter - фильтры таблицы результатов; пустое поле не фильтрует
type ResultFilter struct {
	Username string
	Test     string
	// Passed: "", "YES" или "NO"
	Passed string
}

// ResultRow - строка таблицы результатов. Index указывает на позицию
// записи в полном списке и используется для просмотра ответов.
type ResultRow struct {
	Index  int                 `json:"index"`
	Record entity.ResultRecord `json:"record"`
}

// FilterOptions - уникальные значения для выпадающих фильтров
type FilterOptions struct {
	Usernames []string `json:"usernames"`
	Tests     []string `json:"tests"`
}

// ResultDetail - детализация ответов одной попытки
type ResultDetail struct {
	Index        int                   `json:"index"`
	Record       entity.ResultRecord   `json:"record"`
	CorrectCount int                   `json:"correct_count"`
	Answers      []entity.AnswerRecord `json:"answers"`
}

// ResultService - вкладка результатов администратора
type ResultService struct {
	backend  repository.ExamBackend
	cache    repository.CacheRepository
	cacheTTL time.Duration
}

// NewResultService создает сервис результатов. cache может быть nil,
// тогда каждый запрос обращается к удаленному сервису.
func NewResultService(backend repository.ExamBackend, cache repository.CacheRepository, cacheTTL time.Duration) *ResultService {
	return &ResultService{
		backend:  backend,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// ListResults загружает результаты, применяет фильтры и возвращает их от новых к старым
func (s *ResultService) ListResults(ctx context.Context, state *entity.AppState, filter ResultFilter) ([]ResultRow, FilterOptions, error) {
	if err := requireAdmin(state); err != nil {
		return nil, FilterOptions{}, err
	}

	all, err := s.fetch(ctx)
	if err != nil {
		return nil, FilterOptions{}, err
	}
	s.store(ctx, all)

	return FilterResults(all, filter), UniqueFilterValues(all), nil
}

// Detail возвращает ответы попытки по индексу из последнего загруженного списка
func (s *ResultService) Detail(ctx context.Context, state *entity.AppState, index int) (*ResultDetail, error) {
	if err := requireAdmin(state); err != nil {
		return nil, err
	}

	all, err := s.cached(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(all) {
		return nil, fmt.Errorf("%w: index %d", ErrResultNotFound, index)
	}

	record := all[index]
	return &ResultDetail{
		Index:        index,
		Record:       record,
		CorrectCount: record.CorrectAnswersCount(),
		Answers:      record.Answers,
	}, nil
}

// Export пишет отфильтрованные результаты в w в формате "xlsx" или "csv"
func (s *ResultService) Export(ctx context.Context, state *entity.AppState, filter ResultFilter, format string, w io.Writer) error {
	rows, _, err := s.ListResults(ctx, state, filter)
	if err != nil {
		return err
	}

	switch format {
	case "xlsx":
		return WriteResultsXLSX(w, rows)
	case "", "csv":
		return WriteResultsCSV(w, rows)
	default:
		return fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
	}
}

func (s *ResultService) fetch(ctx context.Context) ([]entity.ResultRecord, error) {
	records, err := s.backend.GetResults(ctx)
	if err != nil {
		log.Printf("[ResultService] Ошибка загрузки результатов: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	return records, nil
}

func (s *ResultService) store(ctx context.Context, records []entity.ResultRecord) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, resultsCacheKey, records, s.cacheTTL); err != nil {
		log.Printf("[ResultService] Не удалось закешировать результаты: %v", err)
	}
}

// cached читает список из кеша, при промахе загружает заново
func (s *ResultService) cached(ctx context.Context) ([]entity.ResultRecord, error) {
	if s.cache != nil {
		var records []entity.ResultRecord
		err := s.cache.GetJSON(ctx, resultsCacheKey, &records)
		if err == nil {
			return records, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[ResultService] Ошибка чтения кеша результатов: %v", err)
		}
	}

	records, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, records)
	return records, nil
}

// FilterResults применяет фильтры и разворачивает порядок: последние записи листа идут первыми
func FilterResults(all []entity.ResultRecord, filter ResultFilter) []ResultRow {
	passed := strings.ToUpper(strings.TrimSpace(filter.Passed))
	rows := make([]ResultRow, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		r := all[i]
		if filter.Username != "" && r.Username != filter.Username {
			continue
		}
		if filter.Test != "" && r.Test != filter.Test {
			continue
		}
		if passed != "" && r.PassedFlag() != passed {
			continue
		}
		rows = append(rows, ResultRow{Index: i, Record: r})
	}
	return rows
}

// UniqueFilterValues собирает уникальные непустые логины и тесты в порядке первого появления
func UniqueFilterValues(all []entity.ResultRecord) FilterOptions {
	opts := FilterOptions{Usernames: []string{}, Tests: []string{}}
	seenUsers := make(map[string]struct{})
	seenTests := make(map[string]struct{})
	for _, r := range all {
		if _, ok := seenUsers[r.Username]; r.Username != "" && !ok {
			seenUsers[r.Username] = struct{}{}
			opts.Usernames = append(opts.Usernames, r.Username)
		}
		if _, ok := seenTests[r.Test]; r.Test != "" && !ok {
			seenTests[r.Test] = struct{}{}
			opts.Tests = append(opts.Tests, r.Test)
		}
	}
	return opts
}

var exportHeaders = []string{"Username", "Test", "Date", "Score", "Correct", "Total", "Status"}

func exportRow(r entity.ResultRecord) []string {
	status := "FAILED"
	if r.IsPassed() {
		status = "PASSED"
	}
	date := sanitizeForExcel(r.Date.Trimmed())
	if t, ok := r.ParsedDate(); ok {
		date = t.Format("2006-01-02 15:04:05")
	}
	// Ячейки листа приходят как есть, поэтому экранируется каждая текстовая колонка
	return []string{
		sanitizeForExcel(r.Username),
		sanitizeForExcel(r.Test),
		date,
		sanitizeForExcel(r.Score.Trimmed()),
		sanitizeForExcel(r.Correct.Trimmed()),
		sanitizeForExcel(r.Total.Trimmed()),
		status,
	}
}

// WriteResultsCSV пишет результаты в CSV с BOM для корректного UTF-8 в Excel
func WriteResultsCSV(w io.Writer, rows []ResultRow) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(exportRow(row.Record)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteResultsXLSX пишет результаты в Excel через StreamWriter
func WriteResultsXLSX(w io.Writer, rows []ResultRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Results"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	header := make([]interface{}, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		values := exportRow(row.Record)
		cells := make([]interface{}, len(values))
		for j, v := range values {
			cells[j] = v
		}
		// Числовые колонки пишем числами, чтобы в Excel работали сортировка и формулы
		for _, col := range []int{3, 4, 5} {
			if n, err := strconv.Atoi(values[col]); err == nil {
				cells[col] = n
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush stream writer: %w", err)
	}
	return f.Write(w)
}

// ExportBuffer - удобная обертка для CLI: экспорт в память
func (s *ResultService) ExportBuffer(ctx context.Context, state *entity.AppState, filter ResultFilter, format string) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := s.Export(ctx, state, filter, format, &buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func requireAdmin(state *entity.AppState) error {
	if err := requireSession(state); err != nil {
		return err
	}
	if !state.Session.IsAdmin() {
		return fmt.Errorf("%w: administrator only", apperrors.ErrForbidden)
	}
	return nil
}
