package service

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"opsboard/internal/model"
	"opsboard/internal/repository"
)

// TableReport is the per-table outcome of a best-effort import. Row failures
// are counted and sampled, never fatal.
type TableReport struct {
	Table     string
	Attempted int
	Inserted  int
	Skipped   int
	Errors    []string
}

// ImportReport collects the per-table outcomes of one import call.
type ImportReport struct {
	Tables []TableReport
}

// Merge appends another report's tables, combining entries for the same table.
func (r *ImportReport) Merge(other ImportReport) {
	for _, t := range other.Tables {
		r.add(t)
	}
}

func (r *ImportReport) add(t TableReport) {
	for i := range r.Tables {
		if r.Tables[i].Table == t.Table {
			r.Tables[i].Attempted += t.Attempted
			r.Tables[i].Inserted += t.Inserted
			r.Tables[i].Skipped += t.Skipped
			r.Tables[i].Errors = append(r.Tables[i].Errors, t.Errors...)
			return
		}
	}
	r.Tables = append(r.Tables, t)
}

// String renders the report in one line per table.
func (r ImportReport) String() string {
	if len(r.Tables) == 0 {
		return "nothing imported"
	}
	var b strings.Builder
	for _, t := range r.Tables {
		fmt.Fprintf(&b, "%s: %d/%d inserted", t.Table, t.Inserted, t.Attempted)
		if t.Skipped > 0 {
			fmt.Fprintf(&b, " (%d skipped)", t.Skipped)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

const maxSampledErrors = 5

// TransferService handles bulk tabular export and best-effort import for the
// four tables. Unknown file or sheet names are ignored; each row is inserted
// independently and a failure never aborts the remaining rows.
type TransferService struct {
	industryRepo *repository.IndustryRepository
	regionRepo   *repository.RegionRepository
	clientRepo   *repository.ClientRepository
	taskRepo     *repository.TaskRepository
}

func NewTransferService(
	industryRepo *repository.IndustryRepository,
	regionRepo *repository.RegionRepository,
	clientRepo *repository.ClientRepository,
	taskRepo *repository.TaskRepository,
) *TransferService {
	return &TransferService{
		industryRepo: industryRepo,
		regionRepo:   regionRepo,
		clientRepo:   clientRepo,
		taskRepo:     taskRepo,
	}
}

var (
	industryColumns = []string{"id", "name", "created_at", "updated_at"}
	regionColumns   = []string{"id", "name", "country", "latitude", "longitude", "weight", "color", "notes", "created_at", "updated_at"}
	clientColumns   = []string{"id", "name", "industry_id", "region_id", "contact_person", "contact_email", "contact_phone", "notes", "is_active", "created_at", "updated_at"}
	taskColumns     = []string{"id", "title", "client_id", "owner", "priority", "status", "start_date", "due_date", "completed_date", "description", "created_at", "updated_at"}
)

// ExportCSVZip writes a zip archive of industries.csv, regions.csv,
// clients.csv and tasks.csv to w.
func (s *TransferService) ExportCSVZip(ctx context.Context, w io.Writer) error {
	tables, err := s.snapshot(ctx)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, table := range tables {
		f, err := zw.Create(table.name + ".csv")
		if err != nil {
			return fmt.Errorf("create %s.csv: %w", table.name, err)
		}
		cw := csv.NewWriter(f)
		if err := cw.Write(table.columns); err != nil {
			return fmt.Errorf("write %s header: %w", table.name, err)
		}
		if err := cw.WriteAll(table.rows); err != nil {
			return fmt.Errorf("write %s rows: %w", table.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

// ExportWorkbook writes a .xlsx workbook with one sheet per table to w.
func (s *TransferService) ExportWorkbook(ctx context.Context, w io.Writer) error {
	tables, err := s.snapshot(ctx)
	if err != nil {
		return err
	}

	wb := excelize.NewFile()
	defer wb.Close()

	for i, table := range tables {
		if i == 0 {
			if err := wb.SetSheetName(wb.GetSheetName(0), table.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := wb.NewSheet(table.name); err != nil {
				return fmt.Errorf("add sheet %s: %w", table.name, err)
			}
		}
		if err := writeSheet(wb, table.name, table.columns, table.rows); err != nil {
			return err
		}
	}

	if err := wb.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ImportCSV loads one delimited file into the table matching its name
// (e.g. "clients.csv" → clients). Unrecognized names are ignored with an
// empty report.
func (s *TransferService) ImportCSV(ctx context.Context, name string, r io.Reader) (ImportReport, error) {
	table := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".csv")
	inserter := s.inserterFor(table)
	if inserter == nil {
		return ImportReport{}, nil
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return ImportReport{}, nil
	}
	if err != nil {
		return ImportReport{}, fmt.Errorf("read %s header: %w", name, err)
	}

	report := TableReport{Table: table}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed line: skip it like any other bad row.
			report.Attempted++
			report.Skipped++
			sampleError(&report, fmt.Errorf("row %d: %w", report.Attempted, err))
			continue
		}
		insertRow(ctx, &report, inserter, asRecord(header, row))
	}
	return ImportReport{Tables: []TableReport{report}}, nil
}

// ImportWorkbook loads every recognized sheet of a .xlsx workbook. Sheets
// whose names match no table are ignored.
func (s *TransferService) ImportWorkbook(ctx context.Context, r io.Reader) (ImportReport, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return ImportReport{}, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	var report ImportReport
	for _, sheet := range wb.GetSheetList() {
		table := strings.ToLower(strings.TrimSpace(sheet))
		inserter := s.inserterFor(table)
		if inserter == nil {
			continue
		}
		rows, err := wb.GetRows(sheet)
		if err != nil {
			return report, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		tr := TableReport{Table: table}
		header := rows[0]
		for _, row := range rows[1:] {
			insertRow(ctx, &tr, inserter, asRecord(header, row))
		}
		report.add(tr)
	}
	return report, nil
}

type rowInserter func(ctx context.Context, rec record) error

func (s *TransferService) inserterFor(table string) rowInserter {
	switch table {
	case "industries":
		return func(ctx context.Context, rec record) error {
			name := rec.str("name")
			if name == "" {
				return fmt.Errorf("name is required")
			}
			return s.industryRepo.Create(ctx, &model.Industry{Name: name})
		}
	case "regions":
		return func(ctx context.Context, rec record) error {
			if rec.str("name") == "" {
				return fmt.Errorf("name is required")
			}
			region := model.Region{
				Name:      rec.str("name"),
				Country:   rec.str("country"),
				Latitude:  rec.float("latitude"),
				Longitude: rec.float("longitude"),
				Weight:    rec.float("weight"),
				Color:     rec.str("color"),
				Notes:     rec.str("notes"),
			}
			if region.Weight == 0 {
				region.Weight = 1.0
			}
			return s.regionRepo.Create(ctx, &region)
		}
	case "clients":
		return func(ctx context.Context, rec record) error {
			if rec.str("name") == "" {
				return fmt.Errorf("name is required")
			}
			client := model.Client{
				Name:          rec.str("name"),
				IndustryID:    rec.ref("industry_id"),
				RegionID:      rec.ref("region_id"),
				ContactPerson: rec.str("contact_person"),
				ContactEmail:  rec.str("contact_email"),
				ContactPhone:  rec.str("contact_phone"),
				Notes:         rec.str("notes"),
				IsActive:      rec.boolOr("is_active", true),
			}
			return s.clientRepo.Create(ctx, &client)
		}
	case "tasks":
		return func(ctx context.Context, rec record) error {
			if rec.str("title") == "" {
				return fmt.Errorf("title is required")
			}
			task := model.Task{
				Title:         rec.str("title"),
				ClientID:      rec.ref("client_id"),
				Owner:         rec.str("owner"),
				Priority:      rec.str("priority"),
				Status:        rec.str("status"),
				StartDate:     rec.str("start_date"),
				DueDate:       rec.str("due_date"),
				CompletedDate: rec.str("completed_date"),
				Description:   rec.str("description"),
			}
			if task.Priority == "" {
				task.Priority = model.PriorityMedium
			}
			if task.Status == "" {
				task.Status = model.StatusOpen
			}
			return s.taskRepo.Create(ctx, &task)
		}
	}
	return nil
}

func insertRow(ctx context.Context, report *TableReport, insert rowInserter, rec record) {
	report.Attempted++
	if err := insert(ctx, rec); err != nil {
		report.Skipped++
		sampleError(report, fmt.Errorf("row %d: %w", report.Attempted, err))
		return
	}
	report.Inserted++
}

func sampleError(report *TableReport, err error) {
	if len(report.Errors) < maxSampledErrors {
		report.Errors = append(report.Errors, err.Error())
	}
}

type tableDump struct {
	name    string
	columns []string
	rows    [][]string
}

func (s *TransferService) snapshot(ctx context.Context) ([]tableDump, error) {
	industries, err := s.industryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	regions, err := s.regionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	dump := []tableDump{
		{name: "industries", columns: industryColumns},
		{name: "regions", columns: regionColumns},
		{name: "clients", columns: clientColumns},
		{name: "tasks", columns: taskColumns},
	}
	for _, ind := range industries {
		dump[0].rows = append(dump[0].rows, []string{
			formatID(ind.ID), ind.Name, formatTime(ind.CreatedAt), formatTime(ind.UpdatedAt),
		})
	}
	for _, r := range regions {
		dump[1].rows = append(dump[1].rows, []string{
			formatID(r.ID), r.Name, r.Country,
			formatFloat(r.Latitude), formatFloat(r.Longitude), formatFloat(r.Weight),
			r.Color, r.Notes, formatTime(r.CreatedAt), formatTime(r.UpdatedAt),
		})
	}
	for _, c := range clients {
		dump[2].rows = append(dump[2].rows, []string{
			formatID(c.ID), c.Name, formatRef(c.IndustryID), formatRef(c.RegionID),
			c.ContactPerson, c.ContactEmail, c.ContactPhone, c.Notes,
			formatBool(c.IsActive), formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
		})
	}
	for _, t := range tasks {
		dump[3].rows = append(dump[3].rows, []string{
			formatID(t.ID), t.Title, formatRef(t.ClientID), t.Owner, t.Priority, t.Status,
			t.StartDate, t.DueDate, t.CompletedDate, t.Description,
			formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
		})
	}
	return dump, nil
}

func writeSheet(wb *excelize.File, sheet string, columns []string, rows [][]string) error {
	all := append([][]string{columns}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// record is one parsed input row keyed by lower-cased column name.
type record map[string]string

func asRecord(header, row []string) record {
	rec := make(record, len(header))
	for i, col := range header {
		if i >= len(row) {
			break
		}
		rec[strings.ToLower(strings.TrimSpace(col))] = strings.TrimSpace(row[i])
	}
	return rec
}

func (r record) str(key string) string { return r[key] }

func (r record) float(key string) float64 {
	v, err := strconv.ParseFloat(r[key], 64)
	if err != nil {
		return 0
	}
	return v
}

func (r record) ref(key string) *uint {
	raw := r[key]
	if raw == "" {
		return nil
	}
	// Spreadsheet round-trips turn integers into "3.0".
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return nil
	}
	id := uint(v)
	return &id
}

func (r record) boolOr(key string, fallback bool) bool {
	switch strings.ToLower(r[key]) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

func formatID(id uint) string       { return strconv.FormatUint(uint64(id), 10) }
func formatFloat(v float64) string  { return strconv.FormatFloat(v, 'g', -1, 64) }
func formatBool(v bool) string      { return map[bool]string{true: "1", false: "0"}[v] }
func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func formatRef(id *uint) string {
	if id == nil {
		return ""
	}
	return formatID(*id)
}
