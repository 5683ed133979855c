// ABOUTME: Workbook MCP tool handlers
// ABOUTME: Reads and edits the current session, validates measurements, and exports to disk
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/harperreed/measurebook/db"
	"github.com/harperreed/measurebook/export"
	"github.com/harperreed/measurebook/models"
	"github.com/harperreed/measurebook/workbook"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type WorkbookHandlers struct {
	session *workbook.Session
	db      *sql.DB
	outDir  string
}

// NewWorkbookHandlers serves session. Exports are written to outDir and
// recorded in database when it is non-nil.
func NewWorkbookHandlers(session *workbook.Session, database *sql.DB, outDir string) *WorkbookHandlers {
	return &WorkbookHandlers{session: session, db: database, outDir: outDir}
}

type GetWorkbookInput struct{}

type PhotoOutput struct {
	Slot           string `json:"slot"`
	Label          string `json:"label"`
	Name           string `json:"name"`
	OriginalSize   int64  `json:"original_size"`
	CompressedSize int64  `json:"compressed_size"`
}

type WorkbookOutput struct {
	Record   models.SurveyRecord `json:"record"`
	Photos   []PhotoOutput       `json:"photos"`
	Step     int                 `json:"step"`
	StepName string              `json:"step_name"`
	Progress float64             `json:"progress"`
	Warnings []string            `json:"warnings"`
	Summary  workbook.Summary    `json:"summary"`
	Saved    bool                `json:"saved"`
	// Missing lists the required-field messages still blocking a step.
	Missing []string `json:"missing"`
}

func (h *WorkbookHandlers) GetWorkbook(_ context.Context, request *mcp.CallToolRequest, input GetWorkbookInput) (*mcp.CallToolResult, WorkbookOutput, error) {
	return nil, h.snapshot(), nil
}

func (h *WorkbookHandlers) snapshot() WorkbookOutput {
	step := h.session.Step()
	return WorkbookOutput{
		Record:   h.session.Record(),
		Photos:   photoOutputs(h.session.Photos()),
		Step:     int(step),
		StepName: step.Title(),
		Progress: h.session.Progress(),
		Warnings: h.session.Validate(),
		Summary:  h.session.Summary(),
		Saved:    h.session.Saved(),
		Missing:  missingFields(h.session),
	}
}

func missingFields(session *workbook.Session) []string {
	missing := []string{}
	for i := 1; i <= workbook.TotalSteps; i++ {
		step := workbook.Step(i)
		if err := session.CheckStep(step); err != nil {
			missing = append(missing, fmt.Sprintf("%s: %v", step.Title(), err))
		}
	}
	return missing
}

func photoOutputs(set models.PhotoSet) []PhotoOutput {
	out := []PhotoOutput{}
	for _, slot := range models.Slots {
		a, ok := set[slot.ID]
		if !ok {
			continue
		}
		out = append(out, PhotoOutput{
			Slot:           slot.ID,
			Label:          slot.Label,
			Name:           a.Name,
			OriginalSize:   a.OriginalSize,
			CompressedSize: a.CompressedSize,
		})
	}
	return out
}

type SetFieldInput struct {
	Key   string `json:"key" jsonschema:"Dotted field key, e.g. jobInfo.customerName or measurements.A.new (required)"`
	Value string `json:"value" jsonschema:"New text value; empty clears the field"`
}

type FieldOutput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (h *WorkbookHandlers) SetField(_ context.Context, request *mcp.CallToolRequest, input SetFieldInput) (*mcp.CallToolResult, FieldOutput, error) {
	if input.Key == "" {
		return nil, FieldOutput{}, fmt.Errorf("key is required")
	}
	if err := h.session.SetField(input.Key, input.Value); err != nil {
		return nil, FieldOutput{}, fmt.Errorf("failed to set field: %w", err)
	}
	return nil, FieldOutput{Key: input.Key, Value: input.Value}, nil
}

type ToggleFlagInput struct {
	Key string `json:"key" jsonschema:"Dotted flag key, e.g. configuration.windowInWet or siteConditions.issues.mold (required)"`
}

type FlagOutput struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

func (h *WorkbookHandlers) ToggleFlag(_ context.Context, request *mcp.CallToolRequest, input ToggleFlagInput) (*mcp.CallToolResult, FlagOutput, error) {
	if input.Key == "" {
		return nil, FlagOutput{}, fmt.Errorf("key is required")
	}
	on, err := h.session.ToggleFlag(input.Key)
	if err != nil {
		return nil, FlagOutput{}, fmt.Errorf("failed to toggle flag: %w", err)
	}
	return nil, FlagOutput{Key: input.Key, Value: on}, nil
}

type SelectOptionInput struct {
	Group string `json:"group" jsonschema:"Option group: showerType or newConfig (required)"`
	Value string `json:"value" jsonschema:"Option value; empty clears the selection"`
}

type OptionOutput struct {
	Group   string   `json:"group"`
	Value   string   `json:"value"`
	Allowed []string `json:"allowed"`
}

func (h *WorkbookHandlers) SelectOption(_ context.Context, request *mcp.CallToolRequest, input SelectOptionInput) (*mcp.CallToolResult, OptionOutput, error) {
	if input.Group == "" {
		return nil, OptionOutput{}, fmt.Errorf("group is required")
	}
	if err := h.session.SelectOption(input.Group, input.Value); err != nil {
		return nil, OptionOutput{}, fmt.Errorf("failed to select option: %w", err)
	}
	return nil, OptionOutput{Group: input.Group, Value: input.Value, Allowed: models.OptionGroups[input.Group]}, nil
}

type ValidateInput struct{}

type ValidateOutput struct {
	Warnings []string `json:"warnings"`
	Count    int      `json:"count"`
}

func (h *WorkbookHandlers) ValidateMeasurements(_ context.Context, request *mcp.CallToolRequest, input ValidateInput) (*mcp.CallToolResult, ValidateOutput, error) {
	warnings := h.session.Validate()
	return nil, ValidateOutput{Warnings: warnings, Count: len(warnings)}, nil
}

type ExportInput struct {
	Format string `json:"format,omitempty" jsonschema:"Export format: json (default), yaml, or xlsx"`
	OutDir string `json:"out_dir,omitempty" jsonschema:"Directory to write into (defaults to the configured export directory)"`
}

type ExportOutput struct {
	ID       string `json:"id,omitempty"`
	Path     string `json:"path"`
	FileName string `json:"file_name"`
	Format   string `json:"format"`
	Bytes    int64  `json:"bytes"`
}

func (h *WorkbookHandlers) ExportWorkbook(_ context.Context, request *mcp.CallToolRequest, input ExportInput) (*mcp.CallToolResult, ExportOutput, error) {
	format, err := export.ParseFormat(input.Format)
	if err != nil {
		return nil, ExportOutput{}, err
	}
	dir := input.OutDir
	if dir == "" {
		dir = h.outDir
	}

	rec, err := ExportAndRecord(h.session, h.db, dir, format)
	if err != nil {
		return nil, ExportOutput{}, err
	}

	out := ExportOutput{Path: rec.Path, FileName: rec.FileName, Format: rec.Format, Bytes: rec.SizeBytes}
	if h.db != nil {
		out.ID = rec.ID.String()
	}
	return nil, out, nil
}

// ExportAndRecord writes the session into dir and, with a database, adds the
// export to history.
func ExportAndRecord(session *workbook.Session, database *sql.DB, dir string, format export.Format) (*db.ExportRecord, error) {
	path, size, err := session.ExportFile(dir, format)
	if err != nil {
		return nil, err
	}

	record := session.Record()
	rec := &db.ExportRecord{
		FileName:     filepath.Base(path),
		Format:       string(format),
		CustomerName: record.JobInfo.CustomerName,
		JobAddress:   record.JobInfo.JobAddress,
		Path:         path,
		SizeBytes:    size,
		PhotoCount:   session.PhotoCount(),
		WarningCount: len(session.Validate()),
	}
	if database == nil {
		return rec, nil
	}
	if err := db.RecordExport(database, rec); err != nil {
		return nil, fmt.Errorf("failed to record export: %w", err)
	}
	return rec, nil
}

type ListExportsInput struct {
	Customer string `json:"customer,omitempty" jsonschema:"Filter by customer name substring"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 20)"`
}

type ExportEntry struct {
	ID           string `json:"id"`
	FileName     string `json:"file_name"`
	Format       string `json:"format"`
	CustomerName string `json:"customer_name"`
	Path         string `json:"path"`
	Bytes        int64  `json:"bytes"`
	Photos       int    `json:"photos"`
	Warnings     int    `json:"warnings"`
	CreatedAt    string `json:"created_at"`
}

type ListExportsOutput struct {
	Exports []ExportEntry `json:"exports"`
}

func (h *WorkbookHandlers) ListExports(_ context.Context, request *mcp.CallToolRequest, input ListExportsInput) (*mcp.CallToolResult, ListExportsOutput, error) {
	entries := []ExportEntry{}
	if h.db == nil {
		return nil, ListExportsOutput{Exports: entries}, nil
	}
	records, err := db.ListExports(h.db, input.Customer, input.Limit)
	if err != nil {
		return nil, ListExportsOutput{}, fmt.Errorf("failed to list exports: %w", err)
	}
	for _, rec := range records {
		entries = append(entries, ExportEntry{
			ID:           rec.ID.String(),
			FileName:     rec.FileName,
			Format:       rec.Format,
			CustomerName: rec.CustomerName,
			Path:         rec.Path,
			Bytes:        rec.SizeBytes,
			Photos:       rec.PhotoCount,
			Warnings:     rec.WarningCount,
			CreatedAt:    rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return nil, ListExportsOutput{Exports: entries}, nil
}
