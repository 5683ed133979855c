// ABOUTME: Export and history CLI commands
// ABOUTME: Writes the workbook to disk and lists past exports from the history database
package cli

import (
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/harperreed/measurebook/db"
	"github.com/harperreed/measurebook/export"
	"github.com/harperreed/measurebook/handlers"
)

// ExportCommand writes the workbook as json, yaml, or xlsx
func ExportCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	formatName := fs.String("format", "json", "Export format: json, yaml, or xlsx")
	outDir := fs.String("out", "", "Directory to write into (default: <data-dir>/exports)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := export.ParseFormat(*formatName)
	if err != nil {
		return err
	}
	dir := *outDir
	if dir == "" {
		dir = app.ExportDir()
	}

	rec, err := handlers.ExportAndRecord(app.Session, app.History, dir, format)
	if err != nil {
		return err
	}

	okColor.Fprintf(app.Out, "✓ Workbook exported: %s\n", rec.Path)
	fmt.Fprintf(app.Out, "  %s, %d photo(s)\n", humanize.Bytes(uint64(rec.SizeBytes)), rec.PhotoCount)
	if rec.WarningCount > 0 {
		warnColor.Fprintf(app.Out, "  ⚠ %d measurement warning(s); run 'measurebook validate'\n", rec.WarningCount)
	}
	return nil
}

// HistoryCommand lists past exports, newest first, or shows one export by id
func HistoryCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	customer := fs.String("customer", "", "Filter by customer name")
	limit := fs.Int("limit", 20, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() > 0 {
		return showExport(app, fs.Arg(0))
	}

	records, err := db.ListExports(app.History, *customer, *limit)
	if err != nil {
		return fmt.Errorf("failed to list exports: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(app.Out, "No exports found")
		return nil
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tCUSTOMER\tFORMAT\tSIZE\tPHOTOS\tFILE")
	fmt.Fprintln(w, "----\t--------\t------\t----\t------\t----")

	for _, rec := range records {
		customer := rec.CustomerName
		if customer == "" {
			customer = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			humanize.Time(rec.CreatedAt), customer, rec.Format,
			humanize.Bytes(uint64(rec.SizeBytes)), rec.PhotoCount, rec.FileName)
	}
	w.Flush()

	fmt.Fprintf(app.Out, "\nTotal: %d export(s)\n", len(records))
	return nil
}

func showExport(app *App, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("invalid export ID: %w", err)
	}

	rec, err := db.GetExport(app.History, id)
	if err != nil {
		return fmt.Errorf("failed to get export: %w", err)
	}
	if rec == nil {
		return fmt.Errorf("export not found: %s", id)
	}

	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", rec.ID)
	fmt.Fprintf(w, "File:\t%s\n", rec.FileName)
	fmt.Fprintf(w, "Path:\t%s\n", rec.Path)
	fmt.Fprintf(w, "Format:\t%s\n", rec.Format)
	fmt.Fprintf(w, "Customer:\t%s\n", rec.CustomerName)
	fmt.Fprintf(w, "Address:\t%s\n", rec.JobAddress)
	fmt.Fprintf(w, "Size:\t%s\n", humanize.Bytes(uint64(rec.SizeBytes)))
	fmt.Fprintf(w, "Photos:\t%d\n", rec.PhotoCount)
	fmt.Fprintf(w, "Warnings:\t%d\n", rec.WarningCount)
	fmt.Fprintf(w, "Exported:\t%s (%s)\n", rec.CreatedAt.Local().Format("2006-01-02 15:04"), humanize.Time(rec.CreatedAt))
	return w.Flush()
}
