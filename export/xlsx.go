// ABOUTME: Spreadsheet rendition of an exported workbook
// ABOUTME: One sheet per section; photo payloads are left out and only names and sizes listed
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/harperreed/measurebook/models"
)

// Sheet names, in workbook order.
const (
	SheetJob            = "Job"
	SheetMeasurements   = "Measurements"
	SheetSiteConditions = "Site Conditions"
	SheetPhotos         = "Photos"
)

func writeXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetJob); err != nil {
		return err
	}
	for _, name := range []string{SheetMeasurements, SheetSiteConditions, SheetPhotos} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	sheets := map[string][][]interface{}{
		SheetJob:            jobRows(doc),
		SheetMeasurements:   measurementRows(doc.Measurements),
		SheetSiteConditions: siteRows(doc.SiteConditions),
		SheetPhotos:         photoRows(doc.Photos),
	}
	for sheet, rows := range sheets {
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			r := row
			if err := f.SetSheetRow(sheet, cell, &r); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
			}
		}
		if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func jobRows(doc Document) [][]interface{} {
	c := doc.Configuration
	rows := [][]interface{}{
		{"Field", "Value"},
		{"Sales Rep", doc.JobInfo.RepName},
		{"Date", doc.JobInfo.Date},
		{"Customer", doc.JobInfo.CustomerName},
		{"Phone", doc.JobInfo.CustomerPhone},
		{"Email", doc.JobInfo.CustomerEmail},
		{"Address", doc.JobInfo.JobAddress},
		{"Existing Shower Type", c.ShowerType},
		{"New Configuration", c.NewConfig},
		{"Floor Level", c.FloorLevel},
		{"Base Type", c.BaseType},
		{"Drain Location", c.DrainLocation},
		{"Drain Access", c.DrainAccess},
		{"Moving Drain", c.MovingDrain},
		{"Concrete Subfloor", c.ConcreteSub},
		{"Post Tension", c.PostTension},
		{"Fourth Wall", c.FourthWall},
		{"Manufactured Home", c.ManufacturedHome},
		{"Condo", c.Condo},
		{"Window in Wet Area", c.WindowInWet},
	}
	if c.WindowInWet {
		rows = append(rows,
			[]interface{}{"Window Height", c.WindowDimensions.Height},
			[]interface{}{"Window Width", c.WindowDimensions.Width},
			[]interface{}{"Window to Ceiling", c.WindowDimensions.ToCeiling},
		)
	}
	return append(rows, []interface{}{"Exported At", doc.ExportedAt.Format("2006-01-02 15:04:05 MST")})
}

func measurementRows(m models.Measurements) [][]interface{} {
	rows := [][]interface{}{{"Measurement", "Existing", "New", "Notes"}}
	for _, letter := range models.MeasurementLetters {
		e := m.Entry(letter)
		rows = append(rows, []interface{}{letter, e.Existing, e.New, e.Notes})
	}
	return append(rows,
		[]interface{}{"Base to Toilet", "", m.BaseToToilet, ""},
		[]interface{}{"New Surround Height", "", m.NewSurroundHeight, ""},
	)
}

func siteRows(s models.SiteConditions) [][]interface{} {
	record := models.SurveyRecord{SiteConditions: s}
	rows := [][]interface{}{{"Issue", "Present"}}
	for _, key := range models.IssueFlagKeys() {
		present, _ := record.Flag(key)
		rows = append(rows, []interface{}{models.IssueLabels[key], present})
	}
	return append(rows,
		[]interface{}{"Structural Notes", s.StructuralNotes},
		[]interface{}{"Access Notes", s.AccessNotes},
		[]interface{}{"Preferred Install Date", s.PreferredInstallDate},
		[]interface{}{"Best Contact Time", s.BestContactTime},
		[]interface{}{"Customer Requests", s.CustomerRequests},
		[]interface{}{"Additional Notes", s.AdditionalNotes},
	)
}

func photoRows(photos models.PhotoSet) [][]interface{} {
	rows := [][]interface{}{{"Slot", "File", "Original Bytes", "Compressed Bytes"}}
	for _, slot := range models.Slots {
		a, ok := photos[slot.ID]
		if !ok {
			continue
		}
		rows = append(rows, []interface{}{slot.Label, a.Name, a.OriginalSize, a.CompressedSize})
	}
	return rows
}
