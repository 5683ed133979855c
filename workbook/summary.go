// ABOUTME: Read-only review summary of the current workbook
// ABOUTME: Sections mirror the review screen: job, configuration, photos, key measurements, issues
package workbook

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/harperreed/measurebook/models"
)

type SummaryItem struct {
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
}

type SummarySection struct {
	Title string        `json:"title"`
	Items []SummaryItem `json:"items"`
}

type Summary struct {
	Sections []SummarySection `json:"sections"`
}

func buildSummary(r models.SurveyRecord, photoCount int, photoBytes int64) Summary {
	sections := []SummarySection{
		{
			Title: "Job Information",
			Items: []SummaryItem{
				{"Sales Rep", r.JobInfo.RepName},
				{"Date", r.JobInfo.Date},
				{"Customer", r.JobInfo.CustomerName},
				{"Address", r.JobInfo.JobAddress},
			},
		},
		{
			Title: "Shower Configuration",
			Items: []SummaryItem{
				{"Shower Type", or(r.Configuration.ShowerType, "Not selected")},
				{"Floor Level", or(r.Configuration.FloorLevel, "Not specified")},
				{"Base Type", or(r.Configuration.BaseType, "Not specified")},
			},
		},
		{
			Title: "Photos Uploaded",
			Items: []SummaryItem{
				{"Total Photos", fmt.Sprintf("%d photos", photoCount)},
				{"Total Size", humanize.Bytes(uint64(photoBytes))},
			},
		},
		{
			Title: "Key Measurements",
			Items: []SummaryItem{
				{"A (Width)", inches(r.Measurements.A.New)},
				{"B (Depth)", inches(r.Measurements.B.New)},
				{"D (Height)", inches(r.Measurements.D.New)},
			},
		},
	}

	var issues []SummaryItem
	for _, key := range models.IssueFlagKeys() {
		if on, _ := r.Flag(key); on {
			issues = append(issues, SummaryItem{Value: models.IssueLabels[key]})
		}
	}
	if len(issues) > 0 {
		sections = append(sections, SummarySection{Title: "Site Issues Identified", Items: issues})
	}
	return Summary{Sections: sections}
}

func or(v, fallback string) string {
	if blank(v) {
		return fallback
	}
	return v
}

func inches(v string) string {
	if blank(v) {
		return "Not measured"
	}
	return v + `"`
}
