// ABOUTME: Export of a finished workbook as a JSON, YAML, or XLSX document
// ABOUTME: Builds the combined document and names the download from the customer and date
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/measurebook/models"
)

// DocumentVersion tags every exported document.
const DocumentVersion = 1

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported formats in menu order.
var Formats = []Format{FormatJSON, FormatYAML, FormatXLSX}

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a format name in any case. "yml" is an alias for yaml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
}

// Document is the full survey record, every photo, and the export time.
type Document struct {
	JobInfo        models.JobInfo        `json:"jobInfo" yaml:"jobInfo"`
	Configuration  models.Configuration  `json:"configuration" yaml:"configuration"`
	Measurements   models.Measurements   `json:"measurements" yaml:"measurements"`
	SiteConditions models.SiteConditions `json:"siteConditions" yaml:"siteConditions"`
	Photos         models.PhotoSet       `json:"photos" yaml:"photos"`
	ExportedAt     time.Time             `json:"exportedAt" yaml:"exportedAt"`
	Version        int                   `json:"version" yaml:"version"`
}

// NewDocument combines a record and its photos. A nil photo set exports as empty.
func NewDocument(record models.SurveyRecord, photos models.PhotoSet, now time.Time) Document {
	if photos == nil {
		photos = models.PhotoSet{}
	}
	return Document{
		JobInfo:        record.JobInfo,
		Configuration:  record.Configuration,
		Measurements:   record.Measurements,
		SiteConditions: record.SiteConditions,
		Photos:         photos,
		ExportedAt:     now.UTC(),
		Version:        DocumentVersion,
	}
}

// Record returns the survey part of the document.
func (d Document) Record() models.SurveyRecord {
	return models.SurveyRecord{
		JobInfo:        d.JobInfo,
		Configuration:  d.Configuration,
		Measurements:   d.Measurements,
		SiteConditions: d.SiteConditions,
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName returns measurement-workbook-<customer>-<YYYY-MM-DD>.<ext>.
func FileName(customer string, now time.Time, format Format) string {
	name := whitespace.ReplaceAllString(strings.TrimSpace(customer), "-")
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '-'
		}
		return r
	}, name)
	if name == "" {
		name = "customer"
	}
	return fmt.Sprintf("measurement-workbook-%s-%s.%s", name, now.Format("2006-01-02"), format)
}

// Write encodes doc to w in the given format.
func Write(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatXLSX:
		return writeXLSX(w, doc)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}
