// ABOUTME: Data models for a measurement workbook session
// ABOUTME: Defines SurveyRecord, its sections, and photo attachments
package models

import (
	"time"
)

// DateFormat is how the measurement date is written into a fresh record.
const DateFormat = "1/2/2006"

// SurveyRecord is the structured data for one measurement session.
type SurveyRecord struct {
	JobInfo        JobInfo        `json:"jobInfo" yaml:"jobInfo"`
	Configuration  Configuration  `json:"configuration" yaml:"configuration"`
	Measurements   Measurements   `json:"measurements" yaml:"measurements"`
	SiteConditions SiteConditions `json:"siteConditions" yaml:"siteConditions"`
}

type JobInfo struct {
	RepName       string `json:"repName" yaml:"repName"`
	Date          string `json:"date" yaml:"date"`
	CustomerName  string `json:"customerName" yaml:"customerName"`
	CustomerPhone string `json:"customerPhone" yaml:"customerPhone"`
	CustomerEmail string `json:"customerEmail" yaml:"customerEmail"`
	JobAddress    string `json:"jobAddress" yaml:"jobAddress"`
}

type Configuration struct {
	ShowerType       string           `json:"showerType,omitempty" yaml:"showerType,omitempty"`
	NewConfig        string           `json:"newConfig,omitempty" yaml:"newConfig,omitempty"`
	FloorLevel       string           `json:"floorLevel" yaml:"floorLevel"`
	BaseType         string           `json:"baseType" yaml:"baseType"`
	DrainLocation    string           `json:"drainLocation" yaml:"drainLocation"`
	DrainAccess      bool             `json:"drainAccess" yaml:"drainAccess"`
	MovingDrain      bool             `json:"movingDrain" yaml:"movingDrain"`
	ConcreteSub      bool             `json:"concreteSub" yaml:"concreteSub"`
	PostTension      bool             `json:"postTension" yaml:"postTension"`
	FourthWall       bool             `json:"fourthWall" yaml:"fourthWall"`
	ManufacturedHome bool             `json:"manufacturedHome" yaml:"manufacturedHome"`
	Condo            bool             `json:"condo" yaml:"condo"`
	WindowInWet      bool             `json:"windowInWet" yaml:"windowInWet"`
	WindowDimensions WindowDimensions `json:"windowDimensions" yaml:"windowDimensions"`
}

// WindowDimensions only carry meaning while Configuration.WindowInWet is set.
type WindowDimensions struct {
	Height    string `json:"height" yaml:"height"`
	Width     string `json:"width" yaml:"width"`
	ToCeiling string `json:"toCeiling" yaml:"toCeiling"`
}

// Measurement is one lettered line of the measurement sheet. Values are kept
// as entered; parsing happens in the validator.
type Measurement struct {
	Existing string `json:"existing" yaml:"existing"`
	New      string `json:"new" yaml:"new"`
	Notes    string `json:"notes" yaml:"notes"`
}

type Measurements struct {
	A                 Measurement `json:"A" yaml:"A"`
	B                 Measurement `json:"B" yaml:"B"`
	C                 Measurement `json:"C" yaml:"C"`
	C2                Measurement `json:"C2" yaml:"C2"`
	D                 Measurement `json:"D" yaml:"D"`
	E                 Measurement `json:"E" yaml:"E"`
	E2                Measurement `json:"E2" yaml:"E2"`
	F                 Measurement `json:"F" yaml:"F"`
	G                 Measurement `json:"G" yaml:"G"`
	BaseToToilet      string      `json:"baseToToilet" yaml:"baseToToilet"`
	NewSurroundHeight string      `json:"newSurroundHeight" yaml:"newSurroundHeight"`
}

// MeasurementLetters lists the lettered measurements in sheet order.
var MeasurementLetters = []string{"A", "B", "C", "C2", "D", "E", "E2", "F", "G"}

var measurementNames = map[string]string{
	"A":  "Width",
	"B":  "Depth",
	"C":  "Right Corner",
	"C2": "Right Surround",
	"D":  "Height",
	"E":  "Left Corner",
	"E2": "Left Surround",
}

// MeasurementLabel returns e.g. "Width (A)", or the bare letter when it has no name.
func MeasurementLabel(letter string) string {
	if name, ok := measurementNames[letter]; ok {
		return name + " (" + letter + ")"
	}
	return letter
}

// Entry returns the measurement for a letter, or nil for an unknown letter.
func (m *Measurements) Entry(letter string) *Measurement {
	switch letter {
	case "A":
		return &m.A
	case "B":
		return &m.B
	case "C":
		return &m.C
	case "C2":
		return &m.C2
	case "D":
		return &m.D
	case "E":
		return &m.E
	case "E2":
		return &m.E2
	case "F":
		return &m.F
	case "G":
		return &m.G
	}
	return nil
}

type SiteConditions struct {
	Issues               Issues `json:"issues" yaml:"issues"`
	StructuralNotes      string `json:"structuralNotes" yaml:"structuralNotes"`
	AccessNotes          string `json:"accessNotes" yaml:"accessNotes"`
	PreferredInstallDate string `json:"preferredInstallDate" yaml:"preferredInstallDate"`
	BestContactTime      string `json:"bestContactTime" yaml:"bestContactTime"`
	CustomerRequests     string `json:"customerRequests" yaml:"customerRequests"`
	AdditionalNotes      string `json:"additionalNotes" yaml:"additionalNotes"`
}

type Issues struct {
	Mold         bool `json:"mold" yaml:"mold"`
	NoGrabBars   bool `json:"noGrabBars" yaml:"noGrabBars"`
	NoAntiSlip   bool `json:"noAntiSlip" yaml:"noAntiSlip"`
	FailingCaulk bool `json:"failingCaulk" yaml:"failingCaulk"`
	CrackedGrout bool `json:"crackedGrout" yaml:"crackedGrout"`
	Staining     bool `json:"staining" yaml:"staining"`
	WaterDamage  bool `json:"waterDamage" yaml:"waterDamage"`
	FailedDrain  bool `json:"failedDrain" yaml:"failedDrain"`
	TempPressure bool `json:"tempPressure" yaml:"tempPressure"`
	Leaking      bool `json:"leaking" yaml:"leaking"`
}

// PhotoAttachment is the compressed payload held in one photo slot.
type PhotoAttachment struct {
	Name           string `json:"name" yaml:"name"`
	Data           string `json:"data" yaml:"data"`
	OriginalSize   int64  `json:"originalSize" yaml:"originalSize"`
	CompressedSize int64  `json:"compressedSize,omitempty" yaml:"compressedSize,omitempty"`
}

// PhotoSet maps slot identifiers to their attachment.
type PhotoSet map[string]PhotoAttachment

// Clone returns a shallow copy; attachments are values so this is a full copy.
func (p PhotoSet) Clone() PhotoSet {
	out := make(PhotoSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// NewSurveyRecord returns an empty record with the measurement date set to now.
func NewSurveyRecord(now time.Time) *SurveyRecord {
	return &SurveyRecord{
		JobInfo: JobInfo{Date: now.Format(DateFormat)},
	}
}
