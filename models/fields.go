// ABOUTME: Typed field commands for editing a SurveyRecord
// ABOUTME: Maps dotted keys to text fields, boolean flags, and enumerated option groups
package models

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidOption = errors.New("invalid option")
)

// Option groups.
const (
	GroupShowerType = "showerType"
	GroupNewConfig  = "newConfig"
)

// Existing shower types.
const (
	ShowerTubShower = "tub-shower"
	ShowerOnly      = "shower-only"
	ShowerWalkIn    = "walk-in"
	ShowerNeoAngle  = "neo-angle"
	ShowerCorner    = "corner"
)

// New configurations.
const (
	ConfigTubShower  = "tub-to-shower"
	ConfigShowerOnly = "shower-to-shower"
	ConfigTubTub     = "tub-to-tub"
	ConfigShowerTub  = "shower-to-tub"
)

// OptionGroups lists the allowed values for each option group, in display order.
var OptionGroups = map[string][]string{
	GroupShowerType: {ShowerTubShower, ShowerOnly, ShowerWalkIn, ShowerNeoAngle, ShowerCorner},
	GroupNewConfig:  {ConfigTubShower, ConfigShowerOnly, ConfigTubTub, ConfigShowerTub},
}

type textAccessor func(*SurveyRecord) *string
type flagAccessor func(*SurveyRecord) *bool

var textFields = map[string]textAccessor{
	"jobInfo.repName":       func(r *SurveyRecord) *string { return &r.JobInfo.RepName },
	"jobInfo.date":          func(r *SurveyRecord) *string { return &r.JobInfo.Date },
	"jobInfo.customerName":  func(r *SurveyRecord) *string { return &r.JobInfo.CustomerName },
	"jobInfo.customerPhone": func(r *SurveyRecord) *string { return &r.JobInfo.CustomerPhone },
	"jobInfo.customerEmail": func(r *SurveyRecord) *string { return &r.JobInfo.CustomerEmail },
	"jobInfo.jobAddress":    func(r *SurveyRecord) *string { return &r.JobInfo.JobAddress },

	"configuration.floorLevel":                 func(r *SurveyRecord) *string { return &r.Configuration.FloorLevel },
	"configuration.baseType":                   func(r *SurveyRecord) *string { return &r.Configuration.BaseType },
	"configuration.drainLocation":              func(r *SurveyRecord) *string { return &r.Configuration.DrainLocation },
	"configuration.windowDimensions.height":    func(r *SurveyRecord) *string { return &r.Configuration.WindowDimensions.Height },
	"configuration.windowDimensions.width":     func(r *SurveyRecord) *string { return &r.Configuration.WindowDimensions.Width },
	"configuration.windowDimensions.toCeiling": func(r *SurveyRecord) *string { return &r.Configuration.WindowDimensions.ToCeiling },

	"measurements.baseToToilet":      func(r *SurveyRecord) *string { return &r.Measurements.BaseToToilet },
	"measurements.newSurroundHeight": func(r *SurveyRecord) *string { return &r.Measurements.NewSurroundHeight },

	"siteConditions.structuralNotes":      func(r *SurveyRecord) *string { return &r.SiteConditions.StructuralNotes },
	"siteConditions.accessNotes":          func(r *SurveyRecord) *string { return &r.SiteConditions.AccessNotes },
	"siteConditions.preferredInstallDate": func(r *SurveyRecord) *string { return &r.SiteConditions.PreferredInstallDate },
	"siteConditions.bestContactTime":      func(r *SurveyRecord) *string { return &r.SiteConditions.BestContactTime },
	"siteConditions.customerRequests":     func(r *SurveyRecord) *string { return &r.SiteConditions.CustomerRequests },
	"siteConditions.additionalNotes":      func(r *SurveyRecord) *string { return &r.SiteConditions.AdditionalNotes },
}

var flagFields = map[string]flagAccessor{
	"configuration.drainAccess":      func(r *SurveyRecord) *bool { return &r.Configuration.DrainAccess },
	"configuration.movingDrain":      func(r *SurveyRecord) *bool { return &r.Configuration.MovingDrain },
	"configuration.concreteSub":      func(r *SurveyRecord) *bool { return &r.Configuration.ConcreteSub },
	"configuration.postTension":      func(r *SurveyRecord) *bool { return &r.Configuration.PostTension },
	"configuration.fourthWall":       func(r *SurveyRecord) *bool { return &r.Configuration.FourthWall },
	"configuration.manufacturedHome": func(r *SurveyRecord) *bool { return &r.Configuration.ManufacturedHome },
	"configuration.condo":            func(r *SurveyRecord) *bool { return &r.Configuration.Condo },
	"configuration.windowInWet":      func(r *SurveyRecord) *bool { return &r.Configuration.WindowInWet },

	"siteConditions.issues.mold":         func(r *SurveyRecord) *bool { return &r.SiteConditions.Issues.Mold },
	"siteConditions.issues.noGrabBars":   func(r *SurveyRecord) *bool { return &r.SiteConditions.Issues.NoGrabBars },
	"siteConditions.issues.noAntiSlip":   func(r *SurveyRecord) *bool { return &r.SiteConditions.Issues.NoAntiSlip },
	"siteConditions.issues.failingCaulk": func(r *SurveyRecord) *bool { return &r.SiteConditions.Issues.FailingCaulk },
	"siteConditions.issues.crackedGrout": func(r *SurveyRecord) *bool { return &r.SiteConditions.Issues.CrackedGrout },
	"siteConditions.issues.staining":     func(r *SurveyRecord) *bool { return &r.SiteConditions.Issues.Staining },
	"siteConditions.issues.waterDamage":  func(r *SurveyRecord) *bool { return &r.SiteConditions.Issues.WaterDamage },
	"siteConditions.issues.failedDrain":  func(r *SurveyRecord) *bool { return &r.SiteConditions.Issues.FailedDrain },
	"siteConditions.issues.tempPressure": func(r *SurveyRecord) *bool { return &r.SiteConditions.Issues.TempPressure },
	"siteConditions.issues.leaking":      func(r *SurveyRecord) *bool { return &r.SiteConditions.Issues.Leaking },
}

// IssueLabels are the human labels of the site-condition issue flags.
var IssueLabels = map[string]string{
	"siteConditions.issues.mold":         "Mold or mildew present",
	"siteConditions.issues.noGrabBars":   "No grab bars installed",
	"siteConditions.issues.noAntiSlip":   "No anti-slip surface",
	"siteConditions.issues.failingCaulk": "Failing caulk",
	"siteConditions.issues.crackedGrout": "Cracked or missing grout",
	"siteConditions.issues.staining":     "Staining or discoloration",
	"siteConditions.issues.waterDamage":  "Water damage visible",
	"siteConditions.issues.failedDrain":  "Failed or slow drain",
	"siteConditions.issues.tempPressure": "Temperature/pressure issue",
	"siteConditions.issues.leaking":      "Leaking fixtures",
}

func init() {
	for _, letter := range MeasurementLetters {
		l := letter
		textFields["measurements."+l+".existing"] = func(r *SurveyRecord) *string { return &r.Measurements.Entry(l).Existing }
		textFields["measurements."+l+".new"] = func(r *SurveyRecord) *string { return &r.Measurements.Entry(l).New }
		textFields["measurements."+l+".notes"] = func(r *SurveyRecord) *string { return &r.Measurements.Entry(l).Notes }
	}
}

// SetField stores a text value under a dotted key.
func (r *SurveyRecord) SetField(key, value string) error {
	acc, ok := textFields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	*acc(r) = value
	return nil
}

// Field reads a text value by dotted key.
func (r *SurveyRecord) Field(key string) (string, error) {
	acc, ok := textFields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return *acc(r), nil
}

// ToggleFlag flips a boolean flag and returns its new value.
func (r *SurveyRecord) ToggleFlag(key string) (bool, error) {
	acc, ok := flagFields[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	p := acc(r)
	*p = !*p
	return *p, nil
}

// SetFlag sets a boolean flag.
func (r *SurveyRecord) SetFlag(key string, value bool) error {
	acc, ok := flagFields[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	*acc(r) = value
	return nil
}

// Flag reads a boolean flag.
func (r *SurveyRecord) Flag(key string) (bool, error) {
	acc, ok := flagFields[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return *acc(r), nil
}

// SelectOption picks one value of an option group. An empty value clears the group.
func (r *SurveyRecord) SelectOption(group, value string) error {
	allowed, ok := OptionGroups[group]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, group)
	}
	if value != "" && !contains(allowed, value) {
		return fmt.Errorf("%w: %q is not one of %v", ErrInvalidOption, value, allowed)
	}
	switch group {
	case GroupShowerType:
		r.Configuration.ShowerType = value
	case GroupNewConfig:
		r.Configuration.NewConfig = value
	}
	return nil
}

// Option reads the selected value of an option group.
func (r *SurveyRecord) Option(group string) (string, error) {
	switch group {
	case GroupShowerType:
		return r.Configuration.ShowerType, nil
	case GroupNewConfig:
		return r.Configuration.NewConfig, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownField, group)
}

// FieldKeys returns every text field key, sorted.
func FieldKeys() []string {
	return sortedKeys(textFields)
}

// FlagKeys returns every boolean flag key, sorted.
func FlagKeys() []string {
	return sortedKeys(flagFields)
}

// IssueFlagKeys returns the site-condition issue flags in sheet order.
func IssueFlagKeys() []string {
	return []string{
		"siteConditions.issues.mold",
		"siteConditions.issues.noGrabBars",
		"siteConditions.issues.noAntiSlip",
		"siteConditions.issues.failingCaulk",
		"siteConditions.issues.crackedGrout",
		"siteConditions.issues.staining",
		"siteConditions.issues.waterDamage",
		"siteConditions.issues.failedDrain",
		"siteConditions.issues.tempPressure",
		"siteConditions.issues.leaking",
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
