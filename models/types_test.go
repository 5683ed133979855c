// ABOUTME: Tests for workbook data models
// ABOUTME: Validates field commands, option groups, slots, and JSON shape
package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSurveyRecordDefaultsDate(t *testing.T) {
	now := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	r := NewSurveyRecord(now)

	assert.Equal(t, "3/7/2026", r.JobInfo.Date)
	assert.Empty(t, r.JobInfo.RepName)
	assert.Empty(t, r.Configuration.ShowerType)
}

func TestSetFieldAndField(t *testing.T) {
	r := &SurveyRecord{}

	require.NoError(t, r.SetField("jobInfo.customerName", "Jane Doe"))
	require.NoError(t, r.SetField("measurements.C2.new", "41.5"))
	require.NoError(t, r.SetField("configuration.windowDimensions.toCeiling", "12"))

	assert.Equal(t, "Jane Doe", r.JobInfo.CustomerName)
	assert.Equal(t, "41.5", r.Measurements.C2.New)
	assert.Equal(t, "12", r.Configuration.WindowDimensions.ToCeiling)

	v, err := r.Field("measurements.C2.new")
	require.NoError(t, err)
	assert.Equal(t, "41.5", v)
}

func TestSetFieldUnknownKey(t *testing.T) {
	r := &SurveyRecord{}

	err := r.SetField("jobInfo.favoriteColor", "blue")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = r.Field("measurements.Z.new")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestToggleFlag(t *testing.T) {
	r := &SurveyRecord{}

	on, err := r.ToggleFlag("siteConditions.issues.mold")
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, r.SiteConditions.Issues.Mold)

	off, err := r.ToggleFlag("siteConditions.issues.mold")
	require.NoError(t, err)
	assert.False(t, off)

	_, err = r.ToggleFlag("siteConditions.issues.ghosts")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSelectOption(t *testing.T) {
	r := &SurveyRecord{}

	require.NoError(t, r.SelectOption(GroupShowerType, ShowerWalkIn))
	require.NoError(t, r.SelectOption(GroupNewConfig, ConfigTubShower))
	assert.Equal(t, ShowerWalkIn, r.Configuration.ShowerType)
	assert.Equal(t, ConfigTubShower, r.Configuration.NewConfig)

	err := r.SelectOption(GroupShowerType, "hot-tub")
	assert.ErrorIs(t, err, ErrInvalidOption)
	assert.Equal(t, ShowerWalkIn, r.Configuration.ShowerType, "invalid option must not change selection")

	err = r.SelectOption("color", "red")
	assert.ErrorIs(t, err, ErrUnknownField)

	require.NoError(t, r.SelectOption(GroupShowerType, ""))
	assert.Empty(t, r.Configuration.ShowerType)
}

func TestFieldKeysCoverMeasurements(t *testing.T) {
	keys := FieldKeys()
	for _, letter := range MeasurementLetters {
		assert.Contains(t, keys, "measurements."+letter+".existing")
		assert.Contains(t, keys, "measurements."+letter+".new")
		assert.Contains(t, keys, "measurements."+letter+".notes")
	}
	assert.Len(t, IssueFlagKeys(), 10)
	for _, k := range IssueFlagKeys() {
		assert.Contains(t, FlagKeys(), k)
		assert.NotEmpty(t, IssueLabels[k])
	}
}

func TestSlots(t *testing.T) {
	assert.Len(t, Slots, 16)

	s, ok := LookupSlot("entry")
	require.True(t, ok)
	assert.Equal(t, "Bathroom Entry", s.Label)

	_, ok = LookupSlot("garage")
	assert.False(t, ok)
}

func TestSurveyRecordJSONShape(t *testing.T) {
	r := &SurveyRecord{}
	r.Measurements.A.New = "50"
	r.SiteConditions.Issues.Leaking = true

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var generic map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &generic))

	a, ok := generic["measurements"]["A"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "50", a["new"])

	issues, ok := generic["siteConditions"]["issues"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, issues["leaking"])

	_, hasShowerType := generic["configuration"]["showerType"]
	assert.False(t, hasShowerType, "unselected shower type is omitted")
}

func TestPhotoSetClone(t *testing.T) {
	p := PhotoSet{"entry": {Name: "a.jpg"}}
	c := p.Clone()
	c["misc1"] = PhotoAttachment{Name: "b.jpg"}

	assert.Len(t, p, 1)
	assert.Len(t, c, 2)
}

func TestMeasurementLabel(t *testing.T) {
	assert.Equal(t, "Width (A)", MeasurementLabel("A"))
	assert.Equal(t, "Left Surround (E2)", MeasurementLabel("E2"))
	assert.Equal(t, "G", MeasurementLabel("G"))
}
