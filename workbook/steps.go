// ABOUTME: The six workbook steps and their required-field checks
// ABOUTME: A step can only be left forward once its required fields are filled
package workbook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/measurebook/models"
)

type Step int

const (
	StepJobInfo Step = iota + 1
	StepConfiguration
	StepPhotos
	StepMeasurements
	StepSiteConditions
	StepReview
)

// TotalSteps is the number of steps in a workbook.
const TotalSteps = int(StepReview)

var stepTitles = map[Step]string{
	StepJobInfo:        "Job Info",
	StepConfiguration:  "Shower Configuration",
	StepPhotos:         "Photos",
	StepMeasurements:   "Measurements",
	StepSiteConditions: "Site Conditions",
	StepReview:         "Review",
}

func (s Step) Title() string {
	if t, ok := stepTitles[s]; ok {
		return t
	}
	return fmt.Sprintf("Step %d", int(s))
}

func (s Step) Valid() bool {
	return s >= StepJobInfo && s <= StepReview
}

var (
	ErrRequiredFields = errors.New("required fields missing")
	ErrInvalidStep    = errors.New("invalid step")
)

// RequiredFieldsError blocks navigation away from an incomplete step.
type RequiredFieldsError struct {
	Step    Step
	Message string
}

func (e *RequiredFieldsError) Error() string {
	return e.Message
}

func (e *RequiredFieldsError) Unwrap() error {
	return ErrRequiredFields
}

// checkStep returns a *RequiredFieldsError when step is missing a required value.
func checkStep(r *models.SurveyRecord, step Step) error {
	switch step {
	case StepJobInfo:
		if blank(r.JobInfo.RepName) || blank(r.JobInfo.CustomerName) || blank(r.JobInfo.JobAddress) {
			return &RequiredFieldsError{Step: step, Message: "Please fill in all required fields (marked with *)"}
		}
	case StepConfiguration:
		if r.Configuration.ShowerType == "" {
			return &RequiredFieldsError{Step: step, Message: "Please select an existing shower type"}
		}
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
