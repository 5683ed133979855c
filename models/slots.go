// ABOUTME: Fixed photo slots of the workbook
// ABOUTME: Each slot holds at most one reference photo
package models

// Slot is a fixed logical position for one photo attachment.
type Slot struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Instruction string `json:"instruction"`
}

// Slots are listed in the order they appear on the photo step.
var Slots = []Slot{
	{ID: "entry", Label: "Bathroom Entry", Instruction: "Full view from doorway"},
	{ID: "floorLine", Label: "Base & Floor Line", Instruction: "Show base and floor transition"},
	{ID: "bottomRight", Label: "Bottom Right Corner", Instruction: "Floor to mid-wall, right side"},
	{ID: "topRight", Label: "Top Right Corner", Instruction: "Mid-wall to ceiling, right side"},
	{ID: "bottomLeft", Label: "Bottom Left Corner", Instruction: "Floor to mid-wall, left side"},
	{ID: "topLeft", Label: "Top Left Corner", Instruction: "Mid-wall to ceiling, left side"},
	{ID: "bMeasurement", Label: "B Measurement", Instruction: "Show tape measure depth"},
	{ID: "curbToToilet", Label: "Curb to Toilet Distance", Instruction: "Measure curb to toilet center"},
	{ID: "waterShutoff", Label: "Water Shut-off Valve", Instruction: "Location and accessibility"},
	{ID: "electricalPanel", Label: "Electrical Panel", Instruction: "Main panel location"},
	{ID: "window", Label: "Window (if present)", Instruction: "Show position in wet area"},
	{ID: "postTension", Label: "Post Tension Stamp", Instruction: "If visible in garage/basement"},
	{ID: "misc1", Label: "Additional Photo 1", Instruction: "Any damage or special conditions"},
	{ID: "misc2", Label: "Additional Photo 2", Instruction: "Optional"},
	{ID: "misc3", Label: "Additional Photo 3", Instruction: "Optional"},
	{ID: "misc4", Label: "Additional Photo 4", Instruction: "Optional"},
}

// LookupSlot finds a slot by id.
func LookupSlot(id string) (Slot, bool) {
	for _, s := range Slots {
		if s.ID == id {
			return s, true
		}
	}
	return Slot{}, false
}
