// ABOUTME: MCP prompt handlers for reviewing a workbook before export
// ABOUTME: Builds a review request from the summary and measurement warnings
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/measurebook/workbook"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const ReviewPromptName = "workbook-review"

type PromptHandlers struct {
	session *workbook.Session
}

func NewPromptHandlers(session *workbook.Session) *PromptHandlers {
	return &PromptHandlers{session: session}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case ReviewPromptName:
		return h.getReviewPrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getReviewPrompt() (*mcp.GetPromptResult, error) {
	summary := h.session.Summary()
	warnings := h.session.Validate()

	var promptText strings.Builder
	promptText.WriteString("Please review this shower measurement workbook before it is sent to the installer:\n")
	for _, section := range summary.Sections {
		promptText.WriteString(fmt.Sprintf("\n%s\n", section.Title))
		for _, item := range section.Items {
			if item.Label == "" {
				promptText.WriteString(fmt.Sprintf("- %s\n", item.Value))
				continue
			}
			promptText.WriteString(fmt.Sprintf("- %s: %s\n", item.Label, item.Value))
		}
	}

	if len(warnings) > 0 {
		promptText.WriteString("\nMeasurement warnings:\n")
		for _, w := range warnings {
			promptText.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Any measurements that look wrong or are missing")
	promptText.WriteString("\n2. Site conditions the installer should prepare for")
	promptText.WriteString("\n3. Questions to ask the customer before ordering materials")

	customer := h.session.Record().JobInfo.CustomerName
	if customer == "" {
		customer = "unnamed customer"
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Workbook review for %s", customer),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}
