// ABOUTME: MCP server subcommand
// ABOUTME: Serves the workbook tools, resources, and review prompt on stdio
package cli

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/measurebook/handlers"
)

// NewMCPServer registers every workbook tool, resource, and prompt.
func NewMCPServer(app *App, version string) *mcp.Server {
	workbookHandlers := handlers.NewWorkbookHandlers(app.Session, app.History, app.ExportDir())
	resourceHandlers := handlers.NewResourceHandlers(app.Session, app.History)
	promptHandlers := handlers.NewPromptHandlers(app.Session)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "measurebook",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_workbook",
		Description: "Get the current measurement workbook: record, photos, step, summary, and measurement warnings",
	}, workbookHandlers.GetWorkbook)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_field",
		Description: "Set a text field by dotted key (jobInfo.*, configuration.*, measurements.<letter>.existing|new|notes, siteConditions.*)",
	}, workbookHandlers.SetField)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_flag",
		Description: "Flip a yes/no flag such as configuration.windowInWet or siteConditions.issues.mold",
	}, workbookHandlers.ToggleFlag)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "select_option",
		Description: "Choose the existing shower type (showerType) or the new configuration (newConfig)",
	}, workbookHandlers.SelectOption)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_measurements",
		Description: "Check the new measurements against typical ranges and corner-versus-depth rules",
	}, workbookHandlers.ValidateMeasurements)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_workbook",
		Description: "Write the workbook to disk as json, yaml, or xlsx and record it in export history",
	}, workbookHandlers.ExportWorkbook)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_exports",
		Description: "List past exports, newest first, optionally filtered by customer",
	}, workbookHandlers.ListExports)

	for _, uri := range handlers.ResourceURIs {
		server.AddResource(&mcp.Resource{
			URI:      uri,
			Name:     uri,
			MIMEType: "application/json",
		}, resourceHandlers.ReadResource)
	}

	server.AddPrompt(&mcp.Prompt{
		Name:        handlers.ReviewPromptName,
		Description: "Review the workbook for missing or implausible measurements before export",
	}, promptHandlers.GetPrompt)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(app *App, version string) error {
	app.Logger.Info("starting MCP server", zap.String("version", version))
	return NewMCPServer(app, version).Run(context.Background(), &mcp.StdioTransport{})
}
