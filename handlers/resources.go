// ABOUTME: MCP resource handlers exposing the workbook read-only
// ABOUTME: Serves the record, summary, photo list, and export history by workbook:// URI
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/measurebook/db"
	"github.com/harperreed/measurebook/workbook"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "workbook://"

// ResourceURIs lists every resource ReadResource serves.
var ResourceURIs = []string{
	resourceScheme + "record",
	resourceScheme + "summary",
	resourceScheme + "photos",
	resourceScheme + "exports",
}

type ResourceHandlers struct {
	session *workbook.Session
	db      *sql.DB
}

func NewResourceHandlers(session *workbook.Session, database *sql.DB) *ResourceHandlers {
	return &ResourceHandlers{session: session, db: database}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	var v interface{}
	switch name := strings.TrimPrefix(uri, resourceScheme); name {
	case "record":
		v = h.session.Record()
	case "summary":
		v = h.session.Summary()
	case "photos":
		v = photoOutputs(h.session.Photos())
	case "exports":
		records := []db.ExportRecord{}
		if h.db != nil {
			found, err := db.ListExports(h.db, "", 100)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch exports: %w", err)
			}
			records = append(records, found...)
		}
		v = records
	default:
		return nil, fmt.Errorf("unknown resource: %s", name)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
