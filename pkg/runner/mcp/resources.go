package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/resume/pkg/codec"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerDocumentResource(srv, svc)
	registerMarkdownResource(srv, svc)
	registerHistoryResource(srv, svc)
}

func registerDocumentResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"resume://document",
		"Resume",
		mcp.WithResourceDescription("The resume being edited, with its outline."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dto, err := svc.Document(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func registerMarkdownResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"resume://document.md",
		"Resume (markdown)",
		mcp.WithResourceDescription("The visible part of the resume as markdown."),
		mcp.WithMIMEType("text/markdown"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		out, err := svc.Export(ctx, codec.FormatMarkdown)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "text/markdown",
				Text:     out,
			},
		}, nil
	})
}

func registerHistoryResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"resume://history",
		"Undo history",
		mcp.WithResourceDescription("Pending inverse actions, oldest first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		history, err := svc.History(ctx)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"history": history,
			"count":   len(history),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
