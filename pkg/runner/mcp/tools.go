package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/resume/pkg/codec"
	"tableflip.dev/resume/pkg/document"
	"tableflip.dev/resume/pkg/session"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerGetDocumentTool(srv, svc)
	registerApplyCommandTool(srv, svc)
	registerUndoTool(srv, svc)
	registerRenderMarkdownTool(srv, svc)
	registerImportTool(srv, svc)
	registerExportTool(srv, svc)
}

func registerGetDocumentTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_document",
		mcp.WithDescription("Fetch the resume with an outline of every section, entry and bullet and the path that addresses it."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Document(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerApplyCommandTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"apply_command",
		mcp.WithDescription("Apply one editing command to the resume. Every command can be reverted with undo."),
		mcp.WithString("op",
			mcp.Required(),
			mcp.Description("Command to run."),
			mcp.Enum(
				session.CmdAddSection, session.CmdAddEntry, session.CmdAddBullet,
				session.CmdEditHeader, session.CmdAppendContact,
				session.CmdEditSection, session.CmdEditEntry, session.CmdEditBullet,
				session.CmdToggle, session.CmdMove, session.CmdDelete,
				session.CmdSet, session.CmdReset,
			),
		),
		mcp.WithString("kind",
			mcp.Description("Item kind for toggle, move and delete."),
			mcp.Enum("section", "entry", "bullet"),
		),
		mcp.WithNumber("section", mcp.Description("Section index, starting at 0.")),
		mcp.WithNumber("entry", mcp.Description("Entry index within the section.")),
		mcp.WithNumber("bullet", mcp.Description("Bullet index within the entry.")),
		mcp.WithNumber("direction", mcp.Description("Move direction: -1 for up, 1 for down.")),
		mcp.WithString("title", mcp.Description("Section or entry title.")),
		mcp.WithString("meta", mcp.Description("Entry meta line such as dates.")),
		mcp.WithString("text", mcp.Description("Bullet text, or the contact part for append-contact.")),
		mcp.WithString("name", mcp.Description("Header name for edit-header.")),
		mcp.WithString("contact", mcp.Description("Contact line for edit-header; omitted keeps the current one.")),
		mcp.WithBoolean("stacked", mcp.Description("Show the entry meta below the title.")),
		mcp.WithString("key", mcp.Description("Setting to change with set."), mcp.Enum("density", "font")),
		mcp.WithString("value", mcp.Description("New setting value.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Op        string  `json:"op"`
			Kind      string  `json:"kind"`
			Section   int     `json:"section"`
			Entry     int     `json:"entry"`
			Bullet    int     `json:"bullet"`
			Direction int     `json:"direction"`
			Title     string  `json:"title"`
			Meta      *string `json:"meta"`
			Text      string  `json:"text"`
			Name      string  `json:"name"`
			Contact   *string `json:"contact"`
			Stacked   *bool   `json:"stacked"`
			Key       string  `json:"key"`
			Value     string  `json:"value"`
		}

		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		dto, err := svc.Apply(ctx, session.Command{
			Op:        args.Op,
			Kind:      args.Kind,
			Path:      document.Path{Section: args.Section, Entry: args.Entry, Bullet: args.Bullet},
			Direction: args.Direction,
			Title:     args.Title,
			Meta:      args.Meta,
			Text:      args.Text,
			Name:      args.Name,
			Contact:   args.Contact,
			Stacked:   args.Stacked,
			Key:       args.Key,
			Value:     args.Value,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUndoTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"undo",
		mcp.WithDescription("Revert the most recent command."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Undo(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRenderMarkdownTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"render_markdown",
		mcp.WithDescription("Render the visible part of the resume as markdown."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := svc.Export(ctx, codec.FormatMarkdown)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	})
}

func registerImportTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"import_document",
		mcp.WithDescription("Replace the resume with a document in JSON, YAML or markdown. The replacement can be undone."),
		mcp.WithString("data",
			mcp.Required(),
			mcp.Description("Document text."),
		),
		mcp.WithString("format",
			mcp.Description("Format of data; defaults to json."),
			mcp.Enum("json", "yaml", "markdown"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := request.RequireString("data")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		f, err := codec.ParseFormat(request.GetString("format", "json"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Import(ctx, data, f)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerExportTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"export_document",
		mcp.WithDescription("Encode the resume as JSON, YAML or markdown."),
		mcp.WithString("format",
			mcp.Required(),
			mcp.Enum("json", "yaml", "markdown"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := request.RequireString("format")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		f, err := codec.ParseFormat(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := svc.Export(ctx, f)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
