package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/learnova/internal/assistant"
	"github.com/ziadkadry99/learnova/internal/study"
)

func (s *Server) handleExplain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := assistant.Request{
		Question:  request.GetString("question", ""),
		SubjectID: request.GetString("subject", study.SubjectGeneral),
		Level:     study.Level(request.GetString("level", string(study.LevelGeneral))),
	}

	if path := request.GetString("image_path", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s (%v)", assistant.MsgImageRead, err)), nil
		}
		req.Image = &assistant.ImageInput{
			Name:     filepath.Base(path),
			MIMEType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
			Data:     data,
		}
	}

	answer, err := s.assistant.Explain(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(assistant.UserMessage(err)), nil
	}
	return mcp.NewToolResultText(answer.Markdown), nil
}

func (s *Server) handleRenderMarkdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	src, err := request.RequireString("markdown")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: markdown"), nil
	}

	html, err := s.assistant.RenderWith(request.GetString("engine", ""), src)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return mcp.NewToolResultText(html), nil
}

func (s *Server) handleListCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	b.WriteString("# Subjects\n\n")
	for _, subj := range study.Subjects() {
		fmt.Fprintf(&b, "- `%s`: %s\n", subj.ID, subj.Name)
	}
	b.WriteString("\n# Levels\n\n")
	for _, lvl := range study.Levels() {
		fmt.Fprintf(&b, "- `%s`: %s\n", lvl.Value, lvl.Label)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleExportPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	markdown, err := request.RequireString("markdown")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: markdown"), nil
	}
	out, err := request.RequireString("output_path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: output_path"), nil
	}

	var buf bytes.Buffer
	if err := s.assistant.ExportPDF(ctx, request.GetString("question", ""), markdown, &buf); err != nil {
		if errors.Is(err, assistant.ErrNoAnswer) {
			return mcp.NewToolResultError(assistant.UserMessage(err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("writing %s: %v", out, err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Wrote %d bytes to %s", buf.Len(), out)), nil
}
