package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/ragui/internal/apiclient"
	"github.com/ziadkadry99/ragui/internal/endpoint"
	"github.com/ziadkadry99/ragui/internal/render"
	"github.com/ziadkadry99/ragui/internal/session"
)

// scoped returns the accessor bound to the stored session, creating one on
// first use. When creation fails the call proceeds without a session.
func (s *Server) scoped(ctx context.Context) *apiclient.RAG {
	if s.sessions == nil {
		return s.rag
	}
	id, _, err := s.sessions.Ensure(ctx)
	if err != nil {
		log.Printf("mcp: no session: %v", err)
		return s.rag
	}
	return s.rag.WithSession(id)
}

// handleSearchSolutions runs a catalog search.
func (s *Server) handleSearchSolutions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	topK := request.GetInt("top_k", 3)
	if topK <= 0 {
		topK = 3
	}

	res, err := s.scoped(ctx).Search(ctx, apiclient.SearchRequest{
		Query:            query,
		TopK:             topK,
		IncludeSynthesis: request.GetBool("include_synthesis", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	var (
		view render.SearchView
		syn  *render.SynthesisView
	)
	if res.V3 != nil {
		view, syn = render.SearchFromV3(res.V3)
	} else {
		view = render.SearchFromV2(res.V2)
	}

	out, err := s.renderer.Search(view)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	extra, err := s.renderer.Synthesis(syn)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(render.PlainText(out + extra)), nil
}

// handleGeneratePOC generates a POC and returns it as text.
func (s *Server) handleGeneratePOC(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var req apiclient.POCRequest
	for name, dst := range map[string]*string{
		"solution_area": &req.SolutionArea,
		"poc_title":     &req.POCTitle,
		"query":         &req.Query,
	} {
		v, err := request.RequireString(name)
		if err != nil {
			return mcp.NewToolResultError("missing required parameter: " + name), nil
		}
		*dst = v
	}
	req.TopResults = request.GetInt("top_results", 5)
	if req.TopResults <= 0 {
		req.TopResults = 5
	}

	res, err := s.scoped(ctx).GeneratePOC(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("POC generation failed: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "POC %s\n\n", res.ID())
	if res.V3 != nil {
		out, err := s.renderer.POCDetails(render.POCDetailsFromV3(res.V3.Details))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		sb.WriteString(render.PlainText(out))
	} else {
		sb.WriteString(render.PrettyJSON(res.Raw))
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handlePOCHistory lists previously generated POCs.
func (s *Server) handlePOCHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rag := s.rag
	if s.sessions != nil {
		id, err := s.sessions.Current(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading session: %v", err)), nil
		}
		if id == "" {
			return mcp.NewToolResultError(session.ErrNoSession.Error()), nil
		}
		rag = rag.WithSession(id)
	}

	res, err := rag.History(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading history failed: %v", err)), nil
	}

	var items []render.HistoryItem
	if res.V3 != nil {
		items = render.HistoryFromV3(res.V3)
	} else {
		items = render.HistoryFromV2(res.V2)
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("No POCs generated yet."), nil
	}

	out, err := s.renderer.History(items)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(render.PlainText(out)), nil
}

// handleSystemStatus reports backend health.
func (s *Server) handleSystemStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var hostname string
	if u, err := url.Parse(s.rag.Base()); err == nil {
		hostname = u.Hostname()
	}
	environment := endpoint.Environment(hostname)

	st, err := s.rag.Status(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status check failed: %v", err)), nil
	}

	out, err := s.renderer.Status(render.StatusFrom(st, s.rag.Base(), environment, s.rag.Variant().HasSessions()))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(render.PlainText(out)), nil
}

// handleExportSession returns the current session's export document.
func (s *Server) handleExportSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exp, err := s.sessions.Export(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(exp.Data)), nil
}
