package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/ziadkadry99/ragui/internal/config"
	"github.com/ziadkadry99/ragui/internal/endpoint"
)

// RAG binds a Client to one API base, one backend variant and, for System3,
// the current session id.
type RAG struct {
	client    *Client
	base      string
	variant   config.Variant
	sessionID string
	// unavailable fails every call without touching the network.
	unavailable error
}

// NewRAG creates a RAG API accessor. base must be absolute.
func NewRAG(client *Client, base string, variant config.Variant) *RAG {
	return &RAG{
		client:  client,
		base:    strings.TrimSuffix(base, "/"),
		variant: variant,
	}
}

// Unavailable returns an accessor whose every call fails with err. It stands
// in when no trusted backend can be derived for a request.
func Unavailable(client *Client, variant config.Variant, err error) *RAG {
	return &RAG{client: client, variant: variant, unavailable: err}
}

// WithSession returns a copy that attaches id to session-scoped requests.
// An empty id attaches nothing.
func (r *RAG) WithSession(id string) *RAG {
	cp := *r
	cp.sessionID = id
	return &cp
}

// Base returns the API base URL.
func (r *RAG) Base() string { return r.base }

// Variant returns the backend variant.
func (r *RAG) Variant() config.Variant { return r.variant }

// SessionID returns the attached session id, if any.
func (r *RAG) SessionID() string { return r.sessionID }

// endpointURL builds base+path and appends session_id only when a session is
// known; a missing session never becomes a literal placeholder.
func (r *RAG) endpointURL(path string, sessionScoped bool) string {
	u := r.base + path
	if sessionScoped && r.variant.HasSessions() && r.sessionID != "" {
		u += "?" + url.Values{"session_id": {r.sessionID}}.Encode()
	}
	return u
}

func (r *RAG) request(ctx context.Context, method, endpoint string, data any) (json.RawMessage, error) {
	if r.unavailable != nil {
		return nil, r.unavailable
	}
	return r.client.Request(ctx, method, endpoint, data)
}

// POCResult holds the variant-specific POC generation response.
type POCResult struct {
	Raw json.RawMessage
	V2  *POCV2
	V3  *POCResponseV3
}

// ID returns the generated POC identifier.
func (p *POCResult) ID() string {
	if p.V3 != nil {
		return p.V3.POC.ID
	}
	if p.V2 != nil {
		return p.V2.POCID
	}
	return ""
}

// GeneratePOC asks the backend to generate a POC.
func (r *RAG) GeneratePOC(ctx context.Context, req POCRequest) (*POCResult, error) {
	raw, err := r.request(ctx, http.MethodPost, r.endpointURL("/rag/generate-poc", true), req)
	if err != nil {
		return nil, err
	}
	res := &POCResult{Raw: raw}
	if r.variant.HasSessions() {
		res.V3, err = Decode[POCResponseV3](raw)
	} else {
		res.V2, err = Decode[POCV2](raw)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SearchResult holds the variant-specific search response.
type SearchResult struct {
	V2 *SearchResponseV2
	V3 *SearchResponseV3
}

// Search runs a solution search.
func (r *RAG) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	raw, err := r.request(ctx, http.MethodPost, r.endpointURL("/rag/search", true), req)
	if err != nil {
		return nil, err
	}
	res := &SearchResult{}
	if r.variant.HasSessions() {
		res.V3, err = Decode[SearchResponseV3](raw)
	} else {
		res.V2, err = Decode[SearchResponseV2](raw)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// HistoryResult holds the variant-specific history response.
type HistoryResult struct {
	V2 *HistoryV2
	V3 *HistoryV3
}

// History lists previously generated POCs.
func (r *RAG) History(ctx context.Context) (*HistoryResult, error) {
	raw, err := r.request(ctx, http.MethodGet, r.endpointURL("/rag/history", true), nil)
	if err != nil {
		return nil, err
	}
	res := &HistoryResult{}
	if r.variant.HasSessions() {
		res.V3, err = Decode[HistoryV3](raw)
	} else {
		res.V2, err = Decode[HistoryV2](raw)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CreateSession allocates a new server-side session.
func (r *RAG) CreateSession(ctx context.Context, metadata map[string]any) (*SessionCreated, error) {
	raw, err := r.request(ctx, http.MethodPost, r.endpointURL("/rag/session/create", false),
		SessionCreateRequest{Metadata: metadata})
	if err != nil {
		return nil, err
	}
	return Decode[SessionCreated](raw)
}

// ExportSession fetches the full session document verbatim.
func (r *RAG) ExportSession(ctx context.Context, id string) (json.RawMessage, error) {
	return r.request(ctx, http.MethodGet,
		r.endpointURL("/rag/session/"+url.PathEscape(id)+"/export", false), nil)
}

// Status fetches the variant's health (System2) or status (System3)
// document. A successful response means the system is healthy.
func (r *RAG) Status(ctx context.Context) (*Status, error) {
	path := "/health"
	if r.variant.HasSessions() {
		path = "/status"
	}

	raw, err := r.request(ctx, http.MethodGet, endpoint.StatusBase(r.base)+path, nil)
	if err != nil {
		return nil, err
	}

	st := &Status{Raw: raw, Healthy: true}
	var fields struct {
		AgentConfigured bool `json:"agent_configured"`
	}
	if err := json.Unmarshal(raw, &fields); err == nil {
		st.AgentConfigured = fields.AgentConfigured
	}
	return st, nil
}
