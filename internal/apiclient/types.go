package apiclient

import "encoding/json"

// POCRequest is the body of a POC generation request.
type POCRequest struct {
	SolutionArea string `json:"solution_area"`
	POCTitle     string `json:"poc_title"`
	Query        string `json:"query"`
	TopResults   int    `json:"top_results"`
}

// SearchRequest is the body of a search request.
type SearchRequest struct {
	Query            string `json:"query"`
	TopK             int    `json:"top_k"`
	IncludeSynthesis bool   `json:"include_synthesis"`
}

// SessionCreateRequest is the body of a session creation request.
type SessionCreateRequest struct {
	Metadata map[string]any `json:"metadata"`
}

// SessionCreated is the response to a session creation request.
type SessionCreated struct {
	SessionID string `json:"session_id"`
	CreatedAt string `json:"created_at,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

func (r *SessionCreated) Validate() error {
	if r.SessionID == "" {
		return &ShapeError{Field: "session_id"}
	}
	return nil
}

// The System2 and System3 backends name the same concepts differently
// (relevance_score vs relevance, poc_title vs title, area vs solution_area).
// Each gets its own schema rather than a merged one.

// POCV2 is a System2 POC, returned flat by generate-poc and listed by history.
type POCV2 struct {
	POCID        string `json:"poc_id"`
	SolutionArea string `json:"solution_area"`
	POCTitle     string `json:"poc_title"`
	Query        string `json:"query"`
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	Instructions string `json:"instructions"`
}

func (p *POCV2) Validate() error {
	if p.POCID == "" {
		return &ShapeError{Field: "poc_id"}
	}
	return nil
}

// SearchResultV2 is one System2 search hit.
type SearchResultV2 struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Area           string  `json:"area"`
	Description    string  `json:"description"`
	RelevanceScore float64 `json:"relevance_score"`
}

// SearchResponseV2 is the System2 search response.
type SearchResponseV2 struct {
	Query   string           `json:"query"`
	Results []SearchResultV2 `json:"results"`
	Count   int              `json:"count"`
}

func (r *SearchResponseV2) Validate() error {
	if r.Results == nil {
		return &ShapeError{Field: "results"}
	}
	return nil
}

// HistoryV2 is the System2 history response.
type HistoryV2 struct {
	POCs  []POCV2 `json:"pocs"`
	Count int     `json:"count"`
}

func (h *HistoryV2) Validate() error {
	if h.POCs == nil {
		return &ShapeError{Field: "pocs"}
	}
	return nil
}

// POCRecordV3 is a System3 POC generation record.
type POCRecordV3 struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Query        string `json:"query"`
	SolutionArea string `json:"solution_area"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	CompletedAt  string `json:"completed_at,omitempty"`
	Error        string `json:"error,omitempty"`
}

// RecommendationV3 is one solution recommendation inside POC details.
type RecommendationV3 struct {
	Solution  string  `json:"solution"`
	Relevance float64 `json:"relevance"`
	Why       string  `json:"why"`
}

// POCDetailsV3 is the generated POC content.
type POCDetailsV3 struct {
	POCID                   string             `json:"poc_id"`
	Title                   string             `json:"title"`
	SolutionArea            string             `json:"solution_area"`
	Query                   string             `json:"query"`
	Recommendations         []RecommendationV3 `json:"recommendations"`
	RBACRequirements        json.RawMessage    `json:"rbac_requirements"`
	DeploymentScript        string             `json:"deployment_script"`
	IaCTemplate             json.RawMessage    `json:"iac_template"`
	ArchitectureSummary     string             `json:"architecture_summary"`
	EstimatedSetupTimeHours float64            `json:"estimated_setup_time_hours"`
	CostEstimate            string             `json:"cost_estimate"`
}

// POCResponseV3 is the System3 generate-poc response.
type POCResponseV3 struct {
	SessionID string        `json:"session_id"`
	POC       *POCRecordV3  `json:"poc"`
	Details   *POCDetailsV3 `json:"details"`
}

func (r *POCResponseV3) Validate() error {
	if r.POC == nil || r.POC.ID == "" {
		return &ShapeError{Field: "poc.id"}
	}
	if r.Details == nil {
		return &ShapeError{Field: "details"}
	}
	return nil
}

// SearchResultV3 is one System3 search hit.
type SearchResultV3 struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	SolutionArea string  `json:"solution_area"`
	Level        string  `json:"level"`
	Relevance    float64 `json:"relevance"`
	Description  string  `json:"description"`
	URL          string  `json:"url"`
}

// SynthesisV3 is the agent summary attached to System3 search results.
type SynthesisV3 struct {
	Summary         string   `json:"summary"`
	Recommendations string   `json:"recommendations"`
	NextSteps       []string `json:"next_steps"`
}

// SearchResponseV3 is the System3 search response.
type SearchResponseV3 struct {
	SessionID string           `json:"session_id"`
	Query     string           `json:"query"`
	Results   []SearchResultV3 `json:"results"`
	Synthesis *SynthesisV3     `json:"synthesis"`
}

func (r *SearchResponseV3) Validate() error {
	if r.Results == nil {
		return &ShapeError{Field: "results"}
	}
	return nil
}

// HistoryV3 is the System3 history response.
type HistoryV3 struct {
	SessionID           string        `json:"session_id"`
	TotalPOCGenerations int           `json:"total_poc_generations"`
	POCGenerations      []POCRecordV3 `json:"poc_generations"`
}

func (h *HistoryV3) Validate() error {
	if h.POCGenerations == nil {
		return &ShapeError{Field: "poc_generations"}
	}
	return nil
}

// Status is a health or status document. Raw holds the body verbatim.
type Status struct {
	Raw             json.RawMessage
	Healthy         bool
	AgentConfigured bool
}
