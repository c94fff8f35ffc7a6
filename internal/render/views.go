package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/ziadkadry99/ragui/internal/apiclient"
)

// SearchItem is one search hit in display form.
type SearchItem struct {
	Title       string
	Area        string
	Level       string
	Description string
	URL         string
	Relevance   float64
}

// SearchView is the display form of a search response.
type SearchView struct {
	Query string
	Items []SearchItem
	// Empty is shown when Items is empty.
	Empty string
}

// SynthesisView is the agent summary shown under System3 search results.
type SynthesisView struct {
	Summary         string
	Recommendations string
	NextSteps       []string
}

// RecommendationItem is one recommended solution in a POC.
type RecommendationItem struct {
	Solution  string
	Relevance float64
	Why       string
}

// POCDetailsView is the display form of System3 POC details. Empty fields
// are omitted from the output.
type POCDetailsView struct {
	Title               string
	Recommendations     []RecommendationItem
	RBAC                string
	DeploymentScript    string
	IaCTemplate         string
	ArchitectureSummary string
	SetupHours          float64
	CostEstimate        string
}

// HistoryItem is one previously generated POC.
type HistoryItem struct {
	Title  string
	ID     string
	Area   string
	Status string
	// TimeLabel is "Created" or "Generated" depending on the backend.
	TimeLabel string
	Time      string
}

// StatusView is the display form of a health or status check.
type StatusView struct {
	Raw         string
	APIEndpoint string
	Environment string
	// AgentStatus is empty when the backend does not report agents.
	AgentStatus string
	Healthy     bool
	HealthError string
}

// SearchFromV2 converts a System2 search response.
func SearchFromV2(r *apiclient.SearchResponseV2) SearchView {
	v := SearchView{Query: r.Query, Empty: "No results found for your search."}
	for _, res := range r.Results {
		v.Items = append(v.Items, SearchItem{
			Title:       res.Title,
			Area:        res.Area,
			Description: res.Description,
			Relevance:   res.RelevanceScore,
		})
	}
	return v
}

// SearchFromV3 converts a System3 search response. The synthesis is nil when
// the backend did not produce one.
func SearchFromV3(r *apiclient.SearchResponseV3) (SearchView, *SynthesisView) {
	v := SearchView{Query: r.Query, Empty: "No results found."}
	for _, res := range r.Results {
		v.Items = append(v.Items, SearchItem{
			Title:       res.Title,
			Area:        res.SolutionArea,
			Level:       res.Level,
			Description: res.Description,
			URL:         res.URL,
			Relevance:   res.Relevance,
		})
	}
	if r.Synthesis == nil {
		return v, nil
	}
	return v, &SynthesisView{
		Summary:         r.Synthesis.Summary,
		Recommendations: r.Synthesis.Recommendations,
		NextSteps:       r.Synthesis.NextSteps,
	}
}

// POCDetailsFromV3 converts System3 POC details.
func POCDetailsFromV3(d *apiclient.POCDetailsV3) POCDetailsView {
	v := POCDetailsView{
		Title:               d.Title,
		RBAC:                prettyJSON(d.RBACRequirements),
		DeploymentScript:    d.DeploymentScript,
		IaCTemplate:         prettyJSON(d.IaCTemplate),
		ArchitectureSummary: d.ArchitectureSummary,
		SetupHours:          d.EstimatedSetupTimeHours,
		CostEstimate:        d.CostEstimate,
	}
	for _, rec := range d.Recommendations {
		v.Recommendations = append(v.Recommendations, RecommendationItem(rec))
	}
	return v
}

// HistoryFromV2 converts a System2 history response.
func HistoryFromV2(h *apiclient.HistoryV2) []HistoryItem {
	items := make([]HistoryItem, 0, len(h.POCs))
	for _, p := range h.POCs {
		items = append(items, HistoryItem{
			Title:     p.POCTitle,
			ID:        p.POCID,
			Area:      p.SolutionArea,
			TimeLabel: "Generated",
			Time:      FormatTime(p.Timestamp),
		})
	}
	return items
}

// HistoryFromV3 converts a System3 history response.
func HistoryFromV3(h *apiclient.HistoryV3) []HistoryItem {
	items := make([]HistoryItem, 0, len(h.POCGenerations))
	for _, p := range h.POCGenerations {
		items = append(items, HistoryItem{
			Title:     p.Title,
			ID:        p.ID,
			Area:      p.SolutionArea,
			Status:    p.Status,
			TimeLabel: "Created",
			Time:      FormatTime(p.CreatedAt),
		})
	}
	return items
}

// StatusFrom converts a status document. agents reports whether the backend
// variant exposes an agent_configured flag.
func StatusFrom(st *apiclient.Status, apiEndpoint, environment string, agents bool) StatusView {
	v := StatusView{
		Raw:         prettyJSON(st.Raw),
		APIEndpoint: apiEndpoint,
		Environment: environment,
		Healthy:     st.Healthy,
	}
	if agents {
		v.AgentStatus = "Not Configured"
		if st.AgentConfigured {
			v.AgentStatus = "Configured"
		}
	}
	return v
}

// UnhealthyStatus describes a failed status check.
func UnhealthyStatus(apiEndpoint, environment string, err error) StatusView {
	return StatusView{
		APIEndpoint: apiEndpoint,
		Environment: environment,
		HealthError: err.Error(),
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// FormatTime renders a backend timestamp for display. Unparseable values are
// returned unchanged.
func FormatTime(s string) string {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006 3:04:05 PM")
		}
	}
	return s
}

// PrettyJSON indents raw with two spaces. Empty or null input yields "".
func PrettyJSON(raw []byte) string {
	return prettyJSON(raw)
}

func prettyJSON(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return string(trimmed)
	}
	return strings.TrimRight(buf.String(), "\n")
}
