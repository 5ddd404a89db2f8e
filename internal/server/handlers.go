package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dm/esaudit-go/internal/client"
	"github.com/dm/esaudit-go/internal/engine"
	"github.com/dm/esaudit-go/internal/model"
)

type healthResponse struct {
	Status     string  `json:"status"`
	LastFetch  string  `json:"last_fetch,omitempty"`
	AgeSeconds float64 `json:"age_seconds"`
}

type dashboardResponse struct {
	Health    client.ClusterHealth `json:"health"`
	Nodes     []model.NodeMetric   `json:"nodes"`
	Indices   []model.IndexMetric  `json:"indices"`
	FetchedAt time.Time            `json:"fetched_at"`
}

type suggestionsResponse struct {
	Total      int             `json:"total"`
	BySeverity map[string]int  `json:"by_severity"`
	Findings   []model.Finding `json:"findings"`
}

func (s *Server) getHealth(c echo.Context) error {
	resp := healthResponse{Status: "ok"}
	if snap := s.store.Current(); !snap.Empty() {
		resp.LastFetch = snap.FetchedAt.Format(time.RFC3339)
		resp.AgeSeconds = time.Since(snap.FetchedAt).Seconds()
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) getDashboard(c echo.Context) error {
	snap := s.store.Current()
	return c.JSON(http.StatusOK, dashboardResponse{
		Health:    snap.Health,
		Nodes:     snap.Nodes,
		Indices:   snap.Indices,
		FetchedAt: snap.FetchedAt,
	})
}

func (s *Server) getDeepDive(c echo.Context) error {
	curr, prev := s.store.Pair()
	return c.JSON(http.StatusOK, engine.DeepDive(curr, prev))
}

func (s *Server) getShardDistribution(c echo.Context) error {
	snap := s.store.Current()
	groupBy := c.QueryParam("group_by")
	sortBy := c.QueryParam("sort_by")
	return c.JSON(http.StatusOK, engine.ShardGroups(snap.Shards, groupBy, sortBy))
}

func (s *Server) getNodeLoadCorrelation(c echo.Context) error {
	return c.JSON(http.StatusOK, engine.NodeLoads(s.store.Current()))
}

func (s *Server) getShardImbalance(c echo.Context) error {
	snap := s.store.Current()
	return c.JSON(http.StatusOK, nonNil(engine.ShardImbalance(snap.Shards, snap.Indices)))
}

func (s *Server) getShardToxicity(c echo.Context) error {
	return c.JSON(http.StatusOK, nonNil(engine.ToxicTenants(s.store.Current(), s.th.SlowTaskMinutes)))
}

func (s *Server) getSlowTasks(c echo.Context) error {
	snap := s.store.Current()
	return c.JSON(http.StatusOK, nonNil(engine.SlowTasks(snap.SearchTasks, s.th.SlowTaskMinutes)))
}

func (s *Server) getCausalityChain(c echo.Context) error {
	return c.JSON(http.StatusOK, nonNil(engine.BuildCausality(s.store.Current(), s.th)))
}

func (s *Server) getIndexTemplates(c echo.Context) error {
	snap := s.store.Current()
	return c.JSON(http.StatusOK, engine.TemplateAudits(snap.Templates, snap.Indices, s.th.TemplateMaxShards))
}

func (s *Server) getMappingExplosion(c echo.Context) error {
	snap := s.store.Current()
	return c.JSON(http.StatusOK, engine.MappingReport(snap.MappingFields, s.th))
}

func (s *Server) getDustyShards(c echo.Context) error {
	findings := s.evaluate(model.FindingDustyShard, model.FindingEmptyShard)
	return c.JSON(http.StatusOK, findings)
}

func (s *Server) getConfigurationDrift(c echo.Context) error {
	return c.JSON(http.StatusOK, s.evaluate(model.FindingConfigDrift))
}

func (s *Server) getSuggestions(c echo.Context) error {
	findings := engine.Evaluate(s.store.Current(), s.th)
	bySeverity := make(map[string]int)
	for _, f := range findings {
		bySeverity[f.Severity.String()]++
	}
	return c.JSON(http.StatusOK, suggestionsResponse{
		Total:      len(findings),
		BySeverity: bySeverity,
		Findings:   findings,
	})
}

// nonNil keeps empty results rendering as [] instead of null.
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// evaluate runs the diagnostic pass and keeps only the requested kinds.
func (s *Server) evaluate(kinds ...model.FindingKind) []model.Finding {
	keep := make(map[model.FindingKind]bool, len(kinds))
	for _, k := range kinds {
		keep[k] = true
	}
	out := []model.Finding{}
	for _, f := range engine.Evaluate(s.store.Current(), s.th) {
		if keep[f.Kind] {
			out = append(out, f)
		}
	}
	return out
}
