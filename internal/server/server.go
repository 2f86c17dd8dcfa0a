package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"campaign-insights-go/internal/actionable"
	"campaign-insights-go/internal/aggregator"
	"campaign-insights-go/internal/chart"
	"campaign-insights-go/internal/dataset"
	"campaign-insights-go/internal/export"
	"campaign-insights-go/internal/filter"
	"campaign-insights-go/internal/logger"
	"campaign-insights-go/internal/processor"
	"campaign-insights-go/internal/types"
)

type Server struct {
	store *dataset.Store
	mux   *http.ServeMux
}

// New wires every route against a loaded (or failed) store.
func New(store *dataset.Store) *Server {
	s := &Server{store: store, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handlePage)
	s.mux.HandleFunc("GET /api/options", s.handleOptions)
	s.mux.HandleFunc("GET /api/{source}/summary", s.handleSummary)
	s.mux.HandleFunc("GET /api/{source}/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/{source}/dashboard", s.handleDashboard)
	s.mux.HandleFunc("GET /api/{source}/panels", s.handlePanels)
	s.mux.HandleFunc("GET /api/{source}/panels/{panel}", s.handlePanel)
	s.mux.HandleFunc("GET /api/{source}/panels/{panel}/export", s.handlePanelExport)
	s.mux.HandleFunc("GET /api/{source}/records/export", s.handleRecordsExport)
	s.mux.HandleFunc("GET /api/{source}/preview", s.handlePreview)
	s.mux.HandleFunc("GET /charts/{source}/{panel}", s.handleChart)

	return s
}

func (s *Server) Handler() http.Handler {
	return withRequestLog(s.mux)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.New().Component("server").WithError(err).Error("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorBody{Error: code, Message: err.Error()})
}

// filterParams maps each cascade level to its query-string key. Both
// parseFilter and the page links use it.
var filterParams = []struct {
	field types.Field
	key   string
}{
	{types.FieldObjective, "objective"},
	{types.FieldAdvertiser, "advertiser"},
	{types.FieldCampaignType, "campaign_type"},
	{types.FieldCampaign, "campaign"},
}

// parseFilter reads the four cascade levels from the query string.
func parseFilter(r *http.Request) types.Filter {
	q := r.URL.Query()
	vals := map[types.Field]string{}
	for _, p := range filterParams {
		vals[p.field] = strings.TrimSpace(q.Get(p.key))
	}
	return types.Filter{
		Objective:    vals[types.FieldObjective],
		Advertiser:   vals[types.FieldAdvertiser],
		CampaignType: vals[types.FieldCampaignType],
		Campaign:     vals[types.FieldCampaign],
	}
}

// records resolves {source} and returns its rows, writing the error response
// itself when it cannot.
func (s *Server) records(w http.ResponseWriter, r *http.Request) (types.Source, []types.Record, bool) {
	src, ok := types.ParseSource(r.PathValue("source"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_source", fmt.Errorf("unknown source %q", r.PathValue("source")))
		return "", nil, false
	}
	recs, err := s.store.Records(src)
	if err != nil {
		if errors.Is(err, types.ErrDataLoad) {
			writeError(w, http.StatusServiceUnavailable, "data_load_error", err)
		} else {
			writeError(w, http.StatusInternalServerError, "internal", err)
		}
		return "", nil, false
	}
	return src, recs, true
}

func (s *Server) panel(w http.ResponseWriter, r *http.Request, src types.Source) (processor.Panel, bool) {
	name := strings.TrimSuffix(r.PathValue("panel"), ".png")
	p, ok := processor.Lookup(src, name)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_panel", fmt.Errorf("unknown panel %q for %s", name, src))
		return processor.Panel{}, false
	}
	return p, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Err(); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.Records(types.SourceKeyword)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "data_load_error", err)
		return
	}
	writeJSON(w, http.StatusOK, filter.BuildCascade(recs, parseFilter(r)))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	src, ok := types.ParseSource(r.PathValue("source"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_source", fmt.Errorf("unknown source %q", r.PathValue("source")))
		return
	}
	t, err := s.store.Table(src)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "data_load_error", err)
		return
	}
	writeJSON(w, http.StatusOK, dataset.Summarize(t))
}

type statsResponse struct {
	Empty   bool                  `json:"empty"`
	Message string                `json:"message,omitempty"`
	Totals  aggregator.Totals     `json:"totals"`
	Cards   []actionable.StatCard `json:"cards"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	src, recs, ok := s.records(w, r)
	if !ok {
		return
	}
	d := processor.Build(recs, src, parseFilter(r))
	writeJSON(w, http.StatusOK, statsResponse{Empty: d.Empty, Message: d.Message, Totals: d.Totals, Cards: d.Stats})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	src, recs, ok := s.records(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, processor.Build(recs, src, parseFilter(r)))
}

func (s *Server) handlePanels(w http.ResponseWriter, r *http.Request) {
	src, ok := types.ParseSource(r.PathValue("source"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_source", fmt.Errorf("unknown source %q", r.PathValue("source")))
		return
	}
	writeJSON(w, http.StatusOK, processor.Panels(src))
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	src, recs, ok := s.records(w, r)
	if !ok {
		return
	}
	p, ok := s.panel(w, r, src)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, processor.BuildPanel(recs, parseFilter(r), p))
}

func (s *Server) handlePanelExport(w http.ResponseWriter, r *http.Request) {
	src, recs, ok := s.records(w, r)
	if !ok {
		return
	}
	p, ok := s.panel(w, r, src)
	if !ok {
		return
	}
	res := processor.BuildPanel(recs, parseFilter(r), p)
	s.download(w, r, export.FromResult(p.ExportName, p.PartitionTitle, res))
}

func (s *Server) handleRecordsExport(w http.ResponseWriter, r *http.Request) {
	src, recs, ok := s.records(w, r)
	if !ok {
		return
	}
	rows := filter.Apply(recs, parseFilter(r))
	s.download(w, r, export.FromRecords("filtered_data", src, rows))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	src, recs, ok := s.records(w, r)
	if !ok {
		return
	}
	prev := processor.Preview(filter.Apply(recs, parseFilter(r)), src)
	if r.URL.Query().Get("format") != "" {
		s.download(w, r, prev)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	writeJSON(w, http.StatusOK, processor.Page(prev, page, processor.PreviewPageSize))
}

func (s *Server) download(w http.ResponseWriter, r *http.Request, t export.Table) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_format", err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(t.Name)))
	if err := export.Write(w, t, format); err != nil {
		logger.New().WithRequest(r).WithField("table", t.Name).WithField("error", err.Error()).Error("export failed")
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	src, recs, ok := s.records(w, r)
	if !ok {
		return
	}
	p, ok := s.panel(w, r, src)
	if !ok {
		return
	}
	res := processor.BuildPanel(recs, parseFilter(r), p)

	w.Header().Set("Content-Type", "image/png")
	var err error
	if m, ok := types.ParseMetric(r.URL.Query().Get("metric")); ok {
		err = chart.Bars(w, p.Title, res, m)
	} else if res.Normalized {
		err = chart.Normalized(w, p.Title, res, p.Metrics)
	} else {
		err = chart.Bars(w, p.Title, res, types.MetricClicks)
	}
	if err != nil {
		logger.New().WithRequest(r).WithField("panel", p.Name).WithField("error", err.Error()).Error("chart render failed")
		http.Error(w, "chart render failed", http.StatusInternalServerError)
	}
}
