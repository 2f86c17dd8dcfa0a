package server

import (
	"html/template"
	"net/http"
	"net/url"

	"campaign-insights-go/internal/filter"
	"campaign-insights-go/internal/logger"
	"campaign-insights-go/internal/processor"
	"campaign-insights-go/internal/types"
)

type pageData struct {
	Tab       types.Source
	Filter    types.Filter
	Options   filter.Cascade
	Dashboard processor.Dashboard
	Query     template.URL
}

type errorPageData struct {
	Message string
}

var dashboardPage = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Campaign Insights</title>
<style>
body{font-family:sans-serif;background:#0f1117;color:#e6e6e6;margin:24px}
a{color:#00D9FF}.cards{display:flex;gap:12px;flex-wrap:wrap}
.card{padding:12px 16px;border-radius:8px;background:#1b1e27;border-left:4px solid}
table{border-collapse:collapse;margin:8px 0}td,th{padding:4px 8px;border-bottom:1px solid #333;text-align:left;white-space:pre-line}
</style></head><body>
<h1>Campaign Insights</h1>
<p><a href="/?tab=keyword&{{.Query}}">Keywords</a> | <a href="/?tab=domain&{{.Query}}">Domains</a></p>
<form method="get">
<input type="hidden" name="tab" value="{{.Tab}}">
<select name="objective"><option value="">All objectives</option>{{range .Options.Objectives}}<option{{if eq . $.Filter.Objective}} selected{{end}}>{{.}}</option>{{end}}</select>
<select name="advertiser"><option value="">All advertisers</option>{{range .Options.Advertisers}}<option{{if eq . $.Filter.Advertiser}} selected{{end}}>{{.}}</option>{{end}}</select>
<select name="campaign_type"><option value="">All campaign types</option>{{range .Options.CampaignTypes}}<option{{if eq . $.Filter.CampaignType}} selected{{end}}>{{.}}</option>{{end}}</select>
<select name="campaign"><option value="">All campaigns</option>{{range .Options.Campaigns}}<option{{if eq . $.Filter.Campaign}} selected{{end}}>{{.}}</option>{{end}}</select>
<button type="submit">Apply</button>
<a href="/api/{{.Tab}}/records/export?{{.Query}}">Download filtered data</a>
</form>
{{if .Dashboard.Empty}}<h2>{{.Dashboard.Message}}</h2>{{end}}
<div class="cards">{{range .Dashboard.Stats}}<div class="card" style="border-color:{{.Color}}"><div>{{.Label}}</div><strong>{{.Value}}</strong></div>{{end}}</div>
{{range .Dashboard.Panels}}
<h2>{{.Panel.Title}}</h2>
<p><a href="/api/{{$.Tab}}/panels/{{.Panel.Name}}/export?{{$.Query}}">CSV</a> | <a href="/api/{{$.Tab}}/panels/{{.Panel.Name}}/export?format=xlsx&{{$.Query}}">XLSX</a></p>
<img alt="{{.Panel.Title}}" src="/charts/{{$.Tab}}/{{.Panel.Name}}.png?{{$.Query}}">
<table><tr><th>{{.Panel.PartitionTitle}}</th><th>Clicks</th><th>Impressions</th><th>CTR</th><th>CVR</th><th>CPA</th><th>ROAS</th>{{if .Panel.Options.TopN}}<th>Top</th>{{end}}</tr>
{{$top := .Panel.Options.TopN}}{{range .Result.Rows}}<tr><td>{{.Value}}</td><td>{{printf "%.0f" .Clicks}}</td><td>{{printf "%.0f" .Impressions}}</td><td>{{printf "%.2f" .CTR}}</td><td>{{printf "%.2f" .CVR}}</td><td>{{printf "%.2f" .CPA}}</td><td>{{printf "%.2f" .ROAS}}</td>{{if $top}}<td>{{.TopContributors}}</td>{{end}}</tr>
{{end}}</table>
{{end}}
<h2>Top rows</h2>
<table><tr>{{range .Dashboard.Preview.Header}}<th>{{.}}</th>{{end}}</tr>
{{range $i, $row := .Dashboard.Preview.Rows}}{{if lt $i 30}}<tr>{{range $row}}<td>{{.}}</td>{{end}}</tr>{{end}}{{end}}</table>
<p><a href="/api/{{.Tab}}/preview?format=csv&{{.Query}}">Download preview</a> ({{len .Dashboard.Preview.Rows}} rows)</p>
</body></html>`))

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Dashboard - Data Load Error</title></head>
<body style="font-family:sans-serif;margin:24px">
<h1>Dashboard - Data Load Error</h1>
<p>The input data could not be loaded. Check the data file settings and restart the service.</p>
<pre>{{.Message}}</pre>
</body></html>`))

func filterQuery(f types.Filter) template.URL {
	q := url.Values{}
	for _, p := range filterParams {
		if v := f.ValueOf(p.field); v != "" {
			q.Set(p.key, v)
		}
	}
	return template.URL(q.Encode())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	log := logger.New().WithRequest(r).WithField("handler", "page")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := s.store.Err(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := errorPage.Execute(w, errorPageData{Message: err.Error()}); err != nil {
			log.WithField("error", err.Error()).Error("render error page")
		}
		return
	}

	tab, ok := types.ParseSource(r.URL.Query().Get("tab"))
	if !ok {
		tab = types.SourceKeyword
	}
	f := parseFilter(r)
	recs, err := s.store.Records(tab)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	kw, _ := s.store.Records(types.SourceKeyword)

	data := pageData{
		Tab:       tab,
		Filter:    f,
		Options:   filter.BuildCascade(kw, f),
		Dashboard: processor.Build(recs, tab, f),
		Query:     filterQuery(f),
	}
	if err := dashboardPage.Execute(w, data); err != nil {
		log.WithField("error", err.Error()).Error("render page")
	}
}
