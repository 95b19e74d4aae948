package render

import (
	"html/template"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nevintel/internal/model"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<title>新能源汽车行业日报 {{.Report.Date}}</title>
<style>
body { font-family: "PingFang SC", "Microsoft YaHei", sans-serif; margin: 0; background: #f5f6f8; color: #1f2430; }
.wrap { max-width: 960px; margin: 0 auto; padding: 2rem 1.5rem; }
h1 { font-size: 1.6rem; margin-bottom: 0.25rem; }
.meta { color: #6b7280; font-size: 0.85rem; margin-bottom: 1.5rem; }
.alert { background: #fef2f2; border-left: 4px solid #dc2626; padding: 0.75rem 1rem; margin-bottom: 1.5rem; border-radius: 4px; }
.card { background: #fff; border-radius: 8px; padding: 1.25rem 1.5rem; margin-bottom: 1.25rem; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
.card h2 { font-size: 1.1rem; margin-top: 0; border-bottom: 1px solid #e5e7eb; padding-bottom: 0.5rem; }
.item { padding: 0.5rem 0; border-bottom: 1px solid #f0f1f3; }
.item:last-child { border-bottom: none; }
.item .title { font-weight: 600; }
.item .sub { color: #6b7280; font-size: 0.8rem; }
.tag { display: inline-block; background: #eef2ff; color: #4338ca; border-radius: 4px; padding: 1px 8px; font-size: 0.75rem; margin-right: 6px; }
.neg { color: #dc2626; }
.pos { color: #16a34a; }
</style>
</head>
<body>
<div class="wrap">
<h1>新能源汽车行业日报 {{.Report.Date}}</h1>
<div class="meta">版本 {{.Report.VersionID}} · 生成于 {{.Report.GeneratedAt.Format "2006-01-02 15:04:05"}} · 共 {{.Report.Summary.TotalItems}} 条</div>
{{with .Report.Alert}}<div class="alert"><strong>{{.Title}}</strong> {{.Description}}</div>{{end}}
<div class="card">
<h2>执行摘要</h2>
<p>市场情绪: {{sentiment .Report.Executive.MarketSentiment}}</p>
<ul>{{range .Report.Executive.KeyHighlights}}<li>{{.}}</li>{{end}}</ul>
{{if .Report.Executive.TopStories}}<h3>今日焦点</h3>
{{range .Report.Executive.TopStories}}<div class="item"><span class="title">{{.Title}}</span><div class="sub">{{.Source}} · 重要度 {{.Importance}}</div></div>{{end}}{{end}}
</div>
{{range .Sections}}{{if .Items}}
<div class="card">
<h2>{{.Title}}</h2>
{{range .Items}}<div class="item">
<span class="title">{{.Title}}</span>
<div class="sub">{{.Origin}}{{with .Brand}} · {{.}}{{end}} · 重要度 {{.Importance}} · <span class="{{sentimentClass .Sentiment}}">{{sentiment .Sentiment}}</span></div>
</div>{{end}}
</div>
{{end}}{{end}}
{{if .Report.Summary.TechTrends}}<div class="card"><h2>技术热点</h2>
{{range .Report.Summary.TechTrends}}<span class="tag">{{.}}</span>{{end}}
</div>{{end}}
</div>
</body>
</html>`

var htmlTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"sentiment": func(s model.Sentiment) string { return sentimentLabels[s] },
	"sentimentClass": func(s model.Sentiment) string {
		switch s {
		case model.SentimentPositive:
			return "pos"
		case model.SentimentNegative:
			return "neg"
		}
		return ""
	},
}).Parse(htmlTemplate))

type htmlContext struct {
	Report   *model.Report
	Sections []model.Section
}

// HTML renders the report as a standalone HTML page, sections in canonical
// order.
func HTML(w io.Writer, r *model.Report) error {
	ctx := htmlContext{Report: r}
	for _, key := range model.SectionOrder {
		if sec, ok := r.Sections[key]; ok {
			ctx.Sections = append(ctx.Sections, sec)
		}
	}
	if err := htmlTmpl.Execute(w, ctx); err != nil {
		return eris.Wrap(err, "render: execute html template")
	}
	return nil
}
