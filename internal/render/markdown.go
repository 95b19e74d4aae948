// Package render emits markdown and HTML views of a finished report.
// Rendering never mutates the report.
package render

import (
	"fmt"
	"strings"

	"github.com/sells-group/nevintel/internal/model"
)

var sentimentLabels = map[model.Sentiment]string{
	model.SentimentPositive: "正面",
	model.SentimentNegative: "负面",
	model.SentimentNeutral:  "中性",
}

// Markdown renders the report as a markdown briefing.
func Markdown(r *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 新能源汽车行业日报 %s\n\n", r.Date)
	if r.VersionID != "" {
		fmt.Fprintf(&b, "版本: %s\n", r.VersionID)
	}
	fmt.Fprintf(&b, "生成时间: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	if r.Alert != nil {
		fmt.Fprintf(&b, "> **%s**: %s\n\n", r.Alert.Title, r.Alert.Description)
	}

	b.WriteString("## 执行摘要\n\n")
	fmt.Fprintf(&b, "市场情绪: %s\n\n", sentimentLabels[r.Executive.MarketSentiment])
	for _, h := range r.Executive.KeyHighlights {
		fmt.Fprintf(&b, "- %s\n", h)
	}
	b.WriteString("\n")

	if len(r.Executive.TopStories) > 0 {
		b.WriteString("### 今日焦点\n\n")
		for _, s := range r.Executive.TopStories {
			fmt.Fprintf(&b, "- [%d] %s (%s)\n", s.Importance, s.Title, s.Source)
		}
		b.WriteString("\n")
	}

	for _, key := range model.SectionOrder {
		sec, ok := r.Sections[key]
		if !ok || len(sec.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", sec.Title)
		for _, it := range sec.Items {
			fmt.Fprintf(&b, "- **%s** | %s", it.Title, it.Origin)
			if brand := it.Brand(); brand != "" {
				fmt.Fprintf(&b, " / %s", brand)
			}
			fmt.Fprintf(&b, " (重要度 %d, %s)\n", it.Importance, sentimentLabels[it.Sentiment])
		}
		b.WriteString("\n")
	}

	b.WriteString("## 数据统计\n\n")
	fmt.Fprintf(&b, "总条目: %d\n\n", r.Summary.TotalItems)
	if len(r.Summary.TechTrends) > 0 {
		fmt.Fprintf(&b, "技术热点: %s\n", strings.Join(r.Summary.TechTrends, "、"))
	}

	return b.String()
}
