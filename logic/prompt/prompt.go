package prompt

import (
	"bytes"
	"strings"
	"text/template"

	"report-assistant/logic/chat"
	"report-assistant/vars"
)

// 系统提示词
const (
	MetricsSystem = "Extract structured data in strict JSON format."
	SummarySystem = "Create clear, informative report summaries."
	ReviewSystem  = "Provide constructive reviews of reports."
)

const metricsTmpl = `You are an AI assistant that extracts key company report metrics, actionable insights, risks and opportunities.
Please carefully read the company report text provided and return ONLY a valid JSON object with the following structure:

{
  "company_name": string or null,
  "year": string or null,
  "target_year": string or null,
  "key_metrics": {
      "revenue": { ... },
      "profitability": { ... },
      "employees": { ... },
      "customers": { ... },
      ... any other relevant categories
  },
  "actionable_insights": [ list of clear, concise actionable points derived from the report ],
  "risk_factors": [ list of key risks stated or implied by the report ],
  "opportunities": [ list of growth opportunities identified in the report ]
}
{{if .Guidelines}}
Also consider the following guidelines while extracting metrics and insights:
{{.Guidelines}}
{{end}}
Report Text:
{{.Content}}

Important:
- Only return valid JSON with the fields specified. Do not wrap it in markdown.
- Include numerical values where possible. Write growth rates and margins as percentage strings such as "12.5%".
- Be concise and clear in the actionable_insights, risk_factors and opportunities lists.`

const summaryTmpl = `Write a clear, concise summary of this report in exactly 3 sentences.
Focus on main findings, key data points, and conclusions.
Write for someone who hasn't read the full report.
{{if .Guidelines}}
Follow these guidelines: {{.Guidelines}}
{{end}}
Report: {{.Content}}`

const reviewTmpl = `Provide a thoughtful review of this report covering:
- Quality and clarity of the data presented
- Strengths of the analysis
- Weaknesses and areas needing improvement
- Overall assessment

Write 4-6 sentences of constructive feedback.
{{if .Guidelines}}
Consider these guidelines: {{.Guidelines}}
{{end}}
Report: {{.Content}}`

var (
	metricsT = template.Must(template.New("metrics").Parse(metricsTmpl))
	summaryT = template.Must(template.New("summary").Parse(summaryTmpl))
	reviewT  = template.Must(template.New("review").Parse(reviewTmpl))
)

type promptData struct {
	Content    string
	Guidelines string
}

// Metrics 结构化指标提取；报告只取前 MetricsContentBudget 个字符
func Metrics(content, guidelines string) chat.Call {
	return chat.Call{
		Name:        "metrics",
		System:      MetricsSystem,
		Prompt:      render(metricsT, Truncate(content, vars.MetricsContentBudget), guidelines),
		Temperature: vars.MetricsTemperature,
		MaxTokens:   vars.MetricsMaxTokens,
	}
}

// Summary 三句话摘要；报告只取前 SummaryContentBudget 个字符
func Summary(content, guidelines string) chat.Call {
	return chat.Call{
		Name:        "summary",
		System:      SummarySystem,
		Prompt:      render(summaryT, Truncate(content, vars.SummaryContentBudget), guidelines),
		Temperature: vars.SummaryTemperature,
		MaxTokens:   vars.SummaryMaxTokens,
	}
}

// Review 4-6 句定性评价；报告只取前 ReviewContentBudget 个字符
func Review(content, guidelines string) chat.Call {
	return chat.Call{
		Name:        "review",
		System:      ReviewSystem,
		Prompt:      render(reviewT, Truncate(content, vars.ReviewContentBudget), guidelines),
		Temperature: vars.ReviewTemperature,
		MaxTokens:   vars.ReviewMaxTokens,
	}
}

func render(t *template.Template, content, guidelines string) string {
	var buf bytes.Buffer
	// 模板是静态的，数据只有两个字符串，Execute 不会失败
	_ = t.Execute(&buf, promptData{Content: content, Guidelines: strings.TrimSpace(guidelines)})
	return buf.String()
}

// Truncate 按 Unicode 字符截断，超出部分直接丢弃
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
