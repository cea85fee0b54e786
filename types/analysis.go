package types

import "time"

// AnalysisResult 返回给前端的分析结果，除 ProcessingTime 外都是尽力提取
type AnalysisResult struct {
	CompanyName          *string        `json:"company_name"`
	Year                 *string        `json:"year"`
	TargetYear           *string        `json:"target_year"`
	KeyMetrics           map[string]any `json:"key_metrics"`
	FinancialHealthScore int            `json:"financial_health_score"`
	ActionableInsights   []string       `json:"actionable_insights"`
	RiskFactors          []string       `json:"risk_factors"`
	Opportunities        []string       `json:"opportunities"`
	Summary              string         `json:"summary"`
	Review               string         `json:"review,omitempty"`
	ProcessingTime       float64        `json:"processing_time"`
}

// AnalysisMeta 响应中的 meta 字段
type AnalysisMeta struct {
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
	HasGuidelines         bool    `json:"has_guidelines"`
	ContentLength         int     `json:"content_length"`
	AnalysisID            string  `json:"analysis_id"`
	Model                 string  `json:"model"`
}

// AnalyzeResponse POST /analyze 成功时的响应体
type AnalyzeResponse struct {
	Success bool            `json:"success"`
	Data    *AnalysisResult `json:"data"`
	Meta    AnalysisMeta    `json:"meta"`
}

// 报告来源
const (
	SourceText = "text"
	SourcePDF  = "pdf"
)

// AnalysisRecord 已保存的分析记录，不保存报告原文
type AnalysisRecord struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Source        string          `json:"source"`
	HasGuidelines bool            `json:"has_guidelines"`
	ContentLength int             `json:"content_length"`
	Model         string          `json:"model"`
	Result        *AnalysisResult `json:"result"`
}

// Clone 深拷贝，KeyMetrics 中嵌套的 map 和切片也会复制
func (r *AnalysisRecord) Clone() *AnalysisRecord {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Result = r.Result.Clone()
	return &cp
}

func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	cp := *r
	cp.CompanyName = cloneString(r.CompanyName)
	cp.Year = cloneString(r.Year)
	cp.TargetYear = cloneString(r.TargetYear)
	if r.KeyMetrics != nil {
		cp.KeyMetrics = cloneValue(r.KeyMetrics).(map[string]any)
	}
	cp.ActionableInsights = cloneStrings(r.ActionableInsights)
	cp.RiskFactors = cloneStrings(r.RiskFactors)
	cp.Opportunities = cloneStrings(r.Opportunities)
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
