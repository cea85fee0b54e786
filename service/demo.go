package service

import "report-assistant/types"

// DemoAnalysis 固定的示例结果，前端开发时不需要调用模型
func DemoAnalysis() *types.AnalysisResult {
	company, year, target := "TechFlow Solutions", "Q3 2024", "Q4 2024"
	return &types.AnalysisResult{
		CompanyName: &company,
		Year:        &year,
		TargetYear:  &target,
		KeyMetrics: map[string]any{
			"revenue": map[string]any{
				"total_revenue":  "$12.4M",
				"monthly_growth": "8.2%",
			},
			"profitability": map[string]any{
				"gross_margin": "62%",
			},
			"customers": map[string]any{
				"customer_base":         "45,000 users",
				"customer_satisfaction": "4.3/5",
			},
			"employees": map[string]any{
				"team_size": "127 employees",
			},
		},
		FinancialHealthScore: 65,
		ActionableInsights: []string{
			"Break down revenue by product line to show which offerings drive growth.",
			"Publish Q4 projections alongside the quarterly results.",
			"Track hiring against revenue per employee as the team grows.",
		},
		RiskFactors: []string{
			"Monthly growth below 10% may slow as the customer base matures.",
			"Headcount expansion increases fixed costs ahead of revenue.",
		},
		Opportunities: []string{
			"High customer satisfaction supports upselling to the existing base.",
			"Strong unit economics leave room for expansion into new markets.",
		},
		Summary: "TechFlow Solutions reported strong Q3 2024 performance with $12.4M revenue and 45,000 active users. " +
			"The company maintained steady 8.2% monthly growth while achieving high customer satisfaction scores. " +
			"The team expanded to 127 employees to support continued growth.",
		ProcessingTime: 2.35,
	}
}
