package postgres

import (
	"time"

	"report-assistant/types"
)

// Analysis 对应数据库里的 analyses 表，报告原文不入库
type Analysis struct {
	// ID 不使用 gorm.Model 的自增 ID，而是服务端生成的 UUID
	ID            string                `gorm:"column:id;primaryKey;type:uuid"`
	Source        string                `gorm:"column:source;type:varchar(16);not null"`
	HasGuidelines bool                  `gorm:"column:has_guidelines"`
	ContentLength int                   `gorm:"column:content_length"`
	Model         string                `gorm:"column:model;type:varchar(100)"`
	CompanyName   string                `gorm:"column:company_name;type:varchar(255);index"`
	HealthScore   int                   `gorm:"column:health_score;type:smallint"`
	Result        *types.AnalysisResult `gorm:"column:result;type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"column:created_at;index"`
}

// TableName 强制指定表名
func (Analysis) TableName() string {
	return "analyses"
}

func fromRecord(rec *types.AnalysisRecord) *Analysis {
	row := &Analysis{
		ID:            rec.ID,
		Source:        rec.Source,
		HasGuidelines: rec.HasGuidelines,
		ContentLength: rec.ContentLength,
		Model:         rec.Model,
		Result:        rec.Result,
		CreatedAt:     rec.CreatedAt,
	}
	if rec.Result != nil {
		row.HealthScore = rec.Result.FinancialHealthScore
		if rec.Result.CompanyName != nil {
			row.CompanyName = *rec.Result.CompanyName
		}
	}
	return row
}

func (a *Analysis) toRecord() *types.AnalysisRecord {
	return &types.AnalysisRecord{
		ID:            a.ID,
		CreatedAt:     a.CreatedAt,
		Source:        a.Source,
		HasGuidelines: a.HasGuidelines,
		ContentLength: a.ContentLength,
		Model:         a.Model,
		Result:        a.Result,
	}
}
