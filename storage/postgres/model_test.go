package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"report-assistant/storage"
	"report-assistant/types"
)

var _ storage.Store = (*AnalysisRepo)(nil)

func TestRecordRoundTrip(t *testing.T) {
	name := "Acme Industries"
	rec := &types.AnalysisRecord{
		ID:            "6f1c7a52-0b7e-4c1e-9d55-0f6f3c2a9e11",
		CreatedAt:     time.Date(2024, 11, 2, 9, 30, 0, 0, time.UTC),
		Source:        types.SourcePDF,
		HasGuidelines: true,
		ContentLength: 5120,
		Model:         "gpt-4o-mini",
		Result: &types.AnalysisResult{
			CompanyName:          &name,
			FinancialHealthScore: 73,
			Summary:              "Three sentences.",
		},
	}

	row := fromRecord(rec)
	assert.Equal(t, "Acme Industries", row.CompanyName)
	assert.Equal(t, 73, row.HealthScore)
	assert.Equal(t, "analyses", row.TableName())
	assert.Equal(t, rec, row.toRecord())
}

func TestFromRecordWithoutResult(t *testing.T) {
	row := fromRecord(&types.AnalysisRecord{ID: "x", Source: types.SourceText})
	assert.Empty(t, row.CompanyName)
	assert.Zero(t, row.HealthScore)
	assert.Nil(t, row.Result)
}
