package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"report-assistant/logger"
	"report-assistant/logic/chat"
	"report-assistant/logic/normalize"
	"report-assistant/logic/prompt"
	"report-assistant/logic/score"
	"report-assistant/storage"
	"report-assistant/types"
	"report-assistant/vars"
)

// 客户端可见的校验错误信息
const (
	MsgNoReport          = "Please provide report content (text or PDF file)"
	MsgBothReports       = "Provide either text or a PDF file for the report, not both"
	MsgBothGuidelines    = "Provide either guidelines text or a guidelines PDF file, not both"
	MsgReportNotPDF      = "Only PDF files supported for report uploads"
	MsgGuidelinesNotPDF  = "Only PDF files supported for guidelines"
	MsgReportTooShort    = "Report content too short for meaningful analysis"
	defaultCallTimeout   = 120 * time.Second
	processingTimeDigits = 100
)

// TextExtractor 把上传的 PDF 转成纯文本
type TextExtractor interface {
	Extract(ctx context.Context, r io.Reader, name string) (string, error)
}

// Upload 一个上传文件
type Upload struct {
	Name string
	Body io.Reader
}

// AnalyzeInput 一次分析请求的原始输入，报告只能二选一，guidelines 可选
type AnalyzeInput struct {
	Text           string
	GuidelinesText string
	ReportFile     *Upload
	GuidelinesFile *Upload
}

// Options 服务级开关
type Options struct {
	Review            bool
	CallTimeout       time.Duration
	DefaultGuidelines string
}

type AnalysisService struct {
	gateway   chat.Gateway
	extractor TextExtractor
	store     storage.Store
	opts      Options
	now       func() time.Time
}

// NewAnalysisService store 可以为 nil，此时不保存历史
func NewAnalysisService(gateway chat.Gateway, extractor TextExtractor, store storage.Store, opts Options) *AnalysisService {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	return &AnalysisService{
		gateway:   gateway,
		extractor: extractor,
		store:     store,
		opts:      opts,
		now:       time.Now,
	}
}

func (s *AnalysisService) Model() string {
	return s.gateway.Model()
}

// Analyze 校验 -> 提取报告 -> 提取 guidelines -> 并发调用模型 -> 解析打分 -> 组装响应
func (s *AnalysisService) Analyze(ctx context.Context, in AnalyzeInput) (*types.AnalyzeResponse, error) {
	start := s.now()

	if err := validate(in); err != nil {
		return nil, err
	}

	content, source, err := s.reportContent(ctx, in)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) < vars.MinReportChars {
		return nil, types.InputError(MsgReportTooShort)
	}

	guidelines, err := s.guidelines(ctx, in)
	if err != nil {
		return nil, err
	}

	log := logger.Log.WithFields(logrus.Fields{
		"source":         source,
		"content_length": utf8.RuneCountInString(content),
		"has_guidelines": guidelines != "",
		"review":         s.opts.Review,
	})
	log.Info("analysis started")

	metricsRaw, summary, review, err := s.invoke(ctx, content, guidelines)
	if err != nil {
		log.WithError(err).Error("analysis model call failed")
		return nil, types.ModelError(err)
	}

	result := buildResult(metricsRaw, summary, review, log)
	elapsed := roundSeconds(s.now().Sub(start))
	result.ProcessingTime = elapsed

	resp := &types.AnalyzeResponse{
		Success: true,
		Data:    result,
		Meta: types.AnalysisMeta{
			ProcessingTimeSeconds: elapsed,
			HasGuidelines:         guidelines != "",
			ContentLength:         utf8.RuneCountInString(content),
			AnalysisID:            uuid.NewString(),
			Model:                 s.gateway.Model(),
		},
	}
	s.persist(ctx, resp, source, start)

	log.WithFields(logrus.Fields{
		"analysis_id":  resp.Meta.AnalysisID,
		"health_score": result.FinancialHealthScore,
		"elapsed":      elapsed,
	}).Info("analysis finished")
	return resp, nil
}

func validate(in AnalyzeInput) error {
	hasText, hasFile := in.Text != "", in.ReportFile != nil
	switch {
	case !hasText && !hasFile:
		return types.InputError(MsgNoReport)
	case hasText && hasFile:
		return types.InputError(MsgBothReports)
	}
	if in.GuidelinesText != "" && in.GuidelinesFile != nil {
		return types.InputError(MsgBothGuidelines)
	}
	if hasFile && !isPDF(in.ReportFile.Name) {
		return types.InputError(MsgReportNotPDF)
	}
	if in.GuidelinesFile != nil && !isPDF(in.GuidelinesFile.Name) {
		return types.InputError(MsgGuidelinesNotPDF)
	}
	return nil
}

func isPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

func (s *AnalysisService) reportContent(ctx context.Context, in AnalyzeInput) (string, string, error) {
	if in.ReportFile == nil {
		return in.Text, types.SourceText, nil
	}
	text, err := s.extractor.Extract(ctx, in.ReportFile.Body, in.ReportFile.Name)
	if err != nil {
		return "", "", err
	}
	return text, types.SourcePDF, nil
}

// guidelines 请求未提供时退回到服务端默认 guidelines
func (s *AnalysisService) guidelines(ctx context.Context, in AnalyzeInput) (string, error) {
	switch {
	case in.GuidelinesFile != nil:
		text, err := s.extractor.Extract(ctx, in.GuidelinesFile.Body, in.GuidelinesFile.Name)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	case strings.TrimSpace(in.GuidelinesText) != "":
		return strings.TrimSpace(in.GuidelinesText), nil
	default:
		return strings.TrimSpace(s.opts.DefaultGuidelines), nil
	}
}

// invoke 并发发出 metrics / summary（/ review）调用，任一失败取消其余调用
func (s *AnalysisService) invoke(ctx context.Context, content, guidelines string) (metrics, summary, review string, err error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(callCtx)
	g.Go(func() error {
		out, err := s.gateway.Complete(gctx, prompt.Metrics(content, guidelines))
		metrics = out
		return err
	})
	g.Go(func() error {
		out, err := s.gateway.Complete(gctx, prompt.Summary(content, guidelines))
		summary = out
		return err
	})
	if s.opts.Review {
		g.Go(func() error {
			out, err := s.gateway.Complete(gctx, prompt.Review(content, guidelines))
			review = out
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return "", "", "", err
	}
	return metrics, summary, review, nil
}

func buildResult(metricsRaw, summary, review string, log *logrus.Entry) *types.AnalysisResult {
	parsed, recovered := normalize.ParseObject(metricsRaw)
	if normalize.IsErrorObject(parsed) {
		log.WithField("raw_length", len(metricsRaw)).Warn("metrics response is not JSON, returning empty metrics")
	} else if recovered {
		log.Debug("metrics JSON recovered from surrounding text")
	}

	keyMetrics, _ := parsed["key_metrics"].(map[string]any)
	if keyMetrics == nil {
		keyMetrics = map[string]any{}
	}

	return &types.AnalysisResult{
		CompanyName:          optString(parsed["company_name"]),
		Year:                 optString(parsed["year"]),
		TargetYear:           optString(parsed["target_year"]),
		KeyMetrics:           keyMetrics,
		FinancialHealthScore: score.Health(keyMetrics),
		ActionableInsights:   stringList(parsed["actionable_insights"]),
		RiskFactors:          stringList(parsed["risk_factors"]),
		Opportunities:        stringList(parsed["opportunities"]),
		Summary:              strings.TrimSpace(summary),
		Review:               strings.TrimSpace(review),
	}
}

func (s *AnalysisService) persist(ctx context.Context, resp *types.AnalyzeResponse, source string, at time.Time) {
	if s.store == nil {
		return
	}
	rec := &types.AnalysisRecord{
		ID:            resp.Meta.AnalysisID,
		CreatedAt:     at,
		Source:        source,
		HasGuidelines: resp.Meta.HasGuidelines,
		ContentLength: resp.Meta.ContentLength,
		Model:         resp.Meta.Model,
		Result:        resp.Data,
	}
	// 请求已经成功，历史写入失败只记日志
	if err := s.store.Save(context.WithoutCancel(ctx), rec); err != nil {
		logger.Log.WithError(err).WithField("analysis_id", rec.ID).Warn("save analysis failed")
	}
}

// optString 字符串原样返回，数字格式化成字符串，其余为 nil
func optString(v any) *string {
	switch val := v.(type) {
	case string:
		return &val
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		return &s
	default:
		return nil
	}
}

// stringList 接受字符串数组或单个字符串，非字符串元素格式化，其余为空列表
func stringList(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			switch it := item.(type) {
			case nil:
			case string:
				out = append(out, it)
			default:
				out = append(out, fmt.Sprint(it))
			}
		}
		return out
	case string:
		if strings.TrimSpace(val) == "" {
			return []string{}
		}
		return []string{val}
	default:
		return []string{}
	}
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*processingTimeDigits) / processingTimeDigits
}
