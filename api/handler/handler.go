package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"report-assistant/api/response"
	"report-assistant/logger"
	"report-assistant/service"
	"report-assistant/types"
	"report-assistant/vars"
)

// 表单字段名
const (
	FieldText           = "text"
	FieldGuidelinesText = "guidelines_text"
	FieldReportFile     = "report_file"
	FieldGuidelinesFile = "guidelines_file"
)

type ReportHandler struct {
	analysisSvc *service.AnalysisService
	historySvc  *service.HistoryService
	maxUpload   int64
}

func NewReportHandler(analysisSvc *service.AnalysisService, historySvc *service.HistoryService, maxUploadMB int) *ReportHandler {
	return &ReportHandler{
		analysisSvc: analysisSvc,
		historySvc:  historySvc,
		maxUpload:   int64(maxUploadMB) << 20,
	}
}

// Analyze 上传报告（文本或 PDF）并返回结构化分析
func (h *ReportHandler) Analyze(c *gin.Context) {
	if h.maxUpload > 0 {
		// 声明了长度的请求直接拒绝，分块上传靠 MaxBytesReader 兜底
		if c.Request.ContentLength > h.maxUpload {
			h.failTooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}
	if err := parseForm(c.Request, h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.failTooLarge(c)
			return
		}
		response.Fail(c, http.StatusBadRequest, "Invalid form data: "+err.Error())
		return
	}

	in := service.AnalyzeInput{
		Text:           c.Request.PostFormValue(FieldText),
		GuidelinesText: c.Request.PostFormValue(FieldGuidelinesText),
	}

	report, closeReport, err := openUpload(c.Request, FieldReportFile)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Failed to read report file: "+err.Error())
		return
	}
	defer closeReport()
	in.ReportFile = report

	guidelines, closeGuidelines, err := openUpload(c.Request, FieldGuidelinesFile)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Failed to read guidelines file: "+err.Error())
		return
	}
	defer closeGuidelines()
	in.GuidelinesFile = guidelines

	resp, err := h.analysisSvc.Analyze(c.Request.Context(), in)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"kind":       types.KindOf(err),
		}).WithError(err).Warn("analyze request failed")
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

func (h *ReportHandler) failTooLarge(c *gin.Context) {
	response.Fail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds the %d MB limit", h.maxUpload>>20))
}

func parseForm(r *http.Request, maxMemory int64) error {
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}
	err := r.ParseMultipartForm(maxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// openUpload 字段不存在时返回 nil
func openUpload(r *http.Request, field string) (*service.Upload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, noop, nil
	}
	fh := r.MultipartForm.File[field][0]
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &service.Upload{Name: fh.Filename, Body: f}, closer(f), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}

// Root 服务能力说明
func (h *ReportHandler) Root(c *gin.Context) {
	response.Success(c, gin.H{
		"service": vars.ServiceName,
		"version": vars.ServiceVersion,
		"model":   h.analysisSvc.Model(),
		"endpoints": gin.H{
			"POST /analyze":      "Analyze a company report (text or PDF) with optional guidelines",
			"GET /health":        "Service health check",
			"GET /demo":          "Sample analysis result",
			"GET /analyses":      "Recent analyses, newest first",
			"GET /analyses/{id}": "A stored analysis",
		},
		"features": []string{
			"PDF text extraction",
			"Key metrics, insights, risks and opportunities",
			"Three-sentence executive summary",
			"Financial health score",
			"Custom analysis guidelines",
		},
	})
}

func (h *ReportHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"model":     h.analysisSvc.Model(),
	})
}

func (h *ReportHandler) Demo(c *gin.Context) {
	response.Success(c, gin.H{"sample_analysis": service.DemoAnalysis()})
}

// ListAnalyses GET /analyses?limit=N
func (h *ReportHandler) ListAnalyses(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	recs, err := h.historySvc.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"analyses": recs, "count": len(recs)})
}

func (h *ReportHandler) GetAnalysis(c *gin.Context) {
	rec, err := h.historySvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rec)
}
