package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"

	"report-assistant/logger"
	"report-assistant/types"
	"report-assistant/vars"
)

// MetaKeyPage 每页文档 MetaData 中的页码（从 1 开始）
const MetaKeyPage = "page"

// PageParser 基于 ledongthuc/pdf 的逐页解析器，实现 eino parser.Parser。
// 每一页输出一个 Document（包括空白页），页码写入 MetaData。
type PageParser struct{}

func (p *PageParser) Parse(ctx context.Context, reader io.Reader, opts ...parser.Option) (docs []*schema.Document, err error) {
	// ledongthuc/pdf 遇到畸形文件时可能 panic
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("panic during PDF parsing: %v", r)
		}
	}()

	commonOpts := parser.GetCommonOptions(&parser.Options{}, opts...)

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf reader: %w", err)
	}

	numPages := r.NumPage()
	docs = make([]*schema.Document, 0, numPages)
	for i := 1; i <= numPages; i++ {
		var text string
		page := r.Page(i)
		if !page.V.IsNull() {
			text, err = page.GetPlainText(nil)
			if err != nil {
				return nil, fmt.Errorf("extract text from page %d: %w", i, err)
			}
		}

		docs = append(docs, &schema.Document{
			ID:       pageID(commonOpts.URI, i),
			Content:  text,
			MetaData: pageMeta(commonOpts.ExtraMeta, i),
		})
	}
	return docs, nil
}

func pageID(uri string, page int) string {
	if uri == "" {
		return "page-" + strconv.Itoa(page)
	}
	return uri + "#page-" + strconv.Itoa(page)
}

// NewParser 按配置选择 PDF 解析引擎
func NewParser(ctx context.Context, engine string) (parser.Parser, error) {
	switch engine {
	case "", vars.EngineLedongthuc:
		return &PageParser{}, nil
	case vars.EngineEino:
		p, err := NewEinoParser(ctx)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown pdf engine %q", engine)
	}
}

// Extractor 把 PDF 字节流转成带页码标记的纯文本
type Extractor struct {
	parser parser.Parser
}

func NewExtractor(p parser.Parser) *Extractor {
	return &Extractor{parser: p}
}

// Extract 解析失败时返回 KindExtraction 的 AppError（对应 400）
func (e *Extractor) Extract(ctx context.Context, r io.Reader, name string) (string, error) {
	docs, err := e.parser.Parse(ctx, r, parser.WithURI(name))
	if err != nil {
		return "", types.ExtractionError(err)
	}

	text, kept := RenderPages(docs)
	logger.Log.WithFields(logrus.Fields{
		"file":  name,
		"pages": len(docs),
		"kept":  kept,
	}).Debug("pdf extracted")
	return text, nil
}

// RenderPages 拼接非空白页，每页前加 "--- Page N ---"，返回文本和保留的页数
func RenderPages(docs []*schema.Document) (string, int) {
	var sb strings.Builder
	kept := 0
	for i, doc := range docs {
		if doc == nil {
			continue
		}
		content := CleanText(doc.Content)
		if content == "" {
			continue
		}

		page := i + 1
		if n, ok := doc.MetaData[MetaKeyPage].(int); ok && n > 0 {
			page = n
		}

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "--- Page %d ---\n%s", page, content)
		kept++
	}
	return strings.TrimSpace(sb.String()), kept
}
