package document

import (
	"bytes"
	"context"
	"fmt"
	"io"

	einopdf "github.com/cloudwego/eino-ext/components/document/parser/pdf"
	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
	dpdf "github.com/dslipak/pdf"
)

// EinoParser 包装 eino 的 PDF 解析器。
// dslipak/pdf 遇到没有 /Contents 的页面会死循环，所以先扫一遍：
// 全部页面都有内容流时交给 eino，否则逐页解析并跳过空白页。
type EinoParser struct {
	inner *einopdf.PDFParser
}

func NewEinoParser(ctx context.Context) (*EinoParser, error) {
	p, err := einopdf.NewPDFParser(ctx, &einopdf.Config{ToPages: true})
	if err != nil {
		return nil, fmt.Errorf("create eino pdf parser: %w", err)
	}
	return &EinoParser{inner: p}, nil
}

func (p *EinoParser) Parse(ctx context.Context, reader io.Reader, opts ...parser.Option) (docs []*schema.Document, err error) {
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
	r, err := dpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf reader: %w", err)
	}

	numPages := r.NumPage()
	blank := make([]bool, numPages+1)
	anyBlank := false
	for i := 1; i <= numPages; i++ {
		if !hasContent(r.Page(i)) {
			blank[i] = true
			anyBlank = true
		}
	}

	if !anyBlank {
		docs, err = p.inner.Parse(ctx, bytes.NewReader(data), opts...)
		if err != nil {
			return nil, err
		}
		// eino 按页序输出但不带页码
		for i, doc := range docs {
			doc.ID = pageID(commonOpts.URI, i+1)
			doc.MetaData = pageMeta(commonOpts.ExtraMeta, i+1)
		}
		return docs, nil
	}

	fonts := make(map[string]*dpdf.Font)
	docs = make([]*schema.Document, 0, numPages)
	for i := 1; i <= numPages; i++ {
		var text string
		if !blank[i] {
			page := r.Page(i)
			for _, name := range page.Fonts() {
				if _, ok := fonts[name]; !ok {
					f := page.Font(name)
					fonts[name] = &f
				}
			}
			text, err = page.GetPlainText(fonts)
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

// hasContent 空数组和缺失的 /Contents 都当作空白页
func hasContent(page dpdf.Page) bool {
	if page.V.IsNull() {
		return false
	}
	contents := page.V.Key("Contents")
	switch contents.Kind() {
	case dpdf.Null:
		return false
	case dpdf.Array:
		return contents.Len() > 0
	default:
		return true
	}
}

func pageMeta(extra map[string]any, page int) map[string]any {
	meta := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		meta[k] = v
	}
	meta[MetaKeyPage] = page
	return meta
}
