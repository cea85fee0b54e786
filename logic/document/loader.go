package document

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
)

// LoadGuidelines 启动时读取默认 guidelines 文件：.pdf 走 PDF 解析器，其它按纯文本处理
func LoadGuidelines(ctx context.Context, path string, pdfParser parser.Parser) (string, error) {
	if path == "" {
		return "", nil
	}

	extParser, err := parser.NewExtParser(ctx, &parser.ExtParserConfig{
		Parsers:        map[string]parser.Parser{".pdf": pdfParser, ".PDF": pdfParser},
		FallbackParser: parser.TextParser{},
	})
	if err != nil {
		return "", fmt.Errorf("create ext parser: %w", err)
	}

	loader, err := file.NewFileLoader(ctx, &file.FileLoaderConfig{
		UseNameAsID: true,
		Parser:      extParser,
	})
	if err != nil {
		return "", fmt.Errorf("create file loader: %w", err)
	}

	docs, err := loader.Load(ctx, document.Source{URI: path})
	if err != nil {
		return "", fmt.Errorf("load guidelines %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, _ := RenderPages(docs)
		return text, nil
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if c := CleanText(doc.Content); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
