package document

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-assistant/internal/testutil"
	"report-assistant/types"
	"report-assistant/vars"
)

func engines(t *testing.T) map[string]parser.Parser {
	t.Helper()
	out := make(map[string]parser.Parser)
	for _, name := range []string{vars.EngineLedongthuc, vars.EngineEino} {
		p, err := NewParser(context.Background(), name)
		require.NoError(t, err)
		out[name] = p
	}
	return out
}

// extractWithin 超时视为解析卡死
func extractWithin(t *testing.T, p parser.Parser, data []byte, name string) (string, error) {
	t.Helper()
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := NewExtractor(p).Extract(context.Background(), bytes.NewReader(data), name)
		done <- result{text, err}
	}()
	select {
	case res := <-done:
		return res.text, res.err
	case <-time.After(5 * time.Second):
		t.Fatalf("extract %s did not return", name)
		return "", nil
	}
}

func TestExtract_SkipsBlankPagesAndKeepsOrder(t *testing.T) {
	data := testutil.BuildPDF(
		"Quarterly report\nRevenue grew 12%",
		"",
		"Outlook remains positive",
	)

	for engine, p := range engines(t) {
		t.Run(engine, func(t *testing.T) {
			text, err := extractWithin(t, p, data, "report.pdf")
			require.NoError(t, err)

			assert.Equal(t, 2, strings.Count(text, "--- Page "))
			assert.Contains(t, text, "--- Page 1 ---")
			assert.NotContains(t, text, "--- Page 2 ---")
			assert.Contains(t, text, "--- Page 3 ---")
			assert.Less(t, strings.Index(text, "--- Page 1 ---"), strings.Index(text, "--- Page 3 ---"))
			assert.Contains(t, text, "Revenue")
			assert.Contains(t, text, "Outlook")
			assert.True(t, strings.HasPrefix(text, "--- Page 1 ---"))
		})
	}
}

func TestExtract_AllPagesBlank(t *testing.T) {
	data := testutil.BuildPDF("", "")

	for engine, p := range engines(t) {
		t.Run(engine, func(t *testing.T) {
			text, err := extractWithin(t, p, data, "blank.pdf")
			require.NoError(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestExtract_CorruptInput(t *testing.T) {
	inputs := map[string][]byte{
		"not a pdf": []byte("this is definitely not a pdf document"),
		"truncated": testutil.BuildPDF("hello world")[:40],
		"empty":     {},
	}

	for engine, p := range engines(t) {
		for name, data := range inputs {
			t.Run(engine+"/"+name, func(t *testing.T) {
				_, err := extractWithin(t, p, data, "bad.pdf")
				require.Error(t, err)
				assert.Equal(t, types.KindExtraction, types.KindOf(err))
				assert.Equal(t, 400, types.StatusOf(err))
				assert.True(t, strings.HasPrefix(err.Error(), "PDF processing failed: "), err.Error())
			})
		}
	}
}

func TestEinoParser_PageMetadata(t *testing.T) {
	p, err := NewEinoParser(context.Background())
	require.NoError(t, err)

	// 没有空白页时走 eino 解析
	docs, err := p.Parse(context.Background(), bytes.NewReader(testutil.BuildPDF("one", "two")), parser.WithURI("r.pdf"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 1, docs[0].MetaData[MetaKeyPage])
	assert.Equal(t, 2, docs[1].MetaData[MetaKeyPage])
	assert.Equal(t, "r.pdf#page-2", docs[1].ID)
	assert.Contains(t, docs[1].Content, "two")

	// 有空白页时逐页解析，空白页保留为空文档
	docs, err = p.Parse(context.Background(), bytes.NewReader(testutil.BuildPDF("", "two")))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Empty(t, docs[0].Content)
	assert.Equal(t, 2, docs[1].MetaData[MetaKeyPage])
	assert.Contains(t, docs[1].Content, "two")
}

func TestPageParser_PageMetadata(t *testing.T) {
	data := testutil.BuildPDF("one", "two")

	docs, err := (&PageParser{}).Parse(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, 1, docs[0].MetaData[MetaKeyPage])
	assert.Equal(t, 2, docs[1].MetaData[MetaKeyPage])
	assert.Equal(t, "page-1", docs[0].ID)
}

func TestRenderPages(t *testing.T) {
	docs := []*schema.Document{
		{Content: "  first  "},
		{Content: " \n\t "},
		nil,
		{Content: "fourth\x00", MetaData: map[string]any{MetaKeyPage: 4}},
	}

	text, kept := RenderPages(docs)
	assert.Equal(t, 2, kept)
	assert.Equal(t, "--- Page 1 ---\nfirst\n\n--- Page 4 ---\nfourth", text)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "abc", CleanText("  a\x00bc \n"))
	assert.Equal(t, "ok", CleanText("o\xffk"))
	assert.Equal(t, "", CleanText("\x00 \x00"))
}

func TestNewParser(t *testing.T) {
	p, err := NewParser(context.Background(), "ledongthuc")
	require.NoError(t, err)
	assert.IsType(t, &PageParser{}, p)

	p, err = NewParser(context.Background(), "eino")
	require.NoError(t, err)
	assert.IsType(t, &EinoParser{}, p)

	_, err = NewParser(context.Background(), "mupdf")
	assert.Error(t, err)
}

func TestLoadGuidelines(t *testing.T) {
	ctx := context.Background()

	text, err := LoadGuidelines(ctx, "", &PageParser{})
	require.NoError(t, err)
	assert.Empty(t, text)

	dir := t.TempDir()
	txt := filepath.Join(dir, "guidelines.txt")
	require.NoError(t, os.WriteFile(txt, []byte("  Focus on revenue and churn.\n"), 0o644))
	text, err = LoadGuidelines(ctx, txt, &PageParser{})
	require.NoError(t, err)
	assert.Equal(t, "Focus on revenue and churn.", text)

	pdfPath := filepath.Join(dir, "guidelines.pdf")
	require.NoError(t, os.WriteFile(pdfPath, testutil.BuildPDF("Focus on margins"), 0o644))
	text, err = LoadGuidelines(ctx, pdfPath, &PageParser{})
	require.NoError(t, err)
	assert.Contains(t, text, "--- Page 1 ---")
	assert.Contains(t, text, "Focus on margins")

	_, err = LoadGuidelines(ctx, filepath.Join(dir, "missing.txt"), &PageParser{})
	assert.Error(t, err)
}
