// Package testutil 各包测试共用的辅助函数
package testutil

import (
	"bytes"
	"fmt"
	"strings"
)

// BuildPDF 生成最小的合法 PDF，每个参数一页，按 "\n" 分行。
// 空字符串生成没有内容流的空白页。
func BuildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int

	// 对象编号：1 catalog，2 pages，3 font，之后依次是 page/content
	nextObj := 4
	pageObjs := make([]int, len(pages))
	contentObjs := make([]int, len(pages))
	for i, text := range pages {
		pageObjs[i] = nextObj
		nextObj++
		if text != "" {
			contentObjs[i] = nextObj
			nextObj++
		}
	}
	total := nextObj - 1
	offsets = make([]int, total+1)

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n")

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i, n := range pageObjs {
		kids[i] = fmt.Sprintf("%d 0 R", n)
	}
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))

	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pages {
		page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >>"
		if contentObjs[i] != 0 {
			page += fmt.Sprintf(" /Contents %d 0 R", contentObjs[i])
		}
		page += " >>"
		writeObj(pageObjs[i], page)

		if contentObjs[i] != 0 {
			stream := contentStream(text)
			writeObj(contentObjs[i], fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
		}
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", total+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= total; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", total+1, xref)

	return buf.Bytes()
}

func contentStream(text string) string {
	var sb strings.Builder
	y := 720
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(&sb, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", y, escapeLiteral(line))
		y -= 16
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func escapeLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// ReportProse 生成大约 words 个单词的报告正文
func ReportProse(words int) string {
	base := strings.Fields(`Acme Industries closed fiscal year 2024 with revenue of 48.2 million
dollars, up 14 percent on the prior year. Gross margin improved to 41 percent as
the company renegotiated supplier contracts and retired two legacy product lines.
Headcount grew to 310 employees across four offices. Management expects
continued expansion in the logistics segment and plans to enter two new regional
markets by 2026 while keeping operating costs flat.`)
	out := make([]string, 0, words)
	for len(out) < words {
		out = append(out, base...)
	}
	return strings.Join(out[:words], " ")
}
