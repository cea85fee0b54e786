package document

import (
	"strings"
	"unicode/utf8"
)

// CleanText 去除 PDF 解析常见的脏字符：NUL 字节和无效 UTF-8，并去掉首尾空白
func CleanText(content string) string {
	content = strings.ReplaceAll(content, "\x00", "")

	if !utf8.ValidString(content) {
		v := make([]rune, 0, len(content))
		for i, r := range content {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(content[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		content = string(v)
	}

	return strings.TrimSpace(content)
}
