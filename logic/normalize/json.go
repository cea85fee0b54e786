package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"report-assistant/vars"
)

var fenceRe = regexp.MustCompile("(?m)^```(?:json)?\\s*|\\s*```$")

// ParseObject 把模型输出解析成 JSON 对象，永远不返回错误。
// 依次尝试：去掉代码块围栏后整体解析、第一个括号配平的对象、第一个 { 到最后一个 }。
// 全部失败时返回 {"error": "Failed to parse AI response"}。
// recovered 为 true 表示没有走整体解析这条路。
func ParseObject(raw string) (obj map[string]any, recovered bool) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))

	if m, ok := decode(cleaned); ok {
		return m, false
	}
	if m, ok := firstBalanced(cleaned); ok {
		return m, true
	}
	if start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}"); start >= 0 && end > start {
		if m, ok := decode(cleaned[start : end+1]); ok {
			return m, true
		}
	}
	return ErrorObject(), true
}

// ErrorObject 解析失败时的占位对象
func ErrorObject() map[string]any {
	return map[string]any{vars.ParseErrorKey: vars.ParseErrorMessage}
}

// IsErrorObject 判断是否是解析失败的占位对象
func IsErrorObject(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	v, ok := m[vars.ParseErrorKey].(string)
	return ok && v == vars.ParseErrorMessage
}

func decode(s string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

// firstBalanced 从每个 { 开始找配平的 }，字符串里的括号和转义不计数
func firstBalanced(s string) (map[string]any, bool) {
	for start := strings.IndexByte(s, '{'); start >= 0; {
		if end := matchBrace(s, start); end > 0 {
			if m, ok := decode(s[start : end+1]); ok {
				return m, true
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

func matchBrace(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
