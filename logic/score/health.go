package score

import (
	"strconv"
	"strings"

	"report-assistant/vars"
)

const (
	growthThreshold = 10.0
	growthCap       = 20.0
	marginThreshold = 5.0
	marginCap       = 15.0
)

// Health 根据 key_metrics 计算 0-100 的财务健康分。
// 基础分 50；只看带 % 的字符串值：
//   - 键名含 growth 且 > 10%，加 min(20, 值)
//   - 键名含 margin 且 > 5%，加 min(15, 值)
//
// 嵌套的对象按叶子键名匹配。不修改入参。
func Health(metrics map[string]any) int {
	total := float64(vars.HealthBaseScore)
	walk(metrics, func(key string, pct float64) {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "growth") && pct > growthThreshold {
			total += min(growthCap, pct)
		}
		if strings.Contains(lower, "margin") && pct > marginThreshold {
			total += min(marginCap, pct)
		}
	})
	return clamp(int(total))
}

func walk(m map[string]any, visit func(key string, pct float64)) {
	for k, v := range m {
		switch val := v.(type) {
		case map[string]any:
			walk(val, visit)
		case string:
			if pct, ok := Percent(val); ok {
				visit(k, pct)
			}
		}
	}
}

// Percent 解析 "15.5%" 这类字符串，不含 % 或数字非法时 ok 为 false
func Percent(s string) (float64, bool) {
	if !strings.Contains(s, "%") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, "%", "")), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
