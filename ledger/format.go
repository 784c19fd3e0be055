package ledger

import (
	"math"
	"strconv"
	"strings"
)

// FormatAmount 把金额格式化为紧凑的展示字符串
// 千万以上用 C，百万以上用 M，千以上用 K，缩写形式截断到一位小数
// 其余情况按有无小数部分输出 0 位或 2 位小数
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	switch {
	case v >= 10_000_000:
		return abbreviate(v/10_000_000, "C")
	case v >= 1_000_000:
		return abbreviate(v/1_000_000, "M")
	case v >= 1_000:
		return abbreviate(v/1_000, "K")
	default:
		return fixedDecimals(v)
	}
}

// abbreviate 截断到一位小数，去掉多余的 ".0" 后拼接单位
func abbreviate(v float64, suffix string) string {
	v = math.Trunc(v*10) / 10
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + suffix
}

// fixedDecimals 整数输出 0 位小数，带小数部分输出 2 位
func fixedDecimals(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
