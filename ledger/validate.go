package ledger

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// SanitizeAmount 清洗用户输入的金额字符串：只保留数字和第一个小数点
// 表单里粘贴的金额可能带货币符号、千分位逗号等杂质
func SanitizeAmount(s string) string {
	var b strings.Builder
	seenDot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmount 清洗并解析金额字符串，要求解析结果为有限正数
func ParseAmount(s string) (float64, error) {
	cleaned := SanitizeAmount(s)
	if cleaned == "" || cleaned == "." {
		return 0, invalidField("amount", "金额格式错误")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalidField("amount", "金额格式错误")
	}
	if v <= 0 {
		return 0, invalidField("amount", "金额必须大于0")
	}
	return v, nil
}

// IncomeInput 新增收入的输入
type IncomeInput struct {
	Amount     string // 表单原始金额字符串
	Name       string
	Bank       string
	Category   string
	IncomeTime time.Time // 零值表示使用当前时间
}

// validate 按顺序校验：金额可解析、金额大于0、名称/类别/银行非空
// 全部字段为空时返回统一提示
func (in IncomeInput) validate() (float64, error) {
	if strings.TrimSpace(in.Amount) == "" &&
		strings.TrimSpace(in.Name) == "" &&
		strings.TrimSpace(in.Category) == "" &&
		strings.TrimSpace(in.Bank) == "" {
		return 0, invalidField("", "请填写所有字段")
	}
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return 0, invalidField("name", "收入名称不能为空")
	}
	if strings.TrimSpace(in.Category) == "" {
		return 0, invalidField("category", "收入类别不能为空")
	}
	if strings.TrimSpace(in.Bank) == "" {
		return 0, invalidField("bank", "银行不能为空")
	}
	return amount, nil
}

// ExpenseInput 新增支出的输入
type ExpenseInput struct {
	Amount      string // 表单原始金额字符串
	ItemName    string
	Category    string
	Description string
	ImageURL    string
	ExpenseTime time.Time // 零值表示使用当前时间
}

// validate 校验支出输入；余额检查在事务内进行，不在这里
func (in ExpenseInput) validate() (float64, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(in.ItemName) == "" {
		return 0, invalidField("item_name", "支出项目名称不能为空")
	}
	if strings.TrimSpace(in.Category) == "" {
		return 0, invalidField("category", "支出类别不能为空")
	}
	return amount, nil
}

// ExpenseUpdate 编辑支出的输入，空字符串/零值表示该字段不变
type ExpenseUpdate struct {
	Amount      string
	ItemName    string
	Category    string
	Description string
	ImageURL    string
	ExpenseTime time.Time
}
