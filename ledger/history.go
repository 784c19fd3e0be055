package ledger

import (
	"context"
	"sort"
	"time"

	"moneybook/models"

	"golang.org/x/sync/errgroup"
)

// EntryKind 历史流水条目类型
type EntryKind string

const (
	KindIncome  EntryKind = "income"
	KindExpense EntryKind = "expense"
)

// HistoryEntry 收支合并后的历史流水条目
type HistoryEntry struct {
	Kind        EntryKind `json:"kind"`
	ID          uint      `json:"id"`
	Title       string    `json:"title"` // 收入名称或支出项目名称
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Bank        string    `json:"bank,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// History 并发读取收入和支出流水，合并成一条按时间倒序的历史序列
// 只读操作，相同数据重复调用结果一致
func (s *Store) History(ctx context.Context, userID uint) ([]HistoryEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var incomes []models.Income
	var expenses []models.Expense

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("user_id = ?", userID).
			Order("income_time DESC").
			Find(&incomes).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).
			Where("user_id = ?", userID).
			Order("expense_time DESC").
			Find(&expenses).Error
	})
	if err := g.Wait(); err != nil {
		return nil, storeErr(err)
	}

	return mergeHistory(incomes, expenses), nil
}

// mergeHistory 给条目打上类型标签后合并排序
// 排序规则：时间倒序；无法解析时间（零值）的条目排在最后；
// 时间相同的条目保持拼接顺序（先收入后支出）
func mergeHistory(incomes []models.Income, expenses []models.Expense) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(incomes)+len(expenses))
	for _, in := range incomes {
		entries = append(entries, HistoryEntry{
			Kind:       KindIncome,
			ID:         in.ID,
			Title:      in.Name,
			Amount:     in.Amount,
			Category:   in.Category,
			Bank:       in.Bank,
			OccurredAt: in.IncomeTime,
		})
	}
	for _, ex := range expenses {
		entries = append(entries, HistoryEntry{
			Kind:        KindExpense,
			ID:          ex.ID,
			Title:       ex.ItemName,
			Amount:      ex.Amount,
			Category:    ex.Category,
			Description: ex.Description,
			ImageURL:    ex.ImageURL,
			OccurredAt:  ex.ExpenseTime,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OccurredAt.After(entries[j].OccurredAt)
	})
	return entries
}
