package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"moneybook/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store 账本存储服务，钱包余额与收支流水的唯一修改入口
// 每次变更都在一个数据库事务里完成余额调整和流水写入，
// 保证「余额 = 收入合计 - 支出合计」在任何失败情况下都成立
type Store struct {
	db       *gorm.DB
	timeout  time.Duration
	notifier *Notifier
}

// NewStore 创建账本存储服务
func NewStore(db *gorm.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{
		db:       db,
		timeout:  timeout,
		notifier: NewNotifier(),
	}
}

// Notifier 获取变更通知器
func (s *Store) Notifier() *Notifier {
	return s.notifier
}

// withTimeout 给存储操作加上统一的超时
func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}

// storeErr 统一转换存储错误：超时映射为可重试的 ErrStoreTimeout
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return ErrStoreTimeout
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}

// lockWallet 行级锁读取钱包，不存在时创建零余额钱包
func lockWallet(tx *gorm.DB, userID uint, w *models.Wallet) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(models.Wallet{UserID: userID}).
		FirstOrCreate(w).Error
}

// Wallet 读取钱包，首次访问时自动创建零余额钱包
func (s *Store) Wallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var wallet models.Wallet
	err := s.db.WithContext(ctx).
		Where(models.Wallet{UserID: userID}).
		FirstOrCreate(&wallet).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return &wallet, nil
}

// AddIncome 新增收入：校验后在一个事务里增加余额、累计收入并写入收入流水
func (s *Store) AddIncome(ctx context.Context, userID uint, in IncomeInput) (*models.Income, *models.Wallet, error) {
	amount, err := in.validate()
	if err != nil {
		return nil, nil, err
	}

	incomeTime := in.IncomeTime
	if incomeTime.IsZero() {
		incomeTime = time.Now()
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var wallet models.Wallet
	var entry models.Income
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockWallet(tx, userID, &wallet); err != nil {
			return err
		}
		wallet.Balance += amount
		wallet.TotalIncome += amount
		if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
			Updates(map[string]interface{}{
				"balance":      wallet.Balance,
				"total_income": wallet.TotalIncome,
			}).Error; err != nil {
			return err
		}
		entry = models.Income{
			UserID:     userID,
			Name:       strings.TrimSpace(in.Name),
			Amount:     amount,
			Bank:       strings.TrimSpace(in.Bank),
			Category:   strings.TrimSpace(in.Category),
			IncomeTime: incomeTime,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, nil, storeErr(err)
	}

	s.notifier.Publish(ChangeEvent{
		UserID:     userID,
		Kind:       ChangeIncomeAdded,
		EntryID:    entry.ID,
		Balance:    wallet.Balance,
		OccurredAt: time.Now(),
	})
	return &entry, &wallet, nil
}

// AddExpense 新增支出：校验后在一个事务里检查余额、扣减余额并写入支出流水
// 支出金额超过当前余额时返回 ErrInsufficientBalance，不写任何数据
func (s *Store) AddExpense(ctx context.Context, userID uint, in ExpenseInput) (*models.Expense, *models.Wallet, error) {
	amount, err := in.validate()
	if err != nil {
		return nil, nil, err
	}

	expenseTime := in.ExpenseTime
	if expenseTime.IsZero() {
		expenseTime = time.Now()
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var wallet models.Wallet
	var entry models.Expense
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockWallet(tx, userID, &wallet); err != nil {
			return err
		}
		if amount > wallet.Balance {
			return ErrInsufficientBalance
		}
		wallet.Balance -= amount
		if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
			Update("balance", wallet.Balance).Error; err != nil {
			return err
		}
		entry = models.Expense{
			UserID:      userID,
			ItemName:    strings.TrimSpace(in.ItemName),
			Amount:      amount,
			Category:    strings.TrimSpace(in.Category),
			Description: in.Description,
			ImageURL:    in.ImageURL,
			ExpenseTime: expenseTime,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, nil, storeErr(err)
	}

	s.notifier.Publish(ChangeEvent{
		UserID:     userID,
		Kind:       ChangeExpenseAdded,
		EntryID:    entry.ID,
		Balance:    wallet.Balance,
		OccurredAt: time.Now(),
	})
	return &entry, &wallet, nil
}

// UpdateExpense 编辑支出，按新旧金额的差额调整余额：
// 先把旧金额视为退回，再校验并扣减新金额，整个过程在一个事务里完成
func (s *Store) UpdateExpense(ctx context.Context, userID, id uint, in ExpenseUpdate) (*models.Expense, *models.Wallet, error) {
	var newAmount float64
	amountChanged := strings.TrimSpace(in.Amount) != ""
	if amountChanged {
		v, err := ParseAmount(in.Amount)
		if err != nil {
			return nil, nil, err
		}
		newAmount = v
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var wallet models.Wallet
	var entry models.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
			return err
		}
		if !amountChanged {
			newAmount = entry.Amount
		}

		if err := lockWallet(tx, userID, &wallet); err != nil {
			return err
		}
		// 旧金额先回滚，再用回滚后的可用额度校验新金额
		available := wallet.Balance + entry.Amount
		if newAmount > available {
			return ErrInsufficientBalance
		}
		newBalance := available - newAmount
		if newBalance != wallet.Balance {
			if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
				Update("balance", newBalance).Error; err != nil {
				return err
			}
			wallet.Balance = newBalance
		}

		updates := map[string]interface{}{}
		if amountChanged {
			updates["amount"] = newAmount
		}
		if strings.TrimSpace(in.ItemName) != "" {
			updates["item_name"] = strings.TrimSpace(in.ItemName)
		}
		if strings.TrimSpace(in.Category) != "" {
			updates["category"] = strings.TrimSpace(in.Category)
		}
		if in.Description != "" {
			updates["description"] = in.Description
		}
		if in.ImageURL != "" {
			updates["image_url"] = in.ImageURL
		}
		if !in.ExpenseTime.IsZero() {
			updates["expense_time"] = in.ExpenseTime
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&entry).Updates(updates).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, storeErr(err)
	}

	s.notifier.Publish(ChangeEvent{
		UserID:     userID,
		Kind:       ChangeExpenseUpdated,
		EntryID:    entry.ID,
		Balance:    wallet.Balance,
		OccurredAt: time.Now(),
	})
	return &entry, &wallet, nil
}

// ListOptions 流水查询条件，PageSize 为 0 表示不分页
type ListOptions struct {
	Page      int
	PageSize  int
	Category  string
	Bank      string // 仅收入
	StartTime time.Time
	EndTime   time.Time
}

func (opt ListOptions) apply(query *gorm.DB, timeColumn string) *gorm.DB {
	if opt.Category != "" {
		query = query.Where("category = ?", opt.Category)
	}
	if !opt.StartTime.IsZero() {
		query = query.Where(timeColumn+" >= ?", opt.StartTime)
	}
	if !opt.EndTime.IsZero() {
		query = query.Where(timeColumn+" <= ?", opt.EndTime)
	}
	return query
}

func (opt ListOptions) paginate(query *gorm.DB) *gorm.DB {
	if opt.PageSize <= 0 {
		return query
	}
	page := opt.Page
	if page <= 0 {
		page = 1
	}
	return query.Offset((page - 1) * opt.PageSize).Limit(opt.PageSize)
}

// ListIncomes 查询收入流水，按时间倒序
func (s *Store) ListIncomes(ctx context.Context, userID uint, opt ListOptions) ([]models.Income, int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := s.db.WithContext(ctx).Model(&models.Income{}).Where("user_id = ?", userID)
	query = opt.apply(query, "income_time")
	if opt.Bank != "" {
		query = query.Where("bank = ?", opt.Bank)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storeErr(err)
	}
	var list []models.Income
	if err := opt.paginate(query).Order("income_time DESC").Find(&list).Error; err != nil {
		return nil, 0, storeErr(err)
	}
	return list, total, nil
}

// ListExpenses 查询支出流水，按时间倒序
func (s *Store) ListExpenses(ctx context.Context, userID uint, opt ListOptions) ([]models.Expense, int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := s.db.WithContext(ctx).Model(&models.Expense{}).Where("user_id = ?", userID)
	query = opt.apply(query, "expense_time")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storeErr(err)
	}
	var list []models.Expense
	if err := opt.paginate(query).Order("expense_time DESC").Find(&list).Error; err != nil {
		return nil, 0, storeErr(err)
	}
	return list, total, nil
}

// GetExpense 读取单条支出
func (s *Store) GetExpense(ctx context.Context, userID, id uint) (*models.Expense, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var entry models.Expense
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		return nil, storeErr(err)
	}
	return &entry, nil
}
