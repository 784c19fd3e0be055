package ledger

import (
	"sync"
	"time"
)

// ChangeKind 账本变更类型
type ChangeKind string

const (
	ChangeIncomeAdded    ChangeKind = "income_added"
	ChangeExpenseAdded   ChangeKind = "expense_added"
	ChangeExpenseUpdated ChangeKind = "expense_updated"
)

// ChangeEvent 账本变更事件，在事务提交后发布
type ChangeEvent struct {
	UserID     uint       `json:"user_id"`
	Kind       ChangeKind `json:"kind"`
	EntryID    uint       `json:"entry_id"`
	Balance    float64    `json:"balance"` // 变更后的余额
	OccurredAt time.Time  `json:"occurred_at"`
}

// Notifier 账本变更通知器，客户端订阅后可以即时刷新，替代定时轮询
// 订阅者消费不及时会丢事件，不会阻塞写入方
type Notifier struct {
	mu   sync.RWMutex
	subs map[chan ChangeEvent]struct{}
}

// NewNotifier 创建通知器
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[chan ChangeEvent]struct{})}
}

// Subscribe 订阅变更事件，buffer 为通道缓冲大小
func (n *Notifier) Subscribe(buffer int) chan ChangeEvent {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan ChangeEvent, buffer)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe 取消订阅并关闭通道
func (n *Notifier) Unsubscribe(ch chan ChangeEvent) {
	n.mu.Lock()
	if _, ok := n.subs[ch]; ok {
		delete(n.subs, ch)
		close(ch)
	}
	n.mu.Unlock()
}

// Publish 发布事件，订阅者缓冲已满时丢弃
func (n *Notifier) Publish(ev ChangeEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.subs {
		select {
		case ch <- ev:
		default:
			// 订阅者太慢，丢掉这条，下一条事件到达时客户端仍会刷新
		}
	}
}
