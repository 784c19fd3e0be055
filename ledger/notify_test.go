package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_PublishSubscribe(t *testing.T) {
	n := NewNotifier()
	ch := n.Subscribe(4)
	defer n.Unsubscribe(ch)

	n.Publish(ChangeEvent{UserID: 1, Kind: ChangeIncomeAdded, EntryID: 42, Balance: 100})

	ev := <-ch
	assert.Equal(t, uint(1), ev.UserID)
	assert.Equal(t, ChangeIncomeAdded, ev.Kind)
	assert.Equal(t, uint(42), ev.EntryID)
	assert.Equal(t, float64(100), ev.Balance)
}

func TestNotifier_SlowSubscriberDropsEvents(t *testing.T) {
	n := NewNotifier()
	ch := n.Subscribe(1)
	defer n.Unsubscribe(ch)

	// 缓冲为 1，第二条应被丢弃而不是阻塞
	n.Publish(ChangeEvent{EntryID: 1})
	n.Publish(ChangeEvent{EntryID: 2})

	ev := <-ch
	assert.Equal(t, uint(1), ev.EntryID)
	select {
	case ev2 := <-ch:
		t.Fatalf("不应收到第二条事件: %+v", ev2)
	default:
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := NewNotifier()
	ch := n.Subscribe(1)
	n.Unsubscribe(ch)

	// 通道已关闭
	_, ok := <-ch
	require.False(t, ok)

	// 重复取消订阅不会 panic
	n.Unsubscribe(ch)

	// 取消订阅后发布不会 panic
	n.Publish(ChangeEvent{EntryID: 9})
}

func TestNotifier_MultipleSubscribers(t *testing.T) {
	n := NewNotifier()
	a := n.Subscribe(1)
	b := n.Subscribe(1)
	defer n.Unsubscribe(a)
	defer n.Unsubscribe(b)

	n.Publish(ChangeEvent{EntryID: 7})

	assert.Equal(t, uint(7), (<-a).EntryID)
	assert.Equal(t, uint(7), (<-b).EntryID)
}
