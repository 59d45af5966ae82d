package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBus_EmitRegistrationOrder(t *testing.T) {
	bus := New[string](zap.NewNop())
	var calls []string

	bus.Subscribe(func(e string) { calls = append(calls, "first:"+e) })
	bus.Subscribe(func(e string) { calls = append(calls, "second:"+e) })

	bus.Emit("a")
	bus.Emit("b")

	assert.Equal(t, []string{"first:a", "second:a", "first:b", "second:b"}, calls)
}

func TestBus_UnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	bus := New[int](nil)
	var a, b int

	unsubA := bus.Subscribe(func(int) { a++ })
	bus.Subscribe(func(int) { b++ })

	bus.Emit(1)
	unsubA()
	unsubA() // idempotent
	bus.Emit(2)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 1, bus.Len())
}

func TestBus_SameFunctionSubscribedTwice(t *testing.T) {
	bus := New[int](nil)
	count := 0
	handler := func(int) { count++ }

	unsub := bus.Subscribe(handler)
	bus.Subscribe(handler)

	unsub()
	bus.Emit(0)

	assert.Equal(t, 1, count)
}

func TestBus_UnsubscribeDuringDispatch(t *testing.T) {
	bus := New[int](nil)
	var order []string
	var unsubSecond func()

	bus.Subscribe(func(int) {
		order = append(order, "first")
		unsubSecond()
	})
	unsubSecond = bus.Subscribe(func(int) { order = append(order, "second") })
	bus.Subscribe(func(int) { order = append(order, "third") })

	bus.Emit(1)
	assert.Equal(t, []string{"first", "second", "third"}, order)

	order = nil
	bus.Emit(2)
	assert.Equal(t, []string{"first", "third"}, order)
}

func TestBus_SelfUnsubscribeDuringDispatch(t *testing.T) {
	bus := New[int](nil)
	count := 0
	var unsub func()
	unsub = bus.Subscribe(func(int) {
		count++
		unsub()
	})

	bus.Emit(1)
	bus.Emit(2)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.Len())
}

func TestBus_SubscribeDuringDispatchTakesEffectNextEmit(t *testing.T) {
	bus := New[int](nil)
	late := 0
	bus.Subscribe(func(e int) {
		if e == 1 {
			bus.Subscribe(func(int) { late++ })
		}
	})

	bus.Emit(1)
	assert.Equal(t, 0, late)

	bus.Emit(2)
	assert.Equal(t, 1, late)
}

func TestBus_SubscribeFunc(t *testing.T) {
	bus := New[int](nil)
	var evens []int
	bus.SubscribeFunc(func(e int) bool { return e%2 == 0 }, func(e int) { evens = append(evens, e) })

	for i := 0; i < 5; i++ {
		bus.Emit(i)
	}

	assert.Equal(t, []int{0, 2, 4}, evens)
}

func TestBus_Clear(t *testing.T) {
	bus := New[int](nil)
	called := false
	bus.Subscribe(func(int) { called = true })

	bus.Clear()
	bus.Emit(1)

	assert.False(t, called)
	assert.Equal(t, 0, bus.Len())
}
