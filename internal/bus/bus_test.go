package bus

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit_ExactMatch(t *testing.T) {
	b := New()

	var got any
	b.On("basket:open", func(data any) { got = data })

	b.Emit("basket:open", 42)
	assert.Equal(t, 42, got)

	got = nil
	b.Emit("basket:close", 7)
	assert.Nil(t, got, "non-matching event must not invoke handler")
}

func TestEmit_RegistrationOrder(t *testing.T) {
	b := New()

	var calls []string
	b.On("e", func(any) { calls = append(calls, "first") })
	b.OnAll(func(string, any) { calls = append(calls, "all") })
	b.On("e", func(any) { calls = append(calls, "second") })

	b.Emit("e", nil)
	assert.Equal(t, []string{"first", "all", "second"}, calls)
}

func TestOnPattern(t *testing.T) {
	b := New()

	var fields []any
	b.OnPattern(regexp.MustCompile(`^order\..*:change$`), func(data any) {
		fields = append(fields, data)
	})

	b.Emit("order.address:change", "a")
	b.Emit("contacts.email:change", "b")
	b.Emit("order.payment:change", "c")

	assert.Equal(t, []any{"a", "c"}, fields)
}

func TestOnAll_ReceivesNameAndPayload(t *testing.T) {
	b := New()

	type seen struct {
		event string
		data  any
	}
	var log []seen
	b.OnAll(func(event string, data any) {
		log = append(log, seen{event, data})
	})

	b.Emit("one", 1)
	b.Emit("two", "ii")

	require.Len(t, log, 2)
	assert.Equal(t, seen{"one", 1}, log[0])
	assert.Equal(t, seen{"two", "ii"}, log[1])
}

func TestOff(t *testing.T) {
	b := New()

	count := 0
	id := b.On("e", func(any) { count++ })

	b.Emit("e", nil)
	b.Off(id)
	b.Emit("e", nil)

	assert.Equal(t, 1, count)

	// Unknown id is a no-op.
	b.Off(9999)
}

func TestEmit_HandlerPanicPropagates(t *testing.T) {
	b := New()
	b.On("boom", func(any) { panic("handler failure") })

	assert.PanicsWithValue(t, "handler failure", func() {
		b.Emit("boom", nil)
	})
}

func TestEmit_SubscribeDuringDispatch(t *testing.T) {
	b := New()

	lateCalled := false
	b.On("e", func(any) {
		b.On("e", func(any) { lateCalled = true })
	})

	b.Emit("e", nil)
	assert.False(t, lateCalled, "no replay to subscribers added mid-dispatch")

	b.Emit("e", nil)
	assert.True(t, lateCalled)
}
