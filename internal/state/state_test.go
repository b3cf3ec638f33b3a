package state

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/bus"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

func newState(t *testing.T) (*State, *bus.Bus) {
	t.Helper()
	b := bus.New()
	return New(b, zap.NewNop()), b
}

func priced(id string, price int64) product.Product {
	return product.Product{
		ID:    id,
		Title: "product " + id,
		Price: decimal.NewNullDecimal(decimal.NewFromInt(price)),
	}
}

func cartIDs(s *State) []string {
	items := s.CartItems()
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return ids
}

func TestReplaceCatalog(t *testing.T) {
	s, b := newState(t)

	var published []product.Product
	b.On(EventCatalogChanged, func(data any) {
		published = data.([]product.Product)
	})

	require.NoError(t, s.ReplaceCatalog([]product.Product{priced("p1", 10), priced("p2", 20)}))
	assert.Len(t, s.Catalog(), 2)
	assert.Len(t, published, 2)
}

func TestReplaceCatalog_MalformedFailsLoud(t *testing.T) {
	s, b := newState(t)

	emitted := false
	b.On(EventCatalogChanged, func(any) { emitted = true })

	err := s.ReplaceCatalog([]product.Product{priced("p1", 10), {Title: "no id"}})
	require.ErrorIs(t, err, ErrMalformedProduct)
	assert.Empty(t, s.Catalog(), "no partial catalog on failure")
	assert.False(t, emitted)
}

func TestCartAndOrderStayInLockstep(t *testing.T) {
	s, _ := newState(t)
	require.NoError(t, s.ReplaceCatalog([]product.Product{priced("a", 1), priced("b", 2), priced("c", 3)}))

	steps := []struct {
		op string
		id string
	}{
		{"add", "a"}, {"add", "b"}, {"remove", "a"},
		{"add", "c"}, {"add", "b"}, // duplicate add is a no-op
		{"remove", "b"}, {"remove", "ghost"},
	}
	for _, step := range steps {
		switch step.op {
		case "add":
			_ = s.AddToCart(priced(step.id, 1))
		case "remove":
			_ = s.RemoveFromCart(step.id)
		}
		assert.Equal(t, cartIDs(s), s.Draft().Items,
			"cart and order ids diverged after %s %s", step.op, step.id)
	}

	assert.Equal(t, []string{"c"}, cartIDs(s))
}

func TestAddToCart_RejectsPriceless(t *testing.T) {
	s, _ := newState(t)

	err := s.AddToCart(product.Product{ID: "free", Title: "Imponderable"})
	require.ErrorIs(t, err, ErrPriceless)
	assert.True(t, s.CartEmpty())
	assert.Empty(t, s.Draft().Items)
}

func TestAddToCart_RejectsMalformed(t *testing.T) {
	s, _ := newState(t)
	assert.ErrorIs(t, s.AddToCart(product.Product{Title: "no id"}), ErrMalformedProduct)
}

func TestRemoveFromCart_AbsentIsWarning(t *testing.T) {
	s, _ := newState(t)
	require.NoError(t, s.AddToCart(priced("p1", 5)))

	err := s.RemoveFromCart("ghost")
	assert.ErrorIs(t, err, ErrNotInCart)
	assert.Equal(t, []string{"p1"}, cartIDs(s), "cart unchanged")
}

func TestTotal(t *testing.T) {
	s, _ := newState(t)
	catalog := []product.Product{priced("p1", 100), priced("p2", 50)}
	require.NoError(t, s.ReplaceCatalog(catalog))

	require.NoError(t, s.AddToCart(catalog[0]))
	require.NoError(t, s.AddToCart(catalog[1]))
	assert.True(t, s.Total().Equal(decimal.NewFromInt(150)))

	require.NoError(t, s.RemoveFromCart("p1"))
	require.NoError(t, s.RemoveFromCart("p2"))
	assert.True(t, s.Total().IsZero(), "empty order totals zero")
}

func TestTotal_StaleCatalogReference(t *testing.T) {
	s, _ := newState(t)
	require.NoError(t, s.ReplaceCatalog([]product.Product{priced("p1", 100)}))
	require.NoError(t, s.AddToCart(priced("p1", 100)))

	// Catalog replaced out from under the order draft.
	require.NoError(t, s.ReplaceCatalog([]product.Product{}))

	assert.NotEmpty(t, s.Draft().Items)
	assert.True(t, s.Total().IsZero())
}

func TestSetOrderField_ValidityTransitions(t *testing.T) {
	s, b := newState(t)

	var errorEvents []order.Errors
	b.On(EventFormErrors, func(data any) {
		errorEvents = append(errorEvents, data.(order.Errors))
	})
	readyCount := 0
	b.On(EventOrderReady, func(any) { readyCount++ })

	require.NoError(t, s.SetOrderField(order.FieldAddress, ""))
	assert.False(t, s.OrderValid())

	require.NoError(t, s.SetOrderField(order.FieldAddress, "1 Main St"))
	assert.True(t, s.OrderValid())

	require.Len(t, errorEvents, 2, "validation event fires on every call")
	assert.Equal(t, msgAddressRequired, errorEvents[0][order.FieldAddress])
	assert.Empty(t, errorEvents[1], "empty mapping when valid")
	assert.Equal(t, 1, readyCount)
}

func TestSetOrderField_BadPayment(t *testing.T) {
	s, _ := newState(t)
	assert.ErrorIs(t, s.SetOrderField(order.FieldPayment, "barter"), ErrBadPayment)
	assert.ErrorIs(t, s.SetOrderField("color", "red"), ErrUnknownField)
}

func TestSetContactField_RequiresBoth(t *testing.T) {
	s, b := newState(t)

	readyCount := 0
	b.On(EventOrderReady, func(any) { readyCount++ })

	require.NoError(t, s.SetContactField(order.FieldEmail, "a@b.c"))
	assert.False(t, s.ContactsValid())
	errs := s.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, msgPhoneRequired, errs[order.FieldPhone])
	assert.Zero(t, readyCount)

	require.NoError(t, s.SetContactField(order.FieldPhone, "+100"))
	assert.True(t, s.ContactsValid())
	assert.Empty(t, s.Errors())
	assert.Equal(t, 1, readyCount)
}

func TestSelectPreview(t *testing.T) {
	s, b := newState(t)
	catalog := []product.Product{priced("p1", 10)}
	require.NoError(t, s.ReplaceCatalog(catalog))

	var previewed product.Product
	b.On(EventPreviewChanged, func(data any) { previewed = data.(product.Product) })

	require.NoError(t, s.SelectPreview(catalog[0]))
	assert.Equal(t, "p1", previewed.ID)
	assert.Equal(t, PhasePreviewing, s.Phase())

	p, ok := s.Preview()
	require.True(t, ok)
	assert.Equal(t, "p1", p.ID)
}

func TestCheckoutFlow(t *testing.T) {
	s, _ := newState(t)
	catalog := []product.Product{priced("p1", 100)}
	require.NoError(t, s.ReplaceCatalog(catalog))
	require.NoError(t, s.AddToCart(catalog[0]))

	// Skipping stages is unreachable.
	require.ErrorIs(t, s.OpenOrder(), ErrBadTransition)
	_, err := s.BeginSubmit()
	require.ErrorIs(t, err, ErrBadTransition)

	require.NoError(t, s.OpenBasket())
	require.NoError(t, s.OpenOrder())

	// Delivery stage must be valid before contacts.
	require.ErrorIs(t, s.OpenContacts(), ErrNotReady)
	require.NoError(t, s.SetOrderField(order.FieldAddress, "1 Main St"))
	require.NoError(t, s.OpenContacts())

	// Contact stage must be valid before submit.
	_, err = s.BeginSubmit()
	require.ErrorIs(t, err, ErrNotReady)
	require.NoError(t, s.SetContactField(order.FieldEmail, "a@b.c"))
	require.NoError(t, s.SetContactField(order.FieldPhone, "+100"))

	draft, err := s.BeginSubmit()
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, draft.Items)
	assert.True(t, draft.Total.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, PhaseSubmitting, s.Phase())

	// Only one submission may be in flight.
	_, err = s.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	require.NoError(t, s.ConfirmSubmit())
	assert.Equal(t, PhaseConfirmed, s.Phase())
	assert.True(t, s.CartEmpty())
	assert.Empty(t, s.Draft().Items)

	require.NoError(t, s.CloseOverlay())
	assert.Equal(t, PhaseBrowsing, s.Phase())
}

func TestCheckoutFlow_FailedSubmitRetries(t *testing.T) {
	s, _ := newState(t)
	catalog := []product.Product{priced("p1", 100)}
	require.NoError(t, s.ReplaceCatalog(catalog))
	require.NoError(t, s.AddToCart(catalog[0]))
	require.NoError(t, s.OpenBasket())
	require.NoError(t, s.OpenOrder())
	require.NoError(t, s.SetOrderField(order.FieldAddress, "1 Main St"))
	require.NoError(t, s.OpenContacts())
	require.NoError(t, s.SetContactField(order.FieldEmail, "a@b.c"))
	require.NoError(t, s.SetContactField(order.FieldPhone, "+100"))

	_, err := s.BeginSubmit()
	require.NoError(t, err)
	require.NoError(t, s.FailSubmit())

	// Draft and cart intact; user may retry.
	assert.Equal(t, PhaseContactDetails, s.Phase())
	assert.Equal(t, []string{"p1"}, s.Draft().Items)

	_, err = s.BeginSubmit()
	assert.NoError(t, err)
}
