package state

import (
	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/domain/order"
)

// Phase is the current stage of the checkout flow. The original UI relied on
// wiring discipline to keep users from skipping stages; here invalid
// transitions are rejected outright and the views disable their controls off
// the same checks.
type Phase int

const (
	PhaseBrowsing Phase = iota
	PhasePreviewing
	PhaseCartReview
	PhaseOrderDetails
	PhaseContactDetails
	PhaseSubmitting
	PhaseConfirmed
)

func (p Phase) String() string {
	switch p {
	case PhaseBrowsing:
		return "browsing"
	case PhasePreviewing:
		return "previewing"
	case PhaseCartReview:
		return "cart-review"
	case PhaseOrderDetails:
		return "order-details"
	case PhaseContactDetails:
		return "contact-details"
	case PhaseSubmitting:
		return "submitting"
	case PhaseConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Phase returns the current checkout phase.
func (s *State) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *State) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
	s.events.Emit(EventPhaseChanged, p)
}

// OpenBasket moves the flow to cart review. Allowed from any non-submitting
// phase: the basket can always be inspected.
func (s *State) OpenBasket() error {
	if s.Phase() == PhaseSubmitting {
		return ErrSubmitInFlight
	}
	s.setPhase(PhaseCartReview)
	return nil
}

// CloseOverlay returns to browsing from a preview, the basket, or the
// confirmation panel.
func (s *State) CloseOverlay() error {
	switch s.Phase() {
	case PhaseSubmitting:
		return ErrSubmitInFlight
	case PhaseConfirmed, PhasePreviewing, PhaseCartReview, PhaseOrderDetails, PhaseContactDetails, PhaseBrowsing:
		s.setPhase(PhaseBrowsing)
		return nil
	default:
		return ErrBadTransition
	}
}

// OpenOrder moves from cart review to the delivery/payment form. The cart
// must not be empty.
func (s *State) OpenOrder() error {
	if s.Phase() != PhaseCartReview {
		return errors.Wrapf(ErrBadTransition, "open order from %s", s.Phase())
	}
	if s.CartEmpty() {
		return ErrNotReady
	}
	s.setPhase(PhaseOrderDetails)
	return nil
}

// OpenContacts moves from the delivery form to the contact form. The
// delivery stage must be valid.
func (s *State) OpenContacts() error {
	if s.Phase() != PhaseOrderDetails {
		return errors.Wrapf(ErrBadTransition, "open contacts from %s", s.Phase())
	}
	if !s.OrderValid() {
		return ErrNotReady
	}

	// Finalize the total from current cart contents before the last stage.
	s.mu.Lock()
	s.draft.Total = s.totalLocked()
	s.mu.Unlock()

	s.setPhase(PhaseContactDetails)
	return nil
}

// BeginSubmit guards the one in-flight submission and returns the finalized
// draft to send. Both form stages must be valid.
func (s *State) BeginSubmit() (order.Draft, error) {
	switch s.Phase() {
	case PhaseSubmitting:
		return order.Draft{}, ErrSubmitInFlight
	case PhaseContactDetails:
	default:
		return order.Draft{}, errors.Wrapf(ErrBadTransition, "submit from %s", s.Phase())
	}
	if !s.OrderValid() || !s.ContactsValid() {
		return order.Draft{}, ErrNotReady
	}

	snapshot := s.Draft()
	s.setPhase(PhaseSubmitting)
	return snapshot, nil
}

// ConfirmSubmit records a successful submission: the cart is cleared, the
// draft reset, and the flow moves to the confirmation panel.
func (s *State) ConfirmSubmit() error {
	if s.Phase() != PhaseSubmitting {
		return errors.Wrapf(ErrBadTransition, "confirm from %s", s.Phase())
	}

	s.mu.Lock()
	s.cart = nil
	s.resetDraftLocked()
	s.mu.Unlock()

	s.events.Emit(EventBasketChanged, s.CartItems())
	s.setPhase(PhaseConfirmed)
	return nil
}

// FailSubmit records a failed submission: the flow returns to the contact
// form so the user may retry with the draft intact.
func (s *State) FailSubmit() error {
	if s.Phase() != PhaseSubmitting {
		return errors.Wrapf(ErrBadTransition, "fail from %s", s.Phase())
	}
	s.setPhase(PhaseContactDetails)
	return nil
}
