// internal/cart/store.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ceramstore/ceramstore-backend/internal/inventory"
	"github.com/ceramstore/ceramstore-backend/internal/models"
)

var ErrLineNotFound = errors.New("cart line not found")

// Store is the single source of truth for one client's cart. It owns the
// reconciliation between local cart lines and backend stock reservations for
// authenticated users, and runs reservation-free for anonymous ones.
//
// The consistency policy is deliberately asymmetric: local lines always
// mutate as requested, while reservation bookkeeping is best-effort. A failed
// reservation call must never block a cart mutation; the failure is logged
// and the backend hold is left absent or stale until the janitor sweeps it.
type Store struct {
	repo         LineRepository
	reservations inventory.ReservationService
	reader       inventory.InventoryReader
	hold         time.Duration
	log          *logrus.Entry

	mu     sync.Mutex
	userID *uuid.UUID
	lines  []models.CartItem
	holds  []models.StockReservation
}

// NewStore builds a cart for an optional signed-in identity. Constructed once
// per session and torn down with it; never shared as ambient global state.
func NewStore(repo LineRepository, reservations inventory.ReservationService, reader inventory.InventoryReader, userID *uuid.UUID) *Store {
	return &Store{
		repo:         repo,
		reservations: reservations,
		reader:       reader,
		hold:         inventory.CartHoldDuration,
		userID:       userID,
		log:          logrus.WithField("component", "cart"),
	}
}

// Load restores the persisted lines of an authenticated cart. Reservations
// are never persisted: they expire server-side, so anything this session did
// not create itself is treated as possibly stale and left to reconciliation.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == nil || s.repo == nil {
		return nil
	}
	lines, err := s.repo.LinesFor(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("failed to load cart lines: %w", err)
	}
	s.lines = lines
	return nil
}

// AddItem puts a product in the cart. Adding a product that already has a
// line folds into a quantity update instead of creating a duplicate.
func (s *Store) AddItem(ctx context.Context, product models.Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	s.mu.Lock()
	existing := s.findLine(product.ID)
	if existing != nil {
		current := existing.Quantity
		s.mu.Unlock()
		return s.UpdateQuantity(ctx, product.ID, current+quantity)
	}

	line := models.CartItem{
		UserID:    s.userID,
		ProductID: product.ID,
		Quantity:  quantity,
		Product:   product,
	}
	line.CreatedAt = time.Now()
	s.lines = append(s.lines, line)
	s.mu.Unlock()

	s.persistLine(ctx, &line)
	s.reserveFor(ctx, product.ID, quantity)
	return nil
}

// RemoveItem drops a product's line. Active reservations for the product are
// released first, best-effort; the local line goes away regardless, keeping
// the visible cart authoritative over a possibly-stale backend hold.
func (s *Store) RemoveItem(ctx context.Context, productID uuid.UUID) error {
	s.releaseAllFor(ctx, productID)

	s.mu.Lock()
	if s.findLine(productID) == nil {
		s.mu.Unlock()
		return ErrLineNotFound
	}
	s.dropLine(productID)
	s.mu.Unlock()

	s.deleteLine(ctx, productID)
	return nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line. For
// authenticated carts the product's hold is released and recreated at the new
// quantity, since no partial-update primitive exists. If any reservation step
// fails the bookkeeping is abandoned but the local quantity still changes.
func (s *Store) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}

	s.mu.Lock()
	line := s.findLine(productID)
	if line == nil {
		s.mu.Unlock()
		return ErrLineNotFound
	}
	line.Quantity = quantity
	updated := *line
	s.mu.Unlock()

	s.persistLine(ctx, &updated)

	s.releaseAllFor(ctx, productID)
	s.reserveFor(ctx, productID, quantity)
	return nil
}

// Clear empties the cart. Every active hold is released first; local items
// and holds empty unconditionally even if releases fail. With saveAsAbandoned
// the persisted lines are kept so an abandoned-cart follow-up can read them.
func (s *Store) Clear(ctx context.Context, saveAsAbandoned bool) error {
	s.mu.Lock()
	holds := append([]models.StockReservation(nil), s.holds...)
	signedIn := s.userID != nil
	s.lines = nil
	s.holds = nil
	s.mu.Unlock()

	if signedIn {
		for i := range holds {
			if holds[i].Status != models.ReservationStatusActive {
				continue
			}
			if err := s.reservations.Release(ctx, holds[i].ID); err != nil {
				s.log.WithError(err).WithField("reservation", holds[i].ID).
					Warn("failed to release reservation on cart clear")
			}
		}
		if !saveAsAbandoned && s.repo != nil {
			if err := s.repo.DeleteAll(ctx, s.userID); err != nil {
				s.log.WithError(err).Warn("failed to delete persisted cart lines")
			}
		}
	}
	return nil
}

// MergeAnonymousCart adopts the anonymous lines into a signed-in identity:
// each line gets a best-effort reservation under the new owner, ownership is
// reattributed, and the aggregate reserved quantities are resynced. A failed
// reservation for one line never aborts the merge of the rest.
func (s *Store) MergeAnonymousCart(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	s.userID = &userID
	lines := make([]models.CartItem, len(s.lines))
	copy(lines, s.lines)
	s.mu.Unlock()

	for i := range lines {
		s.reserveFor(ctx, lines[i].ProductID, lines[i].Quantity)
	}

	s.mu.Lock()
	for i := range s.lines {
		s.lines[i].UserID = &userID
	}
	merged := make([]models.CartItem, len(s.lines))
	copy(merged, s.lines)
	s.mu.Unlock()

	for i := range merged {
		s.persistLine(ctx, &merged[i])
	}

	if err := s.reservations.ResyncReserved(ctx); err != nil {
		s.log.WithError(err).Warn("failed to resync reserved quantities after merge")
	}
	return nil
}

// TotalItems sums the quantities across lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for i := range s.lines {
		total += s.lines[i].Quantity
	}
	return total
}

// TotalPrice sums price times quantity across lines.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for i := range s.lines {
		total += s.lines[i].Product.Price * float64(s.lines[i].Quantity)
	}
	return total
}

// Items returns a copy of the current lines.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.lines))
	copy(out, s.lines)
	return out
}

// Holds returns the reservations this session believes are active. They may
// have expired server-side; callers must reconcile before trusting them.
func (s *Store) Holds() []models.StockReservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.StockReservation, len(s.holds))
	copy(out, s.holds)
	return out
}

// UserID returns the owning identity, nil while anonymous.
func (s *Store) UserID() *uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// reserveFor places a hold for an authenticated cart line. Anonymous carts
// never attempt one, and any failure degrades to a logged warning: the cart
// stays usable without backend protection against overselling.
func (s *Store) reserveFor(ctx context.Context, productID uuid.UUID, quantity int) {
	s.mu.Lock()
	userID := s.userID
	s.mu.Unlock()
	if userID == nil {
		return
	}

	warehouseID, err := s.reader.DefaultWarehouse(ctx)
	if err != nil {
		s.log.WithError(err).WithField("product", productID).
			Warn("warehouse lookup failed, cart line left unreserved")
		return
	}

	reservationID, err := s.reservations.Reserve(ctx, productID, warehouseID, *userID, quantity, s.hold)
	if err != nil {
		s.log.WithError(err).WithField("product", productID).
			Warn("stock reservation failed, cart line left unreserved")
		return
	}

	s.mu.Lock()
	s.holds = append(s.holds, models.StockReservation{
		BaseModel:   models.BaseModel{ID: reservationID},
		ProductID:   productID,
		WarehouseID: warehouseID,
		UserID:      *userID,
		Quantity:    quantity,
		Status:      models.ReservationStatusActive,
		ExpiresAt:   time.Now().Add(s.hold),
	})
	s.mu.Unlock()
}

// releaseAllFor releases every active hold tied to a product, both the ones
// tracked locally and any the backend still knows about. Failures are logged
// and swallowed.
func (s *Store) releaseAllFor(ctx context.Context, productID uuid.UUID) {
	s.mu.Lock()
	userID := s.userID
	kept := s.holds[:0]
	var releasing []uuid.UUID
	for _, h := range s.holds {
		if h.ProductID == productID {
			releasing = append(releasing, h.ID)
		} else {
			kept = append(kept, h)
		}
	}
	s.holds = kept
	s.mu.Unlock()

	if userID == nil {
		return
	}

	seen := make(map[uuid.UUID]bool, len(releasing))
	for _, id := range releasing {
		seen[id] = true
	}

	if active, err := s.reservations.ActiveReservations(ctx, *userID, productID); err != nil {
		s.log.WithError(err).WithField("product", productID).
			Warn("failed to list active reservations")
	} else {
		for _, r := range active {
			if !seen[r.ID] {
				releasing = append(releasing, r.ID)
			}
		}
	}

	for _, id := range releasing {
		if err := s.reservations.Release(ctx, id); err != nil {
			s.log.WithError(err).WithField("reservation", id).
				Warn("failed to release reservation")
		}
	}
}

func (s *Store) persistLine(ctx context.Context, line *models.CartItem) {
	s.mu.Lock()
	signedIn := s.userID != nil
	s.mu.Unlock()
	if !signedIn || s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, line); err != nil {
		s.log.WithError(err).WithField("product", line.ProductID).
			Warn("failed to persist cart line")
	}
}

func (s *Store) deleteLine(ctx context.Context, productID uuid.UUID) {
	s.mu.Lock()
	signedIn := s.userID != nil
	userID := s.userID
	s.mu.Unlock()
	if !signedIn || s.repo == nil {
		return
	}
	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		s.log.WithError(err).WithField("product", productID).
			Warn("failed to delete persisted cart line")
	}
}

// callers hold s.mu
func (s *Store) findLine(productID uuid.UUID) *models.CartItem {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return &s.lines[i]
		}
	}
	return nil
}

// callers hold s.mu
func (s *Store) dropLine(productID uuid.UUID) {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}
