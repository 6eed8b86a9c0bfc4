// internal/cart/store_test.go
package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceramstore/ceramstore-backend/internal/inventory"
	"github.com/ceramstore/ceramstore-backend/internal/models"
)

type reserveCall struct {
	productID   uuid.UUID
	warehouseID uuid.UUID
	userID      uuid.UUID
	quantity    int
	hold        time.Duration
}

type fakeReservations struct {
	mu          sync.Mutex
	failAll     bool
	reserves    []reserveCall
	releases    []uuid.UUID
	resyncCalls int
	active      map[uuid.UUID]models.StockReservation
}

func newFakeReservations() *fakeReservations {
	return &fakeReservations{active: make(map[uuid.UUID]models.StockReservation)}
}

func (f *fakeReservations) Reserve(_ context.Context, productID, warehouseID, userID uuid.UUID, quantity int, hold time.Duration) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return uuid.Nil, errors.New("reservation backend down")
	}
	id := uuid.New()
	f.reserves = append(f.reserves, reserveCall{productID, warehouseID, userID, quantity, hold})
	f.active[id] = models.StockReservation{
		BaseModel: models.BaseModel{ID: id},
		ProductID: productID,
		UserID:    userID,
		Quantity:  quantity,
		Status:    models.ReservationStatusActive,
	}
	return id, nil
}

func (f *fakeReservations) Release(_ context.Context, reservationID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("reservation backend down")
	}
	f.releases = append(f.releases, reservationID)
	delete(f.active, reservationID)
	return nil
}

func (f *fakeReservations) Confirm(context.Context, uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeReservations) ActiveReservations(_ context.Context, userID, productID uuid.UUID) ([]models.StockReservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("reservation backend down")
	}
	var out []models.StockReservation
	for _, r := range f.active {
		if r.UserID == userID && r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservations) SweepExpired(context.Context) (int, error) { return 0, nil }

func (f *fakeReservations) ResyncReserved(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resyncCalls++
	if f.failAll {
		return errors.New("reservation backend down")
	}
	return nil
}

func (f *fakeReservations) reserveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reserves)
}

func (f *fakeReservations) activeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.active)
}

type fakeWarehouseReader struct {
	warehouseID uuid.UUID
	fail        bool
}

func (f *fakeWarehouseReader) FetchRecord(context.Context, uuid.UUID, uuid.UUID) (*models.InventoryRecord, error) {
	return nil, nil
}

func (f *fakeWarehouseReader) DefaultWarehouse(context.Context) (uuid.UUID, error) {
	if f.fail {
		return uuid.Nil, inventory.ErrNoDefaultWarehouse
	}
	return f.warehouseID, nil
}

type fakeLineRepo struct {
	mu        sync.Mutex
	lines     map[uuid.UUID]models.CartItem
	saveCalls int
	failAll   bool
}

func newFakeLineRepo() *fakeLineRepo {
	return &fakeLineRepo{lines: make(map[uuid.UUID]models.CartItem)}
}

func (f *fakeLineRepo) LinesFor(context.Context, *uuid.UUID) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("repo down")
	}
	var out []models.CartItem
	for _, l := range f.lines {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLineRepo) Save(_ context.Context, line *models.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("repo down")
	}
	f.saveCalls++
	f.lines[line.ProductID] = *line
	return nil
}

func (f *fakeLineRepo) Delete(_ context.Context, _ *uuid.UUID, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("repo down")
	}
	delete(f.lines, productID)
	return nil
}

func (f *fakeLineRepo) DeleteAll(context.Context, *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("repo down")
	}
	f.lines = make(map[uuid.UUID]models.CartItem)
	return nil
}

func (f *fakeLineRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lines)
}

func testProduct(name string, price float64) models.Product {
	p := models.Product{
		Name:  name,
		SKU:   name,
		Price: price,
	}
	p.ID = uuid.New()
	return p
}

func TestAddItemAnonymousKeepsSingleLinePerProduct(t *testing.T) {
	res := newFakeReservations()
	store := NewStore(nil, res, &fakeWarehouseReader{warehouseID: uuid.New()}, nil)
	gresie := testProduct("Gresie Roma", 74.50)

	require.NoError(t, store.AddItem(context.Background(), gresie, 2))
	require.NoError(t, store.AddItem(context.Background(), gresie, 3))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, store.TotalItems())

	// Anonymous carts never reach the reservation backend.
	assert.Zero(t, res.reserveCount())
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	store := NewStore(nil, newFakeReservations(), &fakeWarehouseReader{}, nil)

	assert.Error(t, store.AddItem(context.Background(), testProduct("Faianta Alba", 30), 0))
	assert.Error(t, store.AddItem(context.Background(), testProduct("Faianta Alba", 30), -2))
	assert.Empty(t, store.Items())
}

func TestAddItemAuthenticatedPlacesCartHold(t *testing.T) {
	res := newFakeReservations()
	warehouseID := uuid.New()
	userID := uuid.New()
	repo := newFakeLineRepo()
	store := NewStore(repo, res, &fakeWarehouseReader{warehouseID: warehouseID}, &userID)
	faianta := testProduct("Faianta Bella", 42)

	require.NoError(t, store.AddItem(context.Background(), faianta, 2))

	require.Equal(t, 1, res.reserveCount())
	call := res.reserves[0]
	assert.Equal(t, faianta.ID, call.productID)
	assert.Equal(t, warehouseID, call.warehouseID)
	assert.Equal(t, userID, call.userID)
	assert.Equal(t, 2, call.quantity)
	assert.Equal(t, inventory.CartHoldDuration, call.hold)

	require.Len(t, store.Holds(), 1)
	assert.Equal(t, 1, repo.count())
}

func TestUpdateQuantityReleasesThenRecreatesHold(t *testing.T) {
	res := newFakeReservations()
	userID := uuid.New()
	store := NewStore(newFakeLineRepo(), res, &fakeWarehouseReader{warehouseID: uuid.New()}, &userID)
	pavaj := testProduct("Pavaj Rustic", 55)

	require.NoError(t, store.AddItem(context.Background(), pavaj, 2))
	first := store.Holds()[0].ID

	require.NoError(t, store.UpdateQuantity(context.Background(), pavaj.ID, 5))

	// The original hold is gone and exactly one new hold covers the full
	// updated quantity, not the delta.
	assert.Contains(t, res.releases, first)
	require.Equal(t, 2, res.reserveCount())
	assert.Equal(t, 5, res.reserves[1].quantity)
	assert.Equal(t, 1, res.activeCount())

	holds := store.Holds()
	require.Len(t, holds, 1)
	assert.NotEqual(t, first, holds[0].ID)
	assert.Equal(t, 5, store.TotalItems())
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	res := newFakeReservations()
	userID := uuid.New()
	store := NewStore(newFakeLineRepo(), res, &fakeWarehouseReader{warehouseID: uuid.New()}, &userID)
	gresie := testProduct("Gresie Toscana", 61)

	require.NoError(t, store.AddItem(context.Background(), gresie, 3))
	require.NoError(t, store.UpdateQuantity(context.Background(), gresie.ID, 0))

	assert.Empty(t, store.Items())
	assert.Empty(t, store.Holds())
	assert.Zero(t, res.activeCount())
}

func TestUpdateQuantityUnknownProduct(t *testing.T) {
	store := NewStore(nil, newFakeReservations(), &fakeWarehouseReader{}, nil)

	err := store.UpdateQuantity(context.Background(), uuid.New(), 4)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestCartSurvivesReservationBackendOutage(t *testing.T) {
	res := newFakeReservations()
	res.failAll = true
	userID := uuid.New()
	store := NewStore(newFakeLineRepo(), res, &fakeWarehouseReader{warehouseID: uuid.New()}, &userID)
	faianta := testProduct("Faianta Mare", 38)
	gresie := testProduct("Gresie Mica", 47)

	require.NoError(t, store.AddItem(context.Background(), faianta, 2))
	require.NoError(t, store.AddItem(context.Background(), gresie, 1))
	require.NoError(t, store.UpdateQuantity(context.Background(), faianta.ID, 4))
	require.NoError(t, store.RemoveItem(context.Background(), gresie.ID))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, faianta.ID, items[0].ProductID)
	assert.Equal(t, 4, items[0].Quantity)
	assert.Empty(t, store.Holds())
}

func TestCartSurvivesWarehouseLookupFailure(t *testing.T) {
	userID := uuid.New()
	res := newFakeReservations()
	store := NewStore(newFakeLineRepo(), res, &fakeWarehouseReader{fail: true}, &userID)

	require.NoError(t, store.AddItem(context.Background(), testProduct("Pavaj Gri", 52), 2))

	assert.Equal(t, 2, store.TotalItems())
	assert.Zero(t, res.reserveCount())
}

func TestRemoveItemUnknownProduct(t *testing.T) {
	store := NewStore(nil, newFakeReservations(), &fakeWarehouseReader{}, nil)

	err := store.RemoveItem(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemoveItemReleasesBackendHoldsNotTrackedLocally(t *testing.T) {
	res := newFakeReservations()
	userID := uuid.New()
	warehouseID := uuid.New()
	store := NewStore(newFakeLineRepo(), res, &fakeWarehouseReader{warehouseID: warehouseID}, &userID)
	gresie := testProduct("Gresie Antica", 80)

	require.NoError(t, store.AddItem(context.Background(), gresie, 1))

	// A hold left behind by an earlier session for the same product.
	strayID, err := res.Reserve(context.Background(), gresie.ID, warehouseID, userID, 3, inventory.CartHoldDuration)
	require.NoError(t, err)

	require.NoError(t, store.RemoveItem(context.Background(), gresie.ID))

	assert.Contains(t, res.releases, strayID)
	assert.Zero(t, res.activeCount())
}

func TestClearReleasesEverythingUnconditionally(t *testing.T) {
	res := newFakeReservations()
	userID := uuid.New()
	repo := newFakeLineRepo()
	store := NewStore(repo, res, &fakeWarehouseReader{warehouseID: uuid.New()}, &userID)

	require.NoError(t, store.AddItem(context.Background(), testProduct("Faianta Onix", 90), 1))
	require.NoError(t, store.AddItem(context.Background(), testProduct("Gresie Perla", 66), 2))
	require.Equal(t, 2, res.activeCount())

	require.NoError(t, store.Clear(context.Background(), false))

	assert.Empty(t, store.Items())
	assert.Empty(t, store.Holds())
	assert.Zero(t, res.activeCount())
	assert.Zero(t, repo.count())
}

func TestClearWithAbandonedKeepsPersistedLines(t *testing.T) {
	res := newFakeReservations()
	userID := uuid.New()
	repo := newFakeLineRepo()
	store := NewStore(repo, res, &fakeWarehouseReader{warehouseID: uuid.New()}, &userID)

	require.NoError(t, store.AddItem(context.Background(), testProduct("Pavaj Beton", 49), 3))
	require.NoError(t, store.Clear(context.Background(), true))

	assert.Empty(t, store.Items())
	assert.Zero(t, res.activeCount())
	assert.Equal(t, 1, repo.count())
}

func TestClearEmptiesLocallyEvenWhenReleasesFail(t *testing.T) {
	res := newFakeReservations()
	userID := uuid.New()
	store := NewStore(newFakeLineRepo(), res, &fakeWarehouseReader{warehouseID: uuid.New()}, &userID)

	require.NoError(t, store.AddItem(context.Background(), testProduct("Gresie Lux", 120), 1))
	res.failAll = true

	require.NoError(t, store.Clear(context.Background(), false))

	assert.Empty(t, store.Items())
	assert.Empty(t, store.Holds())
}

func TestMergeAnonymousCartReservesAndReattributes(t *testing.T) {
	res := newFakeReservations()
	userID := uuid.New()
	repo := newFakeLineRepo()
	store := NewStore(repo, res, &fakeWarehouseReader{warehouseID: uuid.New()}, nil)
	faianta := testProduct("Faianta Sole", 33)
	gresie := testProduct("Gresie Luna", 58)

	require.NoError(t, store.AddItem(context.Background(), faianta, 2))
	require.NoError(t, store.AddItem(context.Background(), gresie, 1))
	require.Zero(t, res.reserveCount())

	require.NoError(t, store.MergeAnonymousCart(context.Background(), userID))

	assert.Equal(t, 2, res.reserveCount())
	for _, call := range res.reserves {
		assert.Equal(t, userID, call.userID)
	}
	for _, item := range store.Items() {
		require.NotNil(t, item.UserID)
		assert.Equal(t, userID, *item.UserID)
	}
	assert.Equal(t, 2, repo.count())
	assert.Equal(t, 1, res.resyncCalls)
}

func TestMergeAnonymousCartToleratesReservationFailures(t *testing.T) {
	res := newFakeReservations()
	res.failAll = true
	userID := uuid.New()
	store := NewStore(newFakeLineRepo(), res, &fakeWarehouseReader{warehouseID: uuid.New()}, nil)

	require.NoError(t, store.AddItem(context.Background(), testProduct("Pavaj Vechi", 44), 2))
	require.NoError(t, store.MergeAnonymousCart(context.Background(), userID))

	// The merge completes even with the backend down; lines are adopted
	// without holds behind them.
	items := store.Items()
	require.Len(t, items, 1)
	require.NotNil(t, items[0].UserID)
	assert.Equal(t, userID, *items[0].UserID)
	assert.Empty(t, store.Holds())
}

func TestTotals(t *testing.T) {
	store := NewStore(nil, newFakeReservations(), &fakeWarehouseReader{}, nil)

	require.NoError(t, store.AddItem(context.Background(), testProduct("Faianta Eco", 25.50), 2))
	require.NoError(t, store.AddItem(context.Background(), testProduct("Gresie Eco", 40), 3))

	assert.Equal(t, 5, store.TotalItems())
	assert.InDelta(t, 171.0, store.TotalPrice(), 1e-9)
}

func TestLoadRestoresPersistedLines(t *testing.T) {
	userID := uuid.New()
	repo := newFakeLineRepo()
	gresie := testProduct("Gresie Nord", 71)
	repo.lines[gresie.ID] = models.CartItem{
		UserID:    &userID,
		ProductID: gresie.ID,
		Quantity:  2,
		Product:   gresie,
	}

	store := NewStore(repo, newFakeReservations(), &fakeWarehouseReader{}, &userID)
	require.NoError(t, store.Load(context.Background()))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, gresie.ID, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
}
