// Copyright (c) 2026 Driftline. All rights reserved.

package order_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftline/driftline/internal/order"
	"github.com/driftline/driftline/internal/payment"
	"github.com/driftline/driftline/internal/platform/apperr"
)

// memoryStore is an in-memory [order.Store] with the same unique-index
// behavior on the payment session id as the real table.
type memoryStore struct {
	orders map[string]*order.Order // keyed by order id
}

func newMemoryStore() *memoryStore {
	return &memoryStore{orders: map[string]*order.Order{}}
}

func (s *memoryStore) Insert(_ context.Context, o *order.Order) error {
	for _, existing := range s.orders {
		if existing.PaymentSessionID == o.PaymentSessionID {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	clone := *o
	s.orders[o.ID] = &clone
	return nil
}

func (s *memoryStore) FindByID(_ context.Context, id string) (*order.Order, error) {
	if o, ok := s.orders[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, apperr.NotFound("Order")
}

func (s *memoryStore) FindByPaymentSessionID(_ context.Context, sessionID string) (*order.Order, error) {
	for _, o := range s.orders {
		if o.PaymentSessionID == sessionID {
			clone := *o
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Order")
}

func (s *memoryStore) ListByUser(_ context.Context, userID string) ([]*order.Order, error) {
	out := []*order.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			clone := *o
			out = append(out, &clone)
		}
	}
	// Same ordering the real table serves: createdat DESC, id DESC.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memoryStore) UpdateStatus(_ context.Context, id string, status order.Status, trackingNumber *string) error {
	o, ok := s.orders[id]
	if !ok {
		return apperr.NotFound("Order")
	}
	o.Status = status
	if trackingNumber != nil {
		o.TrackingNumber = trackingNumber
	}
	return nil
}

// fakeProcessor serves canned sessions by id.
type fakeProcessor struct {
	sessions map[string]*payment.CheckoutSession
	err      error
}

func (f *fakeProcessor) CreateSession(_ context.Context, _ payment.CreateSessionInput) (*payment.CheckoutSession, error) {
	return nil, errors.New("not used")
}

func (f *fakeProcessor) GetSession(_ context.Context, id string) (*payment.CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	session, ok := f.sessions[id]
	if !ok {
		return nil, errors.New("no such session")
	}
	return session, nil
}

func paidSession(id string) *payment.CheckoutSession {
	items := []payment.CheckoutItem{
		{ProductID: "prod-1", Title: "Board Shorts", UnitPrice: 45.00, Quantity: 2, Size: "M", Color: "navy"},
	}
	snapshot, _ := json.Marshal(items)

	return &payment.CheckoutSession{
		ID:            id,
		PaymentStatus: payment.StatusPaid,
		AmountTotal:   9000,
		Metadata:      map[string]string{payment.MetadataItemsKey: string(snapshot)},
	}
}

func TestService_Finalize(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending order from a paid session", func(t *testing.T) {
		store := newMemoryStore()
		processor := &fakeProcessor{sessions: map[string]*payment.CheckoutSession{"cs_1": paidSession("cs_1")}}
		service := order.NewService(store, processor)

		created, err := service.Finalize(ctx, "user-1", "cs_1")

		require.NoError(t, err)
		assert.Equal(t, "user-1", created.UserID)
		assert.Equal(t, order.StatusPending, created.Status)
		assert.Equal(t, 90.00, created.TotalAmount)
		require.Len(t, created.Items, 1)
		assert.Equal(t, 2, created.Items[0].Quantity)
	})

	t.Run("repeat finalization returns the same order", func(t *testing.T) {
		store := newMemoryStore()
		processor := &fakeProcessor{sessions: map[string]*payment.CheckoutSession{"cs_1": paidSession("cs_1")}}
		service := order.NewService(store, processor)

		first, err := service.Finalize(ctx, "user-1", "cs_1")
		require.NoError(t, err)

		second, err := service.Finalize(ctx, "user-1", "cs_1")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, store.orders, 1)
	})

	t.Run("losing an insert race returns the winner's order", func(t *testing.T) {
		store := newMemoryStore()
		processor := &fakeProcessor{sessions: map[string]*payment.CheckoutSession{"cs_1": paidSession("cs_1")}}
		service := order.NewService(store, processor)

		// Simulate the race: the winner's row lands after this caller's
		// existence check would have seen nothing.
		winner, err := service.Finalize(ctx, "user-1", "cs_1")
		require.NoError(t, err)

		loser := &order.Order{ID: "other", UserID: "user-1", PaymentSessionID: "cs_1"}
		err = store.Insert(ctx, loser)
		require.Error(t, err) // unique violation, as the service would see

		again, err := service.Finalize(ctx, "user-1", "cs_1")
		require.NoError(t, err)
		assert.Equal(t, winner.ID, again.ID)
	})

	t.Run("unpaid session is rejected without creating an order", func(t *testing.T) {
		store := newMemoryStore()
		unpaid := paidSession("cs_1")
		unpaid.PaymentStatus = payment.StatusUnpaid
		processor := &fakeProcessor{sessions: map[string]*payment.CheckoutSession{"cs_1": unpaid}}
		service := order.NewService(store, processor)

		_, err := service.Finalize(ctx, "user-1", "cs_1")

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "PAYMENT_NOT_COMPLETED", appError.Code)
		assert.Empty(t, store.orders)
	})

	t.Run("missing metadata snapshot yields an order with no lines", func(t *testing.T) {
		store := newMemoryStore()
		bare := paidSession("cs_1")
		bare.Metadata = nil
		processor := &fakeProcessor{sessions: map[string]*payment.CheckoutSession{"cs_1": bare}}
		service := order.NewService(store, processor)

		created, err := service.Finalize(ctx, "user-1", "cs_1")

		require.NoError(t, err)
		assert.Empty(t, created.Items)
		assert.Equal(t, 90.00, created.TotalAmount)
	})

	t.Run("reassembles a chunked metadata snapshot", func(t *testing.T) {
		store := newMemoryStore()
		chunked := paidSession("cs_1")
		raw := chunked.Metadata[payment.MetadataItemsKey]
		split := len(raw) / 2
		chunked.Metadata = map[string]string{
			payment.MetadataItemsKey:        raw[:split],
			payment.MetadataItemsKey + "_1": raw[split:],
		}
		processor := &fakeProcessor{sessions: map[string]*payment.CheckoutSession{"cs_1": chunked}}
		service := order.NewService(store, processor)

		created, err := service.Finalize(ctx, "user-1", "cs_1")

		require.NoError(t, err)
		require.Len(t, created.Items, 1)
		assert.Equal(t, "Board Shorts", created.Items[0].Title)
	})

	t.Run("processor failure maps to payment session error", func(t *testing.T) {
		store := newMemoryStore()
		processor := &fakeProcessor{err: errors.New("processor down")}
		service := order.NewService(store, processor)

		_, err := service.Finalize(ctx, "user-1", "cs_1")

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, "PAYMENT_SESSION_ERROR", appError.Code)
	})

	t.Run("a session finalized by another user is forbidden", func(t *testing.T) {
		store := newMemoryStore()
		processor := &fakeProcessor{sessions: map[string]*payment.CheckoutSession{"cs_1": paidSession("cs_1")}}
		service := order.NewService(store, processor)

		_, err := service.Finalize(ctx, "user-1", "cs_1")
		require.NoError(t, err)

		_, err = service.Finalize(ctx, "user-2", "cs_1")

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 403, appError.HTTPStatus)
	})

	t.Run("blank session id is rejected", func(t *testing.T) {
		service := order.NewService(newMemoryStore(), &fakeProcessor{})

		_, err := service.Finalize(ctx, "user-1", "")

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	processor := &fakeProcessor{sessions: map[string]*payment.CheckoutSession{"cs_1": paidSession("cs_1")}}
	service := order.NewService(store, processor)

	created, err := service.Finalize(ctx, "user-1", "cs_1")
	require.NoError(t, err)

	t.Run("owner can read the order", func(t *testing.T) {
		got, err := service.Get(ctx, "user-1", created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := service.Get(ctx, "user-1", "no-such-order")
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("foreign order is forbidden, not hidden", func(t *testing.T) {
		_, err := service.Get(ctx, "user-2", created.ID)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 403, appError.HTTPStatus)
	})
}

func TestService_ListForUser(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	service := order.NewService(store, &fakeProcessor{})

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seed := []*order.Order{
		{ID: "ord-a", UserID: "user-1", PaymentSessionID: "cs_a", CreatedAt: base},
		{ID: "ord-b", UserID: "user-1", PaymentSessionID: "cs_b", CreatedAt: base.Add(time.Hour)},
		// Same instant as ord-b; listing must tie-break on id.
		{ID: "ord-c", UserID: "user-1", PaymentSessionID: "cs_c", CreatedAt: base.Add(time.Hour)},
		{ID: "ord-x", UserID: "user-2", PaymentSessionID: "cs_x", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, o := range seed {
		require.NoError(t, store.Insert(ctx, o))
	}

	t.Run("returns only the caller's orders, newest first", func(t *testing.T) {
		orders, err := service.ListForUser(ctx, "user-1")

		require.NoError(t, err)
		require.Len(t, orders, 3)
		assert.Equal(t, "ord-c", orders[0].ID)
		assert.Equal(t, "ord-b", orders[1].ID)
		assert.Equal(t, "ord-a", orders[2].ID)
		for _, o := range orders {
			assert.Equal(t, "user-1", o.UserID)
		}
	})

	t.Run("a customer with no orders gets an empty list", func(t *testing.T) {
		orders, err := service.ListForUser(ctx, "user-3")

		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestService_AdvanceStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*order.Service, *order.Order) {
		t.Helper()
		store := newMemoryStore()
		processor := &fakeProcessor{sessions: map[string]*payment.CheckoutSession{"cs_1": paidSession("cs_1")}}
		service := order.NewService(store, processor)
		created, err := service.Finalize(ctx, "user-1", "cs_1")
		require.NoError(t, err)
		return service, created
	}

	t.Run("walks the happy path to delivered", func(t *testing.T) {
		service, created := setup(t)

		for _, next := range []order.Status{order.StatusProcessing, order.StatusShipped, order.StatusDelivered} {
			updated, err := service.AdvanceStatus(ctx, "user-1", created.ID, next, nil)
			require.NoError(t, err)
			assert.Equal(t, next, updated.Status)
		}
	})

	t.Run("attaches a tracking number on shipment", func(t *testing.T) {
		service, created := setup(t)

		_, err := service.AdvanceStatus(ctx, "user-1", created.ID, order.StatusProcessing, nil)
		require.NoError(t, err)

		tracking := "DL123456789"
		updated, err := service.AdvanceStatus(ctx, "user-1", created.ID, order.StatusShipped, &tracking)
		require.NoError(t, err)
		require.NotNil(t, updated.TrackingNumber)
		assert.Equal(t, tracking, *updated.TrackingNumber)
	})

	t.Run("rejects skipping states", func(t *testing.T) {
		service, created := setup(t)

		_, err := service.AdvanceStatus(ctx, "user-1", created.ID, order.StatusDelivered, nil)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})

	t.Run("terminal states reject every move", func(t *testing.T) {
		service, created := setup(t)

		_, err := service.AdvanceStatus(ctx, "user-1", created.ID, order.StatusCancelled, nil)
		require.NoError(t, err)

		_, err = service.AdvanceStatus(ctx, "user-1", created.ID, order.StatusProcessing, nil)
		assert.Error(t, err)
	})

	t.Run("rejects unknown status values", func(t *testing.T) {
		service, created := setup(t)

		_, err := service.AdvanceStatus(ctx, "user-1", created.ID, order.Status("lost"), nil)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, 400, appError.HTTPStatus)
	})
}

func TestStatus_CanTransition(t *testing.T) {
	cases := []struct {
		from    order.Status
		to      order.Status
		allowed bool
	}{
		{order.StatusPending, order.StatusProcessing, true},
		{order.StatusPending, order.StatusCancelled, true},
		{order.StatusPending, order.StatusShipped, false},
		{order.StatusProcessing, order.StatusShipped, true},
		{order.StatusProcessing, order.StatusCancelled, true},
		{order.StatusProcessing, order.StatusDelivered, false},
		{order.StatusShipped, order.StatusDelivered, true},
		{order.StatusShipped, order.StatusCancelled, false},
		{order.StatusDelivered, order.StatusProcessing, false},
		{order.StatusCancelled, order.StatusPending, false},
	}

	for _, testCase := range cases {
		name := string(testCase.from) + "_to_" + string(testCase.to)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, testCase.allowed, testCase.from.CanTransition(testCase.to))
		})
	}
}
