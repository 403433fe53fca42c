package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavidal/fintrack-be/internal/payment"
)

// fakeGateway returns a canned order or a failure.
type fakeGateway struct {
	order payment.Order
	err   error
	calls int
}

func (f *fakeGateway) CreateOrder(amountPaise int64, currency string) (payment.Order, error) {
	f.calls++
	if f.err != nil {
		return payment.Order{}, f.err
	}
	f.order.Amount = amountPaise
	f.order.Currency = currency
	return f.order, nil
}

func TestCreateOrderUsesConfiguredPrice(t *testing.T) {
	db := newTestDB(t)
	gw := &fakeGateway{order: payment.Order{ID: "order_123", KeyID: "rzp_test"}}
	svc := NewPremiumService(db, gw, 50000)

	order, err := svc.CreateOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(50000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, 1, gw.calls)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	db := newTestDB(t)
	gw := &fakeGateway{err: errors.New("gateway down")}
	svc := NewPremiumService(db, gw, 50000)

	_, err := svc.CreateOrder(context.Background())
	assert.Error(t, err)
}

func TestActivatePremium(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Ana", "ana@example.com")
	svc := NewPremiumService(db, &fakeGateway{}, 50000)
	ctx := context.Background()

	isPremium, err := svc.Status(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, isPremium)

	require.NoError(t, svc.ActivatePremium(ctx, "ana@example.com"))

	isPremium, err = svc.Status(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, isPremium)
}

func TestActivatePremiumUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewPremiumService(db, &fakeGateway{}, 50000)

	assert.ErrorIs(t, svc.ActivatePremium(context.Background(), "ghost@example.com"), ErrUserNotFound)
}

func TestPremiumStatusUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewPremiumService(db, &fakeGateway{}, 50000)

	_, err := svc.Status(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
