package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mavidal/fintrack-be/internal/payment"
)

// PremiumServiceProvider defines the interface for premium-tier services.
type PremiumServiceProvider interface {
	CreateOrder(ctx context.Context) (payment.Order, error)
	ActivatePremium(ctx context.Context, email string) error
	Status(ctx context.Context, email string) (bool, error)
}

// PremiumService provides business logic for the premium upgrade flow.
type PremiumService struct {
	db      *sql.DB
	gateway payment.Gateway
	price   int64
}

// NewPremiumService creates a new PremiumService.
func NewPremiumService(db *sql.DB, gateway payment.Gateway, pricePaise int64) *PremiumService {
	return &PremiumService{db: db, gateway: gateway, price: pricePaise}
}

// CreateOrder creates a payment-gateway order for the premium upgrade.
func (s *PremiumService) CreateOrder(ctx context.Context) (payment.Order, error) {
	return s.gateway.CreateOrder(s.price, "INR")
}

// ActivatePremium flips the premium flag for a user.
func (s *PremiumService) ActivatePremium(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET is_premium = 1 WHERE email = ?", email)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Status reports whether a user is on the premium tier.
func (s *PremiumService) Status(ctx context.Context, email string) (bool, error) {
	var isPremium bool
	err := s.db.QueryRowContext(ctx, "SELECT is_premium FROM users WHERE email = ?", email).Scan(&isPremium)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return isPremium, nil
}
