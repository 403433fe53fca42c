package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mavidal/fintrack-be/internal/mailer"
	"github.com/mavidal/fintrack-be/internal/models"
)

var (
	// ErrEmailTaken is returned when a signup email already exists.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials is returned for both unknown-email and
	// wrong-password logins, so callers cannot tell which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned for unknown, expired or consumed reset tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

const resetTokenTTL = time.Hour

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Signup(ctx context.Context, name, email, password string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// UserService provides business logic for accounts and the password-reset flow.
type UserService struct {
	db      *sql.DB
	mail    mailer.Sender
	baseURL string
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, mail mailer.Sender, baseURL string) *UserService {
	return &UserService{db: db, mail: mail, baseURL: baseURL}
}

// Signup creates a new user, hashing their password. The UNIQUE index on
// email is the single source of truth for duplicates.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:    uuid.New().String(),
		Name:  name,
		Email: email,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash) VALUES (?, ?, ?, ?)",
		user.ID, user.Name, user.Email, string(hashedPassword))
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// Authenticate verifies a user's credentials. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, is_premium, total_expense, created_at
		FROM users WHERE id = ?`, id).
		Scan(&user.ID, &user.Name, &user.Email, &user.IsPremium, &user.TotalExpense, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, without the hash.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := s.getByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// ForgotPassword issues a reset token and mails the reset link. The caller
// always reports generic success; whether the email exists, whether the
// mail went out, none of it leaks to the client.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.getByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return err
	}

	reset := models.PasswordReset{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO password_resets (token, user_id, expires_at) VALUES (?, ?, ?)",
		reset.Token, reset.UserID, reset.ExpiresAt)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.baseURL, reset.Token)
	if err := s.mail.Send(user.Email, "Password Reset", "Reset your password: "+link); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to send reset mail")
	}
	return nil
}

// ResetPassword consumes a valid token and sets a new password.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	var userID string
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id FROM password_resets WHERE token = ? AND expires_at > ?",
		token, time.Now()).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvalidToken
		}
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), userID); err != nil {
		return err
	}

	// Consume the token
	_, err = s.db.ExecContext(ctx, "DELETE FROM password_resets WHERE token = ?", token)
	return err
}

func (s *UserService) getByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, is_premium, total_expense, created_at
		FROM users WHERE email = ?`, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.IsPremium, &user.TotalExpense, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
