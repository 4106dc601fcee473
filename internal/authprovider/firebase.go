// Package authprovider wraps the authentication service behind the small
// interface the gateway needs, translating provider error codes into the
// repository's sentinel taxonomy.
package authprovider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/errorutils"

	"github.com/socialchat/gateway/internal/errs"
)

// Account is the provider-owned identity record projection.
type Account struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Provider is the slice of the auth service consumed as a black box.
type Provider interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error)
	GetAccount(ctx context.Context, uid string) (*Account, error)
	VerifyToken(ctx context.Context, idToken string) (string, error)
	DeleteAccount(ctx context.Context, uid string) error
}

// FirebaseProvider implements Provider on the Firebase Admin auth client.
type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider creates a new FirebaseProvider.
func NewFirebaseProvider(client *auth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

// CreateAccount registers a new email/password account.
func (p *FirebaseProvider) CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return nil, mapAuthError(err)
	}
	return accountFromRecord(record), nil
}

// GetAccount fetches an account by UID.
func (p *FirebaseProvider) GetAccount(ctx context.Context, uid string) (*Account, error) {
	record, err := p.client.GetUser(ctx, uid)
	if err != nil {
		return nil, mapAuthError(err)
	}
	return accountFromRecord(record), nil
}

// VerifyToken validates an ID token and returns the account UID.
func (p *FirebaseProvider) VerifyToken(ctx context.Context, idToken string) (string, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", mapAuthError(err)
	}
	return token.UID, nil
}

// DeleteAccount removes the account from the provider.
func (p *FirebaseProvider) DeleteAccount(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		return mapAuthError(err)
	}
	return nil
}

func accountFromRecord(record *auth.UserRecord) *Account {
	acct := &Account{
		UID:         record.UID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
	}
	if record.UserMetadata != nil {
		acct.CreatedAt = time.UnixMilli(record.UserMetadata.CreationTimestamp)
	}
	return acct
}

// mapAuthError folds the provider's error codes into the sentinel taxonomy
// so callers report them without depending on the SDK.
func mapAuthError(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err) || auth.IsUIDAlreadyExists(err):
		return fmt.Errorf("%w: account already registered", errs.ErrAlreadyExists)
	case auth.IsUserNotFound(err):
		return errs.ErrNotFound
	case errorutils.IsResourceExhausted(err):
		return errs.ErrRateLimited
	case errorutils.IsInvalidArgument(err):
		if strings.Contains(strings.ToLower(err.Error()), "password") {
			return fmt.Errorf("%w: %v", errs.ErrWeakCredential, err)
		}
		return fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
	case errorutils.IsUnauthenticated(err):
		return fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
	default:
		return err
	}
}
