package authkit

import (
	"context"
	"reflect"

	"github.com/goliatone/go-errors"
)

// CredentialsProvider verifies an (identifier, secret) pair against the
// identity store. It is the built-in IdentityProvider; additional providers
// register through Auther.WithProvider.
type CredentialsProvider struct {
	store  IdentityStore
	logger Logger
}

// NewCredentialsProvider will create a provider backed by the given store
func NewCredentialsProvider(store IdentityStore) *CredentialsProvider {
	return &CredentialsProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (p *CredentialsProvider) WithLogger(l Logger) *CredentialsProvider {
	if l != nil {
		p.logger = l
	}
	return p
}

// Authorize looks up the user by identifier and compares the secret against
// the stored hash. Unknown identifier and wrong secret return the same
// ErrInvalidCredentials so callers cannot enumerate accounts; the miss path
// burns a hash compare to keep timing symmetric. The lookup is the only
// side effect.
func (p *CredentialsProvider) Authorize(ctx context.Context, creds Credentials) (Identity, error) {
	user, err := p.store.FindUserByIdentifier(ctx, creds.Identifier)
	if err != nil {
		if errors.IsNotFound(err) {
			burnPasswordCompare(creds.Secret)
			return nil, ErrInvalidCredentials
		}
		p.logger.Error("credentials provider store lookup failed", "error", err)
		return nil, errors.Wrap(err, ErrStoreUnavailable.Category, ErrStoreUnavailable.Message).
			WithTextCode(ErrStoreUnavailable.TextCode)
	}

	if user == nil {
		burnPasswordCompare(creds.Secret)
		return nil, ErrInvalidCredentials
	}

	if err := ComparePasswordAndHash(creds.Secret, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByIdentifier re-reads an identity for an established session.
func (p *CredentialsProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := p.store.FindUserByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	identity := NewIdentityFromUser(user)
	if identity == nil || reflect.ValueOf(identity).IsZero() {
		return nil, ErrIdentityNotFound
	}

	return identity, nil
}

var (
	_ IdentityProvider = (*CredentialsProvider)(nil)
	_ IdentityFinder   = (*CredentialsProvider)(nil)
)
