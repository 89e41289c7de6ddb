package authkit

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

// users is the bun-backed IdentityStore implementation. It exposes only the
// two reads the core depends on; writes stay with the host application.
type users struct {
	db *bun.DB
}

// NewUsersStore returns an IdentityStore backed by the given bun database.
func NewUsersStore(db *bun.DB) IdentityStore {
	return &users{db: db}
}

// FindUserByIdentifier resolves the identifier shape (uuid, email, phone,
// username) and probes the matching columns in order. A miss on every probe
// returns ErrIdentityNotFound.
func (a *users) FindUserByIdentifier(ctx context.Context, identifier string) (*User, error) {
	options := resolveUserIdentifier(identifier)
	if len(options) == 0 {
		return nil, ErrIdentityNotFound
	}

	for _, opt := range options {
		record := &User{}

		err := a.db.NewSelect().
			Model(record).
			Where(fmt.Sprintf("?TableAlias.%s = ?", opt.column), opt.value).
			Limit(1).
			Scan(ctx)

		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user by identifier")
		}

		return record, nil
	}

	return nil, ErrIdentityNotFound
}

// FindUserByID fetches a user by primary key. Used by surrounding code to
// project per-user state (e.g. a credit balance) into the UI layer.
func (a *users) FindUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record := &User{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user by id")
	}

	return record, nil
}

type identifierOption struct {
	column string
	value  string
}

func resolveUserIdentifier(identifier string) []identifierOption {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil
	}

	options := make([]identifierOption, 0, 4)

	if isUUID(trimmed) {
		options = append(options, identifierOption{
			column: "id",
			value:  trimmed,
		})
	}

	if isEmail(trimmed) {
		options = append(options, identifierOption{
			column: "email",
			value:  trimmed,
		})
	}

	if phone, ok := normalizePhoneNumber(trimmed); ok {
		options = append(options, identifierOption{
			column: "phone_number",
			value:  phone,
		})
	}

	options = append(options, identifierOption{
		column: "username",
		value:  trimmed,
	})

	return options
}

func isEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}

// normalizePhoneNumber accepts E.164-style input and canonicalizes it so
// lookups match regardless of spacing or punctuation.
func normalizePhoneNumber(identifier string) (string, bool) {
	if !strings.HasPrefix(identifier, "+") {
		return "", false
	}

	num, err := phonenumbers.Parse(identifier, "")
	if err != nil {
		return "", false
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", false
	}

	return phonenumbers.Format(num, phonenumbers.E164), true
}

var _ IdentityStore = (*users)(nil)
