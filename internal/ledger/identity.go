package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	applog "runclub/internal/log"
	"runclub/internal/storage"
)

// DefaultName is used when a login email has no local part.
const DefaultName = "Student"

// ErrPledgeNotAccepted rejects a sign-up that did not agree to the community pledge.
var ErrPledgeNotAccepted = errors.New("you must agree to the Community Pledge to join")

// Identity is the stored display name of the current runner. The core only
// reads it; Set and Clear serve the login, sign-up and logout glue.
type Identity struct {
	store  storage.Store
	logger *applog.Logger
}

func NewIdentity(store storage.Store, logger *applog.Logger) *Identity {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Identity{store: store, logger: logger.WithComponent(applog.ComponentLedger)}
}

// Name returns the stored display name. An empty or unreadable name counts as absent.
func (i *Identity) Name(ctx context.Context) (string, bool) {
	name, ok, err := i.store.Get(ctx, KeyUser)
	if err != nil {
		i.logger.WarnContext(ctx, "User identity unavailable", applog.FieldError, err)
		return "", false
	}
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

func (i *Identity) Set(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("set identity: empty name")
	}
	if err := i.store.Set(ctx, KeyUser, name); err != nil {
		return fmt.Errorf("set identity: %w", err)
	}
	return nil
}

func (i *Identity) Clear(ctx context.Context) error {
	if err := i.store.Remove(ctx, KeyUser); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}

// NameFromEmail derives a display name from the local part of an email
// address with its first letter upper-cased: "john@ufv.ca" is "John".
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	if local == "" {
		return DefaultName
	}
	r, size := utf8.DecodeRuneInString(local)
	return string(unicode.ToUpper(r)) + local[size:]
}

// Login stores the name derived from email and returns it.
func (i *Identity) Login(ctx context.Context, email string) (string, error) {
	name := NameFromEmail(email)
	if err := i.Set(ctx, name); err != nil {
		return "", err
	}
	i.logger.InfoContext(ctx, "User logged in", "user", name)
	return name, nil
}

// Signup stores fullName once the community pledge has been accepted.
func (i *Identity) Signup(ctx context.Context, fullName string, pledgeAccepted bool) error {
	if !pledgeAccepted {
		return ErrPledgeNotAccepted
	}
	if err := i.Set(ctx, fullName); err != nil {
		return err
	}
	i.logger.InfoContext(ctx, "User signed up", "user", strings.TrimSpace(fullName))
	return nil
}
