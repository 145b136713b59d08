package portal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/crypto"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
)

const minPasswordLength = 6

// AccountLifecycle owns every transition of an account's approval and
// activation state. The confirmation axis is Pending -> Confirmed (approve)
// or Pending -> deleted (reject); Confirmed accounts only leave via Delete.
// The activation axis is orthogonal and toggles freely.
type AccountLifecycle struct {
	store    AccountStore
	registry *CombinationRegistry
}

func NewAccountLifecycle(store AccountStore, registry *CombinationRegistry) *AccountLifecycle {
	return &AccountLifecycle{store: store, registry: registry}
}

// RegisterInput is a public self-registration payload. Role and confirmation
// are not part of it: public registration always produces a pending student.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Level       model.Level
	Class       model.Class
	ClassStream string
	Stream      model.Stream
	Combination string
}

// Register creates a pending student account. The caller cannot choose a
// role or pre-confirm the account.
func (l *AccountLifecycle) Register(ctx context.Context, input RegisterInput) (model.Account, error) {
	return l.create(ctx, createInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     model.RoleStudent,
		Placement: model.Placement{
			Level:       input.Level,
			Class:       input.Class,
			ClassStream: strings.TrimSpace(input.ClassStream),
			Stream:      input.Stream,
			Combination: strings.ToUpper(strings.TrimSpace(input.Combination)),
		},
		Confirmed: false,
	})
}

// CreateInput is the admin-side creation payload: role is explicit and a
// student may be created pre-confirmed.
type CreateInput struct {
	Name      string
	Email     string
	Password  string
	Role      model.Role
	Placement model.Placement
	Confirmed bool
}

// Create makes an account on behalf of an admin. Admin accounts are always
// confirmed, regardless of the requested flag.
func (l *AccountLifecycle) Create(ctx context.Context, input CreateInput) (model.Account, error) {
	if !input.Role.Valid() {
		return model.Account{}, &ValidationError{Message: fmt.Sprintf("invalid role %q", input.Role)}
	}
	confirmed := input.Confirmed
	if input.Role == model.RoleAdmin {
		confirmed = true
		input.Placement = model.Placement{}
	}
	return l.create(ctx, createInput{
		Name:      input.Name,
		Email:     input.Email,
		Password:  input.Password,
		Role:      input.Role,
		Placement: input.Placement,
		Confirmed: confirmed,
	})
}

type createInput struct {
	Name      string
	Email     string
	Password  string
	Role      model.Role
	Placement model.Placement
	Confirmed bool
}

func (l *AccountLifecycle) create(ctx context.Context, input createInput) (model.Account, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)

	if name == "" {
		return model.Account{}, &ValidationError{Message: "name is required"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return model.Account{}, &ValidationError{Message: "a valid email is required"}
	}
	if len(input.Password) < minPasswordLength {
		return model.Account{}, &ValidationError{Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	}
	if input.Role == model.RoleStudent {
		if err := l.validatePlacement(input.Placement); err != nil {
			return model.Account{}, err
		}
	}

	if _, err := l.store.GetAccountByEmail(ctx, email); err == nil {
		return model.Account{}, &ConflictError{Message: "email is already registered"}
	} else if !IsNotFound(err) {
		return model.Account{}, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return model.Account{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := model.Account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Placement:    input.Placement,
		Confirmed:    input.Confirmed,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := l.store.CreateAccount(ctx, account); err != nil {
		return model.Account{}, err
	}
	return account, nil
}

func (l *AccountLifecycle) validatePlacement(p model.Placement) error {
	if !p.Level.Valid() {
		return &ValidationError{Message: "level must be o-level or a-level"}
	}
	if !p.Class.BelongsTo(p.Level) {
		return &ValidationError{Message: fmt.Sprintf("class %q is not valid for %s", p.Class, p.Level)}
	}
	switch p.Level {
	case model.LevelOLevel:
		if p.Stream != "" {
			return &ValidationError{Message: "academic stream is only for a-level students"}
		}
		if p.Combination != "" {
			return &ValidationError{Message: "combination is only for a-level students"}
		}
	case model.LevelALevel:
		if p.ClassStream != "" {
			return &ValidationError{Message: "class stream is only for o-level students"}
		}
		if !p.Stream.Valid() {
			return &ValidationError{Message: "academic stream must be arts or science"}
		}
		if p.Combination == "" {
			return &ValidationError{Message: "a-level students must select a combination"}
		}
		if !l.registry.Has(p.Combination) {
			return &ValidationError{Message: fmt.Sprintf("unknown combination %q", p.Combination)}
		}
	}
	return nil
}

// Approve transitions Pending -> Confirmed. Approving an already-confirmed
// account is a no-op success so two concurrent admin clicks cannot race
// into an error.
func (l *AccountLifecycle) Approve(ctx context.Context, id string) (model.Account, error) {
	account, err := l.store.GetAccountByID(ctx, id)
	if err != nil {
		return model.Account{}, err
	}
	if account.Confirmed {
		return account, nil
	}
	account.Confirmed = true
	account.UpdatedAt = time.Now().UTC()
	if err := l.store.UpdateAccount(ctx, account); err != nil {
		return model.Account{}, err
	}
	return account, nil
}

// Reject deletes a pending account. Rejection is only meaningful before
// approval; a confirmed account must go through Delete instead.
func (l *AccountLifecycle) Reject(ctx context.Context, id string) error {
	account, err := l.store.GetAccountByID(ctx, id)
	if err != nil {
		return err
	}
	if account.Confirmed {
		return &ConflictError{Message: "cannot reject a confirmed account"}
	}
	return l.store.DeleteAccount(ctx, account.ID)
}

// Activate sets the active flag. Idempotent.
func (l *AccountLifecycle) Activate(ctx context.Context, id string) (model.Account, error) {
	return l.setActive(ctx, id, true)
}

// Deactivate clears the active flag. Idempotent; takes effect on the
// account's very next authenticated request.
func (l *AccountLifecycle) Deactivate(ctx context.Context, id string) (model.Account, error) {
	return l.setActive(ctx, id, false)
}

func (l *AccountLifecycle) setActive(ctx context.Context, id string, active bool) (model.Account, error) {
	account, err := l.store.GetAccountByID(ctx, id)
	if err != nil {
		return model.Account{}, err
	}
	if account.Active == active {
		return account, nil
	}
	account.Active = active
	account.UpdatedAt = time.Now().UTC()
	if err := l.store.UpdateAccount(ctx, account); err != nil {
		return model.Account{}, err
	}
	return account, nil
}

// Delete removes an account outright. An admin can never delete their own
// account; that would let the last admin lock everyone out.
func (l *AccountLifecycle) Delete(ctx context.Context, id string, actor model.Account) error {
	if id == actor.ID {
		return &ValidationError{Message: "cannot delete your own account"}
	}
	account, err := l.store.GetAccountByID(ctx, id)
	if err != nil {
		return err
	}
	return l.store.DeleteAccount(ctx, account.ID)
}

// UpdateProfile changes name and email only. Placement is immutable after
// registration; a misplaced student is fixed by admin re-creation.
func (l *AccountLifecycle) UpdateProfile(ctx context.Context, id string, name, email *string) (model.Account, error) {
	account, err := l.store.GetAccountByID(ctx, id)
	if err != nil {
		return model.Account{}, err
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return model.Account{}, &ValidationError{Message: "name cannot be empty"}
		}
		account.Name = trimmed
	}
	if email != nil {
		normalized := NormalizeEmail(*email)
		if normalized == "" || !strings.Contains(normalized, "@") {
			return model.Account{}, &ValidationError{Message: "a valid email is required"}
		}
		if normalized != account.Email {
			if _, err := l.store.GetAccountByEmail(ctx, normalized); err == nil {
				return model.Account{}, &ConflictError{Message: "email is already registered"}
			} else if !IsNotFound(err) {
				return model.Account{}, fmt.Errorf("check existing account: %w", err)
			}
			account.Email = normalized
		}
	}
	account.UpdatedAt = time.Now().UTC()
	if err := l.store.UpdateAccount(ctx, account); err != nil {
		return model.Account{}, err
	}
	return account, nil
}

// ChangePassword verifies the current password before replacing it.
func (l *AccountLifecycle) ChangePassword(ctx context.Context, id, current, next string) error {
	account, err := l.store.GetAccountByID(ctx, id)
	if err != nil {
		return err
	}
	if err := crypto.CheckPassword(account.PasswordHash, current); err != nil {
		return &AuthenticationError{Message: "current password is incorrect"}
	}
	if len(next) < minPasswordLength {
		return &ValidationError{Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	}
	hash, err := crypto.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	account.PasswordHash = hash
	account.UpdatedAt = time.Now().UTC()
	return l.store.UpdateAccount(ctx, account)
}

// Get returns a single account.
func (l *AccountLifecycle) Get(ctx context.Context, id string) (model.Account, error) {
	return l.store.GetAccountByID(ctx, id)
}

// List returns accounts matching the filter.
func (l *AccountLifecycle) List(ctx context.Context, filter AccountFilter) ([]model.Account, error) {
	return l.store.ListAccounts(ctx, filter)
}

// Pending returns the accounts awaiting admin approval.
func (l *AccountLifecycle) Pending(ctx context.Context) ([]model.Account, error) {
	confirmed := false
	return l.store.ListAccounts(ctx, AccountFilter{Confirmed: &confirmed})
}

// Stats returns the admin dashboard roll-up.
func (l *AccountLifecycle) Stats(ctx context.Context) (model.AccountStats, error) {
	return l.store.AccountStats(ctx)
}

// NormalizeEmail lowercases and trims an email for case-insensitive
// uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
