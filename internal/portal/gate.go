package portal

import (
	"context"
	"fmt"
	"time"

	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/auth"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/crypto"
	"github.com/D-J-Software-Engineers/Notes-Management-System/internal/model"
)

// AuthorizationGate turns a credential pair or a presented token into a
// live, authorized account. Tokens carry only the account id and role;
// confirmation and activation are re-read from the store on every request,
// which is what makes a deactivation or rejection bite immediately without
// any token-revocation machinery.
type AuthorizationGate struct {
	store    AccountStore
	secret   string
	issuer   string
	tokenTTL time.Duration
}

func NewAuthorizationGate(store AccountStore, secret, issuer string, tokenTTL time.Duration) *AuthorizationGate {
	return &AuthorizationGate{store: store, secret: secret, issuer: issuer, tokenTTL: tokenTTL}
}

// loginGuardHash is a throwaway bcrypt hash compared against on the
// unknown-email path, so that path costs the same as a wrong password and
// login timing does not reveal whether an address is registered.
const loginGuardHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// LoginResult is a freshly issued token plus the account it binds.
type LoginResult struct {
	Token   string
	Account model.Account
}

// Login authenticates a credential pair. requestedRole, when non-empty,
// declares which portal the caller is logging in from; a mismatch is
// refused with the same message on every path so the response reveals
// nothing about the account's actual role. The unknown-email and
// wrong-password failures share one message and one bcrypt compare to
// block account enumeration.
func (g *AuthorizationGate) Login(ctx context.Context, email, password string, requestedRole model.Role) (LoginResult, error) {
	account, err := g.store.GetAccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if IsNotFound(err) {
			_ = crypto.CheckPassword(loginGuardHash, password)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("look up account: %w", err)
	}

	if !account.Active {
		return LoginResult{}, ErrDeactivated
	}
	if !account.Confirmed {
		return LoginResult{}, ErrPendingApproval
	}
	if requestedRole != "" && account.Role != requestedRole {
		return LoginResult{}, ErrWrongPortal
	}

	if err := crypto.CheckPassword(account.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(g.secret, g.issuer, g.tokenTTL, auth.Claims{
		AccountID: account.ID,
		Role:      string(account.Role),
	})
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{Token: token, Account: account}, nil
}

// Authenticate verifies a token's signature and expiry, then resolves the
// embedded account id against the live store. Nothing in the token beyond
// the id is trusted for authorization.
func (g *AuthorizationGate) Authenticate(ctx context.Context, token string) (model.Account, error) {
	claims, err := auth.ParseToken(g.secret, g.issuer, token)
	if err != nil {
		return model.Account{}, ErrInvalidToken
	}
	account, err := g.store.GetAccountByID(ctx, claims.AccountID)
	if err != nil {
		if IsNotFound(err) {
			return model.Account{}, ErrInvalidToken
		}
		return model.Account{}, fmt.Errorf("resolve account: %w", err)
	}
	return account, nil
}

// RequireLive refuses deactivated and unapproved accounts. It runs against
// the live record, so an admin's deactivate takes effect on the target's
// next request even while older tokens remain cryptographically valid.
func (g *AuthorizationGate) RequireLive(account model.Account) error {
	if !account.Active {
		return ErrDeactivated
	}
	if !account.Confirmed {
		return ErrPendingApproval
	}
	return nil
}

// RequireRole fences an operation to the allowed roles.
func (g *AuthorizationGate) RequireRole(account model.Account, allowed ...model.Role) error {
	for _, role := range allowed {
		if account.Role == role {
			return nil
		}
	}
	return &AuthorizationError{Message: fmt.Sprintf("role %s is not authorized", account.Role)}
}
