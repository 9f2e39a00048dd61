package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// Tagged outcomes of the verification stage. The route guard maps these
// to HTTP rejections; nothing else escapes this stage.
var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrUnknownOrInactive = errors.New("user not found or inactive")
)

// IdentityStore resolves employee ids to stored records.
type IdentityStore interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
}

// Verifier resolves a raw token to an active employee. It performs the
// only blocking call in the pipeline, the identity lookup.
type Verifier struct {
	tokens     *TokenManager
	identities IdentityStore
	logger     *zap.Logger
}

// NewVerifier constructs a verifier around a token manager and an identity store.
func NewVerifier(tokens *TokenManager, identities IdentityStore, logger *zap.Logger) *Verifier {
	return &Verifier{tokens: tokens, identities: identities, logger: logger}
}

// Verify validates the token and loads the employee it names. Signature,
// format and expiry failures return ErrInvalidCredential; a subject that
// does not resolve to an active employee returns ErrUnknownOrInactive.
// Any other error is a fault for the caller to handle.
func (v *Verifier) Verify(ctx context.Context, token string) (*domain.Employee, error) {
	claims, err := v.tokens.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	employee, err := v.identities.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Merged with the inactive case on the wire; the log line keeps
			// them apart for audits.
			v.logger.Debug("token subject not found", zap.String("employee_id", claims.EmployeeID))
			return nil, ErrUnknownOrInactive
		}
		return nil, err
	}

	if !employee.IsActive {
		v.logger.Debug("token subject inactive", zap.String("employee_id", claims.EmployeeID))
		return nil, ErrUnknownOrInactive
	}

	return employee, nil
}
