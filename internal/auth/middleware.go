package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/attendance-service/internal/domain"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Messages surfaced to callers. Unknown and inactive subjects share one
// message on purpose.
const (
	msgAuthRequired      = "Authentication required"
	msgInvalidToken      = "Invalid or expired token"
	msgUnknownOrInactive = "User not found or inactive"
	msgInsufficientRole  = "Insufficient permissions"
	msgVerificationFault = "Authentication error"
)

// Guard is the single driver composing the request pipeline: extract the
// credential, verify it, then gate on the route policy. Every stage
// outcome maps to exactly one rejection; Admitted hands off downstream
// with the employee attached to the request.
type Guard struct {
	verifier *Verifier
	logger   *zap.Logger
}

// NewGuard constructs the route guard.
func NewGuard(verifier *Verifier, logger *zap.Logger) *Guard {
	return &Guard{verifier: verifier, logger: logger}
}

// Protect returns a handler enforcing authentication plus the given policy.
func (g *Guard) Protect(policy Policy) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		// Residual faults inside the pipeline must never escape as an
		// unhandled panic; they become a generic 500.
		defer func() {
			if r := recover(); r != nil {
				g.logger.Error("verification panic", zap.Any("panic", r), zap.String("path", c.Path()))
				err = verificationFault()
			}
		}()

		token, source := ExtractCredential(c.Get(fiber.HeaderAuthorization), c.Cookies(TokenCookieName))
		if source == TokenSourceNone {
			return apperrors.NewUnauthorized(msgAuthRequired)
		}

		employee, err := g.verifier.Verify(c.UserContext(), token)
		switch {
		case errors.Is(err, ErrInvalidCredential):
			return apperrors.NewUnauthorized(msgInvalidToken)
		case errors.Is(err, ErrUnknownOrInactive):
			return apperrors.NewUnauthorized(msgUnknownOrInactive)
		case err != nil:
			g.logger.Error("identity verification failed", zap.Error(err), zap.String("path", c.Path()))
			return verificationFault()
		}

		ownerID := ""
		if param := policy.OwnerParam(); param != "" {
			ownerID = c.Params(param)
		}
		if !policy.Admit(employee, ownerID) {
			return apperrors.NewForbidden(msgInsufficientRole)
		}

		c.Locals(principalKey, employee)
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated employee, if any.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Employee, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	employee, ok := val.(*domain.Employee)
	return employee, ok
}

func verificationFault() error {
	return apperrors.NewDomainError("AUTHENTICATION_ERROR", msgVerificationFault, http.StatusInternalServerError, nil)
}
