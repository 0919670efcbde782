package service

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/Payphone-Digital/referral/pkg/logger"
)

// GateState is where a request stands in the access check.
type GateState int

const (
	StateUnauthenticated GateState = iota
	StateVerifying
	StateAuthorized
	StateRejected
)

func (s GateState) String() string {
	switch s {
	case StateUnauthenticated:
		return "UNAUTHENTICATED"
	case StateVerifying:
		return "VERIFYING"
	case StateAuthorized:
		return "AUTHORIZED"
	case StateRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// Decision is the outcome of Authorize. UserID is set only when Authorized.
type Decision struct {
	UserID string
	State  GateState
}

func (d Decision) Authorized() bool { return d.State == StateAuthorized }

// TokenVerifier is the identity check the gate depends on.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// Gate decides per request whether a bearer token grants access. It keeps
// no state between calls.
type Gate struct {
	verifier TokenVerifier
}

func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authorize returns ErrUnauthorized for an empty token and ErrInvalidToken
// when verification fails. The Decision is always populated.
func (g *Gate) Authorize(ctx context.Context, token string) (Decision, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Authorize")

	token = strings.TrimSpace(token)
	if token == "" {
		return Decision{State: StateUnauthenticated}, apperrors.ErrUnauthorized
	}

	d := Decision{State: StateVerifying}
	userID, err := g.verifier.VerifyToken(ctx, token)
	if err != nil {
		d.State = StateRejected
		logger.DebugWithContext(ctx, "Token rejected").Err(err).Log()
		if !errors.Is(err, apperrors.ErrInvalidToken) {
			err = apperrors.WrapError(apperrors.ErrInvalidToken, err)
		}
		return d, err
	}

	d.UserID = userID
	d.State = StateAuthorized
	return d, nil
}
