package service

import (
	"context"
	"strings"

	"github.com/Payphone-Digital/referral/internal/constants"
	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/Payphone-Digital/referral/internal/model"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/Payphone-Digital/referral/pkg/logger"
)

type TrackInput struct {
	Phone      string
	CompanyID  string
	PolicyType string
}

type TrackResult struct {
	Commission  *model.CommissionRecord
	RedirectURL string
}

// ReferralService handles a signed-in user's click-through to a partner.
type ReferralService struct {
	identity *IdentityService
	ledger   *LedgerService
	catalog  *CatalogService
}

func NewReferralService(identity *IdentityService, ledger *LedgerService, catalog *CatalogService) *ReferralService {
	return &ReferralService{identity: identity, ledger: ledger, catalog: catalog}
}

// Track counts a referral for the authorized user. A phone in the request
// must be the caller's own; an empty one defaults to it.
func (s *ReferralService) Track(ctx context.Context, userID string, in TrackInput) (*TrackResult, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "TrackReferral")

	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, constants.MsgPhoneCompanyRequired)
	}

	user, err := s.identity.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Phone != "" && in.Phone != user.Phone {
		logger.WarnWithContext(ctx, "Referral phone does not match token").
			String("user_id", userID).
			Phone(in.Phone).
			Log()
		return nil, apperrors.WithMessage(apperrors.ErrUnauthorized, constants.MsgUnauthorized)
	}

	// Resolve the partner first so an unknown company leaves the ledger alone.
	link, err := s.catalog.ReferralLink(ctx, companyID, user, in.PolicyType)
	if err != nil {
		return nil, err
	}

	rec, err := s.ledger.RecordReferral(ctx, user.Phone, companyID, in.PolicyType)
	if err != nil {
		return nil, err
	}
	return &TrackResult{Commission: rec, RedirectURL: link}, nil
}
