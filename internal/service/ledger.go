package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Payphone-Digital/referral/internal/audit"
	"github.com/Payphone-Digital/referral/internal/constants"
	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/Payphone-Digital/referral/pkg/logger"
)

// LedgerService owns commission records. Referrals is the only counter it
// changes; earnings are carried as stored.
type LedgerService struct {
	users   repository.UserRepository
	records repository.LedgerRepository
	audit   audit.Emitter
	now     func() time.Time
}

func NewLedgerService(users repository.UserRepository, records repository.LedgerRepository, emitter audit.Emitter) *LedgerService {
	if emitter == nil {
		emitter = audit.Discard
	}
	return &LedgerService{
		users:   users,
		records: records,
		audit:   emitter,
		now:     time.Now,
	}
}

// GetOrCreate returns phone's record, creating a zeroed one on first use.
func (s *LedgerService) GetOrCreate(ctx context.Context, phone string) (*model.CommissionRecord, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "LedgerGetOrCreate")

	rec, err := s.records.GetOrCreate(ctx, phone, s.now())
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to load commission record").
			Phone(phone).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return rec, nil
}

// RecordReferral counts one click-through to companyID for phone.
func (s *LedgerService) RecordReferral(ctx context.Context, phone, companyID, policyType string) (*model.CommissionRecord, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "RecordReferral")

	companyID = strings.TrimSpace(companyID)
	if phone == "" || companyID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, constants.MsgPhoneCompanyRequired)
	}
	if strings.TrimSpace(policyType) == "" {
		policyType = constants.DefaultPolicyType
	}

	user, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.WarnWithContext(ctx, "Referral for unknown user").
				Phone(phone).
				String("company_id", companyID).
				Log()
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	now := s.now()
	rec, err := s.records.IncrementReferrals(ctx, phone, now)
	if errors.Is(err, repository.ErrNotFound) {
		// Users registered before the ledger existed have no row yet.
		if _, err = s.records.GetOrCreate(ctx, phone, now); err == nil {
			rec, err = s.records.IncrementReferrals(ctx, phone, now)
		}
	}
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to record referral").
			Phone(phone).
			String("company_id", companyID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.audit.Emit(ctx, audit.Event{
		Timestamp: now,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     phone,
		Action:    audit.ReferralAction(companyID),
		Status:    policyType,
	})

	logger.InfoWithContext(ctx, "Referral recorded").
		Phone(phone).
		String("company_id", companyID).
		String("policy_type", policyType).
		Int("referrals", rec.Referrals).
		Log()

	return rec, nil
}
