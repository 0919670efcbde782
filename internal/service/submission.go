package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Payphone-Digital/referral/internal/audit"
	"github.com/Payphone-Digital/referral/internal/constants"
	"github.com/Payphone-Digital/referral/internal/dto"
	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/Payphone-Digital/referral/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubmissionService stores public form entries and appends them to their
// sheet. Unlike audit events the append is synchronous: the sheet is where
// the sales team reads forms from.
type SubmissionService struct {
	repo    repository.SubmissionRepository
	sink    audit.Sink
	timeout time.Duration
	now     func() time.Time
}

func NewSubmissionService(repo repository.SubmissionRepository, sink audit.Sink, timeout time.Duration) *SubmissionService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SubmissionService{repo: repo, sink: sink, timeout: timeout, now: time.Now}
}

func (s *SubmissionService) SubmitQuote(ctx context.Context, req *dto.QuoteRequest) (string, error) {
	if anyBlank(req.Name, req.Phone, req.InsuranceType, req.Coverage) {
		return "", apperrors.WithMessage(apperrors.ErrValidation, constants.MsgRequiredFieldsMissing)
	}
	now := s.now()
	row := []string{
		audit.FormatTimestamp(now),
		req.Name, req.Email, req.Phone,
		req.InsuranceType, req.Coverage,
	}
	return s.submit(ctxutil.WithFunction(ctx, "service", "SubmitQuote"), model.SubmissionQuote, constants.SheetQuotes, now, req.Name, req.Email, req.Phone, req, row)
}

func (s *SubmissionService) SubmitApplication(ctx context.Context, req *dto.ApplicationRequest) (string, error) {
	if anyBlank(req.Name, req.Email, req.Phone, req.InsuranceType) {
		return "", apperrors.WithMessage(apperrors.ErrValidation, constants.MsgRequiredFieldsMissing)
	}
	now := s.now()
	row := []string{
		audit.FormatTimestamp(now),
		req.Name, req.Email, req.Phone,
		req.DateOfBirth, req.Gender, req.Address,
		req.InsuranceType, req.PreviousInsurance, req.Requirements,
	}
	return s.submit(ctxutil.WithFunction(ctx, "service", "SubmitApplication"), model.SubmissionApplication, constants.SheetApplications, now, req.Name, req.Email, req.Phone, req, row)
}

func (s *SubmissionService) SubmitConsultation(ctx context.Context, req *dto.ConsultationRequest) (string, error) {
	if anyBlank(req.Name, req.Email, req.Phone, req.ConsultationType) {
		return "", apperrors.WithMessage(apperrors.ErrValidation, constants.MsgRequiredFieldsMissing)
	}
	now := s.now()
	row := []string{
		audit.FormatTimestamp(now),
		req.Name, req.Email, req.Phone,
		req.PreferredDate, req.PreferredTime, req.ConsultationType,
		req.CurrentInsurance, req.Budget, req.Message,
	}
	return s.submit(ctxutil.WithFunction(ctx, "service", "SubmitConsultation"), model.SubmissionConsultation, constants.SheetConsultations, now, req.Name, req.Email, req.Phone, req, row)
}

func (s *SubmissionService) submit(ctx context.Context, kind model.SubmissionKind, sheet string, now time.Time, name, email, phone string, payload any, row []string) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	sub := &model.Submission{
		ID:        uuid.NewString(),
		Kind:      kind,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Payload:   datatypes.JSON(raw),
		CreatedAt: now.UTC(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		logger.ErrorWithContext(ctx, "Failed to store submission").
			String("kind", string(kind)).
			Err(err).
			Log()
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	appendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := time.Now()
	if err := s.sink.AppendRow(appendCtx, sheet, row); err != nil {
		logger.ErrorWithContext(ctx, "Failed to append submission to sheet").
			String("code", apperrors.CodeExternalSinkFailure).
			String("sheet", sheet).
			String("submission_id", sub.ID).
			Duration(time.Since(start)).
			Err(err).
			Log()
		return "", apperrors.WrapError(apperrors.ErrExternalSinkFailure, err)
	}

	logger.InfoWithContext(ctx, "Submission saved").
		String("kind", string(kind)).
		String("submission_id", sub.ID).
		Phone(phone).
		Duration(time.Since(start)).
		Log()
	return sub.ID, nil
}

// InitSheets creates every tab and its header row when the sink manages
// sheets. It reports false when the sink has no sheets to manage.
func (s *SubmissionService) InitSheets(ctx context.Context) (bool, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "InitSheets")

	admin, ok := s.sink.(audit.SheetAdmin)
	if !ok {
		return false, nil
	}
	if err := audit.InitSheets(ctx, admin, constants.SheetOrder, constants.SheetHeaders); err != nil {
		logger.ErrorWithContext(ctx, "Failed to initialize sheets").Err(err).Log()
		return true, apperrors.WrapError(apperrors.ErrExternalSinkFailure, err)
	}
	logger.InfoWithContext(ctx, "Sheets initialized").Int("sheets", len(constants.SheetOrder)).Log()
	return true, nil
}

func anyBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
