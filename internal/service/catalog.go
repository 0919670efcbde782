package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/Payphone-Digital/referral/internal/constants"
	"github.com/Payphone-Digital/referral/internal/dto"
	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/Payphone-Digital/referral/pkg/logger"
)

// Commission rates shown on the site. They are informational; the ledger
// does not compute earnings from them.
var (
	SinglePolicyRate = dto.PolicyRate{
		Percentage:  14,
		Description: "Earn 14% commission on single insurance policy",
	}
	MultiplePolicyRate = dto.PolicyRate{
		Percentage:  20,
		Description: "Earn 20% commission on multiple insurance policies",
	}
)

// LinkData is available to partner link templates.
type LinkData struct {
	Phone      string
	UserID     string
	PartnerID  string
	PolicyType string
}

type CatalogService struct {
	partners repository.PartnerRepository

	mu        sync.Mutex
	templates map[string]cachedTemplate
}

type cachedTemplate struct {
	source string
	tmpl   *template.Template
}

func NewCatalogService(partners repository.PartnerRepository) *CatalogService {
	return &CatalogService{
		partners:  partners,
		templates: make(map[string]cachedTemplate),
	}
}

// CommissionInfo lists rates and partners. Links are rendered and partners
// marked active only for a signed-in viewer.
func (s *CatalogService) CommissionInfo(ctx context.Context, viewer *model.User) (*dto.CommissionInfoResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "CommissionInfo")

	partners, err := s.partners.List(ctx)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to list partners").Err(err).Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	companies := make([]dto.CompanyResponse, 0, len(partners))
	for i := range partners {
		p := &partners[i]
		company := dto.CompanyResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
		}
		if viewer != nil && p.IsActive {
			company.IsActive = true
			link, err := s.render(p, LinkData{Phone: viewer.Phone, UserID: viewer.ID, PartnerID: p.ID})
			if err != nil {
				// One broken template should not hide the other partners.
				logger.WarnWithContext(ctx, "Failed to render partner link").
					String("partner_id", p.ID).
					Err(err).
					Log()
			}
			company.Link = link
		}
		companies = append(companies, company)
	}

	return &dto.CommissionInfoResponse{
		SinglePolicy:   SinglePolicyRate,
		MultiplePolicy: MultiplePolicyRate,
		Companies:      companies,
	}, nil
}

// ReferralLink renders companyID's click-through URL for user.
func (s *CatalogService) ReferralLink(ctx context.Context, companyID string, user *model.User, policyType string) (string, error) {
	p, err := s.partners.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.ErrPartnerNotFound
		}
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if !p.IsActive {
		return "", apperrors.ErrPartnerNotFound
	}

	link, err := s.render(p, LinkData{Phone: user.Phone, UserID: user.ID, PartnerID: p.ID, PolicyType: policyType})
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return link, nil
}

func (s *CatalogService) render(p *model.Partner, data LinkData) (string, error) {
	if p.LinkTemplate == "" {
		return "", nil
	}
	tmpl, err := s.compile(p)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render link for %s: %w", p.ID, err)
	}
	return buf.String(), nil
}

// compile caches parsed templates per partner, reparsing when the stored
// template changes.
func (s *CatalogService) compile(p *model.Partner) (*template.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.templates[p.ID]; ok && c.source == p.LinkTemplate {
		return c.tmpl, nil
	}
	tmpl, err := template.New(p.ID).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(p.LinkTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse link template for %s: %w", p.ID, err)
	}
	s.templates[p.ID] = cachedTemplate{source: p.LinkTemplate, tmpl: tmpl}
	return tmpl, nil
}

// ReferralCode is the code partner links carry for phone. It matches the
// "sha256sum | trunc 12" pipeline used by the default templates.
func ReferralCode(phone string) string {
	sum := sha256.Sum256([]byte(phone))
	return hex.EncodeToString(sum[:])[:constants.ReferralCodeLen]
}
