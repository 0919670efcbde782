package dto

import "github.com/Payphone-Digital/referral/internal/constants"

type TrackReferralRequest struct {
	Phone      string `json:"phone" validate:"omitempty,phone"`
	CompanyID  string `json:"companyId" validate:"required,max=64"`
	PolicyType string `json:"policyType" validate:"max=64"`
}

func (TrackReferralRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"CompanyID.required": constants.MsgPhoneCompanyRequired,
		"Phone.phone":        constants.MsgPhoneFormat,
	}
}

type TrackReferralResponse struct {
	Message     string             `json:"message"`
	Commission  CommissionResponse `json:"commission"`
	RedirectURL string             `json:"redirectUrl,omitempty"`
}

type PolicyRate struct {
	Percentage  int    `json:"percentage"`
	Description string `json:"description"`
}

type CompanyResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
	IsActive    bool   `json:"isActive"`
}

type CommissionInfoResponse struct {
	SinglePolicy   PolicyRate        `json:"singlePolicy"`
	MultiplePolicy PolicyRate        `json:"multiplePolicy"`
	Companies      []CompanyResponse `json:"companies"`
}
