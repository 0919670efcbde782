package dto

import "github.com/Payphone-Digital/referral/internal/constants"

// Public form bodies. Any missing required field yields the same message
// the site has always shown.

type QuoteRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email"`
	Phone         string `json:"phone" validate:"required"`
	InsuranceType string `json:"insuranceType" validate:"required"`
	Coverage      string `json:"coverage" validate:"required"`
}

func (QuoteRequest) ValidationMessages() map[string]string { return requiredFieldsMissing }

type ApplicationRequest struct {
	Name              string `json:"name" validate:"required"`
	Email             string `json:"email" validate:"required"`
	Phone             string `json:"phone" validate:"required"`
	DateOfBirth       string `json:"dateOfBirth"`
	Gender            string `json:"gender"`
	Address           string `json:"address"`
	InsuranceType     string `json:"insuranceType" validate:"required"`
	PreviousInsurance string `json:"previousInsurance"`
	Requirements      string `json:"requirements"`
}

func (ApplicationRequest) ValidationMessages() map[string]string { return requiredFieldsMissing }

type ConsultationRequest struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required"`
	Phone            string `json:"phone" validate:"required"`
	PreferredDate    string `json:"preferredDate"`
	PreferredTime    string `json:"preferredTime"`
	ConsultationType string `json:"consultationType" validate:"required"`
	CurrentInsurance string `json:"currentInsurance"`
	Budget           string `json:"budget"`
	Message          string `json:"message"`
}

func (ConsultationRequest) ValidationMessages() map[string]string { return requiredFieldsMissing }

var requiredFieldsMissing = map[string]string{
	"Name":             constants.MsgRequiredFieldsMissing,
	"Email":            constants.MsgRequiredFieldsMissing,
	"Phone":            constants.MsgRequiredFieldsMissing,
	"InsuranceType":    constants.MsgRequiredFieldsMissing,
	"Coverage":         constants.MsgRequiredFieldsMissing,
	"ConsultationType": constants.MsgRequiredFieldsMissing,
}

type SubmissionResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
