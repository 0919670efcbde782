package dto

import (
	"time"

	"github.com/Payphone-Digital/referral/internal/constants"
	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"max=100"`
	Email    string `json:"email" validate:"max=255"`
}

func (RegisterRequest) ValidationMessages() map[string]string {
	return credentialMessages
}

type LoginRequest struct {
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required"`
}

func (LoginRequest) ValidationMessages() map[string]string {
	return credentialMessages
}

var credentialMessages = map[string]string{
	"Phone.required":    constants.MsgPhonePasswordRequired,
	"Password.required": constants.MsgPhonePasswordRequired,
	"Phone.phone":       constants.MsgPhoneFormat,
}

// LogoutRequest carries the phone to record in the audit trail. It is
// optional; an empty body still logs the caller out.
type LogoutRequest struct {
	Phone string `json:"phone"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type CommissionResponse struct {
	TotalEarnings decimal.Decimal `json:"totalEarnings"`
	Referrals     int             `json:"referrals"`
	LastUpdated   time.Time       `json:"lastUpdated"`
}

type ProfileResponse struct {
	User       UserResponse       `json:"user"`
	Commission CommissionResponse `json:"commission"`
}

func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Phone: u.Phone,
	}
}

func ToCommissionResponse(r *model.CommissionRecord) CommissionResponse {
	return CommissionResponse{
		TotalEarnings: r.TotalEarnings,
		Referrals:     r.Referrals,
		LastUpdated:   r.LastUpdated,
	}
}
