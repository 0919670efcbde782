package handler

import (
	"net/http"

	"github.com/Payphone-Digital/referral/internal/constants"
	"github.com/Payphone-Digital/referral/internal/dto"
	"github.com/Payphone-Digital/referral/internal/service"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/Payphone-Digital/referral/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	identity *service.IdentityService
}

func NewAuthHandler(identity *service.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	err := h.identity.Register(ctx, service.RegisterInput{
		Phone:    req.Phone,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
	})
	if err != nil {
		respondError(ctx, c, err, constants.MsgInternalError)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgRegistered))
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	res, err := h.identity.Login(ctx, req.Phone, req.Password)
	if err != nil {
		logger.WarnWithContext(ctx, "Login failed").Phone(req.Phone).Err(err).Log()
		respondError(ctx, c, err, constants.MsgInternalError)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: res.Token,
		User:  dto.ToUserResponse(res.User),
	})
}

// Logout handles POST /api/logout. It always succeeds. A bearer token, when
// present, is revoked; the phone (or the token's owner) is audited.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	var req dto.LogoutRequest
	// A malformed body still logs the caller out.
	_ = c.ShouldBindJSON(&req)

	phone := req.Phone
	if userID := currentUserID(c); userID != "" {
		if phone == "" {
			if user, err := h.identity.GetUser(ctx, userID); err == nil {
				phone = user.Phone
			}
		}
		if token := c.GetString(constants.GinKeyToken); token != "" {
			if err := h.identity.RevokeToken(ctx, token); err != nil {
				logger.WarnWithContext(ctx, "Failed to revoke token on logout").
					String("user_id", userID).
					Err(err).
					Log()
			}
		}
	}

	h.identity.Logout(ctx, phone)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgLoggedOut))
}

// Profile handles GET /api/profile for the signed-in user.
func (h *AuthHandler) Profile(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Profile")

	res, err := h.identity.Profile(ctx, currentUserID(c))
	if err != nil {
		respondError(ctx, c, err, constants.MsgInternalError)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		User:       dto.ToUserResponse(res.User),
		Commission: dto.ToCommissionResponse(res.Commission),
	})
}
