package handler

import (
	"net/http"

	"github.com/Payphone-Digital/referral/internal/constants"
	"github.com/Payphone-Digital/referral/internal/dto"
	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/service"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/Payphone-Digital/referral/pkg/logger"
	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	referrals *service.ReferralService
	catalog   *service.CatalogService
	identity  *service.IdentityService
}

func NewReferralHandler(referrals *service.ReferralService, catalog *service.CatalogService, identity *service.IdentityService) *ReferralHandler {
	return &ReferralHandler{
		referrals: referrals,
		catalog:   catalog,
		identity:  identity,
	}
}

// CommissionInfo handles GET /api/commission-info. Anonymous callers get
// the partner list without links.
func (h *ReferralHandler) CommissionInfo(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "CommissionInfo")

	var viewer *model.User
	if userID := currentUserID(c); userID != "" {
		user, err := h.identity.GetUser(ctx, userID)
		if err != nil {
			logger.DebugWithContext(ctx, "Viewer not found, serving anonymous info").
				String("user_id", userID).
				Err(err).
				Log()
		} else {
			viewer = user
		}
	}

	info, err := h.catalog.CommissionInfo(ctx, viewer)
	if err != nil {
		respondError(ctx, c, err, constants.MsgInternalError)
		return
	}
	c.JSON(http.StatusOK, info)
}

// TrackReferral handles POST /api/track-referral for the signed-in user.
func (h *ReferralHandler) TrackReferral(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "TrackReferral")

	var req dto.TrackReferralRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	res, err := h.referrals.Track(ctx, currentUserID(c), service.TrackInput{
		Phone:      req.Phone,
		CompanyID:  req.CompanyID,
		PolicyType: req.PolicyType,
	})
	if err != nil {
		respondError(ctx, c, err, constants.MsgInternalError)
		return
	}

	logger.InfoWithContext(ctx, "Referral tracked").
		String("company_id", req.CompanyID).
		Int("referrals", res.Commission.Referrals).
		Log()

	c.JSON(http.StatusOK, dto.TrackReferralResponse{
		Message:     constants.MsgReferralTracked,
		Commission:  dto.ToCommissionResponse(res.Commission),
		RedirectURL: res.RedirectURL,
	})
}
