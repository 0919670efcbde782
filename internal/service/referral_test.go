package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Payphone-Digital/referral/internal/constants"
	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferralFlow_RegisterLoginTrack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.identity.Register(ctx, RegisterInput{Phone: testPhone, Password: testPassword}))
	login, err := env.identity.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)

	decision, err := env.gate.Authorize(ctx, login.Token)
	require.NoError(t, err)

	res, err := env.referrals.Track(ctx, decision.UserID, TrackInput{Phone: testPhone, CompanyID: "acko-motor", PolicyType: "single"})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Commission.Referrals)
	assert.Contains(t, res.RedirectURL, ReferralCode(testPhone))
	assert.Equal(t, []string{
		constants.ActionRegistered,
		constants.ActionLoginSuccess,
		"Referral - acko-motor",
	}, env.audit.Actions())
}

func TestTrack_EmptyPhoneDefaultsToCaller(t *testing.T) {
	env := newTestEnv(t)
	login := env.registerAndLogin(t)

	res, err := env.referrals.Track(context.Background(), login.User.ID, TrackInput{CompanyID: "icici-lombard"})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Commission.Referrals)
}

func TestTrack_TrimsCompanyID(t *testing.T) {
	env := newTestEnv(t)
	login := env.registerAndLogin(t)

	res, err := env.referrals.Track(context.Background(), login.User.ID, TrackInput{CompanyID: " acko-motor ", PolicyType: "single"})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Commission.Referrals)
	assert.NotEmpty(t, res.RedirectURL)
	assert.Contains(t, env.audit.Actions(), "Referral - acko-motor")
}

func TestTrack_RejectsForeignPhone(t *testing.T) {
	env := newTestEnv(t)
	login := env.registerAndLogin(t)
	ctx := context.Background()
	require.NoError(t, env.identity.Register(ctx, RegisterInput{Phone: "1112223334", Password: "pw"}))

	_, err := env.referrals.Track(ctx, login.User.ID, TrackInput{Phone: "1112223334", CompanyID: "acko-motor"})

	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
	rec, err := env.repos.Ledger.Get(ctx, "1112223334")
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Referrals)
}

func TestTrack_UnknownCompanyLeavesLedgerAlone(t *testing.T) {
	env := newTestEnv(t)
	login := env.registerAndLogin(t)
	ctx := context.Background()

	_, err := env.referrals.Track(ctx, login.User.ID, TrackInput{CompanyID: "unknown-co"})

	assert.True(t, errors.Is(err, apperrors.ErrPartnerNotFound))
	rec, err := env.repos.Ledger.Get(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Referrals)
}

func TestTrack_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.referrals.Track(context.Background(), "ghost", TrackInput{CompanyID: "acko-motor"})

	assert.True(t, errors.Is(err, apperrors.ErrUserNotFound))
}
