package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommissionInfo_Anonymous(t *testing.T) {
	env := newTestEnv(t)

	info, err := env.catalog.CommissionInfo(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 14, info.SinglePolicy.Percentage)
	assert.Equal(t, 20, info.MultiplePolicy.Percentage)
	require.Len(t, info.Companies, 2)
	assert.Equal(t, "acko-motor", info.Companies[0].ID)
	assert.Equal(t, "icici-lombard", info.Companies[1].ID)
	for _, c := range info.Companies {
		assert.False(t, c.IsActive)
		assert.Empty(t, c.Link)
		assert.NotEmpty(t, c.Description)
	}
}

func TestCommissionInfo_SignedInViewerGetsLinks(t *testing.T) {
	env := newTestEnv(t)
	viewer := &model.User{ID: "u1", Phone: testPhone}

	info, err := env.catalog.CommissionInfo(context.Background(), viewer)
	require.NoError(t, err)

	code := ReferralCode(testPhone)
	require.Len(t, code, 12)

	acko := info.Companies[0]
	assert.True(t, acko.IsActive)
	assert.True(t, strings.HasPrefix(acko.Link, "https://www.acko.com/"))
	assert.Contains(t, acko.Link, "utm_campaign=listing")
	assert.Contains(t, acko.Link, "ref="+code)

	icici := info.Companies[1]
	assert.Contains(t, icici.Link, "ref="+strings.ToUpper(code))
}

func TestReferralLink(t *testing.T) {
	env := newTestEnv(t)
	user := &model.User{ID: "u1", Phone: testPhone}

	link, err := env.catalog.ReferralLink(context.Background(), "acko-motor", user, "Multiple Policy")
	require.NoError(t, err)
	assert.Contains(t, link, "utm_campaign=multiple-policy")

	_, err = env.catalog.ReferralLink(context.Background(), "nope", user, "")
	assert.True(t, errors.Is(err, apperrors.ErrPartnerNotFound))
}

func TestCatalog_BrokenTemplateDoesNotHideOthers(t *testing.T) {
	partners := memory.NewPartnerRepository(
		model.Partner{ID: "bad", Name: "Bad", LinkTemplate: "{{ .Nope }}", IsActive: true, SortOrder: 1},
		model.Partner{ID: "plain", Name: "Plain", IsActive: true, SortOrder: 2},
		model.Partner{ID: "off", Name: "Off", LinkTemplate: "https://off.example", IsActive: false, SortOrder: 3},
	)
	catalog := NewCatalogService(partners)

	info, err := catalog.CommissionInfo(context.Background(), &model.User{ID: "u1", Phone: testPhone})
	require.NoError(t, err)
	require.Len(t, info.Companies, 3)

	assert.Empty(t, info.Companies[0].Link)
	assert.True(t, info.Companies[1].IsActive)
	assert.Empty(t, info.Companies[1].Link)
	assert.False(t, info.Companies[2].IsActive)
	assert.Empty(t, info.Companies[2].Link)

	_, err = catalog.ReferralLink(context.Background(), "off", &model.User{Phone: testPhone}, "")
	assert.True(t, errors.Is(err, apperrors.ErrPartnerNotFound))
}

func TestCatalog_TemplateCacheFollowsEdits(t *testing.T) {
	partners := memory.NewPartnerRepository(model.Partner{ID: "p", Name: "P", LinkTemplate: "https://a.example/{{ .PartnerID }}", IsActive: true})
	catalog := NewCatalogService(partners)
	user := &model.User{Phone: testPhone}
	ctx := context.Background()

	first, err := catalog.ReferralLink(ctx, "p", user, "")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example/p", first)

	require.NoError(t, partners.Upsert(ctx, &model.Partner{ID: "p", Name: "P", LinkTemplate: "https://b.example/{{ .PartnerID }}", IsActive: true}))
	second, err := catalog.ReferralLink(ctx, "p", user, "")
	require.NoError(t, err)
	assert.Equal(t, "https://b.example/p", second)
}
