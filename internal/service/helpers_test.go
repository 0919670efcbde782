package service

import (
	"context"
	"testing"
	"time"

	"github.com/Payphone-Digital/referral/internal/audit/audittest"
	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository"
	"github.com/Payphone-Digital/referral/internal/repository/memory"
	"github.com/Payphone-Digital/referral/pkg/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret"
	testPhone    = "9876543210"
	testPassword = "secret123"
)

type testEnv struct {
	repos       *repository.Repositories
	audit       *audittest.Recorder
	sink        *audittest.Recorder
	tokens      *JWTService
	ledger      *LedgerService
	identity    *IdentityService
	gate        *Gate
	catalog     *CatalogService
	referrals   *ReferralService
	submissions *SubmissionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		repos: memory.NewRepositories(database.DefaultPartners()),
		audit: &audittest.Recorder{},
		sink:  &audittest.Recorder{},
	}
	env.tokens = NewJWTService(testSecret, time.Hour, NewMemoryRevocationStore())
	env.ledger = NewLedgerService(env.repos.User, env.repos.Ledger, env.audit)
	env.identity = NewIdentityService(env.repos.User, env.ledger, env.tokens, env.audit, bcrypt.MinCost)
	env.gate = NewGate(env.identity)
	env.catalog = NewCatalogService(env.repos.Partner)
	env.referrals = NewReferralService(env.identity, env.ledger, env.catalog)
	env.submissions = NewSubmissionService(env.repos.Submission, env.sink, time.Second)
	return env
}

// registerAndLogin creates the default test user and returns its token.
func (e *testEnv) registerAndLogin(t *testing.T) *LoginResult {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.identity.Register(ctx, RegisterInput{Phone: testPhone, Password: testPassword, Name: "Asha"}))
	res, err := e.identity.Login(ctx, testPhone, testPassword)
	require.NoError(t, err)
	return res
}

// brokenLedger fails every write so callers' error paths can be exercised.
type brokenLedger struct {
	repository.LedgerRepository
	err error
}

func (b brokenLedger) GetOrCreate(context.Context, string, time.Time) (*model.CommissionRecord, error) {
	return nil, b.err
}
