package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Payphone-Digital/referral/internal/audit/audittest"
	"github.com/Payphone-Digital/referral/internal/constants"
	"github.com/Payphone-Digital/referral/internal/dto"
	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/Payphone-Digital/referral/internal/model"
	"github.com/Payphone-Digital/referral/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitQuote(t *testing.T) {
	env := newTestEnv(t)
	env.submissions.now = func() time.Time { return time.Date(2024, 5, 1, 4, 30, 0, 0, time.UTC) }

	id, err := env.submissions.SubmitQuote(context.Background(), &dto.QuoteRequest{
		Name: "Ravi", Email: "ravi@example.com", Phone: "9000000000", InsuranceType: "car", Coverage: "comprehensive",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	rows := env.sink.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, constants.SheetQuotes, rows[0].Sheet)
	assert.Equal(t, []string{"01/05/2024, 10:00:00", "Ravi", "ravi@example.com", "9000000000", "car", "comprehensive"}, rows[0].Columns)

	stored := env.repos.Submission.(*memory.SubmissionRepository).All()
	require.Len(t, stored, 1)
	assert.Equal(t, model.SubmissionQuote, stored[0].Kind)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(stored[0].Payload, &payload))
	assert.Equal(t, "comprehensive", payload["coverage"])
}

func TestSubmitApplicationAndConsultation_ColumnCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.submissions.SubmitApplication(ctx, &dto.ApplicationRequest{
		Name: "A", Email: "a@example.com", Phone: "9000000001", InsuranceType: "health", Gender: "F",
	})
	require.NoError(t, err)
	_, err = env.submissions.SubmitConsultation(ctx, &dto.ConsultationRequest{
		Name: "B", Email: "b@example.com", Phone: "9000000002", ConsultationType: "call", Budget: "5000",
	})
	require.NoError(t, err)

	rows := env.sink.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, constants.SheetApplications, rows[0].Sheet)
	assert.Len(t, rows[0].Columns, 10)
	assert.Equal(t, "F", rows[0].Columns[5])
	assert.Equal(t, constants.SheetConsultations, rows[1].Sheet)
	assert.Len(t, rows[1].Columns, 10)
	assert.Equal(t, "5000", rows[1].Columns[8])
}

func TestSubmit_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, quoteErr := env.submissions.SubmitQuote(ctx, &dto.QuoteRequest{Name: "A", Phone: "1"})
	_, appErr := env.submissions.SubmitApplication(ctx, &dto.ApplicationRequest{Name: "A", Phone: "1", InsuranceType: "x"})
	_, consErr := env.submissions.SubmitConsultation(ctx, &dto.ConsultationRequest{Name: "A", Email: "e", Phone: "1"})

	for _, err := range []error{quoteErr, appErr, consErr} {
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		assert.Equal(t, constants.MsgRequiredFieldsMissing, apperrors.GetErrorMessage(err))
	}
	assert.Empty(t, env.sink.Rows())
}

func TestSubmit_SinkFailure(t *testing.T) {
	env := newTestEnv(t)
	env.sink.Err = errors.New("quota exceeded")

	_, err := env.submissions.SubmitQuote(context.Background(), &dto.QuoteRequest{
		Name: "A", Phone: "1", InsuranceType: "car", Coverage: "basic",
	})

	assert.True(t, errors.Is(err, apperrors.ErrExternalSinkFailure))
	assert.Equal(t, 500, apperrors.ToHTTPStatus(err))
}

func TestInitSheets(t *testing.T) {
	admin := &audittest.Admin{}
	svc := NewSubmissionService(memory.NewSubmissionRepository(), admin, time.Second)

	managed, err := svc.InitSheets(context.Background())
	require.NoError(t, err)
	assert.True(t, managed)
	assert.Equal(t, constants.SheetOrder, admin.Ensured)

	plain := NewSubmissionService(memory.NewSubmissionRepository(), &audittest.Recorder{}, time.Second)
	managed, err = plain.InitSheets(context.Background())
	require.NoError(t, err)
	assert.False(t, managed)
}
