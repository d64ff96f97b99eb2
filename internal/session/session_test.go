package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HikeSafe-Project/mobile/internal/aggregate"
	"github.com/HikeSafe-Project/mobile/internal/booking"
	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/forms"
	"github.com/HikeSafe-Project/mobile/internal/model"
	"github.com/HikeSafe-Project/mobile/internal/testutil"
)

type memTokens struct {
	token string
}

func (m *memTokens) Get(context.Context) (string, error) {
	if m.token == "" {
		return "", common.ErrNoToken
	}
	return m.token, nil
}

func (m *memTokens) Set(_ context.Context, token string) error {
	m.token = token
	return nil
}

func (m *memTokens) Clear(context.Context) error {
	m.token = ""
	return nil
}

type fakeAPI struct {
	meErr      error
	listErr    error
	loginErr   error
	profile    model.Profile
	list       []model.Transaction
	loginCalls int
	created    *booking.Request
}

func (f *fakeAPI) Login(context.Context, forms.LoginForm) (string, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "token-123", nil
}

func (f *fakeAPI) Register(context.Context, forms.RegisterForm) error { return nil }

func (f *fakeAPI) Me(context.Context) (model.Profile, error) { return f.profile, f.meErr }

func (f *fakeAPI) ChangePassword(context.Context, forms.ChangePasswordForm) error { return nil }

func (f *fakeAPI) UpdateProfile(context.Context, forms.ProfileForm) error { return nil }

func (f *fakeAPI) ListTransactions(context.Context) ([]model.Transaction, error) {
	return f.list, f.listErr
}

func (f *fakeAPI) GetTransaction(context.Context, string) (model.Transaction, error) {
	return model.Transaction{}, common.ErrNotFound
}

func (f *fakeAPI) CreateTransaction(_ context.Context, req booking.Request) (string, error) {
	f.created = &req
	return "trx-new", nil
}

func (f *fakeAPI) CreatePaymentLink(context.Context, string) (string, error) { return "", nil }

func TestSession_LoginStoresToken(t *testing.T) {
	tokens := &memTokens{}
	api := &fakeAPI{}
	s := New(tokens, api, nil)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, forms.LoginForm{Email: "budi@example.com", Password: "secret"}))
	assert.Equal(t, "token-123", tokens.token)

	ok, err := s.Authenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Logout(ctx))
	ok, err = s.Authenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_TokenSurvivesInDatabase(t *testing.T) {
	tokens := testutil.SetupTokenStore(t)
	ctx := context.Background()

	first := New(tokens, &fakeAPI{}, nil)
	require.NoError(t, first.Login(ctx, forms.LoginForm{Email: "budi@example.com", Password: "secret"}))

	second := New(tokens, &fakeAPI{}, nil)
	ok, err := second.Authenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, second.Logout(ctx))
	_, err = tokens.Get(ctx)
	assert.ErrorIs(t, err, common.ErrNoToken)
}

func TestSession_LoginValidatesBeforeCalling(t *testing.T) {
	api := &fakeAPI{}
	s := New(&memTokens{}, api, nil)

	err := s.Login(context.Background(), forms.LoginForm{Email: "not-an-email"})
	assert.Equal(t, common.KindValidation, common.Classify(err))
	assert.Equal(t, 0, api.loginCalls)
}

func TestSession_LoginRejectedStoresNothing(t *testing.T) {
	tokens := &memTokens{}
	s := New(tokens, &fakeAPI{loginErr: &common.AuthError{Message: "Invalid email or password!"}}, nil)

	err := s.Login(context.Background(), forms.LoginForm{Email: "budi@example.com", Password: "bad"})
	assert.Equal(t, common.KindAuth, common.Classify(err))
	assert.Empty(t, tokens.token)
}

func TestSession_LoadDashboard(t *testing.T) {
	done := model.Transaction{
		ID:        "a",
		Status:    model.StatusDone,
		StartDate: model.MustParseDate("2023-01-01"),
		EndDate:   model.MustParseDate("2023-01-02"),
	}

	t.Run("both succeed", func(t *testing.T) {
		api := &fakeAPI{profile: model.Profile{FullName: "Budi"}, list: []model.Transaction{done}}
		dash, err := New(&memTokens{token: "x"}, api, nil).LoadDashboard(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Budi", dash.Profile.FullName)
		assert.Equal(t, model.Statistics{TotalHikes: 1, TotalDays: 1, TotalHours: 24}, dash.Statistics)
		assert.NoError(t, dash.StatsErr)
	})

	t.Run("statistics failure is silent", func(t *testing.T) {
		api := &fakeAPI{profile: model.Profile{FullName: "Budi"}, listErr: common.ErrNetwork}
		dash, err := New(&memTokens{token: "x"}, api, nil).LoadDashboard(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Budi", dash.Profile.FullName)
		assert.Equal(t, model.Statistics{}, dash.Statistics)
		assert.True(t, errors.Is(dash.StatsErr, common.ErrNetwork))
	})

	t.Run("profile failure is returned", func(t *testing.T) {
		api := &fakeAPI{meErr: &common.HTTPError{Status: 500}, list: []model.Transaction{done}}
		_, err := New(&memTokens{token: "x"}, api, nil).LoadDashboard(context.Background())
		assert.Equal(t, common.KindHTTP, common.Classify(err))
	})
}

func TestSession_Book(t *testing.T) {
	api := &fakeAPI{}
	s := New(&memTokens{token: "x"}, api, nil)

	_, err := s.Book(context.Background(), booking.NewDraft())
	assert.Equal(t, common.KindValidation, common.Classify(err))
	assert.Nil(t, api.created)

	draft := booking.NewDraft()
	draft.StartDate = model.MustParseDate("2025-01-15")
	draft.EndDate = model.MustParseDate("2025-01-15")
	h := draft.AddHiker()
	for field, value := range map[string]string{
		booking.FieldName:                 "Budi",
		booking.FieldAddress:              "Jl. Merdeka 1",
		booking.FieldPhoneNumber:          "0812",
		booking.FieldIdentificationType:   "NIK",
		booking.FieldIdentificationNumber: "3174",
	} {
		require.NoError(t, draft.UpdateHiker(h.ID, field, value))
	}

	id, err := s.Book(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "trx-new", id)
	require.NotNil(t, api.created)
	assert.Equal(t, model.TicketLocal, api.created.Tickets[0].TicketType)
}

func TestSession_Transactions(t *testing.T) {
	older := model.Transaction{ID: "a", Status: model.StatusDone, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := model.Transaction{ID: "b", Status: model.StatusDone, CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	unpaid := model.Transaction{ID: "c", Status: model.StatusUnpaid, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	api := &fakeAPI{list: []model.Transaction{older, unpaid, newer}}
	s := New(&memTokens{token: "x"}, api, nil)

	got, err := s.Transactions(context.Background(), aggregate.Query{Status: model.StatusDone})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)

	api.listErr = &common.NetworkError{Err: errors.New("offline")}
	_, err = s.Transactions(context.Background(), aggregate.Query{})
	assert.Equal(t, common.KindNetwork, common.Classify(err))
}
