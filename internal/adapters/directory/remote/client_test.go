package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/loanflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCredentials map[string]string

func (s staticCredentials) Get(_ context.Context, key string) (string, error) {
	value, ok := s[key]
	if !ok {
		return "", errors.New("not found")
	}
	return value, nil
}

func (s staticCredentials) Put(context.Context, string, string) error { return nil }

func (s staticCredentials) Delete(context.Context, string) error { return nil }

func TestClientFindByIdentity(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/applicants/FGHIJ5678K", r.URL.Path)
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"customer_id":"CUST002","identity_number":"FGHIJ5678K","name":"Priya Sharma","employment_type":"SALARIED","monthly_income":95000,"credit_score":742}`))
	}))
	t.Cleanup(server.Close)

	client := Client{
		BaseURL:     server.URL + "/v1",
		Credentials: staticCredentials{"directory/token": "s3cret\n"},
		TokenRef:    "directory/token",
	}

	record, err := client.FindByIdentity(context.Background(), "FGHIJ5678K")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicantRecord{
		CustomerID:     "CUST002",
		IdentityNumber: "FGHIJ5678K",
		Name:           "Priya Sharma",
		EmploymentType: domain.EmploymentSalaried,
		MonthlyIncome:  95000,
		CreditScore:    742,
	}, record)
}

func TestClientNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	_, err := Client{BaseURL: server.URL}.FindByIdentity(context.Background(), "ZZZZZ9999Z")
	require.ErrorIs(t, err, domain.ErrApplicantNotFound)
}

func TestClientServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream down"}`))
	}))
	t.Cleanup(server.Close)

	_, err := Client{BaseURL: server.URL}.FindByIdentity(context.Background(), "FGHIJ5678K")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrApplicantNotFound)
	assert.ErrorContains(t, err, "status 502: upstream down")
}

func TestClientRejectsMismatchedRecord(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"identity_number":"ABCDE1234F","name":"Rajesh Kumar","employment_type":"SALARIED"}`))
	}))
	t.Cleanup(server.Close)

	_, err := Client{BaseURL: server.URL}.FindByIdentity(context.Background(), "FGHIJ5678K")
	require.ErrorContains(t, err, "asked for FGHIJ5678K")
}

func TestClientRespectsTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client := Client{BaseURL: server.URL, RequestTimeout: 20 * time.Millisecond}
	_, err := client.FindByIdentity(context.Background(), "FGHIJ5678K")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBuildURLValidatesBase(t *testing.T) {
	t.Parallel()

	_, err := buildURL("", "applicants/X")
	require.Error(t, err)
	_, err = buildURL("ftp://example.com", "applicants/X")
	require.Error(t, err)

	endpoint, err := buildURL("https://crm.example.com/api", "applicants/X")
	require.NoError(t, err)
	assert.Equal(t, "https://crm.example.com/api/applicants/X", endpoint)
}
