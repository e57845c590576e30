package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/loanflow/internal/domain"
	"github.com/bnema/loanflow/internal/ports"
)

const maxResponseBytes = 1 << 20

// Client looks applicants up over HTTP at GET {BaseURL}/applicants/{id}.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	// Credentials and TokenRef are optional. When both are set the stored
	// token is sent as a bearer token.
	Credentials ports.CredentialStore
	TokenRef    string
}

var _ ports.ApplicantDirectory = Client{}

type applicantResponse struct {
	CustomerID     string `json:"customer_id"`
	IdentityNumber string `json:"identity_number"`
	Name           string `json:"name"`
	EmploymentType string `json:"employment_type"`
	MonthlyIncome  int64  `json:"monthly_income"`
	CreditScore    int    `json:"credit_score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c Client) FindByIdentity(ctx context.Context, id domain.IdentityNumber) (domain.ApplicantRecord, error) {
	endpoint, err := buildURL(c.BaseURL, "applicants/"+url.PathEscape(string(id)))
	if err != nil {
		return domain.ApplicantRecord{}, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ApplicantRecord{}, fmt.Errorf("create applicant request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	token, err := c.token(ctx)
	if err != nil {
		return domain.ApplicantRecord{}, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.ApplicantRecord{}, fmt.Errorf("request applicant: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ApplicantRecord{}, fmt.Errorf("applicant %s: %w", id, domain.ErrApplicantNotFound)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.ApplicantRecord{}, fmt.Errorf("request applicant: %s", decodeError(resp))
	}

	var payload applicantResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return domain.ApplicantRecord{}, fmt.Errorf("decode applicant response: %w", err)
	}

	return payload.toRecord(id)
}

func (c Client) token(ctx context.Context) (string, error) {
	if c.Credentials == nil || strings.TrimSpace(c.TokenRef) == "" {
		return "", nil
	}

	token, err := c.Credentials.Get(ctx, c.TokenRef)
	if err != nil {
		return "", fmt.Errorf("load directory token: %w", err)
	}

	return strings.TrimSpace(token), nil
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func (p applicantResponse) toRecord(requested domain.IdentityNumber) (domain.ApplicantRecord, error) {
	identity, err := domain.NormalizeIdentityNumber(p.IdentityNumber)
	if err != nil {
		return domain.ApplicantRecord{}, fmt.Errorf("decode applicant response: %w", err)
	}
	if identity != requested {
		return domain.ApplicantRecord{}, fmt.Errorf("decode applicant response: asked for %s, got %s", requested, identity)
	}

	employment := domain.EmploymentType(strings.ToUpper(p.EmploymentType))
	if !employment.Valid() {
		return domain.ApplicantRecord{}, fmt.Errorf("decode applicant response: unknown employment type %q", p.EmploymentType)
	}

	return domain.ApplicantRecord{
		CustomerID:     p.CustomerID,
		IdentityNumber: identity,
		Name:           p.Name,
		EmploymentType: employment,
		MonthlyIncome:  p.MonthlyIncome,
		CreditScore:    p.CreditScore,
	}, nil
}

func decodeError(resp *http.Response) string {
	var payload errorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil || payload.Error == "" {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, payload.Error)
}

func buildURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("directory base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse directory base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("directory base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("directory base url host is required")
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse directory path: %w", err)
	}

	return endpoint.String(), nil
}
