package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/loanflow/internal/adapters/extract"
	"github.com/bnema/loanflow/internal/domain"
	"github.com/bnema/loanflow/internal/ports"
)

const (
	DefaultMaxAttempts   = 3
	DefaultLookupTimeout = 5 * time.Second
)

type OrchestratorConfig struct {
	// MaxAttempts is the number of failed extractions allowed per stage
	// before the session fails.
	MaxAttempts int
	// LookupTimeout bounds a single directory lookup. Zero disables it.
	LookupTimeout time.Duration
	Policy        domain.RatePolicy
	Logger        *slog.Logger
	NewID         func() domain.SessionID
}

// Orchestrator is the only writer of sessions. Every message for a session
// runs under that session's lock, and every transition is appended to the
// audit log before the stored session is replaced.
type Orchestrator struct {
	store     ports.SessionStore
	directory ports.ApplicantDirectory
	audit     ports.AuditLog
	issuer    ports.DocumentIssuer
	clock     ports.Clock

	maxAttempts   int
	lookupTimeout time.Duration
	policy        domain.RatePolicy
	logger        *slog.Logger
	newID         func() domain.SessionID

	locks *sessionLocks
}

func NewOrchestrator(
	store ports.SessionStore,
	directory ports.ApplicantDirectory,
	audit ports.AuditLog,
	issuer ports.DocumentIssuer,
	clock ports.Clock,
	cfg OrchestratorConfig,
) *Orchestrator {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.LookupTimeout < 0 {
		cfg.LookupTimeout = 0
	}
	if len(cfg.Policy.Steps) == 0 {
		cfg.Policy = domain.DefaultRatePolicy
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.NewID == nil {
		cfg.NewID = func() domain.SessionID {
			return domain.SessionID(uuid.NewString())
		}
	}

	return &Orchestrator{
		store:         store,
		directory:     directory,
		audit:         audit,
		issuer:        issuer,
		clock:         clock,
		maxAttempts:   cfg.MaxAttempts,
		lookupTimeout: cfg.LookupTimeout,
		policy:        cfg.Policy,
		logger:        cfg.Logger,
		newID:         cfg.NewID,
		locks:         newSessionLocks(),
	}
}

func (o *Orchestrator) CreateSession(ctx context.Context) (Reply, error) {
	now := o.clock.Now()
	session := domain.NewSession(o.newID(), now)

	record, err := session.Created(now)
	if err != nil {
		return Reply{}, err
	}
	if err := o.append(ctx, record); err != nil {
		return Reply{}, err
	}
	if err := o.store.Insert(context.WithoutCancel(ctx), session); err != nil {
		return Reply{}, fmt.Errorf("insert session: %w", err)
	}

	o.logger.Info("session created", "session_id", session.ID)
	return replyFor(session, openingPrompt), nil
}

// HandleMessage routes text to the handler of the session's current stage.
// Extraction failures and business rejections are replies, not errors.
func (o *Orchestrator) HandleMessage(ctx context.Context, id domain.SessionID, text string) (Reply, error) {
	// Unknown ids never get a lock.
	if _, err := o.store.Get(ctx, id); err != nil {
		return Reply{}, err
	}

	release, err := o.locks.acquire(ctx, id)
	if err != nil {
		return Reply{}, fmt.Errorf("wait for session %s: %w", id, err)
	}
	defer release()

	session, err := o.store.Get(ctx, id)
	if err != nil {
		return Reply{}, err
	}
	if session.Terminal() {
		return Reply{}, fmt.Errorf("session %s is %s: %w", id, session.Stage, domain.ErrTerminalSession)
	}

	switch session.Stage {
	case domain.StageIntake:
		return o.handleIntake(ctx, session, text)
	case domain.StageVerification:
		return o.handleVerification(ctx, session, text)
	case domain.StageUnderwriting:
		return o.resumeUnderwriting(ctx, session)
	default:
		return Reply{}, fmt.Errorf("%w: unknown stage %q", domain.ErrInvalidTransition, session.Stage)
	}
}

func (o *Orchestrator) handleIntake(ctx context.Context, session domain.Session, text string) (Reply, error) {
	request, err := extract.LoanIntent(text)
	if err != nil {
		var failure *extract.Failure
		if errors.As(err, &failure) {
			return o.extractionFailed(ctx, session, failure)
		}
		return Reply{}, fmt.Errorf("extract loan request: %w", err)
	}

	band, err := domain.ProposeRateBand(request.Principal, request.TenureMonths)
	if err != nil {
		return Reply{}, fmt.Errorf("propose rate band: %w", err)
	}
	lowEMI, err := domain.ComputeEMI(request.Principal, band.Min, request.TenureMonths)
	if err != nil {
		return Reply{}, fmt.Errorf("compute emi: %w", err)
	}
	highEMI, err := domain.ComputeEMI(request.Principal, band.Max, request.TenureMonths)
	if err != nil {
		return Reply{}, fmt.Errorf("compute emi: %w", err)
	}

	if err := session.SetLoanRequest(request); err != nil {
		return Reply{}, err
	}

	payload := map[string]any{
		"principal":     request.Principal,
		"tenure_months": request.TenureMonths,
		"rate_band_min": band.Min,
		"rate_band_max": band.Max,
		"emi_min":       domain.RoundCurrency(lowEMI),
		"emi_max":       domain.RoundCurrency(highEMI),
	}
	if err := o.commit(ctx, &session, domain.EventLoanRequestCaptured, domain.StageVerification, payload); err != nil {
		return Reply{}, err
	}

	return replyFor(session, verificationPrompt(request, band, lowEMI, highEMI)), nil
}

func (o *Orchestrator) handleVerification(ctx context.Context, session domain.Session, text string) (Reply, error) {
	applicant, err := extract.Identity(text)
	if err != nil {
		var failure *extract.Failure
		if errors.As(err, &failure) {
			return o.extractionFailed(ctx, session, failure)
		}
		return Reply{}, fmt.Errorf("extract applicant: %w", err)
	}

	record, err := o.lookup(ctx, applicant.IdentityNumber)
	switch {
	case errors.Is(err, domain.ErrApplicantNotFound):
		return o.rejectIdentity(ctx, session, applicant, domain.ReasonApplicantUnknown)
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Reply{}, fmt.Errorf("look up applicant: %w", ctxErr)
		}
		return o.directoryUnavailable(ctx, session, err)
	case !record.Matches(applicant):
		return o.rejectIdentity(ctx, session, applicant, domain.ReasonIdentityMismatch)
	}

	if err := session.SetApplicant(applicant); err != nil {
		return Reply{}, err
	}

	payload := map[string]any{
		"name":            applicant.Name,
		"identity_number": string(applicant.IdentityNumber),
		"employment_type": string(applicant.EmploymentType),
		"customer_id":     record.CustomerID,
	}
	if err := o.commit(ctx, &session, domain.EventIdentityVerified, domain.StageUnderwriting, payload); err != nil {
		return Reply{}, err
	}

	return o.decide(ctx, session, record)
}

// resumeUnderwriting finishes a session whose decision was not recorded,
// e.g. after a failed audit write. The message text is ignored.
func (o *Orchestrator) resumeUnderwriting(ctx context.Context, session domain.Session) (Reply, error) {
	if session.Applicant == nil || session.LoanRequest == nil {
		return Reply{}, fmt.Errorf("%w: session %s reached %s without applicant or loan request", domain.ErrInvalidTransition, session.ID, session.Stage)
	}

	record, err := o.lookup(ctx, session.Applicant.IdentityNumber)
	switch {
	case errors.Is(err, domain.ErrApplicantNotFound):
		return o.recordDecision(ctx, session, domain.Decision{Reason: domain.ReasonApplicantUnknown}, nil)
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Reply{}, fmt.Errorf("look up applicant: %w", ctxErr)
		}
		return o.directoryUnavailable(ctx, session, err)
	case !record.Matches(*session.Applicant):
		return o.recordDecision(ctx, session, domain.Decision{Reason: domain.ReasonIdentityMismatch}, nil)
	}

	return o.decide(ctx, session, record)
}

func (o *Orchestrator) decide(ctx context.Context, session domain.Session, record domain.ApplicantRecord) (Reply, error) {
	decision := o.policy.Decide(record, *session.LoanRequest)
	if !decision.Approved {
		return o.recordDecision(ctx, session, decision, nil)
	}

	// The issuer is idempotent per session, so a letter issued before a
	// failed commit is issued again unchanged on resume.
	draft := session.Clone()
	draft.Decision = &decision
	handle, err := o.issuer.Issue(ctx, draft)
	if err != nil {
		return Reply{}, fmt.Errorf("issue sanction letter: %w", err)
	}

	return o.recordDecision(ctx, session, decision, &handle)
}

func (o *Orchestrator) recordDecision(ctx context.Context, session domain.Session, decision domain.Decision, handle *domain.DocumentHandle) (Reply, error) {
	if err := session.SetDecision(decision, handle); err != nil {
		return Reply{}, err
	}

	next := domain.StageFailed
	if decision.Approved {
		next = domain.StageCompleted
	}
	if err := o.commit(ctx, &session, domain.EventDecisionRecorded, next, decisionPayload(decision, handle)); err != nil {
		return Reply{}, err
	}

	prompt := decisionPrompt(*session.Applicant, *session.LoanRequest, decision, handle, o.policy.MinCreditScore)
	return replyFor(session, prompt), nil
}

func (o *Orchestrator) rejectIdentity(ctx context.Context, session domain.Session, applicant domain.Applicant, reason domain.RejectionReason) (Reply, error) {
	if err := session.SetApplicant(applicant); err != nil {
		return Reply{}, err
	}
	if err := session.SetDecision(domain.Decision{Reason: reason}, nil); err != nil {
		return Reply{}, err
	}

	payload := map[string]any{
		"reason":          string(reason),
		"identity_number": string(applicant.IdentityNumber),
	}
	if err := o.commit(ctx, &session, domain.EventIdentityRejected, domain.StageFailed, payload); err != nil {
		return Reply{}, err
	}

	return replyFor(session, identityRejectedPrompt(reason)), nil
}

func (o *Orchestrator) extractionFailed(ctx context.Context, session domain.Session, failure *extract.Failure) (Reply, error) {
	stage := session.Stage
	attempt := session.Attempts + 1
	session.Attempts = attempt

	next := stage
	if attempt >= o.maxAttempts {
		next = domain.StageFailed
	}

	payload := map[string]any{
		"stage":     string(stage),
		"reason":    failure.Error(),
		"missing":   nonNil(failure.Missing),
		"malformed": nonNil(failure.Malformed),
		"attempt":   attempt,
	}
	if err := o.commit(ctx, &session, domain.EventExtractionFailed, next, payload); err != nil {
		return Reply{}, err
	}

	if next == domain.StageFailed {
		return replyFor(session, retriesExhaustedPrompt(o.maxAttempts)), nil
	}
	return replyFor(session, retryPrompt(stage, failure, o.maxAttempts-attempt)), nil
}

// directoryUnavailable records a failed lookup. The stage is unchanged and
// no attempt is consumed.
func (o *Orchestrator) directoryUnavailable(ctx context.Context, session domain.Session, cause error) (Reply, error) {
	o.logger.Warn("applicant directory unavailable", "session_id", session.ID, "error", cause)

	payload := map[string]any{
		"stage": string(session.Stage),
		"error": cause.Error(),
	}
	if err := o.commit(ctx, &session, domain.EventDirectoryUnavailable, session.Stage, payload); err != nil {
		return Reply{}, err
	}

	return replyFor(session, directoryUnavailablePrompt()), nil
}

func (o *Orchestrator) lookup(ctx context.Context, id domain.IdentityNumber) (domain.ApplicantRecord, error) {
	if o.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.lookupTimeout)
		defer cancel()
	}

	return o.directory.FindByIdentity(ctx, id)
}

// commit applies the transition to session, appends its record and only then
// replaces the stored session. Once started it ignores cancellation of ctx.
func (o *Orchestrator) commit(ctx context.Context, session *domain.Session, event domain.EventType, next domain.Stage, payload map[string]any) error {
	before := session.Stage
	record, err := session.Transition(event, next, payload, o.clock.Now())
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	if err := o.append(ctx, record); err != nil {
		return err
	}
	if err := o.store.Replace(ctx, *session); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}

	o.logger.Info("session transition",
		"session_id", session.ID,
		"event", event,
		"stage_before", before,
		"stage_after", next,
		"sequence", record.Sequence,
	)
	return nil
}

func (o *Orchestrator) append(ctx context.Context, record domain.AuditRecord) error {
	if err := o.audit.Append(context.WithoutCancel(ctx), record); err != nil {
		o.logger.Error("audit append failed",
			"session_id", record.SessionID,
			"event", record.Event,
			"sequence", record.Sequence,
			"error", err,
		)
		return fmt.Errorf("%w: append %s: %w", domain.ErrAuditWrite, record.Event, err)
	}

	return nil
}

func (o *Orchestrator) GetSession(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	return o.store.Get(ctx, id)
}

// AuditTrail reads the durable trail, so it outlives eviction.
func (o *Orchestrator) AuditTrail(ctx context.Context, id domain.SessionID) ([]domain.AuditRecord, error) {
	records, err := o.audit.Trail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read audit trail: %w", err)
	}

	return records, nil
}

func (o *Orchestrator) Document(ctx context.Context, id domain.SessionID) (domain.Document, error) {
	document, err := o.issuer.Fetch(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("fetch sanction letter: %w", err)
	}

	return document, nil
}

func (o *Orchestrator) Health(ctx context.Context) (Health, error) {
	sessions, err := o.store.List(ctx)
	if err != nil {
		return Health{}, fmt.Errorf("list sessions: %w", err)
	}

	health := Health{TotalSessions: len(sessions)}
	for _, session := range sessions {
		if !session.Terminal() {
			health.ActiveSessions++
		}
	}

	return health, nil
}

// EvictTerminal removes terminal sessions whose last update is older than
// maxAge. Each removal holds the session's lock.
func (o *Orchestrator) EvictTerminal(ctx context.Context, maxAge time.Duration) (int, error) {
	sessions, err := o.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	cutoff := o.clock.Now().Add(-maxAge)
	evicted := 0
	for _, candidate := range sessions {
		if !candidate.Terminal() || !candidate.UpdatedAt.Before(cutoff) {
			continue
		}

		removed, err := o.evict(ctx, candidate.ID, cutoff)
		if err != nil {
			return evicted, err
		}
		if removed {
			evicted++
		}
	}

	if evicted > 0 {
		o.logger.Info("evicted terminal sessions", "count", evicted)
	}
	return evicted, nil
}

func (o *Orchestrator) evict(ctx context.Context, id domain.SessionID, cutoff time.Time) (bool, error) {
	release, err := o.locks.acquire(ctx, id)
	if err != nil {
		return false, fmt.Errorf("wait for session %s: %w", id, err)
	}
	defer release()

	session, err := o.store.Get(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		o.locks.forget(id)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !session.Terminal() || !session.UpdatedAt.Before(cutoff) {
		return false, nil
	}

	if err := o.store.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("delete session %s: %w", id, err)
	}
	o.locks.forget(id)

	return true, nil
}

func decisionPayload(decision domain.Decision, handle *domain.DocumentHandle) map[string]any {
	payload := map[string]any{
		"approved":     decision.Approved,
		"credit_score": decision.CreditScore,
		"risk_grade":   decision.RiskGrade,
	}
	if decision.Reason != "" {
		payload["reason"] = string(decision.Reason)
	}
	if decision.EMI > 0 {
		payload["emi"] = decision.EMI
	}
	if decision.Approved {
		payload["rate"] = decision.Rate
		payload["base_rate"] = decision.Components.Base
		payload["tenure_adjustment"] = decision.Components.TenureAdjustment
		payload["total_interest"] = decision.TotalInterest
	}
	if handle != nil {
		payload["sanction_id"] = handle.SanctionID
		payload["document_path"] = handle.Path
	}

	return payload
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}
