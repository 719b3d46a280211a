package service

import (
	"context"
	"fmt"
	"time"

	"github.com/opsalert/dispatch-console/environments"
	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/pkg/logger"
)

// Small internal interfaces so we can test without touching real DB/webhook.
type dispatchLogRepository interface {
	Create(ctx context.Context, rec domain.NewDispatchRecord) (*domain.DispatchRecord, error)
	UpdateStatus(ctx context.Context, id string, status domain.DispatchStatus, protocol *string) error
	GetByIDForTenant(ctx context.Context, id, tenantID string) (*domain.DispatchRecord, error)
	ListByTenant(ctx context.Context, tenantID string, status *domain.DispatchStatus, page, pageSize int) ([]domain.DispatchRecord, int64, error)
	GetStats(ctx context.Context, tenantID string) (*domain.DispatchStats, error)
}

type webhookClient interface {
	Dispatch(ctx context.Context, payload any) (*domain.WebhookResult, error)
}

type identityResolver interface {
	Resolve(ctx context.Context, p domain.Principal) (domain.Identity, error)
	ResolveTenant(ctx context.Context, p domain.Principal) (string, error)
}

const reconcileTimeout = 5 * time.Second

type DispatchService struct {
	resolver      identityResolver
	repo          dispatchLogRepository
	webhookClient webhookClient
	config        environments.DispatchConfig
	now           func() time.Time
}

func NewDispatchService(
	resolver identityResolver,
	repo dispatchLogRepository,
	webhookClient webhookClient,
	config environments.DispatchConfig,
) *DispatchService {
	return &DispatchService{
		resolver:      resolver,
		repo:          repo,
		webhookClient: webhookClient,
		config:        config,
		now:           time.Now,
	}
}

// Dispatch stages a PENDING audit record, posts the signed payload to the
// workflow engine and reconciles the record to SUCCESS or FAILED.
//
// The flow is detached from the caller's cancellation: once the record is
// written the webhook call always runs, bounded by the configured dispatch
// timeout, and the reconciliation runs even after that timeout fired.
func (s *DispatchService) Dispatch(ctx context.Context, p domain.Principal, req domain.DispatchRequest) (*domain.DispatchResult, error) {
	ctx = context.WithoutCancel(ctx)
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	identity, err := s.resolver.Resolve(ctx, p)
	if err != nil {
		dispatchOutcomes.WithLabelValues(string(req.Tipo), "REJECTED").Inc()
		return nil, err
	}

	region := ResolveRegion(req.Regional, identity.Region)

	canal := req.Canal
	if canal == "" {
		canal = domain.ChannelSMS
	}

	record, err := s.repo.Create(ctx, domain.NewDispatchRecord{
		EntidadeID: identity.TenantID,
		UserID:     p.ID,
		Acao:       "ENVIO_" + string(req.Tipo),
		Canal:      canal,
		Regional:   region.String(),
		Mensagem:   req.Mensagem,
	})
	if err != nil {
		dispatchOutcomes.WithLabelValues(string(req.Tipo), "REJECTED").Inc()
		return nil, fmt.Errorf("failed to stage dispatch record: %w", err)
	}

	startTime := time.Now()
	defer func() {
		dispatchDuration.WithLabelValues(string(req.Tipo)).Observe(time.Since(startTime).Seconds())
	}()

	autor := req.Autor
	if autor == "" {
		autor = p.Email
	}

	payload := domain.WebhookPayload{
		Regional:       region,
		Mensagem:       req.Mensagem,
		Tipo:           req.Tipo,
		Autor:          autor,
		Timestamp:      s.now().UTC().Format(time.RFC3339Nano),
		ProtocoloLocal: record.ID,
		EntidadeID:     identity.TenantID,
		UserID:         p.ID,
	}

	result, err := s.webhookClient.Dispatch(ctx, payload)
	if err != nil {
		logger.Errorf("Dispatch %s failed: %v", record.ID, err)

		s.reconcile(ctx, record.ID, domain.StatusFailed, nil)

		dispatchOutcomes.WithLabelValues(string(req.Tipo), string(domain.StatusFailed)).Inc()
		return nil, fmt.Errorf("dispatch %s failed: %w", record.ID, err)
	}

	protocolo := result.Protocol
	if protocolo == "" {
		protocolo = "LOCAL-" + record.ID
	}

	s.reconcile(ctx, record.ID, domain.StatusSuccess, &protocolo)

	dispatchOutcomes.WithLabelValues(string(req.Tipo), string(domain.StatusSuccess)).Inc()
	logger.Infof("Dispatch %s delivered to workflow engine (protocolo: %s)", record.ID, protocolo)

	return &domain.DispatchResult{
		ID:        record.ID,
		Status:    domain.StatusSuccess,
		Protocolo: protocolo,
		CreatedAt: s.now().UTC(),
	}, nil
}

// reconcile writes the terminal status under its own deadline so an expired
// dispatch timeout cannot leave the record PENDING.
func (s *DispatchService) reconcile(ctx context.Context, id string, status domain.DispatchStatus, protocol *string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reconcileTimeout)
	defer cancel()

	if err := s.repo.UpdateStatus(ctx, id, status, protocol); err != nil {
		logger.Errorf("Failed to mark dispatch %s as %s: %v", id, status, err)
	}
}

func (s *DispatchService) ListLogs(
	ctx context.Context,
	p domain.Principal,
	status *domain.DispatchStatus,
	page,
	pageSize int,
) ([]domain.DispatchRecord, int64, error) {
	tenantID, err := s.resolver.ResolveTenant(ctx, p)
	if err != nil {
		return nil, 0, err
	}

	return s.repo.ListByTenant(ctx, tenantID, status, page, pageSize)
}

// GetLog returns nil, nil when the record does not exist in the caller's tenant.
func (s *DispatchService) GetLog(ctx context.Context, p domain.Principal, id string) (*domain.DispatchRecord, error) {
	tenantID, err := s.resolver.ResolveTenant(ctx, p)
	if err != nil {
		return nil, err
	}

	return s.repo.GetByIDForTenant(ctx, id, tenantID)
}

func (s *DispatchService) GetStats(ctx context.Context, p domain.Principal) (*domain.DispatchStats, error) {
	tenantID, err := s.resolver.ResolveTenant(ctx, p)
	if err != nil {
		return nil, err
	}

	return s.repo.GetStats(ctx, tenantID)
}
