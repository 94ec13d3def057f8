package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/dispatch"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate *validator.Validate = validator.New()

// background work started by a request outlives it
const backgroundTimeout = 5 * time.Second

type Config struct {
	PendingTTL    time.Duration
	ClaimWindow   time.Duration
	Delays        dispatch.Delays
	MailRecipient string
}

type Service struct {
	repo        port.Repository
	identity    port.IdentityProvider
	credentials port.CredentialStore
	staging     port.OrderStaging
	notifier    port.Notifier
	mailer      port.Mailer
	scheduler   *dispatch.Scheduler
	cfg         Config
	logger      *zap.Logger
}

func NewService(repo port.Repository,
	identity port.IdentityProvider,
	credentials port.CredentialStore,
	staging port.OrderStaging,
	notifier port.Notifier,
	mailer port.Mailer,
	scheduler *dispatch.Scheduler,
	cfg Config,
	logger *zap.Logger) (*Service, error) {
	if cfg.PendingTTL <= 0 || cfg.ClaimWindow <= 0 {
		return nil, fmt.Errorf("order windows must be positive: pending %s, claim %s", cfg.PendingTTL, cfg.ClaimWindow)
	}
	return &Service{
		repo:        repo,
		identity:    identity,
		credentials: credentials,
		staging:     staging,
		notifier:    notifier,
		mailer:      mailer,
		scheduler:   scheduler,
		cfg:         cfg,
		logger:      logger,
	}, nil
}

// fail passes classified errors through and hides the rest behind ErrInternal.
func (s *Service) fail(op string, err error) error {
	if domain.Kind(err) != domain.KindInternal {
		return err
	}
	s.logger.Error(op, zap.Error(err))
	return domain.ErrInternal
}

func (s *Service) requireRole(ctx context.Context, actor domain.Actor, roles ...domain.Role) (domain.Role, error) {
	if actor.Kind != domain.SubjectAdmin {
		return "", domain.ErrForbidden
	}
	role, err := s.identity.GetRole(ctx, actor.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return "", domain.ErrForbidden
		}
		return "", s.fail("get role", err)
	}
	if !slices.Contains(roles, role) {
		return "", domain.ErrForbidden
	}
	return role, nil
}

func (s *Service) payeeOf(ctx context.Context, actor domain.Actor) (uint64, error) {
	payeeID, err := s.identity.GetPayeeIDForAdmin(ctx, actor.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return 0, domain.ErrForbidden
		}
		return 0, s.fail("get payee for admin", err)
	}
	return payeeID, nil
}

func (s *Service) collector(ctx context.Context, actor domain.Actor) (uint64, error) {
	if _, err := s.requireRole(ctx, actor, domain.RoleCollector); err != nil {
		return 0, err
	}
	return s.payeeOf(ctx, actor)
}

func (s *Service) operator(ctx context.Context, actor domain.Actor) error {
	_, err := s.requireRole(ctx, actor, domain.RoleOperator, domain.RoleSuperAdmin)
	return err
}

func (s *Service) ResolveChannel(ctx context.Context, actor domain.Actor) (domain.ChannelKind, string, error) {
	if actor.Kind == domain.SubjectCustomer {
		return domain.ChannelCustomer, identity(actor.SubjectID), nil
	}

	role, err := s.requireRole(ctx, actor, domain.RoleCollector, domain.RoleOperator, domain.RoleSuperAdmin)
	if err != nil {
		return "", "", err
	}
	if role != domain.RoleCollector {
		return domain.ChannelAnon, "", nil
	}
	payeeID, err := s.payeeOf(ctx, actor)
	if err != nil {
		return "", "", err
	}
	return domain.ChannelPayee, identity(payeeID), nil
}

func identity(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// push delivers a best effort event; a disconnected channel is not an error for the caller.
func (s *Service) push(kind domain.ChannelKind, id uint64, event string, payload any) {
	if err := s.notifier.Notify(kind, identity(id), event, payload); err != nil {
		s.logger.Debug("push skipped",
			zap.String("channel", string(kind)),
			zap.Uint64("identity", id),
			zap.String("event", event),
			zap.Error(err))
	}
}

func (s *Service) mail(kind string, payload any) {
	s.mailer.SendEmail(kind, s.cfg.MailRecipient, payload)
}
