package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/dispatch"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Service) SubmitOrder(ctx context.Context, actor domain.Actor, req port.SubmitOrderRequest) (*port.SubmitResult, error) {
	if actor.Kind == domain.SubjectCustomer {
		req.CustomerID = actor.SubjectID
	} else if err := s.operator(ctx, actor); err != nil {
		return nil, err
	}

	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err.Error())
	}
	if err := domain.CheckAmount(req.Amount); err != nil {
		return nil, err
	}

	loan, err := s.repo.ReadLoan(ctx, req.LoanID)
	if err != nil {
		return nil, s.fail("read loan", err)
	}
	if loan.CustomerID != req.CustomerID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	order := &domain.Order{
		ID:            uuid.NewString(),
		CustomerID:    req.CustomerID,
		LoanID:        req.LoanID,
		Amount:        req.Amount,
		Periods:       req.Periods,
		PaymentMethod: req.PaymentMethod,
		Remark:        req.Remark,
		Status:        domain.OrderStatusPending,
		ReviewStatus:  domain.ReviewStatusPending,
		ManualStatus:  domain.ManualStatusNone,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.cfg.PendingTTL),
		UpdatedAt:     now,
	}

	// staged first so a notification never points at an order that is not open
	if err := s.staging.Stage(ctx, order.ID, s.cfg.PendingTTL); err != nil {
		return nil, s.fail("stage order", err)
	}
	created, err := s.repo.CreateOrder(ctx, order)
	if err != nil {
		if rmErr := s.staging.Remove(ctx, order.ID); rmErr != nil {
			s.logger.Warn("unstage order", zap.String("order", order.ID), zap.Error(rmErr))
		}
		return nil, s.fail("create order", err)
	}

	notified, err := s.broadcast(ctx, created)
	if err != nil {
		// the order stays open for grabbing from the list even without pushes
		s.logger.Error("broadcast order", zap.String("order", created.ID), zap.Error(err))
	}

	return &port.SubmitResult{
		Success:  true,
		Message:  "order submitted",
		OrderID:  created.ID,
		Notified: notified,
	}, nil
}

// broadcast ranks eligible payees and schedules one notification per candidate.
func (s *Service) broadcast(ctx context.Context, order *domain.Order) (int, error) {
	snapshot, err := s.snapshot(ctx, order)
	if err != nil {
		return 0, err
	}

	candidates := dispatch.Rank(snapshot, s.cfg.Delays)
	for _, c := range candidates {
		s.scheduler.Schedule(dispatch.Key{OrderID: order.ID, PayeeID: c.Payee.ID}, c.Delay, func() {
			s.notifyCandidate(order, c)
		})
	}

	s.logger.Info("order broadcast scheduled",
		zap.String("order", order.ID),
		zap.Int("candidates", len(candidates)))
	return len(candidates), nil
}

func (s *Service) snapshot(ctx context.Context, order *domain.Order) (dispatch.Snapshot, error) {
	customer, err := s.repo.ReadCustomer(ctx, order.CustomerID)
	if err != nil {
		return dispatch.Snapshot{}, fmt.Errorf("read customer: %w", err)
	}

	payees, err := s.repo.ListEnabledPayees(ctx)
	if err != nil {
		return dispatch.Snapshot{}, fmt.Errorf("list payees: %w", err)
	}
	eligible := make([]*domain.Payee, 0, len(payees))
	for _, p := range payees {
		creds, err := s.credentials.ListActiveQRCredentials(ctx, p.ID, order.PaymentMethod)
		if err != nil {
			return dispatch.Snapshot{}, fmt.Errorf("list credentials of payee %d: %w", p.ID, err)
		}
		if len(creds) > 0 {
			eligible = append(eligible, p)
		}
	}

	served, err := s.repo.ListPayeesServedCustomer(ctx, order.CustomerID)
	if err != nil {
		return dispatch.Snapshot{}, fmt.Errorf("list served payees: %w", err)
	}
	servedSet := make(map[uint64]bool, len(served))
	for _, id := range served {
		servedSet[id] = true
	}

	return dispatch.Snapshot{
		Customer: customer,
		Amount:   order.Amount,
		Payees:   eligible,
		Served:   servedSet,
	}, nil
}

// notifyCandidate re-checks that the order is still open right before the push.
// A claim committed between the check and the push still lets one stale
// notification through; the claim itself stays exactly-once.
func (s *Service) notifyCandidate(order *domain.Order, c dispatch.Candidate) {
	ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
	defer cancel()

	open, err := s.staging.IsOpen(ctx, order.ID)
	if err != nil {
		s.logger.Warn("check staged order", zap.String("order", order.ID), zap.Error(err))
		return
	}
	if !open {
		s.logger.Debug("notification suppressed", zap.String("order", order.ID), zap.Uint64("payee", c.Payee.ID))
		return
	}

	s.push(domain.ChannelPayee, c.Payee.ID, domain.EventNewOrder, domain.NewOrderEvent{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		Amount:        order.Amount,
		Periods:       order.Periods,
		PaymentMethod: order.PaymentMethod,
		Priority:      c.Priority,
		ExpiresAt:     order.ExpiresAt,
	})
}

func (s *Service) ClaimOrder(ctx context.Context, actor domain.Actor, orderID string) (*port.ClaimResult, error) {
	payeeID, err := s.collector(ctx, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	existing, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, s.fail("read order", err)
	}
	if err := existing.CheckClaimable(now); err != nil {
		return nil, err
	}

	order, payee, err := s.repo.ClaimOrder(ctx, orderID, payeeID, func(o *domain.Order, p *domain.Payee) error {
		if err := o.CheckClaimable(now); err != nil {
			return err
		}
		if err := p.Reserve(o.Amount); err != nil {
			return err
		}
		id := p.ID
		o.Status = domain.OrderStatusGrabbed
		o.PayeeID = &id
		o.ExpiresAt = now.Add(s.cfg.ClaimWindow)
		o.UpdatedAt = now
		return nil
	})
	if err != nil {
		if domain.Kind(err) != domain.KindInternal {
			s.logger.Info("claim rejected",
				zap.String("order", orderID),
				zap.Uint64("payee", payeeID),
				zap.Error(err))
		}
		return nil, s.fail("claim order", err)
	}

	s.closeBroadcast(order.ID)
	s.push(domain.ChannelCustomer, order.CustomerID, domain.EventOrderGrabbed, domain.GrabbedEvent{
		OrderID:       order.ID,
		CollectorID:   payee.ID,
		CollectorName: payee.Name,
		Amount:        order.Amount,
		ExpiresAt:     order.ExpiresAt,
	})

	return &port.ClaimResult{
		Success:       true,
		Message:       "order claimed",
		CollectorID:   payee.ID,
		CollectorName: payee.Name,
		Order:         order,
	}, nil
}

// closeBroadcast stops pending notifications of an order that left the pending state.
func (s *Service) closeBroadcast(orderID string) {
	s.scheduler.Cancel(orderID)

	ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
	defer cancel()
	if err := s.staging.Remove(ctx, orderID); err != nil {
		s.logger.Warn("unstage order", zap.String("order", orderID), zap.Error(err))
	}
}

func (s *Service) DeleteOrder(ctx context.Context, actor domain.Actor, orderID string) error {
	role, err := s.requireRole(ctx, actor, domain.RoleOperator, domain.RoleSuperAdmin, domain.RoleCollector)
	if err != nil {
		return err
	}
	var ownPayee *uint64
	if role == domain.RoleCollector {
		payeeID, err := s.payeeOf(ctx, actor)
		if err != nil {
			return err
		}
		ownPayee = &payeeID
	}

	deleted, err := s.repo.DeleteOrder(ctx, orderID, func(o *domain.Order, p *domain.Payee) error {
		if ownPayee != nil && !o.ClaimedBy(*ownPayee) {
			return domain.ErrForbidden
		}
		if o.Status == domain.OrderStatusCompleted {
			return domain.ErrStatusTransition
		}
		if o.Status == domain.OrderStatusGrabbed && p != nil {
			return p.Restore(o.Amount)
		}
		return nil
	})
	if err != nil {
		return s.fail("delete order", err)
	}

	s.closeBroadcast(deleted.ID)
	event := domain.OrderEvent{OrderID: deleted.ID, Status: deleted.Status}
	s.push(domain.ChannelCustomer, deleted.CustomerID, domain.EventOrderDeleted, event)
	if deleted.PayeeID != nil {
		s.push(domain.ChannelPayee, *deleted.PayeeID, domain.EventOrderDeleted, event)
	}
	return nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, actor domain.Actor, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if err := s.operator(ctx, actor); err != nil {
		return nil, err
	}

	order, err := s.repo.UpdateOrder(ctx, orderID, func(o *domain.Order) error {
		if err := o.TransitionTo(status); err != nil {
			return err
		}
		o.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, s.fail("update order status", err)
	}

	switch order.Status {
	case domain.OrderStatusExpired:
		s.closeBroadcast(order.ID)
	case domain.OrderStatusCompleted:
		s.push(domain.ChannelCustomer, order.CustomerID, domain.EventOrderCompleted,
			domain.OrderEvent{OrderID: order.ID, Status: order.Status})
	}
	return order, nil
}

func (s *Service) ReportPaymentFeedback(ctx context.Context, actor domain.Actor, orderID string) (*domain.Order, error) {
	payeeID, err := s.collector(ctx, actor)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.UpdateOrder(ctx, orderID, func(o *domain.Order) error {
		if !o.ClaimedBy(payeeID) {
			return domain.ErrForbidden
		}
		if o.Status != domain.OrderStatusGrabbed {
			return domain.ErrOrderNotGrabbed
		}
		o.PaymentFeedback = true
		o.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, s.fail("report payment feedback", err)
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, actor domain.Actor) ([]*domain.Order, error) {
	role, err := s.requireRole(ctx, actor, domain.RoleOperator, domain.RoleSuperAdmin, domain.RoleCollector)
	if err != nil {
		return nil, err
	}

	filter := domain.OrderFilter{}
	if role == domain.RoleCollector {
		payeeID, err := s.payeeOf(ctx, actor)
		if err != nil {
			return nil, err
		}
		filter.PayeeID = &payeeID
		filter.OrPending = true
	}

	list, err := s.repo.ListOrders(ctx, filter)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		return nil, s.fail("list orders", err)
	}
	return list, nil
}
