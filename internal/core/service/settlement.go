package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MikeRez0/collectdesk/internal/core/allocation"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/MikeRez0/collectdesk/internal/core/ledger"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

// ReviewOrder settles a grabbed order with the amount the operator counted.
// An amount matching the first period or the first two periods settles them
// whole; anything else is kept against the first open period and queued for
// manual processing. The payee is credited either way.
func (s *Service) ReviewOrder(ctx context.Context, actor domain.Actor, orderID string, actualPaid decimal.Decimal) (*domain.Order, error) {
	if err := s.operator(ctx, actor); err != nil {
		return nil, err
	}
	if err := domain.CheckAmount(actualPaid); err != nil {
		return nil, err
	}

	var (
		decision    allocation.Decision
		loanSettled bool
	)
	st, err := s.repo.SettleOrder(ctx, orderID, time.Now(), func(st *domain.Settlement) error {
		o := st.Order
		if o.Status != domain.OrderStatusGrabbed || o.ReviewStatus != domain.ReviewStatusPending {
			return domain.ErrOrderNotGrabbed
		}
		if err := st.CheckOwner(); err != nil {
			return err
		}
		if actualPaid.Cmp(o.Amount) > 0 {
			return domain.ErrAmountExceedsOrder
		}

		open := st.OpenPeriods()
		var err error
		decision, err = allocation.Match(actualPaid, open)
		if err != nil {
			return err
		}

		attr := ledger.Attribution{Method: o.PaymentMethod, OperatorID: actor.SubjectID}
		if decision.Auto {
			result, err := allocation.SettleWhole(open[:decision.Periods], st.At, actor.SubjectID)
			if err != nil {
				return err
			}
			ledger.Record(st, result, attr)
			if loanSettled, err = ledger.Increment(st.Loan, result, st.At); err != nil {
				return err
			}
		} else {
			ledger.RecordUnallocated(st, open[0], actualPaid, attr)
			o.NeedsManual = true
			o.ManualStatus = domain.ManualStatusUnprocessed
		}

		paid := actualPaid
		o.ActualPaid = &paid
		o.Status = domain.OrderStatusCompleted
		o.ReviewStatus = domain.ReviewStatusApproved
		o.UpdatedAt = st.At
		return ledger.CreditPayee(st, actualPaid)
	})
	if err != nil {
		return nil, s.fail("review order", err)
	}

	s.logger.Info("order reviewed",
		zap.String("order", st.Order.ID),
		zap.Bool("auto", decision.Auto),
		zap.Int("periods", decision.Periods),
		zap.Stringer("actual_paid", actualPaid))

	mail := settlementMail(st, actualPaid, decision.Periods)
	if decision.Auto {
		s.mail(domain.MailOrderSettled, mail)
	} else {
		s.mail(domain.MailManualReview, mail)
	}
	if loanSettled {
		s.mail(domain.MailLoanSettled, mail)
	}
	s.push(domain.ChannelCustomer, st.Order.CustomerID, domain.EventOrderCompleted,
		domain.OrderEvent{OrderID: st.Order.ID, Status: st.Order.Status})

	return st.Order, nil
}

// ProcessManualOrder applies an operator split to an order queued by ReviewOrder.
func (s *Service) ProcessManualOrder(ctx context.Context, actor domain.Actor, orderID string, req port.ManualRequest) (*domain.Order, error) {
	if err := s.operator(ctx, actor); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err.Error())
	}
	for _, v := range []decimal.Decimal{req.TotalCapital, req.TotalInterest, req.Fines} {
		if err := domain.CheckShare(v); err != nil {
			return nil, err
		}
	}

	split := allocation.ManualSplit{
		PeriodCount:   req.PeriodCount,
		TotalCapital:  req.TotalCapital,
		TotalInterest: req.TotalInterest,
		Fines:         req.Fines,
	}

	var (
		total       decimal.Decimal
		loanSettled bool
	)
	st, err := s.repo.SettleOrder(ctx, orderID, time.Now(), func(st *domain.Settlement) error {
		o := st.Order
		if !o.NeedsManual || o.ManualStatus != domain.ManualStatusUnprocessed {
			return domain.ErrOrderNotManual
		}
		if err := st.CheckOwner(); err != nil {
			return err
		}

		result, err := allocation.SplitManual(split, st.OpenPeriods(), st.At, actor.SubjectID)
		if err != nil {
			return err
		}
		if total, err = result.Total(); err != nil {
			return err
		}

		ledger.Record(st, result, ledger.Attribution{Method: o.PaymentMethod, OperatorID: actor.SubjectID})
		if loanSettled, err = ledger.Increment(st.Loan, result, st.At); err != nil {
			return err
		}

		o.ManualStatus = domain.ManualStatusProcessed
		o.UpdatedAt = st.At
		return nil
	})
	if err != nil {
		return nil, s.fail("process manual order", err)
	}

	s.logger.Info("manual order processed",
		zap.String("order", st.Order.ID),
		zap.Int("periods", req.PeriodCount),
		zap.Stringer("amount", total))

	mail := settlementMail(st, total, req.PeriodCount)
	s.mail(domain.MailOrderSettled, mail)
	if loanSettled {
		s.mail(domain.MailLoanSettled, mail)
	}
	return st.Order, nil
}

// RepayLoan runs a payment through the fines, interest, capital waterfall and
// recomputes the loan totals from the schedule. With an order id the order
// is completed and its payee credited.
func (s *Service) RepayLoan(ctx context.Context, actor domain.Actor, req port.RepaymentRequest) (*domain.LoanAccount, error) {
	if err := s.operator(ctx, actor); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err.Error())
	}
	if err := domain.CheckAmount(req.Amount); err != nil {
		return nil, err
	}

	var (
		settled  int
		loanDone bool
	)
	apply := func(st *domain.Settlement) error {
		if st.Order != nil {
			o := st.Order
			if o.LoanID != req.LoanID {
				return fmt.Errorf("%w: order %s belongs to loan %d", domain.ErrBadRequest, o.ID, o.LoanID)
			}
			if o.Status != domain.OrderStatusGrabbed {
				return domain.ErrOrderNotGrabbed
			}
			if err := st.CheckOwner(); err != nil {
				return err
			}
			if req.Amount.Cmp(o.Amount) > 0 {
				return domain.ErrAmountExceedsOrder
			}
		}

		outstanding, err := allocation.Outstanding(st.Periods)
		if err != nil {
			return err
		}
		if req.Amount.Cmp(outstanding) > 0 {
			return domain.ErrAmountExceedsOutstanding
		}

		result, err := allocation.Waterfall(req.Amount, st.Periods, st.At, actor.SubjectID)
		if err != nil {
			return err
		}
		settled = result.Settled
		ledger.Record(st, result, ledger.Attribution{Method: req.Method, OperatorID: actor.SubjectID})
		if loanDone, err = ledger.Recompute(st.Loan, st.Periods, st.At); err != nil {
			return err
		}

		if st.Order == nil {
			return nil
		}
		paid := req.Amount
		st.Order.ActualPaid = &paid
		st.Order.Status = domain.OrderStatusCompleted
		st.Order.ReviewStatus = domain.ReviewStatusApproved
		st.Order.UpdatedAt = st.At
		return ledger.CreditPayee(st, req.Amount)
	}

	var (
		st  *domain.Settlement
		err error
	)
	if req.OrderID != "" {
		st, err = s.repo.SettleOrder(ctx, req.OrderID, time.Now(), apply)
	} else {
		st, err = s.repo.SettleLoan(ctx, req.LoanID, time.Now(), apply)
	}
	if err != nil {
		return nil, s.fail("repay loan", err)
	}

	s.logger.Info("loan repayment applied",
		zap.Uint64("loan", st.Loan.ID),
		zap.Stringer("amount", req.Amount),
		zap.Int("settled_periods", settled))

	mail := settlementMail(st, req.Amount, settled)
	if st.Order != nil {
		s.mail(domain.MailOrderSettled, mail)
		s.push(domain.ChannelCustomer, st.Order.CustomerID, domain.EventOrderCompleted,
			domain.OrderEvent{OrderID: st.Order.ID, Status: st.Order.Status})
	}
	if loanDone {
		s.mail(domain.MailLoanSettled, mail)
	}
	return st.Loan, nil
}

func settlementMail(st *domain.Settlement, amount decimal.Decimal, periods int) domain.SettlementMail {
	m := domain.SettlementMail{
		LoanID:     st.Loan.ID,
		CustomerID: st.Loan.CustomerID,
		Amount:     amount,
		Periods:    periods,
	}
	if st.Order != nil {
		m.OrderID = st.Order.ID
	}
	return m
}
