package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/guildbank/lending/internal/domain/event"
	"github.com/guildbank/lending/internal/domain/model"
	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/internal/domain/valueobject"
	"github.com/guildbank/lending/pkg/keymutex"
)

// LifecycleEngine drives loans through their scheduled timelines: interest
// accrual, compounding, statements, autopay, late fees, and closure. All
// mutation of a loan happens under its per-loan lock, and each scheduled
// event executes at most once.
type LifecycleEngine struct {
	loans      port.LoanRepository
	events     port.LoanEventRepository
	statements port.StatementRepository
	economy    port.Economy
	publisher  port.EventPublisher
	scoring    *CreditScoringEngine
	settings   port.Settings
	locks      *keymutex.KeyMutex
	logger     *slog.Logger
}

func NewLifecycleEngine(
	loans port.LoanRepository,
	events port.LoanEventRepository,
	statements port.StatementRepository,
	economy port.Economy,
	publisher port.EventPublisher,
	scoring *CreditScoringEngine,
	settings port.Settings,
	logger *slog.Logger,
) *LifecycleEngine {
	return &LifecycleEngine{
		loans:      loans,
		events:     events,
		statements: statements,
		economy:    economy,
		publisher:  publisher,
		scoring:    scoring,
		settings:   settings,
		locks:      keymutex.New(),
		logger:     logger,
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

// Update brings one loan current: accrues interest since the last executed
// event and dispatches every scheduled event that has come due, in order.
// Calling Update twice with the same clock is a no-op the second time.
func (e *LifecycleEngine) Update(ctx context.Context, loanID string, now time.Time) error {
	e.locks.Lock(loanID)
	defer e.locks.Unlock(loanID)
	_, err := e.updateLocked(ctx, loanID, now)
	return err
}

// updateLocked is Update without the lock, shared with ApplyPayment.
func (e *LifecycleEngine) updateLocked(ctx context.Context, loanID string, now time.Time) (model.Loan, error) {
	loan, err := e.loans.FindByID(ctx, loanID)
	if err != nil {
		return model.Loan{}, err
	}
	if !loan.Open() {
		return loan, nil
	}

	cfg := e.settings.Snapshot()

	anchor, err := e.events.LastExecutedAt(ctx, loanID)
	if err != nil {
		return model.Loan{}, err
	}
	if anchor.IsZero() {
		anchor = loan.StartTime()
	}

	due, err := e.events.FindDue(ctx, loanID, now)
	if err != nil {
		return model.Loan{}, err
	}

	accrued := decimal.Zero
	for _, ev := range due {
		if !loan.Open() {
			break
		}
		var delta decimal.Decimal
		loan, delta = e.accrue(loan, anchor, ev.Time, cfg)
		accrued = accrued.Add(delta)
		anchor = ev.Time

		loan, ev, err = e.dispatch(ctx, loan, ev, cfg)
		if err != nil {
			return model.Loan{}, err
		}

		// The loan's mutation is persisted before the executed flag: a
		// failure past this point leaves the event unexecuted for the next
		// sweep to retry, never an executed event with lost balances.
		loan = loan.Touch(ev.Time)
		if err := e.loans.Save(ctx, loan); err != nil {
			return model.Loan{}, err
		}
		e.flush(ctx, loan.DomainEvents())
		loan = loan.Committed().ClearEvents()

		ev.Executed = true
		if err := e.events.MarkExecuted(ctx, ev); err != nil {
			return model.Loan{}, err
		}
		lifecycleEventsExecuted.WithLabelValues(ev.Type.String()).Inc()
	}

	if loan.Open() {
		var delta decimal.Decimal
		loan, delta = e.accrue(loan, anchor, now, cfg)
		accrued = accrued.Add(delta)
	}
	if !accrued.IsZero() {
		accrual := model.ScheduledEvent{
			ID:       uuid.New().String(),
			LoanID:   loanID,
			Time:     now,
			Type:     valueobject.EventTypeInterestAccrual,
			Amount:   accrued,
			Executed: true,
		}
		if err := e.events.Append(ctx, accrual); err != nil {
			return model.Loan{}, err
		}
	}

	loan = loan.Touch(now)
	if err := e.loans.Save(ctx, loan); err != nil {
		return model.Loan{}, err
	}
	e.flush(ctx, loan.DomainEvents())
	return loan.Committed().ClearEvents(), nil
}

// accrue grows the loan for the elapsed window. Continuous terms fold growth
// straight into principal; discrete terms collect simple interest until a
// compounding event moves it.
func (e *LifecycleEngine) accrue(loan model.Loan, from, to time.Time, cfg port.SettingsSnapshot) (model.Loan, decimal.Decimal) {
	if !to.After(from) || loan.Balance().IsZero() || loan.Terms().InterestRate().IsZero() {
		return loan, decimal.Zero
	}

	rate := loan.Terms().InterestRate().InexactFloat64()
	prorate := float64(to.Sub(from)) / float64(cfg.InterestReportingPeriod)

	var delta decimal.Decimal
	if loan.Terms().ContinuousCompounding() {
		growth := math.Exp(rate*prorate) - 1
		delta = loan.Balance().Mul(decimal.NewFromFloat(growth))
		return loan.AccrueContinuous(delta, to), delta
	}
	delta = loan.Balance().Mul(decimal.NewFromFloat(rate * prorate))
	return loan.AccruePeriodic(delta, to), delta
}

// dispatch executes one due event against the loan. The returned event
// carries the amount that actually took effect.
func (e *LifecycleEngine) dispatch(ctx context.Context, loan model.Loan, ev model.ScheduledEvent, cfg port.SettingsSnapshot) (model.Loan, model.ScheduledEvent, error) {
	switch ev.Type {
	case valueobject.EventTypeCompound:
		next, moved := loan.Compound(ev.Time)
		ev.Amount = moved
		return next, ev, nil

	case valueobject.EventTypeServiceFee:
		return loan.AssessFee(ev.Amount, ev.Time), ev, nil

	case valueobject.EventTypeStatementOut:
		return e.issueStatement(ctx, loan, ev)

	case valueobject.EventTypePaymentDue:
		if !loan.AutoPay() {
			return loan, ev, nil
		}
		return e.autopay(ctx, loan, ev)

	case valueobject.EventTypeLateFee:
		return e.assessLateFee(ctx, loan, ev)

	default:
		// OPEN arrives pre-executed; payment events are appended, not
		// scheduled. Anything else passes through untouched.
		return loan, ev, nil
	}
}

// issueStatement cuts the bill for the upcoming payment: the planned
// installment capped at what is actually owed, plus accumulated fees and any
// unpaid carryover from the previous cycle. A zero planned installment means
// the loan type settles in one final bill, so the whole close value is
// billed.
func (e *LifecycleEngine) issueStatement(ctx context.Context, loan model.Loan, ev model.ScheduledEvent) (model.Loan, model.ScheduledEvent, error) {
	owed := loan.Balance().Add(loan.InterestBalance())

	var principalPortion decimal.Decimal
	if ev.Amount.IsZero() {
		principalPortion = owed
	} else {
		principalPortion = decimal.Min(ev.Amount, owed)
	}

	carryover := decimal.Zero
	prev, err := e.statements.FindLatest(ctx, loan.ID())
	switch {
	case err == nil:
		carryover = prev.Outstanding()
	case errors.Is(err, port.ErrStatementNotFound):
	default:
		return model.Loan{}, ev, err
	}

	bill := principalPortion.Add(loan.FeeBalance()).Add(carryover)
	minimum := loan.Terms().MinPayment().Amount(bill)
	dueAt := ev.Time.Add(loan.Terms().PaymentTime())

	st := model.NewStatement(loan.ID(), bill, minimum, loan.FeeBalance(), loan.InterestBalance(), principalPortion, ev.Time, dueAt)
	if err := e.statements.Save(ctx, st); err != nil {
		return model.Loan{}, ev, err
	}
	ev.Amount = bill

	if loan.Terms().LoanType().Revolving() {
		limit := loan.Terms().Principal()
		if err := e.scoring.RecordUtilization(ctx, loan.Borrower(), loan.ID(), bill, limit, ev.Time); err != nil {
			e.logger.Warn("record utilization outcome", slog.String("loan_id", loan.ID()), slog.Any("error", err))
		}
		if bill.GreaterThanOrEqual(limit) {
			if err := e.scoring.RecordCreditLimitReached(ctx, loan.Borrower(), loan.ID(), ev.Time); err != nil {
				e.logger.Warn("record credit limit outcome", slog.String("loan_id", loan.ID()), slog.Any("error", err))
			}
		}
	}

	e.flush(ctx, []event.DomainEvent{
		event.NewStatementIssued(loan.ID(), loan.Borrower(), bill, minimum, dueAt),
	})
	return loan, ev, nil
}

// autopay pays the outstanding bill from the borrower's wallet when it is
// covered, falls back to the remaining minimum, and otherwise leaves the
// cycle for the late-fee checkpoint. Wallets are never overdrawn.
func (e *LifecycleEngine) autopay(ctx context.Context, loan model.Loan, ev model.ScheduledEvent) (model.Loan, model.ScheduledEvent, error) {
	st, err := e.statements.FindLatest(ctx, loan.ID())
	if errors.Is(err, port.ErrStatementNotFound) {
		return loan, ev, nil
	}
	if err != nil {
		return model.Loan{}, ev, err
	}

	amount := decimal.Zero
	for _, candidate := range []decimal.Decimal{st.Outstanding(), st.Minimum().Sub(st.AmountPaid())} {
		if candidate.LessThanOrEqual(decimal.Zero) {
			continue
		}
		ok, err := e.economy.Has(ctx, loan.Borrower(), candidate)
		if err != nil {
			return model.Loan{}, ev, err
		}
		if ok {
			amount = candidate
			break
		}
	}
	if amount.IsZero() {
		ev.Amount = decimal.Zero
		return loan, ev, nil
	}

	next, _, err := e.settle(ctx, loan, st, loan.Borrower(), amount, ev.Time, true)
	if err != nil {
		return model.Loan{}, ev, err
	}
	ev.Amount = amount
	return next, ev, nil
}

// assessLateFee fires at the end of the grace period. The check targets the
// statement of the cycle the grace period belongs to, not simply the latest
// one: the next cycle's statement can be cut at the very same instant and
// must not shadow the bill under review. A cycle whose minimum was met
// suppresses the fee; otherwise the fee lands on the loan and a
// missed-payment outcome lands on the borrower's score.
func (e *LifecycleEngine) assessLateFee(ctx context.Context, loan model.Loan, ev model.ScheduledEvent) (model.Loan, model.ScheduledEvent, error) {
	st, found, err := e.cycleStatement(ctx, loan, ev.Time)
	if err != nil {
		return model.Loan{}, ev, err
	}
	if found && st.MinimumMet() {
		ev.Amount = decimal.Zero
		return loan, ev, nil
	}

	next := loan.AssessFee(ev.Amount, ev.Time)
	if err := e.scoring.RecordMissedPayment(ctx, loan.Borrower(), loan.ID(), ev.Time); err != nil {
		e.logger.Warn("record missed payment", slog.String("loan_id", loan.ID()), slog.Any("error", err))
	}
	e.flush(ctx, []event.DomainEvent{
		event.NewLateFeeAssessed(loan.ID(), loan.Borrower(), ev.Amount),
	})
	return next, ev, nil
}

// cycleStatement resolves the statement a late-fee checkpoint guards: the
// latest one due at or before the end of the grace window.
func (e *LifecycleEngine) cycleStatement(ctx context.Context, loan model.Loan, lateFeeAt time.Time) (model.Statement, bool, error) {
	cutoff := lateFeeAt.Add(-loan.Terms().GracePeriod())
	all, err := e.statements.FindByLoan(ctx, loan.ID())
	if err != nil {
		return model.Statement{}, false, err
	}
	var best model.Statement
	found := false
	for _, st := range all {
		if st.DueAt().After(cutoff) {
			continue
		}
		if !found || st.DueAt().After(best.DueAt()) {
			best = st
			found = true
		}
	}
	return best, found, nil
}

// ---------------------------------------------------------------------------
// Payments
// ---------------------------------------------------------------------------

// ApplyPayment brings the loan current and runs a voluntary payment from the
// payer through the waterfall. Funds for the applied portion move payer to
// lender inside this call; the excess never leaves the payer's wallet.
func (e *LifecycleEngine) ApplyPayment(ctx context.Context, loanID, payer string, amount decimal.Decimal, now time.Time) (model.Loan, model.PaymentAllocation, error) {
	e.locks.Lock(loanID)
	defer e.locks.Unlock(loanID)

	loan, err := e.updateLocked(ctx, loanID, now)
	if err != nil {
		return model.Loan{}, model.PaymentAllocation{}, err
	}
	if !loan.Open() {
		return model.Loan{}, model.PaymentAllocation{}, port.ErrLoanClosed
	}

	var st model.Statement
	haveStatement := true
	st, err = e.statements.FindLatest(ctx, loanID)
	if errors.Is(err, port.ErrStatementNotFound) {
		haveStatement = false
	} else if err != nil {
		return model.Loan{}, model.PaymentAllocation{}, err
	}

	loan, alloc, err := e.settle(ctx, loan, st, payer, amount, now, haveStatement)
	if err != nil {
		return model.Loan{}, model.PaymentAllocation{}, err
	}
	return loan, alloc, nil
}

// settle moves funds and applies a payment against the loan and, when one
// exists, its latest statement. Caller holds the loan lock.
func (e *LifecycleEngine) settle(ctx context.Context, loan model.Loan, st model.Statement, payer string, amount decimal.Decimal, now time.Time, haveStatement bool) (model.Loan, model.PaymentAllocation, error) {
	next, alloc, err := loan.ApplyPayment(amount, now)
	if err != nil {
		return model.Loan{}, model.PaymentAllocation{}, err
	}
	applied := alloc.Applied()
	if applied.IsZero() {
		return loan, alloc, nil
	}

	if err := e.economy.Withdraw(ctx, payer, applied); err != nil {
		return model.Loan{}, model.PaymentAllocation{}, err
	}
	if err := e.economy.Deposit(ctx, next.Lender(), applied); err != nil {
		return model.Loan{}, model.PaymentAllocation{}, err
	}

	outstandingBefore := decimal.Zero
	if haveStatement {
		outstandingBefore = st.Outstanding()
		wasSettled, wasMinimumMet := st.Settled(), st.MinimumMet()
		st = st.RecordPayment(applied)
		if err := e.statements.Save(ctx, st); err != nil {
			return model.Loan{}, model.PaymentAllocation{}, err
		}
		switch {
		case next.Open() && !wasSettled && st.Settled():
			if err := e.scoring.RecordFullPayment(ctx, next.Borrower(), next.ID(), now); err != nil {
				e.logger.Warn("record full payment", slog.String("loan_id", next.ID()), slog.Any("error", err))
			}
		case next.Open() && !wasMinimumMet && st.MinimumMet() && !st.Settled():
			if err := e.scoring.RecordMinimumPayment(ctx, next.Borrower(), next.ID(), now); err != nil {
				e.logger.Warn("record minimum payment", slog.String("loan_id", next.ID()), slog.Any("error", err))
			}
		}
	}

	if err := e.recordPaymentEvents(ctx, next, alloc, outstandingBefore, now); err != nil {
		return model.Loan{}, model.PaymentAllocation{}, err
	}

	if applied.GreaterThan(outstandingBefore) && next.Open() {
		if err := e.scoring.RecordOverpayment(ctx, next.Borrower(), next.ID(), applied, outstandingBefore, next.Terms().Principal(), now); err != nil {
			e.logger.Warn("record overpayment", slog.String("loan_id", next.ID()), slog.Any("error", err))
		}
	}

	if !next.Open() {
		lifecycleLoansClosed.Inc()
		closeEv := model.ScheduledEvent{
			ID:       uuid.New().String(),
			LoanID:   next.ID(),
			Time:     now,
			Type:     valueobject.EventTypeClose,
			Amount:   decimal.Zero,
			Executed: true,
		}
		if err := e.events.Append(ctx, closeEv); err != nil {
			return model.Loan{}, model.PaymentAllocation{}, err
		}
		if err := e.scoring.RecordPayoff(ctx, next.Borrower(), next.ID(), now.Sub(next.StartTime()), next.Terms().Term(), now); err != nil {
			e.logger.Warn("record payoff", slog.String("loan_id", next.ID()), slog.Any("error", err))
		}
	}

	if err := e.loans.Save(ctx, next); err != nil {
		return model.Loan{}, model.PaymentAllocation{}, err
	}
	e.flush(ctx, next.DomainEvents())
	lifecyclePaymentsApplied.Inc()
	return next.Committed().ClearEvents(), alloc, nil
}

// recordPaymentEvents appends the executed payment markers to the timeline:
// a regular payment up to the outstanding bill, extra markers per bucket for
// anything beyond it.
func (e *LifecycleEngine) recordPaymentEvents(ctx context.Context, loan model.Loan, alloc model.PaymentAllocation, outstandingBefore decimal.Decimal, now time.Time) error {
	applied := alloc.Applied()
	regular := decimal.Min(applied, outstandingBefore)

	var evs []model.ScheduledEvent
	add := func(typ valueobject.LoanEventType, amount decimal.Decimal) {
		if amount.LessThanOrEqual(decimal.Zero) {
			return
		}
		evs = append(evs, model.ScheduledEvent{
			ID:       uuid.New().String(),
			LoanID:   loan.ID(),
			Time:     now,
			Type:     typ,
			Amount:   amount,
			Executed: true,
		})
	}

	add(valueobject.EventTypePaymentMade, regular)
	extra := applied.Sub(regular)
	if extra.IsPositive() {
		// Attribute the extra to buckets back to front: principal absorbs
		// overage first since fees and interest are settled first by the
		// waterfall.
		extraPrincipal := decimal.Min(extra, alloc.Principal)
		extra = extra.Sub(extraPrincipal)
		extraInterest := decimal.Min(extra, alloc.Interest)
		extraFees := extra.Sub(extraInterest)
		add(valueobject.EventTypeExtraPrincipal, extraPrincipal)
		add(valueobject.EventTypeExtraInterest, extraInterest)
		add(valueobject.EventTypeExtraFees, extraFees)
	}

	if len(evs) == 0 {
		return nil
	}
	return e.events.Append(ctx, evs...)
}

// ---------------------------------------------------------------------------
// Sweep
// ---------------------------------------------------------------------------

// UpdateAll sweeps every open loan, oldest first, with bounded concurrency
// and a small random delay per loan to spread the load. One loan failing
// never stops the sweep.
func (e *LifecycleEngine) UpdateAll(ctx context.Context, now time.Time) (int, error) {
	started := time.Now()
	defer func() { lifecycleSweepDuration.Observe(time.Since(started).Seconds()) }()

	cfg := e.settings.Snapshot()
	ids, err := e.loans.FindOpenIDs(ctx)
	if err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.SweepWorkers)
	for _, id := range ids {
		g.Go(func() error {
			if cfg.SweepJitter > 0 {
				delay := rand.N(cfg.SweepJitter)
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			if err := e.Update(ctx, id, now); err != nil {
				e.logger.Error("lifecycle update failed", slog.String("loan_id", id), slog.Any("error", err))
			}
			return nil
		})
	}
	return len(ids), g.Wait()
}

// flush publishes collected domain events, logging rather than failing the
// operation when the broker is unavailable.
func (e *LifecycleEngine) flush(ctx context.Context, evs []event.DomainEvent) {
	if len(evs) == 0 {
		return
	}
	if err := e.publisher.Publish(ctx, evs...); err != nil {
		e.logger.Warn("publish domain events", slog.Int("count", len(evs)), slog.Any("error", err))
	}
}
