package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the Postgres-backed Store. Per-account linearizability comes
// from taking a row lock on the account inside the same transaction as the
// balance check and the pending insert; resolution is a compare-and-set on
// status = 'pending'.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

func (s *PGStore) AppendEarning(ctx context.Context, e EarningEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO earnings (id, account_id, amount, earned_at, description, source_release_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.AccountID, int64(e.Amount), e.EarnedAt, e.Description, e.SourceReleaseID,
	)
	if err != nil {
		return unavailable("append earning", err)
	}
	return nil
}

func (s *PGStore) AvailableBalance(ctx context.Context, accountID string, asOf time.Time) (Cents, error) {
	return balanceIn(ctx, s.pool, accountID, asOf)
}

// querier covers both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func balanceIn(ctx context.Context, q querier, accountID string, asOf time.Time) (Cents, error) {
	var earned, outstanding int64
	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM earnings
		 WHERE account_id = $1 AND earned_at <= $2`,
		accountID, asOf,
	).Scan(&earned)
	if err != nil {
		return 0, unavailable("sum earnings", err)
	}
	err = q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM withdrawals
		 WHERE account_id = $1 AND requested_at <= $2 AND status IN ('pending', 'approved')`,
		accountID, asOf,
	).Scan(&outstanding)
	if err != nil {
		return 0, unavailable("sum withdrawals", err)
	}
	balance := Cents(earned - outstanding)
	if balance < 0 {
		return balance, ErrInconsistency
	}
	return balance, nil
}

func (s *PGStore) CreateWithdrawal(ctx context.Context, in CreateWithdrawalInput, now time.Time) (WithdrawalEvent, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return WithdrawalEvent{}, unavailable("begin", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// Serialize withdrawal admission per account. The lock is held until
	// commit, so the balance read below cannot go stale under a concurrent
	// request for the same account.
	var locked string
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, in.AccountID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WithdrawalEvent{}, ErrNotFound
		}
		return WithdrawalEvent{}, unavailable("lock account", err)
	}

	balance, err := balanceIn(ctx, tx, in.AccountID, now)
	if err != nil {
		return WithdrawalEvent{}, err
	}
	if in.Amount > balance {
		return WithdrawalEvent{}, reject(ReasonInsufficientBalance,
			"requested %s but only %s is available", in.Amount.String(), balance.String())
	}

	w := WithdrawalEvent{
		ID:          uuid.New().String(),
		AccountID:   in.AccountID,
		Amount:      in.Amount,
		Destination: in.Destination,
		Status:      StatusPending,
		RequestedAt: now,
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO withdrawals (id, account_id, amount, destination, status, requested_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		w.ID, w.AccountID, int64(w.Amount), w.Destination, string(w.Status), w.RequestedAt,
	)
	if err != nil {
		return WithdrawalEvent{}, unavailable("insert withdrawal", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return WithdrawalEvent{}, unavailable("commit", err)
	}
	return w, nil
}

const withdrawalColumns = `id, account_id, amount, destination, status, requested_at, processed_at, note`

func scanWithdrawal(row pgx.Row) (WithdrawalEvent, error) {
	var w WithdrawalEvent
	var amount int64
	var status string
	err := row.Scan(&w.ID, &w.AccountID, &amount, &w.Destination, &status,
		&w.RequestedAt, &w.ProcessedAt, &w.Note)
	if err != nil {
		return WithdrawalEvent{}, err
	}
	w.Amount = Cents(amount)
	w.Status = Status(status)
	return w, nil
}

func (s *PGStore) ResolveWithdrawal(ctx context.Context, withdrawalID string, decision Decision, note *string, now time.Time) (WithdrawalEvent, error) {
	// Compare-and-set: the transition only succeeds if the row is still
	// pending. Exactly one of two concurrent resolutions wins.
	row := s.pool.QueryRow(ctx,
		`UPDATE withdrawals
		 SET status = $1, processed_at = $2, note = $3
		 WHERE id = $4 AND status = 'pending'
		 RETURNING `+withdrawalColumns,
		string(decision), now, note, withdrawalID,
	)
	w, err := scanWithdrawal(row)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return WithdrawalEvent{}, unavailable("resolve withdrawal", err)
	}

	// No pending row matched: either already resolved, or never existed.
	existing, gerr := s.GetWithdrawal(ctx, withdrawalID)
	if gerr != nil {
		return WithdrawalEvent{}, gerr
	}
	return WithdrawalEvent{}, reject(ReasonAlreadyResolved,
		"withdrawal is already %s", existing.Status)
}

func (s *PGStore) GetWithdrawal(ctx context.Context, withdrawalID string) (WithdrawalEvent, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, withdrawalID)
	w, err := scanWithdrawal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WithdrawalEvent{}, ErrNotFound
		}
		return WithdrawalEvent{}, unavailable("get withdrawal", err)
	}
	return w, nil
}

func (s *PGStore) ListWithdrawals(ctx context.Context, f ListFilter) ([]WithdrawalEvent, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals`
	var args []any
	var where []string
	if f.AccountID != "" {
		args = append(args, f.AccountID)
		where = append(where, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY requested_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list withdrawals", err)
	}
	defer rows.Close()

	var out []WithdrawalEvent
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, unavailable("scan withdrawal", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list withdrawals", err)
	}
	return out, nil
}

func (s *PGStore) ListEarnings(ctx context.Context, accountID string) ([]EarningEvent, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, account_id, amount, earned_at, description, source_release_id
		 FROM earnings WHERE account_id = $1 ORDER BY earned_at DESC`, accountID)
	if err != nil {
		return nil, unavailable("list earnings", err)
	}
	defer rows.Close()

	var out []EarningEvent
	for rows.Next() {
		var e EarningEvent
		var amount int64
		if err := rows.Scan(&e.ID, &e.AccountID, &amount, &e.EarnedAt, &e.Description, &e.SourceReleaseID); err != nil {
			return nil, unavailable("scan earning", err)
		}
		e.Amount = Cents(amount)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list earnings", err)
	}
	return out, nil
}
