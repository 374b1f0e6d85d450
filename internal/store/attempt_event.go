package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO attempt_events
			(sequence, timestamp, user_id, subtopic_id, problem_id, correct, score)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UTC().Format(timeFormat),
		data.UserID, data.SubtopicID, data.ProblemID,
		boolToInt(data.Correct), data.Score,
	)
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAttempts(ctx context.Context, userID string, opts QueryOpts) ([]AttemptEvent, error) {
	conds := []string{"user_id = ?"}
	args := []any{userID}
	if opts.After > 0 {
		conds = append(conds, "sequence > ?")
		args = append(args, opts.After)
	}
	if !opts.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, opts.From.UTC().Format(timeFormat))
	}

	query := `SELECT id, sequence, timestamp, user_id, subtopic_id, problem_id, correct, score
		FROM attempt_events WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY sequence ASC`
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var events []AttemptEvent
	for rows.Next() {
		var (
			e       AttemptEvent
			ts      string
			correct int
		)
		err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.UserID, &e.SubtopicID,
			&e.ProblemID, &correct, &e.Score)
		if err != nil {
			return nil, fmt.Errorf("scan attempt event: %w", err)
		}
		e.Correct = correct != 0
		e.Timestamp, err = time.Parse(timeFormat, ts)
		if err != nil {
			return nil, fmt.Errorf("parse event timestamp: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) AttemptTotals(ctx context.Context, userID string) ([]SubtopicTotals, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT subtopic_id, COUNT(*), SUM(correct)
		FROM attempt_events
		WHERE user_id = ?
		GROUP BY subtopic_id
		ORDER BY MIN(sequence) ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("attempt totals: %w", err)
	}
	defer rows.Close()

	var totals []SubtopicTotals
	for rows.Next() {
		var t SubtopicTotals
		if err := rows.Scan(&t.SubtopicID, &t.Attempts, &t.Correct); err != nil {
			return nil, fmt.Errorf("scan attempt totals: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *eventRepo) DeleteUserAttempts(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM attempt_events WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user attempts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
