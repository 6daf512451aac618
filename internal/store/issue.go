package store

import (
	"context"
	"fmt"

	"civicreport/internal/utils"
	"civicreport/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

const issueTableName = "issues"

var issueColumns = utils.StructTagValues(types.Issue{})

type IssueRepository struct {
	db DB
}

func NewIssueRepository(db DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// CreateIssue inserts the issue in its own transaction and returns the id and
// timestamp assigned by the database.
func (r *IssueRepository) CreateIssue(ctx context.Context, issue *types.NewIssue) (*types.CreatedIssue, error) {

	query, args, err := insertIssueQuery(issue).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insert issue query: %w", err)
	}

	var created = new(types.CreatedIssue)
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		return pgxscan.Get(ctx, tx, created, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	return created, nil
}

// Issues returns one page of issues matching the filter together with the
// number of matching issues across all pages. The two queries do not share a
// transaction.
func (r *IssueRepository) Issues(ctx context.Context, filter types.IssueFilter) ([]*types.Issue, uint64, error) {

	query, args, err := listIssuesQuery(filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate list issues query: %w", err)
	}

	countQuery, countArgs, err := countIssuesQuery(filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to generate count issues query: %w", err)
	}

	var issues []*types.Issue
	if err := pgxscan.Select(ctx, r.db, &issues, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch issues: %w", err)
	}

	var total int64
	if err := pgxscan.Get(ctx, r.db, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count issues: %w", err)
	}

	return issues, uint64(total), nil
}

func (r *IssueRepository) Issue(ctx context.Context, id int64) (*types.Issue, error) {

	query, args, err := psql().Select(issueColumns...).From(issueTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate issue query: %w", err)
	}

	var issue = new(types.Issue)
	err = pgxscan.Get(ctx, r.db, issue, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, fmt.Errorf("failed to fetch issue %d: %w", id, err)
	}

	if err != nil {
		return nil, types.ErrIssueNotFound
	}

	return issue, nil
}

func (r *IssueRepository) Ping(ctx context.Context) error {
	return utils.ErrorWrapOrNil(r.db.Ping(ctx), "failed to ping database")
}

// issueFilterPredicate is always true when no filter is set, then narrows by
// type and status, in that order.
func issueFilterPredicate(filter types.IssueFilter) sq.And {
	predicate := sq.And{}

	if filter.Type != "" {
		predicate = append(predicate, sq.Eq{"type": filter.Type})
	}

	if filter.Status != "" {
		predicate = append(predicate, sq.Eq{"status": filter.Status})
	}

	return predicate
}

func listIssuesQuery(filter types.IssueFilter) sq.SelectBuilder {
	return psql().Select(issueColumns...).From(issueTableName).
		Where(issueFilterPredicate(filter)).
		OrderBy("timestamp DESC", "id DESC").
		Limit(filter.PerPage).
		Offset(filter.Offset())
}

func countIssuesQuery(filter types.IssueFilter) sq.SelectBuilder {
	return psql().Select("COUNT(*)").From(issueTableName).
		Where(issueFilterPredicate(filter))
}

func insertIssueQuery(issue *types.NewIssue) sq.InsertBuilder {
	row := utils.StructToMap(issue)
	row["timestamp"] = sq.Expr("CURRENT_TIMESTAMP")

	return psql().Insert(issueTableName).
		SetMap(row).
		Suffix("RETURNING id, timestamp")
}
