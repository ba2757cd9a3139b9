package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/internal/domains/article/model"
	"newsroom-backend/internal/shared/utils"
	"newsroom-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
//
// The whole document lives in the JSONB column `document`; the columns used by
// queries (status, slug, created_by, schedule...) are promoted next to it and
// written from the same struct on every save.

type postgresArticleRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &postgresArticleRepository{pool: pool}
}

// sortColumns whitelists ORDER BY expressions
var sortColumns = map[string]string{
	"":                "updated_at DESC",
	"-updated_at":     "updated_at DESC",
	"updated_at":      "updated_at ASC",
	"-published_date": "published_date DESC NULLS LAST",
	"published_date":  "published_date ASC NULLS LAST",
	"-created_at":     "created_at DESC",
	"created_at":      "created_at ASC",
	"scheduled":       "scheduled_publish_date ASC",
}

// whereBuilder collects predicates and positional args
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (w *whereBuilder) add(clause string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *whereBuilder) filter(f access.Filter) {
	if f.CreatedBy != nil {
		w.add("created_by = $%d", *f.CreatedBy)
	}
	if f.PublishedOnly {
		w.add("status = $%d", string(model.StatusPublished))
	}
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + utils.JoinWithAnd(w.clauses)
}

// =====================================================
// FIND
// =====================================================

func (r *postgresArticleRepository) Find(ctx context.Context, q Query) ([]*model.Article, int, error) {
	w := &whereBuilder{}
	w.filter(q.Filter)
	if q.Status != nil {
		w.add("status = $%d", string(*q.Status))
	}
	if q.Type != nil {
		w.add("type = $%d", string(*q.Type))
	}
	if len(q.ModerationStatuses) > 0 {
		statuses := make([]string, 0, len(q.ModerationStatuses))
		for _, s := range q.ModerationStatuses {
			statuses = append(statuses, string(s))
		}
		w.add("moderation_status = ANY($%d)", statuses)
	}
	if q.ScheduledBefore != nil {
		w.add("status = 'scheduled' AND scheduled_publish_date <= $%d", *q.ScheduledBefore)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM articles" + w.sql()
	if err := r.pool.QueryRow(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	orderBy, ok := sortColumns[q.Sort]
	if !ok {
		orderBy = sortColumns[""]
	}
	limit := q.Limit
	if limit <= 0 {
		limit = model.DefaultPageLimit
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	args := append(w.args, limit, (page-1)*limit)
	query := fmt.Sprintf("SELECT document FROM articles%s ORDER BY %s LIMIT $%d OFFSET $%d",
		w.sql(), orderBy, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*model.Article, 0, limit)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}
		a, err := decodeArticle(raw)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate articles: %w", err)
	}
	return articles, total, nil
}

// =====================================================
// FIND BY ID / SLUG
// =====================================================

func (r *postgresArticleRepository) FindByID(ctx context.Context, id uuid.UUID, f access.Filter) (*model.Article, error) {
	w := &whereBuilder{}
	w.add("id = $%d", id)
	w.filter(f)
	return r.findOne(ctx, w)
}

func (r *postgresArticleRepository) FindBySlug(ctx context.Context, slug string, f access.Filter) (*model.Article, error) {
	w := &whereBuilder{}
	w.add("slug = $%d", slug)
	w.filter(f)
	return r.findOne(ctx, w)
}

func (r *postgresArticleRepository) findOne(ctx context.Context, w *whereBuilder) (*model.Article, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, "SELECT document FROM articles"+w.sql(), w.args...).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewNotFoundError()
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return decodeArticle(raw)
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresArticleRepository) Create(ctx context.Context, a *model.Article) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode article: %w", err)
	}

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO articles (
				id, type, title, slug, status, moderation_status,
				created_by, updated_by, scheduled_publish_date, published_date,
				badges, version, document, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`
		_, err := tx.Exec(ctx, query,
			a.ID,
			string(a.Type),
			a.Title,
			a.Slug,
			string(a.Status),
			string(a.ModerationStatus),
			a.CreatedBy,
			a.UpdatedBy,
			a.ScheduledPublishDate,
			a.PublishedDate,
			pq.Array(a.Badges),
			a.Version,
			doc,
			a.CreatedAt,
			a.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return model.NewSlugConflictError(a.Slug)
			}
			return fmt.Errorf("failed to create article: %w", err)
		}
		return insertVersion(ctx, tx, a, doc)
	})
}

// =====================================================
// UPDATE (optimistic concurrency on version)
// =====================================================

func (r *postgresArticleRepository) Update(ctx context.Context, a *model.Article, expectedVersion int, f access.Filter) error {
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode article: %w", err)
	}

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		w := &whereBuilder{}
		w.args = []interface{}{
			string(a.Type),
			a.Title,
			a.Slug,
			string(a.Status),
			string(a.ModerationStatus),
			a.UpdatedBy,
			a.ScheduledPublishDate,
			a.PublishedDate,
			pq.Array(a.Badges),
			a.Version,
			doc,
			a.UpdatedAt,
		}
		w.add("id = $%d", a.ID)
		w.add("version = $%d", expectedVersion)
		w.filter(f)

		query := `
			UPDATE articles SET
				type = $1,
				title = $2,
				slug = $3,
				status = $4,
				moderation_status = $5,
				updated_by = $6,
				scheduled_publish_date = $7,
				published_date = $8,
				badges = $9,
				version = $10,
				document = $11,
				updated_at = $12
		` + w.sql()

		result, err := tx.Exec(ctx, query, w.args...)
		if err != nil {
			if isUniqueViolation(err) {
				return model.NewSlugConflictError(a.Slug)
			}
			return fmt.Errorf("failed to update article: %w", err)
		}

		if result.RowsAffected() == 0 {
			// Phân biệt: không tồn tại / ngoài filter vs. version đã đổi
			exists := &whereBuilder{}
			exists.add("id = $%d", a.ID)
			exists.filter(f)
			var found int
			err := tx.QueryRow(ctx, "SELECT 1 FROM articles"+exists.sql(), exists.args...).Scan(&found)
			if errors.Is(err, pgx.ErrNoRows) {
				return model.NewNotFoundError()
			}
			if err != nil {
				return fmt.Errorf("failed to check article: %w", err)
			}
			return model.NewVersionConflictError()
		}

		return insertVersion(ctx, tx, a, doc)
	})
}

// =====================================================
// DELETE
// =====================================================

func (r *postgresArticleRepository) Delete(ctx context.Context, id uuid.UUID, f access.Filter) error {
	w := &whereBuilder{}
	w.add("id = $%d", id)
	w.filter(f)

	result, err := r.pool.Exec(ctx, "DELETE FROM articles"+w.sql(), w.args...)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.NewNotFoundError()
	}
	return nil
}

// =====================================================
// VERSIONS
// =====================================================

func insertVersion(ctx context.Context, tx pgx.Tx, a *model.Article, doc []byte) error {
	query := `
		INSERT INTO article_versions (id, article_id, version, snapshot, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.Exec(ctx, query, uuid.New(), a.ID, a.Version, doc, a.UpdatedBy, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert article version: %w", err)
	}
	return nil
}

func (r *postgresArticleRepository) FindVersions(ctx context.Context, articleID uuid.UUID) ([]*model.Version, error) {
	query := `
		SELECT id, article_id, version, snapshot, created_by, created_at
		FROM article_versions
		WHERE article_id = $1
		ORDER BY version DESC
	`
	rows, err := r.pool.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	versions := make([]*model.Version, 0)
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate versions: %w", err)
	}
	return versions, nil
}

func (r *postgresArticleRepository) FindVersion(ctx context.Context, articleID, versionID uuid.UUID) (*model.Version, error) {
	query := `
		SELECT id, article_id, version, snapshot, created_by, created_at
		FROM article_versions
		WHERE id = $1 AND article_id = $2
	`
	v, err := scanVersion(r.pool.QueryRow(ctx, query, versionID, articleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewVersionNotFoundError()
		}
		return nil, err
	}
	return v, nil
}

func scanVersion(row pgx.Row) (*model.Version, error) {
	v := &model.Version{}
	var raw []byte
	if err := row.Scan(&v.ID, &v.ArticleID, &v.Version, &raw, &v.CreatedBy, &v.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan version: %w", err)
	}
	snapshot, err := decodeArticle(raw)
	if err != nil {
		return nil, err
	}
	v.Snapshot = snapshot
	return v, nil
}

// =====================================================
// HELPERS
// =====================================================

func decodeArticle(raw []byte) (*model.Article, error) {
	a := &model.Article{}
	if err := json.Unmarshal(raw, a); err != nil {
		return nil, fmt.Errorf("failed to decode article document: %w", err)
	}
	return a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
