package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const scanColumns = `id, user_id, status, image_key, item_count, processing_time_ms, error_message, created_at, completed_at`

// ScanRepo хранит сканы, найденные предметы и их совпадения.
type ScanRepo struct {
	pool *pgxpool.Pool
}

func NewScanRepo(pool *pgxpool.Pool) *ScanRepo {
	return &ScanRepo{pool: pool}
}

func (s *ScanRepo) Create(ctx context.Context, scan *domain.Scan) error {
	m := converter.ScanToModel(scan)
	query := `
		INSERT INTO scans (` + scanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := tr.QuerierFromCtx(ctx, s.pool).Exec(ctx, query,
		m.ID, m.UserID, m.Status, m.ImageKey, m.ItemCount, m.ProcessingTimeMs, m.ErrorMessage, m.CreatedAt, m.CompletedAt,
	); err != nil {
		if postgresDuplicate(err) {
			return fmt.Errorf("%s: scan %s already exists", whereami.WhereAmI(), scan.ID)
		}
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// SaveItems записывает предметы и их совпадения одним батчем. Требует транзакцию в контексте.
func (s *ScanRepo) SaveItems(ctx context.Context, items []domain.DetectedItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	const (
		insertItem = `
			INSERT INTO detected_items (
				id, scan_id, category, bbox_x, bbox_y, bbox_width, bbox_height, confidence, embedding, position, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		insertMatch = `
			INSERT INTO item_matches (
				id, item_id, product_id, rank, similarity_score, is_budget_alternative, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	)

	batch := &pgx.Batch{}
	for i := range items {
		it := converter.DetectedItemToModel(&items[i], i)
		batch.Queue(insertItem,
			it.ID, it.ScanID, it.Category, it.BBoxX, it.BBoxY, it.BBoxWidth, it.BBoxHeight,
			it.Confidence, it.Embedding, it.Position, it.CreatedAt,
		)

		for j := range items[i].Matches {
			m := converter.ItemMatchToModel(&items[i].Matches[j])
			batch.Queue(insertMatch,
				m.ID, m.ItemID, m.ProductID, m.Rank, m.SimilarityScore, m.IsBudgetAlternative, m.CreatedAt,
			)
		}
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetByID возвращает скан с предметами в порядке детекции и совпадениями с товарами.
func (s *ScanRepo) GetByID(ctx context.Context, id string) (*domain.Scan, error) {
	q := tr.QuerierFromCtx(ctx, s.pool)

	scan, err := scanScan(q.QueryRow(ctx, `SELECT `+scanColumns+` FROM scans WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: scan %s: %w", whereami.WhereAmI(), id, e.ErrScanNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items, err := s.loadItems(ctx, q, scan.ID)
	if err != nil {
		return nil, err
	}
	scan.Items = items

	return scan, nil
}

func (s *ScanRepo) loadItems(ctx context.Context, q tr.Querier, scanID string) ([]domain.DetectedItem, error) {
	query := `
		SELECT id, scan_id, category, bbox_x, bbox_y, bbox_width, bbox_height, confidence, embedding, position, created_at
		FROM detected_items
		WHERE scan_id = $1
		ORDER BY position`

	rows, err := q.Query(ctx, query, scanID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items := make([]domain.DetectedItem, 0)
	index := make(map[string]int)
	for rows.Next() {
		var m converter.DetectedItemModel
		if err := rows.Scan(
			&m.ID, &m.ScanID, &m.Category, &m.BBoxX, &m.BBoxY, &m.BBoxWidth, &m.BBoxHeight,
			&m.Confidence, &m.Embedding, &m.Position, &m.CreatedAt,
		); err != nil {
			rows.Close()
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		index[m.ID] = len(items)
		items = append(items, *converter.DetectedItemToEntity(&m))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(items) == 0 {
		return items, nil
	}

	matches, err := s.loadMatches(ctx, q, scanID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		productIDs = append(productIDs, m.ProductID)
	}

	products, err := loadProducts(ctx, q, productIDs)
	if err != nil {
		return nil, err
	}

	for _, m := range matches {
		m.Product = products[m.ProductID]
		i, ok := index[m.ItemID]
		if !ok {
			continue
		}
		items[i].Matches = append(items[i].Matches, *m)
	}

	return items, nil
}

func (s *ScanRepo) loadMatches(ctx context.Context, q tr.Querier, scanID string) ([]*domain.ItemMatch, error) {
	query := `
		SELECT m.id, m.item_id, m.product_id, m.rank, m.similarity_score, m.is_budget_alternative, m.created_at
		FROM item_matches m
		JOIN detected_items i ON i.id = m.item_id
		WHERE i.scan_id = $1
		ORDER BY i.position, m.rank`

	rows, err := q.Query(ctx, query, scanID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	matches := make([]*domain.ItemMatch, 0)
	for rows.Next() {
		var m converter.ItemMatchModel
		if err := rows.Scan(
			&m.ID, &m.ItemID, &m.ProductID, &m.Rank, &m.SimilarityScore, &m.IsBudgetAlternative, &m.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		matches = append(matches, converter.ItemMatchToEntity(&m))
	}

	return matches, rows.Err()
}

// List возвращает страницу сканов пользователя без предметов и общее число сканов.
func (s *ScanRepo) List(ctx context.Context, userID string, skip, limit int) ([]domain.Scan, int, error) {
	q := tr.QuerierFromCtx(ctx, s.pool)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM scans WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `SELECT ` + scanColumns + `
		FROM scans
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		OFFSET $2 LIMIT $3`

	rows, err := q.Query(ctx, query, userID, skip, limit)
	if err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	scans := make([]domain.Scan, 0, limit)
	for rows.Next() {
		scan, err := scanScan(rows)
		if err != nil {
			return nil, 0, e.Wrap(whereami.WhereAmI(), err)
		}
		scans = append(scans, *scan)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return scans, total, nil
}

// Delete удаляет скан, предметы и совпадения удаляются каскадно.
func (s *ScanRepo) Delete(ctx context.Context, id string) error {
	tag, err := tr.QuerierFromCtx(ctx, s.pool).Exec(ctx, `DELETE FROM scans WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: scan %s: %w", whereami.WhereAmI(), id, e.ErrScanNotFound)
	}

	return nil
}

func scanScan(row pgx.Row) (*domain.Scan, error) {
	var m converter.ScanModel
	if err := row.Scan(
		&m.ID, &m.UserID, &m.Status, &m.ImageKey, &m.ItemCount, &m.ProcessingTimeMs, &m.ErrorMessage, &m.CreatedAt, &m.CompletedAt,
	); err != nil {
		return nil, err
	}

	return converter.ScanToEntity(&m), nil
}
