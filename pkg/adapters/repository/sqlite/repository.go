package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
	"github.com/wadjakorntonsri/moodsync/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	// A local sqlite file only takes one writer; serializing avoids SQLITE_BUSY.
	if driverName == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS collections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_email TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_public INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_collections_owner ON collections(owner_email);

	CREATE TABLE IF NOT EXISTS collection_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		collection_id INTEGER NOT NULL,
		content_type TEXT NOT NULL CHECK (content_type IN ('music', 'activity', 'book')),
		content_title TEXT NOT NULL,
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		item_order INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY(collection_id) REFERENCES collections(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_collection_items_collection ON collection_items(collection_id, item_order);

	CREATE TABLE IF NOT EXISTS contacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		emotion TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(query)
	return err
}

// --- Collection Repository Implementation ---

func (r *SQLiteRepository) CreateCollection(ctx context.Context, collection *domain.Collection) error {
	query := `INSERT INTO collections (owner_email, name, description, is_public, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, collection.OwnerEmail, collection.Name, collection.Description,
		collection.IsPublic, collection.CreatedAt, collection.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	collection.ID = id
	return nil
}

const collectionColumns = `id, owner_email, name, description, is_public, created_at, updated_at`

func scanCollection(row interface{ Scan(...any) error }, c *domain.Collection) error {
	return row.Scan(&c.ID, &c.OwnerEmail, &c.Name, &c.Description, &c.IsPublic, &c.CreatedAt, &c.UpdatedAt)
}

func (r *SQLiteRepository) GetCollection(ctx context.Context, id int64) (*domain.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = ?`

	var c domain.Collection
	if err := scanCollection(r.db.QueryRowContext(ctx, query, id), &c); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteRepository) UpdateCollection(ctx context.Context, collection *domain.Collection) error {
	query := `UPDATE collections SET name = ?, description = ?, is_public = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, collection.Name, collection.Description, collection.IsPublic,
		collection.UpdatedAt, collection.ID)
	return err
}

func (r *SQLiteRepository) DeleteCollection(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// foreign_keys is off by default in sqlite, so the cascade is done by hand
	if _, err := tx.ExecContext(ctx, `DELETE FROM collection_items WHERE collection_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteRepository) ListCollectionsByOwner(ctx context.Context, ownerEmail string) ([]domain.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE owner_email = ? ORDER BY created_at DESC, id DESC`
	collections, err := r.queryCollections(ctx, query, ownerEmail)
	if err != nil {
		return nil, err
	}

	itemsQuery := `SELECT ` + itemColumns + ` FROM collection_items
			  WHERE collection_id IN (SELECT id FROM collections WHERE owner_email = ?)
			  ORDER BY collection_id, item_order ASC`
	if err := r.attachItems(ctx, collections, itemsQuery, ownerEmail); err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.Collection, error) {
	collections, err := r.queryCollections(ctx, `SELECT `+collectionColumns+` FROM collections ORDER BY id`)
	if err != nil {
		return nil, err
	}
	itemsQuery := `SELECT ` + itemColumns + ` FROM collection_items ORDER BY collection_id, item_order ASC`
	if err := r.attachItems(ctx, collections, itemsQuery); err != nil {
		return nil, err
	}
	return collections, nil
}

func (r *SQLiteRepository) queryCollections(ctx context.Context, query string, args ...any) ([]domain.Collection, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collections := []domain.Collection{}
	for rows.Next() {
		var c domain.Collection
		if err := scanCollection(rows, &c); err != nil {
			return nil, err
		}
		c.Items = []domain.CollectionItem{}
		collections = append(collections, c)
	}
	return collections, rows.Err()
}

func (r *SQLiteRepository) attachItems(ctx context.Context, collections []domain.Collection, query string, args ...any) error {
	index := make(map[int64]int, len(collections))
	for i := range collections {
		index[collections[i].ID] = i
	}

	items, err := r.queryItems(ctx, query, args...)
	if err != nil {
		return err
	}
	for _, it := range items {
		if i, ok := index[it.CollectionID]; ok {
			collections[i].Items = append(collections[i].Items, it)
		}
	}
	return nil
}

// --- Items ---

const itemColumns = `id, collection_id, content_type, content_title, added_at, item_order`

func (r *SQLiteRepository) queryItems(ctx context.Context, query string, args ...any) ([]domain.CollectionItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.CollectionItem{}
	for rows.Next() {
		var it domain.CollectionItem
		if err := rows.Scan(&it.ID, &it.CollectionID, &it.ContentType, &it.ContentTitle, &it.AddedAt, &it.ItemOrder); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) GetCollectionItems(ctx context.Context, collectionID int64) ([]domain.CollectionItem, error) {
	query := `SELECT ` + itemColumns + ` FROM collection_items WHERE collection_id = ? ORDER BY item_order ASC, id ASC`
	return r.queryItems(ctx, query, collectionID)
}

// AppendItem places the item after the current last one.
func (r *SQLiteRepository) AppendItem(ctx context.Context, item *domain.CollectionItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM collection_items WHERE collection_id = ?`, item.CollectionID).Scan(&count); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO collection_items (collection_id, content_type, content_title, added_at, item_order)
			  VALUES (?, ?, ?, ?, ?)`, item.CollectionID, item.ContentType, item.ContentTitle, item.AddedAt, count)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := touchCollection(ctx, tx, item.CollectionID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	item.ID = id
	item.ItemOrder = count
	return nil
}

// RemoveItem deletes one item and closes the gap it leaves behind.
// It reports false when the item is not part of the collection.
func (r *SQLiteRepository) RemoveItem(ctx context.Context, collectionID, itemID int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var order int
	err = tx.QueryRowContext(ctx, `SELECT item_order FROM collection_items WHERE id = ? AND collection_id = ?`, itemID, collectionID).Scan(&order)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM collection_items WHERE id = ?`, itemID); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE collection_items SET item_order = item_order - 1
			  WHERE collection_id = ? AND item_order > ?`, collectionID, order); err != nil {
		return false, err
	}
	if err := touchCollection(ctx, tx, collectionID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// ReplaceItemOrder writes item_order = position for every id, atomically.
func (r *SQLiteRepository) ReplaceItemOrder(ctx context.Context, collectionID int64, orderedIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE collection_items SET item_order = ? WHERE id = ? AND collection_id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, id := range orderedIDs {
		res, err := stmt.ExecContext(ctx, i, id, collectionID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
		}
	}
	if err := touchCollection(ctx, tx, collectionID); err != nil {
		return err
	}
	return tx.Commit()
}

func touchCollection(ctx context.Context, tx *sql.Tx, collectionID int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE collections SET updated_at = ? WHERE id = ?`, time.Now().UTC(), collectionID)
	return err
}

// Ensure interface compliance
var (
	_ ports.CollectionRepository = (*SQLiteRepository)(nil)
	_ ports.ContactRepository    = (*SQLiteRepository)(nil)
)
