package sqlite

import (
	"context"

	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
)

func (r *SQLiteRepository) CreateContact(ctx context.Context, contact *domain.Contact) error {
	query := `INSERT INTO contacts (name, email, subject, message, created_at) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, contact.Name, contact.Email, contact.Subject, contact.Message, contact.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	contact.ID = id
	return nil
}

func (r *SQLiteRepository) ListContacts(ctx context.Context, limit, offset int) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, subject, message, created_at
			  FROM contacts ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *SQLiteRepository) CreateFeedback(ctx context.Context, feedback *domain.Feedback) error {
	query := `INSERT INTO feedback (email, rating, comment, emotion, created_at) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, feedback.Email, feedback.Rating, feedback.Comment, feedback.Emotion, feedback.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	feedback.ID = id
	return nil
}

func (r *SQLiteRepository) ListFeedback(ctx context.Context, limit, offset int) ([]domain.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, email, rating, comment, emotion, created_at
			  FROM feedback ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Feedback{}
	for rows.Next() {
		var f domain.Feedback
		if err := rows.Scan(&f.ID, &f.Email, &f.Rating, &f.Comment, &f.Emotion, &f.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func (r *SQLiteRepository) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{
		ItemsByType: make(map[domain.ContentType]int64),
	}
	for _, ct := range domain.ContentTypes {
		stats.ItemsByType[ct] = 0
	}

	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(is_public), 0) FROM collections`).
		Scan(&stats.Collections, &stats.PublicCollections)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT content_type, COUNT(*) FROM collection_items GROUP BY content_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ct domain.ContentType
		var count int64
		if err := rows.Scan(&ct, &count); err != nil {
			return nil, err
		}
		stats.ItemsByType[ct] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&stats.Contacts); err != nil {
		return nil, err
	}
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM feedback`).
		Scan(&stats.Feedback, &stats.AverageRating)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
