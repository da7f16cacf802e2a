package services

import (
	"context"
	"strings"
	"time"

	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
	"github.com/wadjakorntonsri/moodsync/pkg/ports"
)

type ContactService struct {
	repo ports.ContactRepository
}

func NewContactService(repo ports.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) SubmitContact(ctx context.Context, name, email, subject, message string) (*domain.Contact, error) {
	contact := &domain.Contact{
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Subject:   strings.TrimSpace(subject),
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now().UTC(),
	}
	if contact.Name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	if contact.Message == "" {
		return nil, domain.NewValidationError("message", "message is required")
	}

	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *ContactService) SubmitFeedback(ctx context.Context, email string, rating int, comment, emotion string) (*domain.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.NewValidationError("rating", "rating must be between 1 and 5")
	}

	feedback := &domain.Feedback{
		Email:     email,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		Emotion:   strings.TrimSpace(emotion),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateFeedback(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *ContactService) ListContacts(ctx context.Context, page, limit int) ([]domain.Contact, error) {
	limit, offset := paginate(page, limit)
	return s.repo.ListContacts(ctx, limit, offset)
}

func (s *ContactService) ListFeedback(ctx context.Context, page, limit int) ([]domain.Feedback, error) {
	limit, offset := paginate(page, limit)
	return s.repo.ListFeedback(ctx, limit, offset)
}

func (s *ContactService) GetDashboard(ctx context.Context) (*domain.DashboardStats, error) {
	return s.repo.GetDashboardStats(ctx)
}

const maxPage = 1 << 20

func paginate(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return limit, (page - 1) * limit
}
