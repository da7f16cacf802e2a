package ports

import (
	"context"

	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
)

// CollectionRepository defines storage operations for collections and their items.
// Lookups return nil, nil when the row does not exist.
type CollectionRepository interface {
	CreateCollection(ctx context.Context, collection *domain.Collection) error
	GetCollection(ctx context.Context, id int64) (*domain.Collection, error)
	UpdateCollection(ctx context.Context, collection *domain.Collection) error
	DeleteCollection(ctx context.Context, id int64) error // Items go with it
	ListCollectionsByOwner(ctx context.Context, ownerEmail string) ([]domain.Collection, error)
	Dump(ctx context.Context) ([]domain.Collection, error) // For migration

	// Items
	GetCollectionItems(ctx context.Context, collectionID int64) ([]domain.CollectionItem, error)
	AppendItem(ctx context.Context, item *domain.CollectionItem) error
	RemoveItem(ctx context.Context, collectionID, itemID int64) (bool, error)
	ReplaceItemOrder(ctx context.Context, collectionID int64, orderedIDs []int64) error
}

// ContactRepository stores contact and feedback form submissions
type ContactRepository interface {
	CreateContact(ctx context.Context, contact *domain.Contact) error
	ListContacts(ctx context.Context, limit, offset int) ([]domain.Contact, error)
	CreateFeedback(ctx context.Context, feedback *domain.Feedback) error
	ListFeedback(ctx context.Context, limit, offset int) ([]domain.Feedback, error)

	// Stats
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

// CollectionService defines business logic for collections.
// owner and viewer are the session email; viewer may be empty.
type CollectionService interface {
	CreateCollection(ctx context.Context, owner string, in domain.CollectionInput) (*domain.Collection, error)
	GetCollection(ctx context.Context, viewer string, id int64) (*domain.Collection, error)
	UpdateCollection(ctx context.Context, owner string, id int64, patch domain.CollectionPatch) (*domain.Collection, error)
	DeleteCollection(ctx context.Context, owner string, id int64) error
	ListUserCollections(ctx context.Context, owner string) ([]domain.Collection, error)
	AddItem(ctx context.Context, owner string, collectionID int64, contentType domain.ContentType, title string) (*domain.CollectionItem, error)
	RemoveItem(ctx context.Context, owner string, collectionID, itemID int64) error
	ReplaceItemOrder(ctx context.Context, owner string, collectionID int64, entries []domain.ItemOrder) ([]domain.CollectionItem, error)
}

// ContactService handles the contact and feedback forms and the admin views over them
type ContactService interface {
	SubmitContact(ctx context.Context, name, email, subject, message string) (*domain.Contact, error)
	SubmitFeedback(ctx context.Context, email string, rating int, comment, emotion string) (*domain.Feedback, error)
	ListContacts(ctx context.Context, page, limit int) ([]domain.Contact, error)
	ListFeedback(ctx context.Context, page, limit int) ([]domain.Feedback, error)
	GetDashboard(ctx context.Context) (*domain.DashboardStats, error)
}

// CatalogService serves the static mood catalog
type CatalogService interface {
	Emotions() []domain.Emotion
	Recommendations(emotion string, contentType domain.ContentType) ([]domain.Recommendation, error)
}

// ClassifierService trains and queries the in-memory demo model
type ClassifierService interface {
	Train(ctx context.Context) (*domain.TrainingResult, error)
	Predict(height, weight float64) (*domain.Prediction, error)
	Status() domain.ModelStatus
}

// TrainingDataSource fetches labelled rows for the classifier
type TrainingDataSource interface {
	Fetch(ctx context.Context) ([]domain.Sample, error)
}
