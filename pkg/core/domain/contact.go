package domain

import "time"

// Contact is a message left through the contact form
type Contact struct {
	ID        int64     `json:"contactId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Feedback is a rating left through the feedback form.
// Email is empty for anonymous visitors.
type Feedback struct {
	ID        int64     `json:"feedbackId"`
	Email     string    `json:"email,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Emotion   string    `json:"emotion,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DashboardStats is the admin overview
type DashboardStats struct {
	Collections       int64                 `json:"collections"`
	PublicCollections int64                 `json:"publicCollections"`
	ItemsByType       map[ContentType]int64 `json:"itemsByType"`
	Contacts          int64                 `json:"contacts"`
	Feedback          int64                 `json:"feedback"`
	AverageRating     float64               `json:"averageRating"`
}
