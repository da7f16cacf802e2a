// Package client is the front-end facing REST client for the MoodSync API.
// Server DTOs are normalized into view models whose IDs are strings.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
	"github.com/wadjakorntonsri/moodsync/pkg/logger"
)

const (
	sessionCookie  = "auth_token"
	defaultMessage = "요청 처리 중 오류가 발생했습니다."
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrEmptyName    = errors.New("collection name is required")
)

// RequestError is any non-401 failure. Message is the server's error text
// when one could be read. Err is set for transport failures.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

type Item struct {
	ID           string    `json:"id"`
	CollectionID string    `json:"collectionId"`
	ContentType  string    `json:"contentType"`
	ContentTitle string    `json:"contentTitle"`
	AddedAt      time.Time `json:"addedAt"`
	ItemOrder    int       `json:"itemOrder"`
}

type Collection struct {
	ID          string    `json:"id"`
	OwnerEmail  string    `json:"ownerEmail"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"isPublic"`
	Items       []Item    `json:"items"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CollectionForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
}

type CollectionUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
}

type Session struct {
	LoggedIn bool   `json:"loggedIn"`
	Email    string `json:"email,omitempty"`
	Admin    bool   `json:"admin,omitempty"`
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        *slog.Logger
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithSessionToken seeds the cookie jar with an auth_token for baseURL.
func WithSessionToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Jar: jar, Timeout: 15 * time.Second},
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}
	if c.token != "" {
		c.httpClient.Jar.SetCookies(c.baseURL, []*http.Cookie{{Name: sessionCookie, Value: c.token, Path: "/"}})
	}
	return c, nil
}

// do sends in as JSON and decodes the response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log := c.requestLogger(ctx)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("API request failed", "method", method, "path", path, "error", err)
		return &RequestError{Message: defaultMessage, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{Status: resp.StatusCode, Message: serverMessage(resp.Body)}
		log.Warn("API returned an error", "method", method, "path", path, "status_code", resp.StatusCode, "message", reqErr.Message)
		return reqErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func serverMessage(r io.Reader) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil {
		return defaultMessage
	}
	switch {
	case body.Error != "":
		return body.Error
	case body.Message != "":
		return body.Message
	default:
		return defaultMessage
	}
}

func (c *Client) CheckAuth(ctx context.Context) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodGet, "/api/auth/check", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CreateCollection(ctx context.Context, form CollectionForm) (*Collection, error) {
	if strings.TrimSpace(form.Name) == "" {
		return nil, ErrEmptyName
	}
	var dto domain.Collection
	if err := c.do(ctx, http.MethodPost, "/api/collections", form, &dto); err != nil {
		return nil, err
	}
	return toCollection(dto), nil
}

func (c *Client) UpdateCollection(ctx context.Context, id string, update CollectionUpdate) (*Collection, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, ErrEmptyName
	}
	var dto domain.Collection
	if err := c.do(ctx, http.MethodPut, "/api/collections/"+url.PathEscape(id), update, &dto); err != nil {
		return nil, err
	}
	return toCollection(dto), nil
}

func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/collections/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListUserCollections(ctx context.Context) ([]Collection, error) {
	var dtos []domain.Collection
	if err := c.do(ctx, http.MethodGet, "/api/collections/user-collections", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]Collection, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, *toCollection(dto))
	}
	return out, nil
}

func (c *Client) GetCollection(ctx context.Context, id string) (*Collection, error) {
	var dto domain.Collection
	if err := c.do(ctx, http.MethodGet, "/api/collections/"+url.PathEscape(id), nil, &dto); err != nil {
		return nil, err
	}
	return toCollection(dto), nil
}

func (c *Client) AddItem(ctx context.Context, collectionID, contentType, title string) (*Item, error) {
	var dto domain.CollectionItem
	body := map[string]string{"contentType": contentType, "contentTitle": title}
	if err := c.do(ctx, http.MethodPost, "/api/collections/"+url.PathEscape(collectionID)+"/items", body, &dto); err != nil {
		return nil, err
	}
	item := toItem(dto)
	return &item, nil
}

func (c *Client) DeleteItem(ctx context.Context, collectionID, itemID string) error {
	path := fmt.Sprintf("/api/collections/%s/items/%s", url.PathEscape(collectionID), url.PathEscape(itemID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// UpdateItemOrder sends the full list of items with their itemOrder as given.
func (c *Client) UpdateItemOrder(ctx context.Context, collectionID string, items []Item) ([]Item, error) {
	entries := make([]domain.ItemOrder, 0, len(items))
	for _, it := range items {
		id, err := strconv.ParseInt(it.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("item id %q: %w", it.ID, err)
		}
		entries = append(entries, domain.ItemOrder{ID: id, ItemOrder: it.ItemOrder})
	}

	var dtos []domain.CollectionItem
	path := "/api/collections/" + url.PathEscape(collectionID) + "/items/full-update"
	if err := c.do(ctx, http.MethodPut, path, entries, &dtos); err != nil {
		return nil, err
	}
	return toItems(dtos), nil
}

type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

type FeedbackForm struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
	Emotion string `json:"emotion,omitempty"`
}

func (c *Client) SubmitContact(ctx context.Context, form ContactForm) error {
	return c.do(ctx, http.MethodPost, "/api/contacts", form, nil)
}

func (c *Client) SubmitFeedback(ctx context.Context, form FeedbackForm) error {
	return c.do(ctx, http.MethodPost, "/api/feedback", form, nil)
}

func toCollection(dto domain.Collection) *Collection {
	return &Collection{
		ID:          strconv.FormatInt(dto.ID, 10),
		OwnerEmail:  dto.OwnerEmail,
		Name:        dto.Name,
		Description: dto.Description,
		IsPublic:    dto.IsPublic,
		Items:       toItems(dto.Items),
		CreatedAt:   dto.CreatedAt,
		UpdatedAt:   dto.UpdatedAt,
	}
}

func toItems(dtos []domain.CollectionItem) []Item {
	out := make([]Item, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, toItem(dto))
	}
	return out
}

func toItem(dto domain.CollectionItem) Item {
	return Item{
		ID:           strconv.FormatInt(dto.ID, 10),
		CollectionID: strconv.FormatInt(dto.CollectionID, 10),
		ContentType:  string(dto.ContentType),
		ContentTitle: dto.ContentTitle,
		AddedAt:      dto.AddedAt,
		ItemOrder:    dto.ItemOrder,
	}
}

// requestLogger prefers a logger carried by ctx.
func (c *Client) requestLogger(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != slog.Default() {
		return l
	}
	return c.log
}
