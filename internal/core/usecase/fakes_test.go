package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"

	"github.com/google/uuid"
)

// --- properties ---

type fakePropertyRepo struct {
	mu         sync.Mutex
	rows       map[uuid.UUID]*domain.Property
	verified   map[uuid.UUID]*bool
	createErr  error
	findErr    error
	inserted   int
	lastFilter domain.PropertyFilters
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{
		rows:     make(map[uuid.UUID]*domain.Property),
		verified: make(map[uuid.UUID]*bool),
	}
}

func (r *fakePropertyRepo) Create(ctx context.Context, l domain.NewListing) (*domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.inserted++
	f := false
	p := &domain.Property{
		ID:           uuid.New(),
		Title:        l.Title,
		Description:  l.Description,
		City:         l.City,
		State:        l.State,
		Pincode:      l.Pincode,
		Price:        l.Price,
		HeroURL:      l.HeroURL,
		Verification: domain.VerificationFromColumn(&f),
		CreatedAt:    time.Now().Add(time.Duration(r.inserted) * time.Millisecond),
	}
	r.rows[p.ID] = p
	r.verified[p.ID] = &f
	cp := *p
	return &cp, nil
}

// insertLegacy добавляет строку со старой схемой: verification = NULL.
func (r *fakePropertyRepo) insertLegacy(title string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := "VERIFIED"
	p := &domain.Property{ID: uuid.New(), Title: title, City: "Nashik", State: "MH", LegacyStatus: &status, CreatedAt: time.Now()}
	p.Verification = domain.VerificationFromColumn(nil)
	r.rows[p.ID] = p
	r.verified[p.ID] = nil
	return p.ID
}

func (r *fakePropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePropertyRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *fakePropertyRepo) Find(ctx context.Context, filters domain.PropertyFilters, limit, offset int) (*domain.PaginatedProperties, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filters
	if r.findErr != nil {
		return nil, r.findErr
	}
	var all []domain.Property
	for _, p := range r.rows {
		if filters.VerifiedOnly && !p.Verification.IsVerified() {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return &domain.PaginatedProperties{Properties: all[offset:end], TotalCount: total}, nil
}

func (r *fakePropertyRepo) FindSummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.PropertySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.PropertySummary
	for _, id := range ids {
		if p, ok := r.rows[id]; ok {
			out = append(out, p.Summary())
		}
	}
	return out, nil
}

func (r *fakePropertyRepo) SetVerification(ctx context.Context, id uuid.UUID, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return domain.ErrPropertyNotFound
	}
	v := verified
	r.verified[id] = &v
	p.Verification = domain.VerificationFromColumn(&v)
	return nil
}

// --- images ---

type fakeImageRepo struct {
	mu        sync.Mutex
	rows      []domain.PropertyImage
	createErr error
}

func (r *fakeImageRepo) Create(ctx context.Context, propertyID uuid.UUID, path string) (*domain.PropertyImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	img := domain.PropertyImage{ID: uuid.New(), PropertyID: propertyID, Path: path, CreatedAt: time.Now()}
	r.rows = append(r.rows, img)
	return &img, nil
}

func (r *fakeImageRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.PropertyImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.PropertyImage
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].PropertyID == propertyID {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *fakeImageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// --- blobs ---

type storedBlob struct {
	data        []byte
	contentType string
}

type fakeBlobStorage struct {
	mu        sync.Mutex
	objects   map[string]storedBlob
	uploads   int
	uploadErr error
	removeErr error
	removed   [][]string
}

func newFakeBlobStorage() *fakeBlobStorage {
	return &fakeBlobStorage{objects: make(map[string]storedBlob)}
}

func (s *fakeBlobStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	if s.uploadErr != nil {
		return s.uploadErr
	}
	if _, ok := s.objects[key]; ok {
		return domain.ErrObjectExists
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = storedBlob{data: data, contentType: contentType}
	return nil
}

func (s *fakeBlobStorage) Remove(ctx context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, keys)
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.removeErr != nil {
		return s.removeErr
	}
	for _, k := range keys {
		delete(s.objects, k)
	}
	return nil
}

func (s *fakeBlobStorage) PublicURL(key string) string {
	return "https://cdn.example.com/media/" + key
}

func (s *fakeBlobStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

func (s *fakeBlobStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// --- leads ---

type fakeLeadRepo struct {
	mu        sync.Mutex
	rows      []domain.Lead
	createErr error
}

func (r *fakeLeadRepo) Create(ctx context.Context, l domain.NewLead) (*domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	lead := domain.Lead{
		ID:         uuid.New(),
		PropertyID: l.PropertyID,
		FullName:   l.FullName,
		Phone:      l.Phone,
		CreatedAt:  time.Now().Add(time.Duration(len(r.rows)) * time.Millisecond),
	}
	r.rows = append(r.rows, lead)
	return &lead, nil
}

func (r *fakeLeadRepo) ListRecent(ctx context.Context, limit int) ([]domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Lead
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.rows[i])
	}
	return out, nil
}

// --- events ---

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) routingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.events))
	for _, e := range p.events {
		keys = append(keys, e.RoutingKey())
	}
	return keys
}

// --- ops auth ---

type fakeOpsUsers struct {
	users map[string]*domain.OpsUser
	err   error
}

func (r *fakeOpsUsers) FindByEmail(ctx context.Context, email string) (*domain.OpsUser, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.users[email], nil
}

type fakeTokens struct {
	mu     sync.Mutex
	issued map[string]*domain.OpsSession
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{issued: make(map[string]*domain.OpsSession)}
}

func (t *fakeTokens) GenerateToken(ctx context.Context, s *domain.OpsSession) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	token := "token-" + s.ID.String()
	cp := *s
	t.issued[token] = &cp
	return token, nil
}

func (t *fakeTokens) ValidateToken(ctx context.Context, token string) (*domain.OpsSession, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.issued[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	return s, nil
}

type fakeSessions struct {
	mu   sync.Mutex
	live map[uuid.UUID]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{live: make(map[uuid.UUID]string)}
}

func (s *fakeSessions) Save(ctx context.Context, session *domain.OpsSession, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[session.ID] = session.Email
	return nil
}

func (s *fakeSessions) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live[id]
	return ok, nil
}

func (s *fakeSessions) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, id)
	return nil
}

// --- helpers ---

func jpegFile(name string) domain.ImageFile {
	data := []byte("\xff\xd8\xff\xe0fake-jpeg")
	return domain.ImageFile{FileName: name, ContentType: "image/jpeg", Size: int64(len(data)), Body: bytes.NewReader(data)}
}

func heicFile() domain.ImageFile {
	data := []byte("ftypheic")
	return domain.ImageFile{FileName: "IMG_0001.heic", ContentType: "image/heic", Size: int64(len(data)), Body: bytes.NewReader(data)}
}

var errStoreDown = errors.New("connection refused")
