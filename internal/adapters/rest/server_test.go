package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/domain"
	"github.com/aatrips/Verified-land-marketplace/internal/core/policy"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- stubs ---

type nopLogger struct{}

func (nopLogger) Info(string, port.Fields)                 {}
func (nopLogger) Warn(string, port.Fields)                 {}
func (nopLogger) Error(string, error, port.Fields)         {}
func (nopLogger) Debug(string, port.Fields)                {}
func (l nopLogger) WithFields(port.Fields) port.LoggerPort { return l }

type stubFind struct {
	filters       domain.PropertyFilters
	limit, offset int
	result        *domain.PaginatedProperties
	err           error
}

func (s *stubFind) Execute(ctx context.Context, filters domain.PropertyFilters, limit, offset int) (*domain.PaginatedProperties, error) {
	s.filters, s.limit, s.offset = filters, limit, offset
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &domain.PaginatedProperties{Properties: []domain.Property{}, CurrentPage: 1, ItemsPerPage: limit}, nil
}

type stubDetails struct {
	details *domain.PropertyDetails
	err     error
}

func (s *stubDetails) Execute(ctx context.Context, id uuid.UUID) (*domain.PropertyDetails, error) {
	return s.details, s.err
}

type stubImages struct{}

func (stubImages) Execute(ctx context.Context, id uuid.UUID) ([]domain.PropertyImage, error) {
	return []domain.PropertyImage{}, nil
}

type receivedImage struct {
	name, contentType string
	size              int64
	data              []byte
}

type stubSubmit struct {
	listing domain.NewListing
	images  []receivedImage
	id      uuid.UUID
	err     error
}

func (s *stubSubmit) Execute(ctx context.Context, listing domain.NewListing, images []domain.ImageFile) (uuid.UUID, error) {
	s.listing = listing
	for _, img := range images {
		data, _ := io.ReadAll(img.Body)
		s.images = append(s.images, receivedImage{name: img.FileName, contentType: img.ContentType, size: img.Size, data: data})
	}
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return s.id, nil
}

type stubUpload struct {
	propertyID uuid.UUID
	file       receivedImage
	err        error
}

func (s *stubUpload) Execute(ctx context.Context, propertyID uuid.UUID, file domain.ImageFile) (*domain.UploadedImage, error) {
	s.propertyID = propertyID
	data, _ := io.ReadAll(file.Body)
	s.file = receivedImage{name: file.FileName, contentType: file.ContentType, size: file.Size, data: data}
	if s.err != nil {
		return nil, s.err
	}
	path := "property-" + propertyID.String() + "/img.jpg"
	return &domain.UploadedImage{ID: uuid.New(), PropertyID: propertyID, Path: path, PublicURL: "http://localhost/media/" + path}, nil
}

type stubHero struct{}

func (stubHero) Execute(ctx context.Context, file domain.ImageFile) (*domain.UploadedImage, error) {
	return &domain.UploadedImage{Path: "heroes/h.png", PublicURL: "http://localhost/media/heroes/h.png"}, nil
}

type stubCapture struct {
	lead  domain.NewLead
	calls int
	err   error
}

func (s *stubCapture) Execute(ctx context.Context, lead domain.NewLead) error {
	s.lead = lead
	s.calls++
	return s.err
}

type stubListLeads struct {
	rows []domain.LeadWithProperty
}

func (s *stubListLeads) Execute(ctx context.Context) ([]domain.LeadWithProperty, error) {
	return s.rows, nil
}

type stubVerify struct {
	propertyID uuid.UUID
	verified   bool
	principal  *domain.OpsPrincipal
	err        error
}

func (s *stubVerify) Execute(ctx context.Context, propertyID uuid.UUID, verified bool) error {
	s.propertyID, s.verified = propertyID, verified
	s.principal = contextkeys.PrincipalFromContext(ctx)
	return s.err
}

type stubLogin struct{}

func (stubLogin) Execute(ctx context.Context, email, password string) (string, *domain.OpsSession, error) {
	if email != "ops@example.com" || password != "pw" {
		return "", nil, domain.ErrInvalidCredentials
	}
	return "signed-token", &domain.OpsSession{ID: uuid.New(), Email: email, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type stubLogout struct {
	token string
}

func (s *stubLogout) Execute(ctx context.Context, token string) error {
	s.token = token
	return nil
}

type stubBlobs struct {
	objects map[string]string
}

func (s stubBlobs) Open(ctx context.Context, key string) (io.ReadCloser, string, int64, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, "", 0, domain.ErrObjectNotFound
	}
	return io.NopCloser(strings.NewReader(data)), "image/png", int64(len(data)), nil
}

// --- fixture ---

type testServer struct {
	handler http.Handler
	find    *stubFind
	details *stubDetails
	submit  *stubSubmit
	upload  *stubUpload
	capture *stubCapture
	leads   *stubListLeads
	verify  *stubVerify
	logout  *stubLogout
}

func newTestServer(accessPolicy port.AccessPolicyPort, sessions bool) *testServer {
	ts := &testServer{
		find:    &stubFind{},
		details: &stubDetails{},
		submit:  &stubSubmit{id: uuid.New()},
		upload:  &stubUpload{},
		capture: &stubCapture{},
		leads:   &stubListLeads{},
		verify:  &stubVerify{},
		logout:  &stubLogout{},
	}

	ops := NewOpsHandler(ts.leads, ts.find, ts.verify, nil, nil, OpsHandlerConfig{AuthMode: accessPolicy.Mode(), Env: "test"})
	if sessions {
		ops = NewOpsHandler(ts.leads, ts.find, ts.verify, stubLogin{}, ts.logout, OpsHandlerConfig{AuthMode: accessPolicy.Mode(), Env: "test"})
	}

	ts.handler = NewRouter(ServerConfig{Port: "0"}, Handlers{
		Properties: NewPropertyHandler(ts.find, ts.details, stubImages{}, ts.submit, 0),
		Images:     NewImageHandler(ts.upload, stubHero{}, 0),
		Leads:      NewLeadHandler(ts.capture),
		Ops:        ops,
		Media:      NewMediaHandler(stubBlobs{objects: map[string]string{"heroes/h.png": "PNGDATA"}}),
	}, accessPolicy, nopLogger{})
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

type filePart struct {
	field, name, contentType, data string
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.name))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

var prodSecret = policy.NewSharedSecretPolicy("s3cret", true)

// --- ops access ---

func TestOpsAccess_SharedSecretInProduction(t *testing.T) {
	ts := newTestServer(prodSecret, false)

	for _, target := range []string{
		"/api/v1/ops/leads",
		"/api/v1/ops/leads?key=wrong",
		"/api/v1/ops/properties",
		"/api/v1/ops/health",
	} {
		rec := ts.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String(), target)
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/ops/leads?key=s3cret", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ops/properties", nil)
	req.Header.Set("X-Ops-Key", " s3cret ")
	rec = ts.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
}

func TestOpsAccess_DevBypass(t *testing.T) {
	ts := newTestServer(policy.NewSharedSecretPolicy("s3cret", false), false)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/ops/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["dev_bypass"])
	assert.Equal(t, domain.AuthMethodSharedSecret, body["mode"])
	assert.Equal(t, "test", body["env"])
}

func TestOpsLeads_UnmatchedLeadKeepsRawID(t *testing.T) {
	ts := newTestServer(prodSecret, false)
	matched := domain.PropertySummary{ID: uuid.New(), Title: "Plot A", City: "Pune", State: "MH", Verification: domain.VerificationVerified}
	ghost := uuid.New()
	ts.leads.rows = []domain.LeadWithProperty{
		{Lead: domain.Lead{ID: uuid.New(), PropertyID: matched.ID, FullName: "Asha", Phone: "1"}, Property: &matched},
		{Lead: domain.Lead{ID: uuid.New(), PropertyID: ghost, FullName: "Ravi", Phone: "2"}},
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/ops/leads?key=s3cret", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rows []struct {
			PropertyID string                 `json:"property_id"`
			FullName   string                 `json:"full_name"`
			Property   map[string]interface{} `json:"property"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "Plot A", resp.Rows[0].Property["title"])
	assert.Equal(t, "VERIFIED", resp.Rows[0].Property["verification"])
	assert.Nil(t, resp.Rows[1].Property)
	assert.Equal(t, ghost.String(), resp.Rows[1].PropertyID)
}

func TestOpsSetVerification(t *testing.T) {
	ts := newTestServer(prodSecret, false)
	id := uuid.New()
	target := "/api/v1/ops/properties/" + id.String() + "/verification?key=s3cret"

	rec := ts.do(httptest.NewRequest(http.MethodPatch, target, strings.NewReader(`{"verification":true}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, id, ts.verify.propertyID)
	assert.True(t, ts.verify.verified)
	require.NotNil(t, ts.verify.principal)
	assert.Equal(t, domain.AuthMethodSharedSecret, ts.verify.principal.Method)
	assert.Equal(t, "VERIFIED", decodeBody(t, rec)["verification"])

	rec = ts.do(httptest.NewRequest(http.MethodPatch, target, strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodPatch, "/api/v1/ops/properties/not-a-uuid/verification?key=s3cret", strings.NewReader(`{"verification":true}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.verify.err = domain.ErrPropertyNotFound
	rec = ts.do(httptest.NewRequest(http.MethodPatch, target, strings.NewReader(`{"verification":false}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodPatch, "/api/v1/ops/properties/"+id.String()+"/verification", strings.NewReader(`{"verification":true}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOpsSessionRoutes(t *testing.T) {
	ts := newTestServer(prodSecret, false)
	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/ops/session", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	ts = newTestServer(prodSecret, true)
	rec = ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/ops/session", strings.NewReader(`{"email":"ops@example.com","password":"bad"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/ops/session", strings.NewReader(`{"email":"ops@example.com","password":"pw"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "ops_session", cookies[0].Name)
	assert.Equal(t, "signed-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/ops/session", nil)
	req.AddCookie(&http.Cookie{Name: "ops_session", Value: "signed-token"})
	rec = ts.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signed-token", ts.logout.token)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

// --- public routes ---

func TestFindProperties_ParsesQuery(t *testing.T) {
	ts := newTestServer(prodSecret, false)
	ts.find.result = &domain.PaginatedProperties{
		Properties:   []domain.Property{{ID: uuid.New(), Title: "Plot A", City: "Pune", State: "MH", Verification: domain.VerificationPending}},
		TotalCount:   31,
		CurrentPage:  3,
		ItemsPerPage: 12,
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/properties?city=pune&verified=true&sort=priceAsc&page=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "pune", ts.find.filters.City)
	assert.True(t, ts.find.filters.VerifiedOnly)
	assert.Equal(t, domain.SortPriceAsc, ts.find.filters.Sort)
	assert.Equal(t, 12, ts.find.limit)
	assert.Equal(t, 24, ts.find.offset)

	body := decodeBody(t, rec)
	assert.EqualValues(t, 31, body["total"])
	props := body["properties"].([]interface{})
	require.Len(t, props, 1)
	first := props[0].(map[string]interface{})
	assert.Equal(t, "PENDING", first["verification"])
	assert.Equal(t, false, first["verified"])
	assert.Nil(t, first["hero_url"])
}

func TestFindProperties_PerPageIsCapped(t *testing.T) {
	ts := newTestServer(prodSecret, false)
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/properties?perPage=500&page=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxPerPage, ts.find.limit)
	assert.Equal(t, maxPerPage, ts.find.offset)
}

func TestGetPropertyDetails_NotFound(t *testing.T) {
	ts := newTestServer(prodSecret, false)
	ts.details.err = domain.ErrPropertyNotFound

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/properties/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/properties/nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitListing_JSON(t *testing.T) {
	ts := newTestServer(prodSecret, false)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/properties",
		strings.NewReader(`{"title":"Plot A","city":"Pune","state":"MH","price":125000.5,"hero_url":"https://cdn/x.jpg"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, fmt.Sprintf(`{"ok":true,"id":%q}`, ts.submit.id), rec.Body.String())
	assert.Equal(t, "Plot A", ts.submit.listing.Title)
	require.NotNil(t, ts.submit.listing.Price)
	assert.Equal(t, 125000.5, *ts.submit.listing.Price)

	ts.submit.err = domain.NewValidationError("title", "title is required")
	rec = ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/properties", strings.NewReader(`{"city":"Pune","state":"MH"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"title is required"}`, rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/properties", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitListing_Multipart(t *testing.T) {
	ts := newTestServer(prodSecret, false)

	body, contentType := multipartBody(t,
		map[string]string{"title": "Plot A", "city": "Pune", "state": "MH", "price": "", "pincode": " 411001 "},
		filePart{field: "images[]", name: "a.jpg", contentType: "image/jpeg", data: "JPEG1"},
		filePart{field: "images[]", name: "b.png", contentType: "image/png", data: "PNG2"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties", body)
	req.Header.Set("Content-Type", contentType)

	rec := ts.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Nil(t, ts.submit.listing.Price)
	require.NotNil(t, ts.submit.listing.Pincode)
	assert.Equal(t, "411001", *ts.submit.listing.Pincode)
	require.Len(t, ts.submit.images, 2)
	assert.Equal(t, "image/jpeg", ts.submit.images[0].contentType)
	assert.Equal(t, "JPEG1", string(ts.submit.images[0].data))
	assert.Equal(t, "b.png", ts.submit.images[1].name)
}

func TestSubmitListing_MultipartBadPrice(t *testing.T) {
	ts := newTestServer(prodSecret, false)
	body, contentType := multipartBody(t, map[string]string{"title": "Plot A", "city": "Pune", "state": "MH", "price": "lots"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties", body)
	req.Header.Set("Content-Type", contentType)

	rec := ts.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"price must be a non-negative number"}`, rec.Body.String())
}

func TestUploadPropertyImage(t *testing.T) {
	ts := newTestServer(prodSecret, false)
	id := uuid.New()

	body, contentType := multipartBody(t, nil, filePart{field: "file", name: "plot.webp", contentType: "image/webp", data: "WEBP"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties/"+id.String()+"/images", body)
	req.Header.Set("Content-Type", contentType)

	rec := ts.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	assert.NotEmpty(t, resp["id"])
	assert.Contains(t, resp["path"], "property-"+id.String())
	assert.Contains(t, resp["public_url"], "/media/")
	assert.Equal(t, id, ts.upload.propertyID)
	assert.Equal(t, "image/webp", ts.upload.file.contentType)
	assert.EqualValues(t, 4, ts.upload.file.size)
}

func TestUploadPropertyImage_Errors(t *testing.T) {
	ts := newTestServer(prodSecret, false)
	id := uuid.New()
	send := func() *httptest.ResponseRecorder {
		body, contentType := multipartBody(t, nil, filePart{field: "file", name: "a.jpg", contentType: "image/jpeg", data: "JPEG"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/properties/"+id.String()+"/images", body)
		req.Header.Set("Content-Type", contentType)
		return ts.do(req)
	}

	ts.upload.err = domain.NewStoreError("insert property image", errors.New("duplicate key"))
	rec := send()
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"insert property image: duplicate key"}`, rec.Body.String())

	ts.upload.err = domain.ErrPropertyNotFound
	assert.Equal(t, http.StatusNotFound, send().Code)

	ts.upload.err = domain.NewValidationError("file", "file type is missing; allowed: jpeg, png, webp")
	assert.Equal(t, http.StatusBadRequest, send().Code)

	body, contentType := multipartBody(t, map[string]string{"note": "no file"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties/"+id.String()+"/images", body)
	req.Header.Set("Content-Type", contentType)
	rec = ts.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"file is required"}`, rec.Body.String())
}

func TestUploadHeroImage(t *testing.T) {
	ts := newTestServer(prodSecret, false)
	body, contentType := multipartBody(t, nil, filePart{field: "file", name: "h.png", contentType: "image/png", data: "PNG"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/hero", body)
	req.Header.Set("Content-Type", contentType)

	rec := ts.do(req)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"path":"heroes/h.png","public_url":"http://localhost/media/heroes/h.png"}`, rec.Body.String())
}

func TestCaptureLead(t *testing.T) {
	ts := newTestServer(prodSecret, false)
	id := uuid.New()

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/leads",
		strings.NewReader(fmt.Sprintf(`{"property_id":%q,"full_name":"Asha","phone":"+91 98220 00000"}`, id))))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, id, ts.capture.lead.PropertyID)

	rec = ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(`{"property_id":"42","full_name":"Asha","phone":"1"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, ts.capture.calls)

	ts.capture.err = domain.NewValidationError("phone", "Please enter your phone")
	rec = ts.do(httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(fmt.Sprintf(`{"property_id":%q,"full_name":"Asha","phone":" "}`, id))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Please enter your phone"}`, rec.Body.String())
}

func TestServeMedia(t *testing.T) {
	ts := newTestServer(prodSecret, false)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/media/heroes/h.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "PNGDATA", rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/media/heroes/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoggerMiddleware_EchoesTraceID(t *testing.T) {
	ts := newTestServer(prodSecret, false)
	traceID := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Trace-ID", traceID)
	rec := ts.do(req)
	assert.Equal(t, traceID, rec.Header().Get("X-Trace-ID"))

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	_, err := uuid.Parse(rec.Header().Get("X-Trace-ID"))
	assert.NoError(t, err)
}
