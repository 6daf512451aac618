package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"civicreport/internal/storage"
	"civicreport/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow  = time.Unix(1728900000, 123456789)
	baseStamp = time.Date(2024, 10, 14, 9, 0, 0, 0, time.UTC)
	errStore  = errors.New("connection refused")
)

// fakeIssues is an in-memory IssueRepository with the same filter, order and
// pagination semantics as the postgres one.
type fakeIssues struct {
	mu         sync.Mutex
	rows       []*types.Issue
	lastFilter types.IssueFilter
	failCreate bool
	failList   bool
	failPing   bool
}

func (f *fakeIssues) CreateIssue(_ context.Context, issue *types.NewIssue) (*types.CreatedIssue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate {
		return nil, errStore
	}

	id := int64(len(f.rows) + 1)
	location := issue.Location
	row := &types.Issue{
		ID:          id,
		Title:       issue.Title,
		Description: issue.Description,
		Type:        issue.Type,
		Latitude:    issue.Latitude,
		Longitude:   issue.Longitude,
		Location:    &location,
		Timestamp:   baseStamp.Add(time.Duration(id) * time.Second),
		Image:       issue.Image,
		Status:      types.IssueStatusPending,
	}
	f.rows = append(f.rows, row)

	return &types.CreatedIssue{ID: row.ID, Timestamp: row.Timestamp}, nil
}

func (f *fakeIssues) Issues(_ context.Context, filter types.IssueFilter) ([]*types.Issue, uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastFilter = filter
	if f.failList {
		return nil, 0, errStore
	}

	matched := make([]*types.Issue, 0)
	for _, row := range f.rows {
		if filter.Type != "" && row.Type != filter.Type {
			continue
		}
		if filter.Status != "" && string(row.Status) != filter.Status {
			continue
		}
		matched = append(matched, row)
	}

	slices.SortFunc(matched, func(a, b *types.Issue) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})

	total := uint64(len(matched))
	start := min(filter.Offset(), total)
	end := min(start+filter.PerPage, total)

	return matched[start:end], total, nil
}

func (f *fakeIssues) Issue(_ context.Context, id int64) (*types.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, row := range f.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, types.ErrIssueNotFound
}

func (f *fakeIssues) Ping(context.Context) error {
	if f.failPing {
		return errStore
	}
	return nil
}

func (f *fakeIssues) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type testEnv struct {
	service *Service
	issues  *fakeIssues
	blobs   *storage.LocalStorage
	dir     string
}

func testConfig() *types.Config {
	return &types.Config{
		ServerPort:         5000,
		UploadRoute:        "/uploads",
		MaxContentLength:   16 << 20,
		AllowedExtensions:  []string{"png", "jpg", "jpeg", "gif"},
		CORSAllowedOrigins: []string{"*"},
	}
}

func newTestEnv(t *testing.T, mutate ...func(*types.Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dir := t.TempDir()
	blobs, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	issues := &fakeIssues{}
	s, err := New(cfg, logger, issues, blobs)
	require.NoError(t, err)
	s.now = func() time.Time { return fixedNow }

	return &testEnv{service: s, issues: issues, blobs: blobs, dir: dir}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.service.Handler().ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, target, nil))
}

type upload struct {
	name    string
	content []byte
}

func validFields() map[string]string {
	return map[string]string{
		"title":       "Pothole on Main St",
		"description": "Deep hole in the right lane",
		"type":        "pothole",
		"latitude":    "52.52",
		"longitude":   "13.405",
	}
}

func multipartRequest(t *testing.T, fields map[string]string, file *upload) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		part, err := mw.CreateFormFile("image", file.name)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/report", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func urlencodedRequest(fields map[string]string) *http.Request {
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/report", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (e *testEnv) seed(t *testing.T, n int, issueType string) {
	t.Helper()

	for range n {
		fields := validFields()
		fields["type"] = issueType
		w := e.do(urlencodedRequest(fields))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R', 1, 2, 3, 4}
