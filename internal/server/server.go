package server

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"civicreport/internal/storage"
	"civicreport/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/sirupsen/logrus"
)

//go:embed public
var publicFS embed.FS
var decoder = form.NewDecoder()

// requestTimeout bounds every store call made while serving a request.
const requestTimeout = 5 * time.Second

type IssueRepository interface {
	CreateIssue(ctx context.Context, issue *types.NewIssue) (*types.CreatedIssue, error)
	Issues(ctx context.Context, filter types.IssueFilter) ([]*types.Issue, uint64, error)
	Issue(ctx context.Context, id int64) (*types.Issue, error)
	Ping(ctx context.Context) error
}

type Service struct {
	logger *logrus.Logger
	config *types.Config
	issues IssueRepository
	blobs  storage.Blobs
	now    func() time.Time

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	issues IssueRepository,
	blobs storage.Blobs,
) (*Service, error) {
	mux := flow.New()

	s := &Service{
		logger: logger,
		config: config,
		issues: issues,
		blobs:  blobs,
		now:    time.Now,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	if err := s.buildRouter(mux); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) error {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.Group(func(r *flow.Mux) {
		r.Use(s.CORSMiddleware)

		r.HandleFunc("/api/report", s.handlePostReport, http.MethodPost)
		r.HandleFunc("/api/report", s.handlePreflight, http.MethodOptions)
		r.HandleFunc("/api/issues", s.handleListIssues, http.MethodGet)
		r.HandleFunc("/api/issues", s.handlePreflight, http.MethodOptions)
		r.HandleFunc("/api/issues/:id", s.handleGetIssue, http.MethodGet)
		r.HandleFunc("/api/issues/:id", s.handlePreflight, http.MethodOptions)
	})

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.HandleFunc(s.config.ImagePath(":filename"), s.handleGetUpload, http.MethodGet)

	publicRoot, err := fs.Sub(publicFS, "public")
	if err != nil {
		return fmt.Errorf("failed to mount public assets: %w", err)
	}

	r.HandleFunc("/", s.handleIndex, http.MethodGet)
	r.Handle("/...", http.FileServer(http.FS(publicRoot)), http.MethodGet)

	return nil
}
