package server

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"civicreport/internal/storage"
	"civicreport/internal/utils"

	"github.com/sirupsen/logrus"
)

// Parts above this size are spooled to temporary files while parsing.
const multipartMemory = 8 << 20

type reportResponse struct {
	Message   string `json:"message"`
	IssueID   int64  `json:"issue_id"`
	Timestamp string `json:"timestamp"`
}

func (s *Service) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Service) handlePostReport(w http.ResponseWriter, r *http.Request) {

	if r.ContentLength > s.config.MaxContentLength {
		s.writeJSON(w, r, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request entity too large"})
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxContentLength)

	err := r.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeJSON(w, r, http.StatusRequestEntityTooLarge, errorResponse{Error: "Request entity too large"})
			return
		}

		s.log(r).WithError(err).Warn("failed to parse report form")
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Invalid form payload"})
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	var report = new(reportForm)
	if err := decoder.Decode(report, r.PostForm); err != nil {
		s.log(r).WithError(err).Warn("failed to decode report form")
		s.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "Invalid form payload"})
		return
	}

	file, header, err := s.attachment(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	var attachmentName string
	if header != nil {
		attachmentName = header.Filename
	}

	issue, err := validateReport(report, attachmentName, s.config.AllowedExtensions)
	if err != nil {
		s.log(r).WithError(err).Info("rejected report")
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if file != nil {
		name, err := s.storeAttachment(ctx, file, header.Filename)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		issue.Image = &name
	}

	created, err := s.issues.CreateIssue(ctx, issue)
	if err != nil {
		if issue.Image != nil {
			s.discardAttachment(r, *issue.Image)
		}
		s.writeError(w, r, err)
		return
	}

	s.log(r).WithFields(logrus.Fields{
		"issue_id": created.ID,
		"type":     issue.Type,
		"image":    utils.PtrString(issue.Image),
	}).Info("issue reported")

	s.writeJSON(w, r, http.StatusCreated, reportResponse{
		Message:   "Issue reported successfully!",
		IssueID:   created.ID,
		Timestamp: created.Timestamp.Format(time.RFC3339Nano),
	})
}

// attachment returns the uploaded image, or nils when the request carries
// none.
func (s *Service) attachment(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	if header.Filename == "" {
		file.Close()
		return nil, nil, nil
	}

	return file, header, nil
}

// storeAttachment writes the upload to the blob area and returns the
// generated name.
func (s *Service) storeAttachment(ctx context.Context, file multipart.File, originalName string) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	name := storage.FileName(s.now(), originalName)
	if err := s.blobs.Put(ctx, name, file, storage.DetectContentType(head[:n], name)); err != nil {
		return "", err
	}

	return name, nil
}

// discardAttachment removes a blob whose issue row could not be written.
func (s *Service) discardAttachment(r *http.Request, name string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), requestTimeout)
	defer cancel()

	entry := s.log(r).WithField("image", name)
	if err := s.blobs.Delete(ctx, name); err != nil {
		entry.WithError(err).Error("failed to remove orphaned attachment")
		return
	}

	entry.Warn("removed attachment of failed report")
}
