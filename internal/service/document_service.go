package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pdf-converter/internal/domain"
)

// imageExtensions lists upload extensions routed to the image operation.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

type conversionJob struct {
	document *domain.Document
	user     *domain.User
	ip       string
}

// DocumentService owns the document lifecycle: upload, queued conversion,
// download and deletion. Conversions run on a fixed-size worker pool; the
// upload call returns immediately and clients poll the document status.
type DocumentService struct {
	docs      domain.DocumentRepository
	storage   domain.StorageService
	converter domain.Converter
	billing   *BillingService
	mailer    domain.Mailer
	logger    domain.Logger

	jobs chan conversionJob
	wg   sync.WaitGroup
}

// NewDocumentService creates the document service and starts workers
// conversion goroutines.
func NewDocumentService(
	docs domain.DocumentRepository,
	storage domain.StorageService,
	converter domain.Converter,
	billing *BillingService,
	mailer domain.Mailer,
	workers int,
	logger domain.Logger,
) *DocumentService {
	s := &DocumentService{
		docs:      docs,
		storage:   storage,
		converter: converter,
		billing:   billing,
		mailer:    mailer,
		logger:    logger,
		jobs:      make(chan conversionJob, 64),
	}
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	return s
}

// Stop drains the queue and waits for in-flight conversions to finish.
func (s *DocumentService) Stop() {
	close(s.jobs)
	s.wg.Wait()
}

// DocumentTypeFor maps an upload filename to its document type.
func DocumentTypeFor(filename string) (domain.DocumentType, error) {
	ext := strings.ToLower(path.Ext(filename))
	switch {
	case ext == ".docx":
		return domain.TypeDocx, nil
	case imageExtensions[ext]:
		return domain.TypeImage, nil
	}
	return "", domain.ErrInvalidFile
}

// Upload stores the original file, creates the document record and enqueues
// the conversion. The caller has already validated size limits and that the
// user can convert.
func (s *DocumentService) Upload(
	ctx context.Context,
	user *domain.User,
	originalName string,
	size int64,
	src io.Reader,
	ip string,
) (*domain.Document, error) {
	docType, err := DocumentTypeFor(originalName)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		OriginalName: path.Base(originalName),
		DocumentType: docType,
		Status:       domain.StatusProcessing,
		FileSize:     size,
		CreatedAt:    now,
	}
	doc.OriginalPath = fmt.Sprintf("uploads/%s/%s/%s", now.Format("2006/01/02"), doc.ID, doc.OriginalName)

	if err := s.storage.Save(ctx, doc.OriginalPath, src); err != nil {
		return nil, err
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}

	// The worker gets its own copies: it mutates document status and, through
	// the charge, the user's balance, while the caller is still serializing
	// the originals into the response.
	docCopy := *doc
	userCopy := *user
	select {
	case s.jobs <- conversionJob{document: &docCopy, user: &userCopy, ip: ip}:
		conversionQueueDepth.Inc()
	default:
		// Queue full. Fail the document instead of blocking the upload.
		s.markFailed(context.Background(), doc)
		return nil, errors.New("conversion queue is full, try again later")
	}
	return doc, nil
}

func (s *DocumentService) worker() {
	defer s.wg.Done()
	for job := range s.jobs {
		conversionQueueDepth.Dec()
		s.process(job)
	}
}

// process runs one conversion end to end: convert, charge, store, notify.
// The user is charged only for successful conversions; a charge that cannot
// be followed by a stored result is refunded.
func (s *DocumentService) process(job conversionJob) {
	ctx := context.Background()
	doc := job.document
	start := time.Now()

	original, err := s.storage.Open(ctx, doc.OriginalPath)
	if err != nil {
		s.logger.Error("Failed to open original file", err, "document_id", doc.ID)
		s.markFailed(ctx, doc)
		return
	}
	pdf, pages, convErr := s.converter.Convert(ctx, doc.DocumentType, original)
	original.Close()
	conversionDuration.Observe(time.Since(start).Seconds())

	if convErr != nil {
		s.logger.Error("Conversion failed", convErr, "document_id", doc.ID, "type", doc.DocumentType)
		conversionsTotal.WithLabelValues(string(doc.DocumentType), "failed").Inc()
		s.markFailed(ctx, doc)
		return
	}

	charge, chargeErr := s.billing.ChargeConversion(ctx, job.user, doc.ID, OperationFor(doc.DocumentType), pages, job.ip)
	if chargeErr != nil {
		s.logger.Warn("Conversion charge failed", "document_id", doc.ID, "error", chargeErr)
		conversionsTotal.WithLabelValues(string(doc.DocumentType), "unpaid").Inc()
		s.markFailed(ctx, doc)
		return
	}

	stem := strings.TrimSuffix(doc.OriginalName, path.Ext(doc.OriginalName))
	doc.ConvertedPath = fmt.Sprintf("converted/%s/%s/%s.pdf", doc.CreatedAt.Format("2006/01/02"), doc.ID, stem)
	doc.PageCount = pages
	doc.Status = domain.StatusCompleted
	completed := time.Now().UTC()
	doc.CompletedAt = &completed

	if err := s.storage.Save(ctx, doc.ConvertedPath, bytes.NewReader(pdf)); err != nil {
		s.logger.Error("Failed to store converted file", err, "document_id", doc.ID)
		s.refundCharge(ctx, job.user, charge)
		s.markFailed(ctx, doc)
		return
	}
	if err := s.docs.Update(ctx, doc); err != nil {
		s.logger.Error("Failed to update document", err, "document_id", doc.ID)
		s.refundCharge(ctx, job.user, charge)
		return
	}

	conversionsTotal.WithLabelValues(string(doc.DocumentType), "completed").Inc()
	s.logger.Info("Document converted", "document_id", doc.ID, "pages", pages,
		"duration", time.Since(start).Round(time.Millisecond).String())

	s.notify(job.user, doc)
}

func (s *DocumentService) refundCharge(ctx context.Context, user *domain.User, charge *domain.Transaction) {
	if _, err := s.billing.Refund(ctx, user, charge); err != nil {
		s.logger.Error("Refund failed", err, "user_id", user.ID, "transaction_id", charge.ID)
	}
}

func (s *DocumentService) markFailed(ctx context.Context, doc *domain.Document) {
	doc.Status = domain.StatusFailed
	if err := s.docs.Update(ctx, doc); err != nil {
		s.logger.Error("Failed to mark document failed", err, "document_id", doc.ID)
	}
}

func (s *DocumentService) notify(user *domain.User, doc *domain.Document) {
	if user.Email == "" {
		return
	}
	body := fmt.Sprintf("Your document %q was converted successfully (%d pages).", doc.OriginalName, doc.PageCount)
	if err := s.mailer.Send(user.Email, "Conversion completed", body); err != nil {
		s.logger.Warn("Notification mail failed", "user_id", user.ID, "error", err)
	}
}

// GetForUser returns a document after verifying ownership.
func (s *DocumentService) GetForUser(ctx context.Context, userID, documentID string) (*domain.Document, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, domain.ErrAccessDenied
	}
	return doc, nil
}

// List returns the user's documents, newest first.
func (s *DocumentService) List(ctx context.Context, userID string, limit int) ([]*domain.Document, error) {
	return s.docs.GetByUserID(ctx, userID, limit)
}

// Download opens the converted PDF for a completed document.
func (s *DocumentService) Download(ctx context.Context, userID, documentID string) (*domain.Document, io.ReadCloser, error) {
	doc, err := s.GetForUser(ctx, userID, documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc.Status != domain.StatusCompleted || doc.ConvertedPath == "" {
		return nil, nil, domain.ErrDocumentNotReady
	}
	rc, err := s.storage.Open(ctx, doc.ConvertedPath)
	if err != nil {
		return nil, nil, err
	}
	return doc, rc, nil
}

// Delete removes the document record and its stored files.
func (s *DocumentService) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.GetForUser(ctx, userID, documentID)
	if err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, doc.ID); err != nil {
		return err
	}
	s.removeFiles(ctx, doc)
	return nil
}

// Dashboard aggregates the user's conversion stats.
func (s *DocumentService) Dashboard(ctx context.Context, userID string) (*domain.DocumentStats, error) {
	return s.docs.Stats(ctx, userID)
}

// CleanupStale removes failed and never-finished documents older than the
// cutoff together with their files. Run periodically by the scheduler.
func (s *DocumentService) CleanupStale(ctx context.Context, olderThanHours int) (int, error) {
	stale, err := s.docs.DeleteStale(ctx, olderThanHours)
	for _, doc := range stale {
		s.removeFiles(ctx, doc)
	}
	return len(stale), err
}

func (s *DocumentService) removeFiles(ctx context.Context, doc *domain.Document) {
	if doc.OriginalPath != "" {
		if err := s.storage.Delete(ctx, doc.OriginalPath); err != nil {
			s.logger.Warn("Failed to delete original file", "path", doc.OriginalPath, "error", err)
		}
	}
	if doc.ConvertedPath != "" {
		if err := s.storage.Delete(ctx, doc.ConvertedPath); err != nil {
			s.logger.Warn("Failed to delete converted file", "path", doc.ConvertedPath, "error", err)
		}
	}
}
