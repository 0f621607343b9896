package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"pdf-converter/internal/domain"
)

type docFixture struct {
	svc     *DocumentService
	docs    *mockDocumentRepo
	storage *mockStorage
	conv    *mockConverter
	users   *mockUserRepo
	txs     *mockTransactionRepo
	mailer  *mockMailer
}

func newDocFixture(t *testing.T) *docFixture {
	t.Helper()
	f := &docFixture{
		docs:    newMockDocumentRepo(),
		storage: newMockStorage(),
		conv:    &mockConverter{pdf: []byte("%PDF-1.4 fake"), pageCount: 2},
		users:   newMockUserRepo(),
		txs:     newMockTransactionRepo(),
		mailer:  &mockMailer{},
	}
	billing := NewBillingService(f.users, newMockPricingRepo(), f.txs, testLogger())
	f.svc = NewDocumentService(f.docs, f.storage, f.conv, billing, f.mailer, 1, testLogger())
	t.Cleanup(f.svc.Stop)
	return f
}

// waitForStatus polls until the document leaves the processing state.
func (f *docFixture) waitForStatus(t *testing.T, id string) *domain.Document {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		doc, err := f.docs.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("get document: %v", err)
		}
		if doc.Status != domain.StatusProcessing {
			return doc
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("document never left the processing state")
	return nil
}

func TestDocumentTypeFor(t *testing.T) {
	cases := map[string]domain.DocumentType{
		"report.docx":  domain.TypeDocx,
		"REPORT.DOCX":  domain.TypeDocx,
		"photo.jpg":    domain.TypeImage,
		"photo.JPEG":   domain.TypeImage,
		"scan.tiff":    domain.TypeImage,
		"sticker.webp": domain.TypeImage,
	}
	for name, want := range cases {
		got, err := DocumentTypeFor(name)
		if err != nil {
			t.Errorf("DocumentTypeFor(%q): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("DocumentTypeFor(%q) = %s, want %s", name, got, want)
		}
	}

	for _, name := range []string{"archive.zip", "notes.txt", "noextension"} {
		if _, err := DocumentTypeFor(name); !errors.Is(err, domain.ErrInvalidFile) {
			t.Errorf("DocumentTypeFor(%q): expected ErrInvalidFile, got %v", name, err)
		}
	}
}

func TestUploadAndConvert(t *testing.T) {
	f := newDocFixture(t)
	user := seedUser(t, f.users, 0, 3)

	doc, err := f.svc.Upload(context.Background(), user, "report.docx", 11, strings.NewReader("docx bytes"), "10.0.0.1")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.Status != domain.StatusProcessing {
		t.Fatalf("expected processing status right after upload, got %s", doc.Status)
	}
	if !f.storage.has(doc.OriginalPath) {
		t.Fatal("expected original file stored")
	}

	done := f.waitForStatus(t, doc.ID)
	if done.Status != domain.StatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	if done.PageCount != 2 {
		t.Fatalf("expected 2 pages, got %d", done.PageCount)
	}
	if done.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
	if !f.storage.has(done.ConvertedPath) {
		t.Fatal("expected converted file stored")
	}
	if !strings.HasSuffix(done.ConvertedPath, "/report.pdf") {
		t.Fatalf("unexpected converted path %q", done.ConvertedPath)
	}

	// The conversion consumed one free conversion.
	stored, _ := f.users.GetByID(context.Background(), user.ID)
	if stored.FreeConversions != 2 {
		t.Fatalf("expected 2 free conversions left, got %d", stored.FreeConversions)
	}
	if f.txs.count() != 1 {
		t.Fatalf("expected one ledger entry, got %d", f.txs.count())
	}
}

func TestUpload_WorkerDoesNotMutateReturnedValues(t *testing.T) {
	f := newDocFixture(t)
	user := seedUser(t, f.users, 0, 3)

	doc, err := f.svc.Upload(context.Background(), user, "report.docx", 5, strings.NewReader("docx"), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	// Encode the returned document concurrently with the conversion, the way
	// the upload handler serializes its response while the worker runs.
	stop := make(chan struct{})
	encoded := make(chan struct{})
	go func() {
		defer close(encoded)
		for {
			select {
			case <-stop:
				return
			default:
			}
			if _, err := json.Marshal(doc); err != nil {
				t.Errorf("marshal document: %v", err)
				return
			}
		}
	}()

	done := f.waitForStatus(t, doc.ID)
	close(stop)
	<-encoded

	if done.Status != domain.StatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	// The worker charged and finished its own copies.
	if doc.Status != domain.StatusProcessing {
		t.Fatalf("expected returned document untouched, got %s", doc.Status)
	}
	if user.FreeConversions != 3 {
		t.Fatalf("expected caller's user untouched, got %d free conversions", user.FreeConversions)
	}
	stored, _ := f.users.GetByID(context.Background(), user.ID)
	if stored.FreeConversions != 2 {
		t.Fatalf("expected persisted free conversions 2, got %d", stored.FreeConversions)
	}
}

func TestUpload_UnsupportedExtension(t *testing.T) {
	f := newDocFixture(t)
	user := seedUser(t, f.users, 0, 3)

	_, err := f.svc.Upload(context.Background(), user, "notes.txt", 5, strings.NewReader("hello"), "")
	if !errors.Is(err, domain.ErrInvalidFile) {
		t.Fatalf("expected ErrInvalidFile, got %v", err)
	}
}

func TestConvert_FailureMarksDocumentFailed(t *testing.T) {
	f := newDocFixture(t)
	f.conv.err = domain.ErrInvalidFile
	user := seedUser(t, f.users, 0, 3)

	doc, err := f.svc.Upload(context.Background(), user, "broken.docx", 5, strings.NewReader("junk"), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	done := f.waitForStatus(t, doc.ID)
	if done.Status != domain.StatusFailed {
		t.Fatalf("expected failed, got %s", done.Status)
	}

	// No charge for a failed conversion.
	stored, _ := f.users.GetByID(context.Background(), user.ID)
	if stored.FreeConversions != 3 {
		t.Fatalf("expected free conversions untouched, got %d", stored.FreeConversions)
	}
	if f.txs.count() != 0 {
		t.Fatalf("expected empty ledger, got %d entries", f.txs.count())
	}
}

func TestConvert_StoreFailureRefundsCharge(t *testing.T) {
	f := newDocFixture(t)
	user := seedUser(t, f.users, 0, 3)

	// Fail only the converted-file write; the original upload still succeeds.
	f.storage.saveErr = errors.New("disk full")
	f.storage.saveErrPrefix = "converted/"

	doc, err := f.svc.Upload(context.Background(), user, "report.docx", 5, strings.NewReader("docx"), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	done := f.waitForStatus(t, doc.ID)
	if done.Status != domain.StatusFailed {
		t.Fatalf("expected failed, got %s", done.Status)
	}

	stored, _ := f.users.GetByID(context.Background(), user.ID)
	if stored.FreeConversions != 3 {
		t.Fatalf("expected free conversion refunded, got %d", stored.FreeConversions)
	}
	// Charge plus refund in the ledger.
	if f.txs.count() != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", f.txs.count())
	}
	if last := f.txs.last(); last.TransactionType != domain.TxRefund {
		t.Fatalf("expected refund entry last, got %s", last.TransactionType)
	}
}

func TestConvert_NotifiesByMail(t *testing.T) {
	f := newDocFixture(t)
	user := seedUser(t, f.users, 0, 3)
	user.Email = "alice@example.com"

	doc, err := f.svc.Upload(context.Background(), user, "report.docx", 5, strings.NewReader("docx"), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	f.waitForStatus(t, doc.ID)

	f.mailer.mu.Lock()
	sent := len(f.mailer.sent)
	f.mailer.mu.Unlock()
	if sent != 1 {
		t.Fatalf("expected one notification mail, got %d", sent)
	}
}

func TestGetForUser_OwnershipEnforced(t *testing.T) {
	f := newDocFixture(t)
	f.docs.Create(context.Background(), &domain.Document{ID: "d1", UserID: "owner"})

	if _, err := f.svc.GetForUser(context.Background(), "owner", "d1"); err != nil {
		t.Fatalf("owner access: %v", err)
	}
	_, err := f.svc.GetForUser(context.Background(), "intruder", "d1")
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	_, err = f.svc.GetForUser(context.Background(), "owner", "missing")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDownload(t *testing.T) {
	f := newDocFixture(t)
	f.storage.Save(context.Background(), "converted/x.pdf", strings.NewReader("%PDF"))
	f.docs.Create(context.Background(), &domain.Document{
		ID: "d1", UserID: "u1", Status: domain.StatusCompleted, ConvertedPath: "converted/x.pdf",
	})
	f.docs.Create(context.Background(), &domain.Document{
		ID: "d2", UserID: "u1", Status: domain.StatusProcessing,
	})

	doc, rc, err := f.svc.Download(context.Background(), "u1", "d1")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF" || doc.ID != "d1" {
		t.Fatal("unexpected download content")
	}

	_, _, err = f.svc.Download(context.Background(), "u1", "d2")
	if !errors.Is(err, domain.ErrDocumentNotReady) {
		t.Fatalf("expected ErrDocumentNotReady, got %v", err)
	}
}

func TestDelete_RemovesFiles(t *testing.T) {
	f := newDocFixture(t)
	f.storage.Save(context.Background(), "uploads/a", strings.NewReader("orig"))
	f.storage.Save(context.Background(), "converted/a.pdf", strings.NewReader("%PDF"))
	f.docs.Create(context.Background(), &domain.Document{
		ID: "d1", UserID: "u1", OriginalPath: "uploads/a", ConvertedPath: "converted/a.pdf",
	})

	if err := f.svc.Delete(context.Background(), "u1", "d1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.docs.GetByID(context.Background(), "d1"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatal("expected record removed")
	}
	if f.storage.has("uploads/a") || f.storage.has("converted/a.pdf") {
		t.Fatal("expected stored files removed")
	}
}
