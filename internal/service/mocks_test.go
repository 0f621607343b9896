package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"pdf-converter/internal/domain"
)

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User

	updateBalanceErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByAPIKeyHash(ctx context.Context, hash string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.APIKeyHash == hash {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) UpdateBalance(ctx context.Context, id string, balance int64, freeConversions int, prevBalance int64, prevFree int) error {
	if m.updateBalanceErr != nil {
		return m.updateBalanceErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.Balance != prevBalance || u.FreeConversions != prevFree {
		return domain.ErrConcurrentUpdate
	}
	u.Balance = balance
	u.FreeConversions = freeConversions
	return nil
}

type mockDocumentRepo struct {
	mu   sync.Mutex
	docs map[string]*domain.Document

	createErr error
	updateErr error
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{docs: make(map[string]*domain.Document)}
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *domain.Document) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}

func (m *mockDocumentRepo) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDocumentRepo) GetByUserID(ctx context.Context, userID string, limit int) ([]*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Document
	for _, d := range m.docs {
		if d.UserID == userID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockDocumentRepo) Update(ctx context.Context, doc *domain.Document) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; !ok {
		return domain.ErrDocumentNotFound
	}
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}

func (m *mockDocumentRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *mockDocumentRepo) Stats(ctx context.Context, userID string) (*domain.DocumentStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.DocumentStats{}
	for _, d := range m.docs {
		if d.UserID != userID {
			continue
		}
		stats.TotalConversions++
		switch d.Status {
		case domain.StatusCompleted:
			stats.Successful++
		case domain.StatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

func (m *mockDocumentRepo) DeleteStale(ctx context.Context, olderThanHours int) ([]*domain.Document, error) {
	return nil, nil
}

type mockPricingRepo struct {
	mu      sync.Mutex
	byOp    map[domain.OperationType]*domain.ConversionPricing
	opError error
}

func newMockPricingRepo() *mockPricingRepo {
	return &mockPricingRepo{byOp: make(map[domain.OperationType]*domain.ConversionPricing)}
}

func (m *mockPricingRepo) GetByOperation(ctx context.Context, op domain.OperationType) (*domain.ConversionPricing, error) {
	if m.opError != nil {
		return nil, m.opError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byOp[op]
	if !ok {
		return nil, domain.ErrPricingNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPricingRepo) ListActive(ctx context.Context) ([]*domain.ConversionPricing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ConversionPricing
	for _, p := range m.byOp {
		if p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockPricingRepo) Upsert(ctx context.Context, pricing *domain.ConversionPricing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *pricing
	m.byOp[pricing.OperationType] = &cp
	return nil
}

type mockTransactionRepo struct {
	mu  sync.Mutex
	txs []*domain.Transaction
}

func newMockTransactionRepo() *mockTransactionRepo {
	return &mockTransactionRepo{}
}

func (m *mockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *tx
	m.txs = append(m.txs, &cp)
	return nil
}

func (m *mockTransactionRepo) GetByUserID(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Transaction
	for _, tx := range m.txs {
		if tx.UserID == userID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockTransactionRepo) Stats(ctx context.Context, userID string) (*domain.TransactionStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.TransactionStats{}
	for _, tx := range m.txs {
		if tx.UserID != userID || !tx.IsSuccessful {
			continue
		}
		switch tx.TransactionType {
		case domain.TxConversion:
			stats.TotalSpentCents += tx.Amount
			stats.TotalConversions++
			if tx.PaymentMethod == domain.PayFreeConversion {
				stats.FreeConversionsUsed++
			}
		case domain.TxBalanceAdd:
			stats.TotalAddedCents += tx.Amount
		}
	}
	return stats, nil
}

func (m *mockTransactionRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.txs)
}

func (m *mockTransactionRepo) last() *domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.txs) == 0 {
		return nil
	}
	cp := *m.txs[len(m.txs)-1]
	return &cp
}

type mockStorage struct {
	mu    sync.Mutex
	files map[string][]byte

	saveErr       error
	saveErrPrefix string
	openErr       error
}

func newMockStorage() *mockStorage {
	return &mockStorage{files: make(map[string][]byte)}
}

func (m *mockStorage) Save(ctx context.Context, path string, r io.Reader) error {
	if m.saveErr != nil && (m.saveErrPrefix == "" || strings.HasPrefix(path, m.saveErrPrefix)) {
		return m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return nil
}

func (m *mockStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockStorage) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *mockStorage) has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

type mockConverter struct {
	pdf       []byte
	pageCount int
	err       error
}

func (m *mockConverter) Convert(ctx context.Context, docType domain.DocumentType, src io.Reader) ([]byte, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	io.Copy(io.Discard, src)
	return m.pdf, m.pageCount, nil
}

type mockMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *mockMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, subject)
	return nil
}
