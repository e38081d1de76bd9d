package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-prospect/internal/entity"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) List(ctx context.Context, ownerID string, filter entity.LeadFilter) ([]entity.Lead, error) {
	args := m.Called(ctx, ownerID, filter)
	leads, _ := args.Get(0).([]entity.Lead)
	return leads, args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Lead, error) {
	args := m.Called(ctx, ownerID, id)
	lead, _ := args.Get(0).(*entity.Lead)
	return lead, args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, ownerID, id string) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockLeadRepository) UpsertBatch(ctx context.Context, ownerID string, leads []entity.Lead) (int, error) {
	args := m.Called(ctx, ownerID, leads)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) ListOrphanIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockLeadRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) AssignOwner(ctx context.Context, ids []string, ownerID string) (int, error) {
	args := m.Called(ctx, ids, ownerID)
	return args.Int(0), args.Error(1)
}

// MockOutreachSender
type MockOutreachSender struct {
	mock.Mock
}

func (m *MockOutreachSender) SendOutreach(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

// recordingEvents captures domain events for assertions.
type recordingEvents struct {
	transitions [][2]entity.Stage
	imported    map[string]int
	migrated    int
	sent        []bool
}

func newRecordingEvents() *recordingEvents {
	return &recordingEvents{imported: map[string]int{}}
}

func (r *recordingEvents) StageChanged(from, to entity.Stage) {
	r.transitions = append(r.transitions, [2]entity.Stage{from, to})
}
func (r *recordingEvents) LeadsImported(channel string, count int) { r.imported[channel] += count }
func (r *recordingEvents) OrphansMigrated(count int)              { r.migrated += count }
func (r *recordingEvents) OutreachSent(ok bool)                   { r.sent = append(r.sent, ok) }

var (
	alice = entity.Principal{ID: "alice", Email: "alice@example.com"}
	bob   = entity.Principal{ID: "bob", Email: "bob@example.com"}
)

func ptr[T any](v T) *T { return &v }
