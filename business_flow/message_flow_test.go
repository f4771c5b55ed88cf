package businessflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/raf-advanced/maintenance-api/app/dto"
	"github.com/raf-advanced/maintenance-api/app/services"
	"github.com/raf-advanced/maintenance-api/config"
	"github.com/raf-advanced/maintenance-api/models"
	"github.com/raf-advanced/maintenance-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageRepo struct {
	mu      sync.Mutex
	rows    []*models.ContactMessage
	nextID  uint
	failErr error
}

func (f *fakeMessageRepo) Save(ctx context.Context, entity *models.ContactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.nextID++
	entity.ID = f.nextID
	if entity.UUID == uuid.Nil {
		entity.UUID = uuid.New()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = time.Now().UTC()
	}
	clone := *entity
	f.rows = append(f.rows, &clone)
	return nil
}

func (f *fakeMessageRepo) SaveBatch(ctx context.Context, entities []*models.ContactMessage) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeMessageRepo) ByID(ctx context.Context, id uint) (*models.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeMessageRepo) ByUUID(ctx context.Context, uuidStr string) (*models.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.UUID.String() == uuidStr {
			clone := *r
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeMessageRepo) matches(r *models.ContactMessage, filter models.ContactMessageFilter) bool {
	if filter.PhoneNumber != nil && r.PhoneNumber != *filter.PhoneNumber {
		return false
	}
	if filter.Email != nil && r.Email != *filter.Email {
		return false
	}
	if filter.CreatedAfter != nil && r.CreatedAt.Before(*filter.CreatedAfter) {
		return false
	}
	if filter.CreatedBefore != nil && r.CreatedAt.After(*filter.CreatedBefore) {
		return false
	}
	return true
}

func (f *fakeMessageRepo) ByFilter(ctx context.Context, filter models.ContactMessageFilter, orderBy string, limit, offset int) ([]*models.ContactMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.ContactMessage, 0)
	for _, r := range f.rows {
		if f.matches(r, filter) {
			clone := *r
			out = append(out, &clone)
		}
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeMessageRepo) Count(ctx context.Context, filter models.ContactMessageFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.rows {
		if f.matches(r, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeMessageRepo) Exists(ctx context.Context, filter models.ContactMessageFilter) (bool, error) {
	n, err := f.Count(ctx, filter)
	return n > 0, err
}

func newTestMessageFlow(repo *fakeMessageRepo) ContactMessageFlow {
	return NewContactMessageFlow(repo, services.NewMockEmailService(), config.MaintenanceConfig{StoreTimeout: 5 * time.Second})
}

func TestCreateMessage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &fakeMessageRepo{}
		flow := newTestMessageFlow(repo)

		resp, err := flow.CreateMessage(context.Background(), &dto.CreateContactMessageRequest{
			Name:        "Fahad Alotaibi",
			PhoneNumber: "+966501112233",
			Email:       "fahad@example.com",
			Content:     "When will the new phase open for booking?",
		}, NewClientMetadata("1.2.3.4", "test-agent"))
		require.NoError(t, err)

		assert.Equal(t, "Message received successfully", resp.Message)
		assert.NotEmpty(t, resp.UUID)

		stored, err := repo.ByUUID(context.Background(), resp.UUID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "Fahad Alotaibi", stored.Name)
	})

	t.Run("email is optional", func(t *testing.T) {
		flow := newTestMessageFlow(&fakeMessageRepo{})
		resp, err := flow.CreateMessage(context.Background(), &dto.CreateContactMessageRequest{
			Name:        "Fahad Alotaibi",
			PhoneNumber: "+966501112233",
			Content:     "Call me back please",
		}, nil)
		require.NoError(t, err)
		assert.NotNil(t, resp)
	})

	t.Run("operations mailbox is pinged", func(t *testing.T) {
		email := services.NewMockEmailService()
		flow := NewContactMessageFlow(&fakeMessageRepo{}, email, config.MaintenanceConfig{
			StoreTimeout:   5 * time.Second,
			RecipientEmail: "maintenance@raf-advanced.sa",
		})

		_, err := flow.CreateMessage(context.Background(), &dto.CreateContactMessageRequest{
			Name:        "Fahad Alotaibi",
			PhoneNumber: "+966501112233",
			Content:     "hello",
		}, nil)
		require.NoError(t, err)

		// Email is best-effort on a separate goroutine
		assert.Eventually(t, func() bool {
			sent := email.GetSentMessages()
			return len(sent) == 1 && sent[0].To[0] == "maintenance@raf-advanced.sa"
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("missing required field", func(t *testing.T) {
		flow := newTestMessageFlow(&fakeMessageRepo{})
		resp, err := flow.CreateMessage(context.Background(), &dto.CreateContactMessageRequest{
			Name:        "Fahad Alotaibi",
			PhoneNumber: "+966501112233",
		}, nil)
		assert.Nil(t, resp)
		assert.True(t, IsAllFieldsRequired(err))
	})

	t.Run("store failure", func(t *testing.T) {
		repo := &fakeMessageRepo{failErr: errors.New("connection reset")}
		flow := newTestMessageFlow(repo)
		resp, err := flow.CreateMessage(context.Background(), &dto.CreateContactMessageRequest{
			Name:        "Fahad Alotaibi",
			PhoneNumber: "+966501112233",
			Content:     "hello",
		}, nil)
		assert.Nil(t, resp)

		var be *BusinessError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, CodePersistenceFailed, be.Code)
	})
}

func TestListMessages(t *testing.T) {
	repo := &fakeMessageRepo{}
	flow := newTestMessageFlow(repo)

	phones := []string{"+966500000001", "+966500000002", "+966500000002"}
	for _, p := range phones {
		_, err := flow.CreateMessage(context.Background(), &dto.CreateContactMessageRequest{
			Name:        "Fahad Alotaibi",
			PhoneNumber: p,
			Content:     "hello",
		}, nil)
		require.NoError(t, err)
	}

	t.Run("all", func(t *testing.T) {
		resp, err := flow.ListMessages(context.Background(), &dto.ListContactMessagesRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Total)
		assert.Len(t, resp.Items, 3)
	})

	t.Run("phone filter", func(t *testing.T) {
		resp, err := flow.ListMessages(context.Background(), &dto.ListContactMessagesRequest{PhoneNumber: utils.ToPtr("+966500000002")})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("pagination", func(t *testing.T) {
		resp, err := flow.ListMessages(context.Background(), &dto.ListContactMessagesRequest{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Total)
		assert.Len(t, resp.Items, 1)
	})

	t.Run("invalid date range", func(t *testing.T) {
		start := time.Now()
		end := start.Add(-time.Hour)
		resp, err := flow.ListMessages(context.Background(), &dto.ListContactMessagesRequest{StartDate: &start, EndDate: &end})
		assert.Nil(t, resp)
		assert.True(t, IsStartDateAfterEndDate(err))
	})
}
