package businessflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/raf-advanced/maintenance-api/config"
	"github.com/raf-advanced/maintenance-api/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		name             string
		page, pageSize   uint
		wantPage, wantPS uint
	}{
		{"defaults", 0, 0, 1, 20},
		{"explicit", 3, 50, 3, 50},
		{"oversized page size", 1, 500, 1, 20},
		{"max page size", 2, 100, 2, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, ps := normalizePage(tc.page, tc.pageSize)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantPS, ps)
		})
	}
}

func TestRedisKey(t *testing.T) {
	cfg := config.CacheConfig{RedisPrefix: "rafmaint:"}
	assert.Equal(t, "rafmaint:maintenance:order:100", redisKey(cfg, orderCacheKeyPrefix+"100"))
}

func TestToMaintenanceRequestItem(t *testing.T) {
	id := uuid.New()
	item := ToMaintenanceRequestItem(models.MaintenanceRequest{
		ID:          7,
		UUID:        id,
		OrderNumber: 104,
		Name:        "Saleh Alqahtani",
		PhoneNumber: "+966512345678",
		CreatedAt:   time.Date(2026, time.August, 27, 11, 30, 0, 0, time.UTC),
	})

	assert.Equal(t, uint(7), item.ID)
	assert.Equal(t, id.String(), item.UUID)
	assert.Equal(t, "104", item.OrderCode)
	assert.Equal(t, "Saleh Alqahtani", item.Name)
	assert.NotEmpty(t, item.CreatedAt)
}
