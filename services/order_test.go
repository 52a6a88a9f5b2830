package services

import (
	"testing"

	"codcrm/models"

	"github.com/stretchr/testify/assert"
)

func orderFixture() (*MockOrderRepo, OrderService) {
	or := NewMockOrderRepo()
	or.Orders[1] = models.Order_db{Id: 1, Status: "created"}
	or.Orders[2] = models.Order_db{Id: 2, Status: "confirmed"}
	or.Orders[3] = models.Order_db{Id: 3, Status: "delivered"}
	or.nextId = 3
	svc := NewOrderService(or, &MockProductRepo{}, &MockGeoRepo{}, &MockLeadRepo{})
	return or, svc
}

func TestBulkSetStatusValidation(t *testing.T) {
	testCases := []struct {
		name string
		req  models.BulkOrderStatus
	}{
		{"no ids", models.BulkOrderStatus{Status: "shipped"}},
		{"unknown status", models.BulkOrderStatus{Ids: []int{1}, Status: "parked"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			or, svc := orderFixture()
			_, err := svc.BulkSetStatus(tc.req)
			assert.ErrorIs(t, err, models.ErrBadRequest)
			assert.Nil(t, or.bulkIds, "nothing reaches the repository")
		})
	}
}

func TestBulkSetStatusTouchesOnlyRequestedIds(t *testing.T) {
	or, svc := orderFixture()

	updated, err := svc.BulkSetStatus(models.BulkOrderStatus{Ids: []int{1, 3, 99}, Status: "shipped"})
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 3, 99}, or.bulkIds, "exactly the requested ids are passed through")
	assert.Equal(t, 1, updated, "terminal and unknown orders are skipped, not counted")
	assert.Equal(t, "shipped", or.Orders[1].Status)
	assert.Equal(t, "confirmed", or.Orders[2].Status, "an unrequested order keeps its status")
	assert.Equal(t, "delivered", or.Orders[3].Status)
}

func TestBulkDeleteTouchesOnlyRequestedIds(t *testing.T) {
	or, svc := orderFixture()

	removed, err := svc.BulkDelete(models.BulkOrderDelete{Ids: []int{2, 99}})
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 99}, or.bulkIds)
	assert.Equal(t, 1, removed, "only rows that existed are counted")
	assert.Contains(t, or.Orders, 1)
	assert.NotContains(t, or.Orders, 2)
	assert.Contains(t, or.Orders, 3)
}

func TestBulkDeleteRequiresIds(t *testing.T) {
	or, svc := orderFixture()

	_, err := svc.BulkDelete(models.BulkOrderDelete{})
	assert.ErrorIs(t, err, models.ErrBadRequest)
	assert.Nil(t, or.bulkIds)
}
