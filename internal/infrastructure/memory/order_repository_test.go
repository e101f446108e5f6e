package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	domain "github.com/Zhima-Mochi/tshirt-agent/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestOrderRepository_InsertGet(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	o := domain.New("order-1", "a dragon", "", "", "https://img", "")

	require.NoError(t, repo.Insert(ctx, o))
	assert.ErrorIs(t, repo.Insert(ctx, o), domain.ErrConflict)

	got, err := repo.Get(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, domain.StatusCreated, got.Status)

	_, err = repo.Get(ctx, "order-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	require.NoError(t, repo.Insert(ctx, domain.New("order-1", "a dragon", "", "", "", "")))

	got, err := repo.Get(ctx, "order-1")
	require.NoError(t, err)
	got.Status = domain.StatusPaid

	again, err := repo.Get(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCreated, again.Status)
}

func TestOrderRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	assert.ErrorIs(t, repo.Update(ctx, domain.New("order-x", "", "", "", "", "")), domain.ErrNotFound)
	assert.Error(t, repo.Update(ctx, nil))

	require.NoError(t, repo.Insert(ctx, domain.New("order-1", "a dragon", "", "", "", "")))
	o, err := repo.Get(ctx, "order-1")
	require.NoError(t, err)
	o.MarkRefunded("because")
	require.NoError(t, repo.Update(ctx, o))

	got, err := repo.Get(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, got.Status)
}

func TestOrderRepository_ListOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()

	base := time.Now().UTC()
	for i, id := range []string{"order-c", "order-a", "order-b"} {
		o := domain.New(id, "", "", "", "", "")
		o.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Insert(ctx, o))
	}

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "order-c", orders[0].ID)
	assert.Equal(t, "order-a", orders[1].ID)
	assert.Equal(t, "order-b", orders[2].ID)
}

func TestOrderRepository_ConcurrentReadModifyWrite(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository()
	require.NoError(t, repo.Insert(ctx, domain.New("order-1", "", "", "", "", "")))

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			o, err := repo.Get(ctx, "order-1")
			if err != nil {
				return err
			}
			o.MarkPaid(domain.Payment{Amount: int64(i + 1), Method: "tok_visa", ChargeID: fmt.Sprintf("ch_%d", i)})
			return repo.Update(ctx, o)
		})
	}
	require.NoError(t, g.Wait())

	got, err := repo.Get(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Status)
	assert.Positive(t, got.PaymentAmount)
}
