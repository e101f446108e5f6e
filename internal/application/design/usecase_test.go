package design

import (
	"context"
	"errors"
	"testing"

	domdesign "github.com/Zhima-Mochi/tshirt-agent/internal/domain/design"
	domorder "github.com/Zhima-Mochi/tshirt-agent/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/tshirt-agent/internal/domain/outbox"
	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	got domdesign.Request
	err error
}

func (g *stubGenerator) Generate(_ context.Context, req domdesign.Request) (*domdesign.Result, error) {
	g.got = req
	if g.err != nil {
		return nil, g.err
	}
	return &domdesign.Result{URL: "https://images.example/dragon.png", ImagePreview: "iVBORw0KGgo..."}, nil
}

type fixedID string

func (f fixedID) NewID() string { return string(f) }

type capturePublisher struct{ events []domoutbox.Event }

func (p *capturePublisher) Publish(_ context.Context, e domoutbox.Event) error {
	p.events = append(p.events, e)
	return nil
}

func TestCreateDesign_StoresOrder(t *testing.T) {
	repo := memory.NewOrderRepository()
	gen := &stubGenerator{}
	pub := &capturePublisher{}
	uc := NewCreateDesignUseCase(repo, gen, fixedID("order-abc123def456"), pub, nil)

	res, err := uc.Execute(context.Background(), CreateDesignInput{
		Prompt:        "a dragon",
		CustomerEmail: "buyer@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "order-abc123def456", res.Order.ID)
	assert.Equal(t, domorder.StatusCreated, res.Order.Status)
	assert.Equal(t, domorder.PriceCents, res.Order.Price)
	assert.Equal(t, "https://images.example/dragon.png", res.Order.DesignURL)
	assert.Equal(t, domorder.DefaultStyle, gen.got.Style)
	assert.Equal(t, "a dragon", gen.got.Prompt)

	stored, err := repo.Get(context.Background(), "order-abc123def456")
	require.NoError(t, err)
	assert.Equal(t, "iVBORw0KGgo...", stored.ImagePreview)
	assert.Equal(t, "buyer@example.com", stored.CustomerEmail)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "design.created", pub.events[0].EventName())
}

func TestCreateDesign_KeepsStyle(t *testing.T) {
	gen := &stubGenerator{}
	uc := NewCreateDesignUseCase(memory.NewOrderRepository(), gen, fixedID("order-1"), nil, nil)

	res, err := uc.Execute(context.Background(), CreateDesignInput{Prompt: "a cat", Style: "retro"})
	require.NoError(t, err)
	assert.Equal(t, "retro", res.Order.Style)
	assert.Equal(t, "retro", gen.got.Style)
}

func TestCreateDesign_GeneratorFailureStoresNothing(t *testing.T) {
	repo := memory.NewOrderRepository()
	providerErr := errors.New("openai: images: status 500: boom")
	uc := NewCreateDesignUseCase(repo, &stubGenerator{err: providerErr}, fixedID("order-1"), nil, nil)

	_, err := uc.Execute(context.Background(), CreateDesignInput{Prompt: "a dragon"})
	require.ErrorIs(t, err, ErrGeneration)
	assert.ErrorIs(t, err, providerErr)

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}
