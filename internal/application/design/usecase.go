package design

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/tshirt-agent/internal/application"
	domdesign "github.com/Zhima-Mochi/tshirt-agent/internal/domain/design"
	domorder "github.com/Zhima-Mochi/tshirt-agent/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/tshirt-agent/internal/domain/outbox"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	designService       = "design-service"
	useCaseDesignCreate = "design.create"
	designSpanName      = "CreateDesign"
	generatorPeer       = "design_provider"
	generatorEndpoint   = "images.generate"
)

var ErrGeneration = errors.New("design generation failed")

type IDGenerator interface {
	NewID() string
}

type CreateDesignInput struct {
	Prompt        string
	Style         string
	CustomerEmail string
}

type CreateDesignResult struct {
	Order *domorder.Order
}

// CreateDesignUseCase generates artwork and opens an order priced at the flat design price.
// Prompts are passed to the provider untouched, whatever their length or content.
type CreateDesignUseCase struct {
	repo        domorder.Repository
	generator   domdesign.Generator
	idGenerator IDGenerator
	publisher   domoutbox.Publisher
	tel         observability.Observability
	log         observability.Logger
}

var _ application.UseCase[CreateDesignInput, *CreateDesignResult] = (*CreateDesignUseCase)(nil)

func NewCreateDesignUseCase(
	repo domorder.Repository,
	generator domdesign.Generator,
	idGen IDGenerator,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *CreateDesignUseCase {
	return &CreateDesignUseCase{
		repo:        repo,
		generator:   generator,
		idGenerator: idGen,
		publisher:   publisher,
		tel:         tel,
		log:         observability.LoggerOf(tel).With(observability.F("service", designService)),
	}
}

func (uc *CreateDesignUseCase) Execute(ctx context.Context, cmd CreateDesignInput) (_ *CreateDesignResult, err error) {
	ctx, probe := application.StartProbe(ctx, uc.tel, uc.log, useCaseDesignCreate, designSpanName,
		attribute.String("design.style", cmd.Style),
	)
	defer func() { probe.End(err) }()

	style := cmd.Style
	if style == "" {
		style = domorder.DefaultStyle
	}
	probe.Logger().Info("design_generation_started", observability.F("design_prompt", cmd.Prompt))

	metrics := observability.MetricsOf(uc.tel)
	genStart := time.Now()
	generated, genErr := uc.generator.Generate(ctx, domdesign.Request{Prompt: cmd.Prompt, Style: style})
	if genErr != nil {
		application.ObserveExternal(metrics, generatorPeer, generatorEndpoint, "error", genStart)
		probe.Fail("GENERATION_FAILED")
		return nil, fmt.Errorf("%w: %w", ErrGeneration, genErr)
	}
	application.ObserveExternal(metrics, generatorPeer, generatorEndpoint, "success", genStart)

	entity := domorder.New(uc.idGenerator.NewID(), cmd.Prompt, style, cmd.CustomerEmail, generated.URL, generated.ImagePreview)
	if err := uc.repo.Insert(ctx, entity); err != nil {
		probe.Fail("REPO_INSERT_FAILED")
		return nil, fmt.Errorf("design: store order: %w", err)
	}
	probe.Add(observability.F("order_id", entity.ID))

	if pubErr := application.Publish(ctx, uc.publisher, metrics, domorder.NewDesignCreatedEvent(entity)); pubErr != nil {
		probe.SetStatus("EVENT_PUBLISH_FAILED")
		probe.Add(observability.F("event_publish_error", pubErr.Error()))
	}

	probe.Span().SetAttributes(
		attribute.String("order.id", entity.ID),
		attribute.String("order.status", string(entity.Status)),
	)
	probe.Span().AddEvent("order.created", trace.WithAttributes(attribute.String("order.id", entity.ID)))

	return &CreateDesignResult{Order: entity}, nil
}
