package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/cohort-crm/internal/entity"
)

type LeadRepositoryInterface = entity.LeadRepositoryInterface
type ActivityRepositoryInterface = entity.ActivityRepositoryInterface
type FollowUpRepositoryInterface = entity.FollowUpRepositoryInterface
type CampaignRepositoryInterface = entity.CampaignRepositoryInterface

// MessagingProvider é o contrato do Gallabox (ou qualquer outro provedor WA).
// Respostas do provedor são opacas: devolvemos o JSON decodificado.
type MessagingProvider interface {
	SendText(ctx context.Context, to, message string) (map[string]any, error)
	SendTemplate(ctx context.Context, to string, template MessageTemplate) (map[string]any, error)
	CreateCampaign(ctx context.Context, name string, filters map[string]any, template *MessageTemplate) (map[string]any, error)
}

type MessageTemplate struct {
	Name       string `json:"name" validate:"required"`
	Language   string `json:"language,omitempty"`
	Components []any  `json:"components,omitempty"`
}

// EventPublisher publica eventos de domínio depois do commit.
type EventPublisher interface {
	PublishStageChanged(ctx context.Context, event entity.StageChangedEvent) error
}

// EventDeduplicator marca ids de eventos de webhook já vistos.
// FirstSeen devolve false quando o id já foi processado; Forget libera a
// marca quando o processamento falhou, para a reentrega ser aceita.
type EventDeduplicator interface {
	FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Forget(ctx context.Context, key string) error
}

// Clock existe para os testes congelarem o "agora".
type Clock func() time.Time
