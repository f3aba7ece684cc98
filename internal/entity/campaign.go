package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Campaign é o registro local de um broadcast criado no Gallabox.
type Campaign struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Filters            map[string]any `json:"filters"`
	GallaboxCampaignID *string        `json:"gallabox_campaign_id"`
	CreatedAt          time.Time      `json:"created_at"`
}

func NewCampaign(name string, filters map[string]any, externalID string) (*Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("campaign name is required")
	}
	if filters == nil {
		filters = map[string]any{}
	}
	c := &Campaign{
		ID:        uuid.New().String(),
		Name:      name,
		Filters:   filters,
		CreatedAt: time.Now().UTC(),
	}
	if externalID != "" {
		c.GallaboxCampaignID = &externalID
	}
	return c, nil
}

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *Campaign) error
}
