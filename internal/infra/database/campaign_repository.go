package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/cohort-crm/internal/entity"
)

type CampaignRepository struct {
	DB *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func (r *CampaignRepository) Create(ctx context.Context, c *entity.Campaign) error {
	if err := requireDB(r.DB); err != nil {
		return err
	}
	filters, err := json.Marshal(c.Filters)
	if err != nil {
		return fmt.Errorf("erro ao serializar filtros: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO campaigns (id, name, filters, gallabox_campaign_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, filters, c.GallaboxCampaignID, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao inserir campanha: %w", err)
	}
	return nil
}
