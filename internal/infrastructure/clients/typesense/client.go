package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/healthcaredecisionsupport/pkg/config"
	"github.com/zatekoja/healthcaredecisionsupport/pkg/retry"
)

const (
	// FacilitiesCollection holds one document per hospital
	FacilitiesCollection = "hospital_facilities"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.DoWithLog(
		ctx,
		retry.DefaultConfig(),
		"Typesense",
		func() error {
			healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_, err := client.Health(healthCtx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Typesense connection attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Str("url", cfg.URL).Msg("Connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the facilities collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == FacilitiesCollection {
			log.Debug().Str("collection", FacilitiesCollection).Msg("Typesense collection already exists")
			return nil
		}
	}

	if _, err := c.client.Collections().Create(ctx, FacilitiesSchema()); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", FacilitiesCollection).Msg("Created Typesense collection")
	return nil
}

// FacilitiesSchema describes the hospital directory collection
func FacilitiesSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: FacilitiesCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "hospital_id", Type: "string"},
			{Name: "hospital_name", Type: "string"},
			{Name: "region", Type: "string", Facet: pointer.True()},
			{Name: "location", Type: "geopoint"},
			{Name: "indexed_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("indexed_at"),
	}
}

// UpsertDocument indexes or replaces a single document
func (c *Client) UpsertDocument(ctx context.Context, document map[string]interface{}) error {
	_, err := c.client.Collection(FacilitiesCollection).Documents().Upsert(ctx, document)
	return err
}

// Search runs a query against the facilities collection
func (c *Client) Search(ctx context.Context, params *api.SearchCollectionParams) (*api.SearchResult, error) {
	return c.client.Collection(FacilitiesCollection).Documents().Search(ctx, params)
}
