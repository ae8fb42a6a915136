package typesense

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/healthcaredecisionsupport/pkg/config"
)

func TestFacilitiesSchema(t *testing.T) {
	schema := FacilitiesSchema()

	assert.Equal(t, FacilitiesCollection, schema.Name)
	require.NotNil(t, schema.DefaultSortingField)
	assert.Equal(t, "indexed_at", *schema.DefaultSortingField)

	types := map[string]string{}
	for _, f := range schema.Fields {
		types[f.Name] = f.Type
	}
	assert.Equal(t, "geopoint", types["location"])
	assert.Equal(t, "string", types["region"])
	assert.Equal(t, "int64", types["indexed_at"])
}

func TestClient_Integration(t *testing.T) {
	url := os.Getenv("TYPESENSE_TEST_URL")
	if url == "" {
		t.Skip("TYPESENSE_TEST_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewClient(ctx, &config.TypesenseConfig{URL: url, APIKey: os.Getenv("TYPESENSE_TEST_API_KEY")})
	require.NoError(t, err)

	require.NoError(t, client.InitSchema(ctx))
	// second call finds the existing collection
	require.NoError(t, client.InitSchema(ctx))

	err = client.UpsertDocument(ctx, map[string]interface{}{
		"id":            "H999",
		"hospital_id":   "H999",
		"hospital_name": "Integration Test Hospital",
		"region":        "Testland",
		"location":      []float64{40.7, -73.9},
		"indexed_at":    time.Now().Unix(),
	})
	assert.NoError(t, err)
}
