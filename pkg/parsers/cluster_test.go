package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIdeas(t *testing.T) {
	text := `IDEA 1: Solar-powered sensors
Deploy low-cost solar sensors across the farm.

IDEA 2: Community data co-op
Let neighboring farms pool their sensor data.`

	ideas := ParseIdeas(text, 0)
	assert.Len(t, ideas, 2)
	assert.Equal(t, "model_0_idea_1", ideas[0].ID)
	assert.Equal(t, "Model A", ideas[0].Label)
	assert.Equal(t, "Solar-powered sensors", ideas[0].Title)
	assert.Contains(t, ideas[0].Body, "low-cost solar sensors")
	assert.Equal(t, "model_0_idea_2", ideas[1].ID)
}

func TestParseClusters(t *testing.T) {
	known := map[string]bool{"model_0_idea_1": true, "model_0_idea_2": true, "model_1_idea_1": true}
	text := `CLUSTER 1:
Name: Sensing infrastructure
Theme: Hardware-first approaches
Promise: HIGH
Ideas: model_0_idea_1, model_1_idea_1, model_9_idea_9

CLUSTER 2:
Name: Empty cluster
Theme: nothing resolves
Promise: LOW
Ideas: model_9_idea_1`

	clusters := ParseClusters(text, known)
	// cluster 2 drops entirely since its only id is unresolved
	assert.Len(t, clusters, 1)
	assert.Equal(t, "Sensing infrastructure", clusters[0].Name)
	assert.Equal(t, PromiseHigh, clusters[0].Promise)
	assert.Equal(t, []string{"model_0_idea_1", "model_1_idea_1"}, clusters[0].IdeaIDs)
}

func TestEffectiveMaxClusters(t *testing.T) {
	assert.Equal(t, 5, EffectiveMaxClusters(20, 5))
	assert.Equal(t, 3, EffectiveMaxClusters(4, 5))
	assert.Equal(t, 4, EffectiveMaxClusters(8, 5))
}

func TestPromiseRank(t *testing.T) {
	assert.Equal(t, 12, PromiseHigh.Rank())
	assert.Equal(t, 8, PromiseMedium.Rank())
	assert.Equal(t, 4, PromiseLow.Rank())
}
