package shop

import (
	"strings"
	"testing"

	"mikune/models"

	"github.com/stretchr/testify/assert"
)

func TestCatalogEmbed_ListsEveryItemOnce(t *testing.T) {
	embed := CatalogEmbed()

	var all strings.Builder
	for _, field := range embed.Fields {
		all.WriteString(field.Value)
		all.WriteString("\n")
		assert.LessOrEqual(t, len(field.Value), 1024, field.Name)
	}

	for _, item := range models.ShopItems() {
		assert.Equal(t, 1, strings.Count(all.String(), "`"+item.ID+"`"), item.ID)
	}
}
