package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codearena/judge-api/internal/config"
)

func TestRankingPageBounds(t *testing.T) {
	limit := int64(25)
	offset := int64(100)

	tests := []struct {
		name       string
		page       rankingPage
		wantLimit  int64
		wantOffset int64
	}{
		{"defaults", rankingPage{}, 50, 0},
		{"explicit limit", rankingPage{Limit: &limit}, 25, 0},
		{"explicit offset", rankingPage{Offset: &offset}, 50, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLimit, gotOffset := tt.page.bounds(50)
			assert.Equal(t, tt.wantLimit, gotLimit)
			assert.Equal(t, tt.wantOffset, gotOffset)
		})
	}
}

func TestDefaultPageLimitComesFromConfig(t *testing.T) {
	h := Handler{config: &config.Config{API: &config.APIConfig{DefaultPageLimit: 20}}}

	assert.Equal(t, int64(20), h.defaultPageLimit())
}
