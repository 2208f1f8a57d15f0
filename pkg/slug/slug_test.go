// Copyright (c) 2026 Driftline. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/driftline/driftline/pkg/slug"
)

/*
TestFrom covers the slug transformation pipeline.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Board Shorts", "board-shorts"},
		{"accents", "Séance Springsuit", "seance-springsuit"},
		{"punctuation", "Tropical Wax (3-Pack)!", "tropical-wax-3-pack"},
		{"collapses_hyphens", "surf --- shop", "surf-shop"},
		{"trims_edges", "  edge case  ", "edge-case"},
		{"numbers", "8ft Leash", "8ft-leash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}
