package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"France", "france"},
		{"United States of America", "united-states-of-america"},
		{"Côte d'Ivoire", "côte-d-ivoire"},
		{"  Bosnia & Herzegovina  ", "bosnia-herzegovina"},
		{"Saint Helena, Ascension and Tristan da Cunha", "saint-helena-ascension-and-tristan-da-cunha"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.name))
		})
	}
}
