package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Page
		want Page
	}{
		{"defaults applied", Page{}, Page{Number: 1, Size: 20}},
		{"negative page coerced", Page{Number: -3, Size: 10}, Page{Number: 1, Size: 10}},
		{"oversized page capped", Page{Number: 2, Size: 500}, Page{Number: 2, Size: 100}},
		{"valid passthrough", Page{Number: 4, Size: 50}, Page{Number: 4, Size: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize(20, 100))
		})
	}
}

func TestPageSkip(t *testing.T) {
	p := Page{Number: 3, Size: 25}
	assert.Equal(t, int64(50), p.Skip())
	assert.Equal(t, int64(25), p.Limit())
}
