package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	cases := []struct {
		name         string
		premium      bool
		subscription bool
		want         bool
	}{
		{"free paper without subscription", false, false, true},
		{"free paper with subscription", false, true, true},
		{"premium paper without subscription", true, false, false},
		{"premium paper with subscription", true, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanAccess(tc.premium, tc.subscription))
		})
	}
}
