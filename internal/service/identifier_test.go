package service

import (
	"testing"

	"github.com/peridotlabs/venus-auth/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestClassifyIdentifier(t *testing.T) {
	tests := []struct {
		identifier string
		want       entity.IdentifierType
	}{
		{"a@b.com", entity.IdentifierEmail},
		{"user.name+tag@example.co.uk", entity.IdentifierEmail},
		{"someuser", entity.IdentifierUsername},
		{"user-1700000000000", entity.IdentifierUsername},
		{"missing-domain@", entity.IdentifierUsername},
		{"@nolocal.com", entity.IdentifierUsername},
		{"no-tld@host", entity.IdentifierUsername},
		{"", entity.IdentifierUsername},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIdentifier(tt.identifier))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", normalizeEmail("  A@B.Com "))
}
