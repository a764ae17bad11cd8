package parameters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/govctl/internal/domain"
)

func TestConfigSource(t *testing.T) {
	params := []domain.Parameter{
		{Plugin: "voting", Name: "minParticipation", Type: "uint32", Interface: "ITokenVoting", Setter: "setMinParticipation"},
		{Plugin: "voting", Name: "treasury", Type: "address", Interface: "ITokenVoting", Setter: "setTreasury"},
	}
	src := NewConfigSource(params)
	params[0].Name = "mutated"

	got, err := src.ChangeableParameters(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "minParticipation", got[0].Name)
}

func TestCheck(t *testing.T) {
	base := domain.Parameter{Plugin: "p", Name: "n", Interface: "I", Setter: "set"}

	tests := []struct {
		name    string
		typ     string
		wantErr bool
	}{
		{"uint", "uint64", false},
		{"int", "int256", false},
		{"bool", "bool", false},
		{"bytes unsupported", "bytes", true},
		{"odd width", "uint7", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			p.Type = tt.typ
			err := Check(p)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Error(t, Check(domain.Parameter{Type: "bool"}))
}

func TestConfigSource_RejectsInvalid(t *testing.T) {
	src := NewConfigSource([]domain.Parameter{{Plugin: "p", Name: "n", Interface: "I", Setter: "s", Type: "tuple"}})
	_, err := src.ChangeableParameters(context.Background())
	assert.Error(t, err)
}
