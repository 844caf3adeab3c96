package order_test

import (
	"testing"

	"circulation/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    order.Variant
		wantErr bool
	}{
		{"standard", order.Standard, false},
		{"reproduction", order.Reproduction, false},
		{"unknown", order.UnknownVariant, true},
		{"", order.UnknownVariant, true},
		{"STANDARD", order.UnknownVariant, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := order.VariantFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariant_Validate(t *testing.T) {
	require.NoError(t, order.Standard.Validate())
	require.NoError(t, order.Reproduction.Validate())
	require.Error(t, order.UnknownVariant.Validate())
	require.Error(t, order.Variant(42).Validate())
}

func TestVariant_String(t *testing.T) {
	assert.Equal(t, "standard", order.Standard.String())
	assert.Equal(t, "reproduction", order.Reproduction.String())
	assert.Equal(t, "unknown", order.UnknownVariant.String())
}
