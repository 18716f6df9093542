package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		expected ProductStatus
	}{
		{"zero on hand", 0, ProductDepleted},
		{"exactly at threshold", 2, ProductDepleted},
		{"just above threshold", 3, ProductActive},
		{"plenty on hand", 10, ProductActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ProductStatusFor(tt.quantity))
		})
	}
}

func TestNewOrderStatus(t *testing.T) {
	status, err := NewOrderStatus("EN PROCESO")
	assert.NoError(t, err)
	assert.Equal(t, OrderInProcess, status)

	_, err = NewOrderStatus("CANCELADO")
	assert.Error(t, err)
}

func TestNewToolCondition(t *testing.T) {
	condition, err := NewToolCondition("MALO")
	assert.NoError(t, err)
	assert.Equal(t, ConditionBad, condition)

	_, err = NewToolCondition("ROTO")
	assert.Error(t, err)
}

func TestToolStatusForCondition(t *testing.T) {
	assert.Equal(t, ToolInactive, ToolStatusForCondition(ConditionBad))
	assert.Equal(t, ToolAvailable, ToolStatusForCondition(ConditionGood))
	assert.Equal(t, ToolAvailable, ToolStatusForCondition(ConditionRegular))
}
