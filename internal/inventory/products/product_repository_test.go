package products

import (
	"testing"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/pkg/metadata"

	"github.com/stretchr/testify/assert"
)

func TestInboundRecordReplacesCounters(t *testing.T) {
	// Whatever the product held before (say entrada=10, actual=3), a new
	// inbound of 5 must leave entrada=5, actual=5, salida=0: the record
	// carries absolute values, not increments.
	record := inboundRecord(5)

	assert.Equal(t, 5, record["cantidad_entrada"])
	assert.Equal(t, 5, record["cantidad_actual"])
	assert.Equal(t, 0, record["cantidad_salida"])
	assert.Equal(t, metadata.ProductActive.String(), record["estado"])
}

func TestInboundRecordMarksDepletedAtThreshold(t *testing.T) {
	record := inboundRecord(metadata.DepletionThreshold)

	assert.Equal(t, metadata.ProductDepleted.String(), record["estado"])
	assert.Equal(t, metadata.DepletionThreshold, record["cantidad_actual"])
}
