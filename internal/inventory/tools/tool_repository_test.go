package tools

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
)

func TestLockToolsByIDsLocksRows(t *testing.T) {
	tx := goqu.NewTx("postgres", nil)

	sql, _, err := lockToolsByIDs(tx, []int{3, 7}).ToSQL()

	assert.NoError(t, err)
	assert.Contains(t, sql, "FOR UPDATE")
}
