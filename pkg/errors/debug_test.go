package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpExtractsPgxError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "categories_slug_key", TableName: "categories", Message: "duplicate key"}
	err := Wrap(CodeConflict, fmt.Errorf("insert: %w", pgErr), "create category")

	dump := Dump(err)
	assert.Equal(t, CodeConflict, dump.Code)
	assert.Equal(t, "23505", dump.PGCode)
	assert.Equal(t, "categories_slug_key", dump.PGConstraint)
	require.Len(t, dump.Chain, 3)

	fields := dump.Fields()
	assert.Equal(t, "categories", fields["pg_table"])
	assert.Equal(t, CodeConflict, fields["error_code"])
}

func TestDumpExtractsPqError(t *testing.T) {
	err := fmt.Errorf("delete: %w", &pq.Error{Code: "23503", Table: "order_items"})

	dump := Dump(err)
	assert.Equal(t, "23503", dump.PGCode)
	assert.Equal(t, "order_items", dump.PGTable)
	assert.Empty(t, dump.Code)
}

func TestDumpPlainError(t *testing.T) {
	dump := Dump(stdErrors.New("boom"))
	assert.Equal(t, "boom", dump.TopMessage)

	fields := dump.Fields()
	_, hasPG := fields["pg_code"]
	assert.False(t, hasPG)
	assert.Equal(t, Dump(nil), ErrorDump{})
}
