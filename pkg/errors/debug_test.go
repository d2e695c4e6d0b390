package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDumpIncludesChainAndPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", TableName: "foods", Message: "duplicate key"}
	err := Wrap(CodeConflict, fmt.Errorf("insert: %w", pgErr), "insert food")

	d := Dump(err)
	require.Equal(t, CodeConflict, d.Code)
	require.Equal(t, "23505", d.PGCode)
	require.Equal(t, "foods", d.PGTable)
	require.True(t, d.DuplicateKey)
	require.Len(t, d.Chain, 3)

	fields := d.Fields()
	require.Equal(t, "foods", fields["pg_table"])
	require.Equal(t, true, fields["duplicate_key"])
	require.NotContains(t, fields, "pg_detail")
}

func TestDumpMongoWriteException(t *testing.T) {
	mongoErr := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}},
	}
	err := Dependency("store", fmt.Errorf("insert foods: %w", mongoErr))

	d := Dump(err)
	require.Equal(t, CodeDependency, d.Code)
	require.Equal(t, []int{11000}, d.MongoCodes)
	require.True(t, d.DuplicateKey)
	require.Empty(t, d.PGCode)
}

func TestDumpPlainError(t *testing.T) {
	d := Dump(fmt.Errorf("boom"))
	require.Empty(t, d.Code)
	require.Equal(t, map[string]any{"error_message": "boom"}, d.Fields())
}

func TestDumpNil(t *testing.T) {
	require.Equal(t, ErrorDump{}, Dump(nil))
}
