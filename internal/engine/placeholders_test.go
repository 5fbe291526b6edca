package engine

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindNamed_Question(t *testing.T) {
	params := []types.SqlParameter{Param("id", "b1"), Param("name", "Acme")}

	query, args, err := bindNamed("UPDATE brands SET name = :name WHERE id = :id", params, QuestionPlaceholders)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE brands SET name = ? WHERE id = ?", query)
	assert.Equal(t, []any{"Acme", "b1"}, args)
}

func TestBindNamed_DollarReusesIndex(t *testing.T) {
	params := []types.SqlParameter{Param("v", "x")}

	query, args, err := bindNamed("SELECT * FROM t WHERE a = :v OR b = :v", params, DollarPlaceholders)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 OR b = $1", query)
	assert.Equal(t, []any{"x"}, args)
}

func TestBindNamed_SkipsLiteralsAndCasts(t *testing.T) {
	params := []types.SqlParameter{Param("id", "p1")}

	query, args, err := bindNamed("SELECT ':nope', created::text FROM products WHERE id = :id::uuid", params, DollarPlaceholders)
	require.NoError(t, err)
	assert.Equal(t, "SELECT ':nope', created::text FROM products WHERE id = $1::uuid", query)
	assert.Equal(t, []any{"p1"}, args)
}

func TestBindNamed_MissingParameter(t *testing.T) {
	_, _, err := bindNamed("SELECT * FROM brands WHERE id = :id", nil, QuestionPlaceholders)
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestBindNamed_NullParameter(t *testing.T) {
	_, args, err := bindNamed("INSERT INTO t (a) VALUES (:a)", []types.SqlParameter{Param("a", nil)}, QuestionPlaceholders)
	require.NoError(t, err)
	assert.Equal(t, []any{nil}, args)
}
