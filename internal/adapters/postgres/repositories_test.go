package postgres

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "pmsdash/internal/domain"
    "pmsdash/internal/ports"
)

var (
    _ ports.SnapshotSource   = (*DB)(nil)
    _ ports.ImportRepository = (*DB)(nil)
    _ ports.RunLog           = (*DB)(nil)
)

func TestJSONOrNullMapsAbsentValues(t *testing.T) {
    var ref *domain.UserRef
    v, err := jsonOrNull(ref)
    require.NoError(t, err)
    assert.Nil(t, v)

    v, err = jsonOrNull(domain.AuthorField{})
    require.NoError(t, err)
    assert.Nil(t, v)

    v, err = jsonOrNull(domain.TextAuthor("Ann"))
    require.NoError(t, err)
    assert.Equal(t, []byte(`"Ann"`), v)
}

func TestNullable(t *testing.T) {
    assert.Nil(t, nullable(""))
    assert.Equal(t, "HR", nullable("HR"))
}
