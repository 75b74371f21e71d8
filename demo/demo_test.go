package demo

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), &out))

	assert.Equal(t, `Saba is taller than Jim.
Kiri is taller than Jim.
Dave is taller than Jim.
Sophie is taller than Jim.
UPDATE people SET home_town = 'Kabul' WHERE name = 'Sophie': 1 row updated.
Living in Berlin: Saba.
`, out.String())
}
