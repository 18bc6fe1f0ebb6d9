package utils

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchProbe struct {
	Name     null.String `json:"name"`
	TeamID   null.Uint64 `json:"team_id"`
	Deadline null.Time   `json:"deadline"`
}

func TestDecodePatch_DistinguishesAbsentFromNull(t *testing.T) {
	var dto patchProbe
	fields, err := DecodePatch([]byte(`{"name":"Pump","team_id":null}`), &dto)
	require.NoError(t, err)

	assert.True(t, fields["name"])
	assert.True(t, fields["team_id"])
	assert.False(t, fields["deadline"])

	assert.Equal(t, "Pump", *NullStringPtr(dto.Name))
	assert.Nil(t, NullUint64Ptr(dto.TeamID), "явный null очищает поле")
	assert.Nil(t, NullTimePtr(dto.Deadline))
}

func TestDecodePatch_EmptyBody(t *testing.T) {
	var dto patchProbe
	fields, err := DecodePatch([]byte("  "), &dto)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestDecodePatch_RejectsNonObject(t *testing.T) {
	var dto patchProbe
	_, err := DecodePatch([]byte(`[1,2]`), &dto)
	assert.Error(t, err)
}
