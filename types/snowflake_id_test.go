package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeIDJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		ID SnowflakeID `json:"id"`
	}{ID: 1790812345678901248})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1790812345678901248"}`, string(b))

	var fromString, fromNumber SnowflakeID
	require.NoError(t, json.Unmarshal([]byte(`"42"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`42`), &fromNumber))
	assert.Equal(t, SnowflakeID(42), fromString)
	assert.Equal(t, fromString, fromNumber)

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &fromString))
	assert.Error(t, json.Unmarshal([]byte(`true`), &fromString))
}

func TestSnowflakeIDScan(t *testing.T) {
	var id SnowflakeID
	require.NoError(t, id.Scan(int64(7)))
	assert.Equal(t, SnowflakeID(7), id)
	require.NoError(t, id.Scan([]byte("8")))
	assert.Equal(t, SnowflakeID(8), id)
	require.NoError(t, id.Scan(nil))
	assert.Equal(t, SnowflakeID(0), id)
	assert.Error(t, id.Scan(3.5))
}

func TestParseSnowflakeID(t *testing.T) {
	id, err := ParseSnowflakeID("123")
	require.NoError(t, err)
	assert.Equal(t, "123", id.String())

	_, err = ParseSnowflakeID("x")
	assert.Error(t, err)
}
