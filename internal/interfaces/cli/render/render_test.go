package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
)

type payload struct {
	GuildID string `json:"guild_id" yaml:"guild_id"`
	Count   int    `json:"count" yaml:"count"`
}

func TestResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, FormatJSON, payload{GuildID: "G1", Count: 3}, nil))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "G1", decoded["data"].(map[string]any)["guild_id"])
	assert.NotContains(t, decoded, "error")
}

func TestResult_ErrorIsPrintedAndReturned(t *testing.T) {
	var buf bytes.Buffer
	appErr := errors.NewInvalidStateError("ticket is not open")

	err := Result(&buf, FormatJSON, nil, appErr)
	assert.Equal(t, appErr, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, "invalid_state", decoded["error"].(map[string]any)["type"])
}

func TestResult_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Result(&buf, FormatYAML, payload{GuildID: "G2", Count: 1}, nil))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "G2", decoded["data"].(map[string]any)["guild_id"])
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, "xml", payload{}))
}
