package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTypeIsValid(t *testing.T) {
	assert.True(t, FileTypeMarkdown.IsValid())
	assert.True(t, FileTypeCSV.IsValid())
	assert.True(t, FileTypeJSON.IsValid())

	assert.False(t, FileType("").IsValid())
	assert.False(t, FileType("xlsx").IsValid())
	assert.False(t, FileType("Markdown").IsValid(), "types are case sensitive")
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	user := User{
		ID:           "u1",
		Email:        "a@b.co",
		PasswordHash: "$2a$10$secret",
		Name:         "A",
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "password")
}

func TestFileJSONKeepsEmptyContent(t *testing.T) {
	file := File{
		ID:        "f1",
		Name:      "empty.md",
		Type:      FileTypeMarkdown,
		ProjectID: "p1",
	}

	raw, err := json.Marshal(file)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	content, ok := decoded["content"]
	assert.True(t, ok, "an empty file still carries its content field")
	assert.Equal(t, "", content)
}
