package users

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDKeepsServiceEncoding(t *testing.T) {
	for _, raw := range []string{`1`, `"abc"`, `12345678901234567890`, `"550e8400-e29b-41d4-a716-446655440000"`} {
		t.Run(raw, func(t *testing.T) {
			var u User
			require.NoError(t, json.Unmarshal([]byte(`{"id":`+raw+`,"name":"n","email":"e"}`), &u))

			out, err := json.Marshal(u)
			require.NoError(t, err)
			assert.JSONEq(t, `{"id":`+raw+`,"name":"n","email":"e"}`, string(out))
		})
	}
}

func TestIDRejectsStructuredValues(t *testing.T) {
	var u User
	assert.Error(t, json.Unmarshal([]byte(`{"id":{"k":1}}`), &u))
	assert.Error(t, json.Unmarshal([]byte(`{"id":[1]}`), &u))
	assert.Error(t, json.Unmarshal([]byte(`{"id":true}`), &u))
}

func TestIDMissingOrNull(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":null,"name":"n"}`), &u))
	assert.True(t, u.ID.IsZero())

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"id":null`)
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "42", NumberID(42).String())
	assert.Equal(t, "a\"b", StringID("a\"b").String())
	assert.Equal(t, "", ID{}.String())
}
