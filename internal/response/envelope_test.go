package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestEnvelope_OK(t *testing.T) {
	env := New[item]("items").OK("Item created", item{ID: 1, Name: "a"})

	assert.True(t, env.Succeeded())
	assert.Equal(t, Metadata{Message: MessageOK, Code: CodeOK, Detail: "Item created"}, env.Metadata)
	first, ok := env.First()
	require.True(t, ok)
	assert.Equal(t, int64(1), first.ID)
}

func TestEnvelope_FailClearsPayload(t *testing.T) {
	env := New[item]("items").OK(DetailOK, item{ID: 1}, item{ID: 2})
	env.Fail("Item not found")

	assert.False(t, env.Succeeded())
	assert.Equal(t, CodeFail, env.Metadata.Code)
	assert.Equal(t, MessageFail, env.Metadata.Message)
	assert.Empty(t, env.Items())
	_, ok := env.First()
	assert.False(t, ok)
}

func TestEnvelope_MarshalShape(t *testing.T) {
	t.Run("items keyed by plural", func(t *testing.T) {
		env := New[item]("items").OK(DetailOK, item{ID: 7, Name: "x"})

		b, err := json.Marshal(env)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"metadata": {"message": "Response ok", "code": "00", "detail": "Successful response"},
			"data": {"items": [{"id": 7, "name": "x"}]}
		}`, string(b))
	})

	t.Run("empty payload is an empty list", func(t *testing.T) {
		env := New[item]("items").Fail("boom")

		b, err := json.Marshal(env)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"metadata": {"message": "Response nok", "code": "-1", "detail": "boom"},
			"data": {"items": []}
		}`, string(b))
	})

	t.Run("nil items never encode as null", func(t *testing.T) {
		env := &Envelope[item]{Data: Data[item]{Key: "items"}}

		b, err := json.Marshal(env)
		require.NoError(t, err)
		assert.Contains(t, string(b), `"items":[]`)
	})
}

func TestData_Unmarshal(t *testing.T) {
	t.Run("known key", func(t *testing.T) {
		env := New[item]("items")
		err := json.Unmarshal([]byte(`{"metadata":{"code":"00"},"data":{"items":[{"id":3}]}}`), env)
		require.NoError(t, err)
		assert.Equal(t, []item{{ID: 3}}, env.Items())
		assert.True(t, env.Succeeded())
	})

	t.Run("unknown key is discovered", func(t *testing.T) {
		var env Envelope[item]
		err := json.Unmarshal([]byte(`{"data":{"things":[{"id":4}]}}`), &env)
		require.NoError(t, err)
		assert.Equal(t, "things", env.Data.Key)
		assert.Len(t, env.Items(), 1)
	})

	t.Run("ambiguous payload", func(t *testing.T) {
		var env Envelope[item]
		err := json.Unmarshal([]byte(`{"data":{"a":[],"b":[]}}`), &env)
		assert.Error(t, err)
	})
}
