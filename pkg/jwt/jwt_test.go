package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testObject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestEngine_GenerateAndVerify(t *testing.T) {
	engine := NewEngine[testObject]("secret", time.Minute)

	token, err := engine.Generate("sub", testObject{ID: "user1", Name: "foo"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user1", obj.ID)
	require.Equal(t, "foo", obj.Name)
}

func TestEngine_VerifyWithWrongSecret(t *testing.T) {
	engine := NewEngine[testObject]("secret", time.Minute)
	token, err := engine.Generate("sub", testObject{ID: "user1"})
	require.NoError(t, err)

	another := NewEngine[testObject]("another-secret", time.Minute)
	_, err = another.Verify(token)
	require.Error(t, err)
}

func TestEngine_VerifyExpiredToken(t *testing.T) {
	engine := NewEngine[testObject]("secret", -time.Minute)
	token, err := engine.Generate("sub", testObject{ID: "user1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}
