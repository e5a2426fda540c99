package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/simpledb/internal/status"
)

type person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func (p *person) JSONValue() (string, error) {
	data, err := json.Marshal(p)
	return string(data), err
}

func (p *person) KeyValue() string {
	return p.ID
}

func (p *person) InitWithJSON(s string) error {
	return json.Unmarshal([]byte(s), p)
}

type unencodable struct{}

func (unencodable) JSONValue() (string, error) { return "", errors.New("boom") }
func (unencodable) KeyValue() string           { return "x" }

func TestSetObject_InstanceForKey(t *testing.T) {
	e, _ := newTestEngine(t)

	in := &person{ID: "p1", Name: "Ada", Age: 36}
	require.True(t, SetObject(e, in, "people", nil).OK())
	assert.True(t, e.HasKey("people", "p1"))

	out, res := InstanceForKey[person](e, "people", "p1")
	require.True(t, res.OK())
	require.NotNil(t, out)
	assert.Equal(t, *in, *out)
}

func TestInstanceForKey_Misses(t *testing.T) {
	e, _ := newTestEngine(t)

	out, res := InstanceForKey[person](e, "people", "nobody")
	assert.Nil(t, out)
	assert.Equal(t, status.KeyNotFound, res.Status)

	require.True(t, SetObject(e, &person{ID: "p1"}, "people", nil).OK())
	require.True(t, e.DeleteForKey("p1", "people").OK())
	out, res = InstanceForKey[person](e, "people", "p1")
	assert.Nil(t, out)
	assert.Equal(t, status.KeyDeleted, res.Status)
}

func TestInstanceForKey_Rejected(t *testing.T) {
	e, _ := newTestEngine(t)
	require.True(t, e.SetValue(`{"age":"old"}`, "p1", "people", nil).OK())

	out, res := InstanceForKey[person](e, "people", "p1")
	assert.Nil(t, out)
	assert.Equal(t, status.ReadError, res.Status)
	assert.ErrorIs(t, res.Err, status.ErrRead)
}

func TestSetObject_EncodeFailure(t *testing.T) {
	e, _ := newTestEngine(t)

	res := SetObject(e, unencodable{}, "t", nil)
	assert.Equal(t, status.WriteError, res.Status)
	assert.Equal(t, status.WriteError, e.Status())
	assert.False(t, e.HasKey("t", "x"))
}
