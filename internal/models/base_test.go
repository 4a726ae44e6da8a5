package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	first := NewID()
	second := NewID()
	assert.False(t, first.IsZero())
	assert.Less(t, first.String(), second.String(), "ids sort in creation order")
	assert.WithinDuration(t, time.Now(), first.Time(), time.Second)
}

func TestParseID(t *testing.T) {
	original := NewID()
	parsed, err := ParseID(original.String())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)

	_, err = ParseID("not-a-valid-id")
	assert.ErrorContains(t, err, "invalid id")
}

func TestID_ScanValue(t *testing.T) {
	original := NewID()
	v, err := original.Value()
	require.NoError(t, err)

	var fromString ID
	require.NoError(t, fromString.Scan(v))
	assert.Equal(t, original, fromString)

	var fromBytes ID
	require.NoError(t, fromBytes.Scan([]byte(original.String())))
	assert.Equal(t, original, fromBytes)

	fromNil := NewID()
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsZero())

	zero, err := ID{}.Value()
	require.NoError(t, err)
	assert.Nil(t, zero)

	assert.Error(t, fromNil.Scan(42))
}

func TestID_JSON(t *testing.T) {
	type wrapper struct {
		ID ID `json:"id"`
	}
	w := wrapper{ID: NewID()}
	b, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"`+w.ID.String()+`"}`, string(b))

	var decoded wrapper
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, w.ID, decoded.ID)
}

func TestContentEntry_Validate(t *testing.T) {
	valid := ContentEntry{SiteID: "uk", Model: "page", CacheKey: "/"}
	assert.NoError(t, valid.Validate())

	noSite := valid
	noSite.SiteID = ""
	assert.ErrorContains(t, noSite.Validate(), "site_id")

	noKey := valid
	noKey.CacheKey = ""
	assert.ErrorIs(t, noKey.Validate(), ErrCacheKeyRequired)
}

func TestContentEntry_Fresh(t *testing.T) {
	now := time.Now()
	e := ContentEntry{FetchedAt: now.Add(-30 * time.Second)}
	assert.True(t, e.Fresh(now, time.Minute))
	assert.False(t, e.Fresh(now, 10*time.Second))
}
