package service_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadow-boy/short-uri-project/internal/entities"
	"github.com/shadow-boy/short-uri-project/internal/service"
	"github.com/shadow-boy/short-uri-project/internal/store"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestClickService_Record(t *testing.T) {
	st := store.NewMemoryStore()
	svc := service.NewClickService(st)
	ctx := context.Background()

	err := svc.Record(ctx, "link-1", service.Visit{
		IP:        "1.2.3.4",
		UserAgent: "curl/8.0",
		Referrer:  "https://news.example.com",
		Country:   "DE",
	})
	require.NoError(t, err)

	keys, err := st.ListKeys(ctx, "click:link-1:")
	require.NoError(t, err)
	require.Len(t, keys, 1)

	data, err := st.Get(ctx, keys[0])
	require.NoError(t, err)

	var click entities.Click
	require.NoError(t, json.Unmarshal([]byte(data), &click))

	assert.Equal(t, "link-1", click.LinkID)
	assert.Equal(t, "curl/8.0", click.UserAgent)
	assert.Equal(t, "https://news.example.com", click.Referrer)
	assert.Equal(t, "DE", click.Country)
	assert.False(t, click.TS.IsZero())
}

func TestClickService_Record_HashesIP(t *testing.T) {
	st := store.NewMemoryStore()
	svc := service.NewClickService(st)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "link-1", service.Visit{IP: "1.2.3.4"}))

	keys, err := st.ListKeys(ctx, "click:link-1:")
	require.NoError(t, err)
	require.Len(t, keys, 1)

	data, err := st.Get(ctx, keys[0])
	require.NoError(t, err)

	// The persisted value is a fixed-length digest, never the raw IP
	assert.NotContains(t, data, "1.2.3.4")

	var click entities.Click
	require.NoError(t, json.Unmarshal([]byte(data), &click))
	assert.Regexp(t, hexDigest, click.IPHash)

	// Same IP hashes to the same digest
	require.NoError(t, svc.Record(ctx, "link-2", service.Visit{IP: "1.2.3.4"}))
	clicks, err := svc.RecentForLink(ctx, "link-2", 1)
	require.NoError(t, err)
	require.Len(t, clicks, 1)
	assert.Equal(t, click.IPHash, clicks[0].IPHash)
}

func TestClickService_CountForLink(t *testing.T) {
	st := store.NewMemoryStore()
	svc := service.NewClickService(st)
	ctx := context.Background()

	count, err := svc.CountForLink(ctx, "link-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(ctx, "link-1", service.Visit{IP: "1.2.3.4"}))
	}
	require.NoError(t, svc.Record(ctx, "link-2", service.Visit{IP: "5.6.7.8"}))

	count, err = svc.CountForLink(ctx, "link-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = svc.CountForLink(ctx, "link-2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClickService_RecentForLink_Limit(t *testing.T) {
	st := store.NewMemoryStore()
	svc := service.NewClickService(st)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Record(ctx, "link-1", service.Visit{IP: "1.2.3.4"}))
	}

	clicks, err := svc.RecentForLink(ctx, "link-1", 2)
	require.NoError(t, err)
	assert.Len(t, clicks, 2)

	clicks, err = svc.RecentForLink(ctx, "link-1", 0)
	require.NoError(t, err)
	assert.Len(t, clicks, 5)

	// Newest first
	for i := 1; i < len(clicks); i++ {
		assert.False(t, clicks[i].TS.After(clicks[i-1].TS))
	}
}
