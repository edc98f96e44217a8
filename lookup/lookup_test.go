package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := Default()

	assert.Equal(t, "Bus", table.Description(3))
	assert.Equal(t, 150.0, table.MaxSpeedKMH(3))
	assert.Equal(t, 320.0, table.MaxSpeedKMH(2))
	// Extended schema codes are covered too.
	assert.Equal(t, "Coach Service", table.Description(200))

	// Unmapped codes fall back to the default speed.
	assert.Equal(t, float64(DefaultMaxSpeedKMH), table.MaxSpeedKMH(9999))
	assert.Contains(t, table.Description(9999), "9999")
}

func TestOverride(t *testing.T) {
	table := Default()
	table.Override(3, 90)
	assert.Equal(t, 90.0, table.MaxSpeedKMH(3))
	// Overriding keeps the description.
	assert.Equal(t, "Bus", table.Description(3))

	table.Override(42, 60)
	assert.Equal(t, 60.0, table.MaxSpeedKMH(42))

	table.SetDefaultMaxSpeedKMH(110)
	assert.Equal(t, 110.0, table.MaxSpeedKMH(9999))
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("route_type,description\n3,Local Bus\n8000,Hovercraft\n"))
	}))
	defer srv.Close()

	table, err := Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	// Fetched descriptions win, speeds stay local.
	assert.Equal(t, "Local Bus", table.Description(3))
	assert.Equal(t, 150.0, table.MaxSpeedKMH(3))
	assert.Equal(t, "Hovercraft", table.Description(8000))
	assert.Equal(t, float64(DefaultMaxSpeedKMH), table.MaxSpeedKMH(8000))
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetchOrDefaultFallsBack(t *testing.T) {
	table := FetchOrDefault(context.Background(), "http://127.0.0.1:1/unreachable")
	assert.Equal(t, "Bus", table.Description(3))

	table = FetchOrDefault(context.Background(), "")
	assert.Equal(t, "Bus", table.Description(3))
}
