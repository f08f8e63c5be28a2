package netfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"transitraptor/internal/network"
)

func buildSample(t *testing.T) *network.Network {
	t.Helper()
	b := network.NewBuilder()
	s0 := b.AddStop(network.Point{Lat: 1, Lon: 2})
	s1 := b.AddStop(network.Point{Lat: 3, Lon: 4})
	s2 := b.AddStop(network.Point{Lat: 5, Lon: 6})

	rb := b.AddRoute(false, []network.StopIndex{s0, s1, s2})
	rb.AddTrip([]int{10, 20, 30}, "weekday")
	rb.Done()

	net, err := b.Build(map[network.StopIndex][]network.Footpath{
		s1: {{From: s1, To: s2, Duration: 4}},
	})
	require.NoError(t, err)
	return net
}

func TestSaveLoadRoundTrip(t *testing.T) {
	net := buildSample(t)
	path := filepath.Join(t.TempDir(), "network.bin")

	require.NoError(t, Save(path, net))

	got, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, net.StopCount(), got.StopCount())
	require.Len(t, got.Routes, len(net.Routes))
	for i, s := range got.Stops {
		require.Equal(t, net.Stops[i].Point, s.Point, "stop %d", i)
	}

	wantTrips := net.Routes[0].Trips()
	gotTrips := got.Routes[0].Trips()
	require.Len(t, gotTrips, len(wantTrips))
	require.Equal(t, wantTrips[0].ID, gotTrips[0].ID, "trip ID must survive the round trip")
	require.Equal(t, "weekday", gotTrips[0].ServiceID)

	fps := got.FootpathsFrom(1)
	require.Len(t, fps, 1)
	require.Equal(t, 4, fps[0].Duration)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
}

func TestLoadCorruptFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
