package nearby

import "testing"

func TestFindIncludesOnlyStopsWithinRadius(t *testing.T) {
	r := NewResolver()
	origin := Point{Lat: 0, Lon: 0}
	stops := []Stop{
		{Index: 0, Point: Point{Lat: 0, Lon: 0}},       // same point
		{Index: 1, Point: Point{Lat: 0.002, Lon: 0}},   // ~222m
		{Index: 2, Point: Point{Lat: 1, Lon: 1}},       // far away
	}

	near := r.Find(origin, stops)

	if _, ok := near[0]; !ok {
		t.Fatalf("expected stop 0 to be within radius")
	}
	if _, ok := near[1]; !ok {
		t.Fatalf("expected stop 1 to be within radius")
	}
	if _, ok := near[2]; ok {
		t.Fatalf("did not expect stop 2 to be within radius")
	}
}

func TestFindZeroDurationAtOrigin(t *testing.T) {
	r := NewResolver()
	origin := Point{Lat: 10, Lon: 20}
	near := r.Find(origin, []Stop{{Index: 0, Point: origin}})
	if d, ok := near[0]; !ok || d != 0 {
		t.Fatalf("expected duration 0 at the same point, got %v ok=%v", d, ok)
	}
}

func TestDurationScalesWithDistance(t *testing.T) {
	r := NewResolver()
	near := r.Find(Point{Lat: 0, Lon: 0}, []Stop{
		{Index: 0, Point: Point{Lat: 0.001, Lon: 0}},
		{Index: 1, Point: Point{Lat: 0.008, Lon: 0}},
	})
	if near[1] <= near[0] {
		t.Fatalf("expected farther stop to have a longer duration: %v vs %v", near[1], near[0])
	}
}

func TestCustomRadiusAndSpeed(t *testing.T) {
	r := Resolver{RadiusMeters: 50, SpeedMetersPerSecond: 1.0}
	near := r.Find(Point{Lat: 0, Lon: 0}, []Stop{
		{Index: 0, Point: Point{Lat: 0.0003, Lon: 0}}, // ~33m, within 50m
	})
	if _, ok := near[0]; !ok {
		t.Fatalf("expected stop within custom radius")
	}
}
