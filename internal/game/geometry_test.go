package game

import "testing"

func TestCircleRect_Overlap(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 45, H: 25}
	if !CircleRectIntersect(Circle{Center: Vec2{98, 110}, Radius: 5}, &r) {
		t.Fatal("circle touching left face should intersect")
	}
}

func TestCircleRect_Separated(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 45, H: 25}
	if CircleRectIntersect(Circle{Center: Vec2{90, 110}, Radius: 5}, &r) {
		t.Fatal("circle 10px left of rect should not intersect")
	}
}

func TestCircleRect_CornerGap(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 10, H: 10}
	// Closest point is the corner (100,100); distance is ~5.66.
	if CircleRectIntersect(Circle{Center: Vec2{96, 96}, Radius: 5}, &r) {
		t.Fatal("circle outside corner should not intersect")
	}
}

func TestCircleRect_CenterInside(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 100}
	if !CircleRectIntersect(Circle{Center: Vec2{50, 50}, Radius: 1}, &r) {
		t.Fatal("circle centred inside rect should intersect")
	}
}

func TestCircleRect_NilRect(t *testing.T) {
	if CircleRectIntersect(Circle{Center: Vec2{0, 0}, Radius: 1000}, nil) {
		t.Fatal("nil rect must never collide")
	}
}

func TestPointInRect_Edges(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}
	if !PointInRect(Vec2{10, 10}, r) || !PointInRect(Vec2{30, 30}, r) {
		t.Fatal("corners should be inside")
	}
	if PointInRect(Vec2{30.01, 20}, r) {
		t.Fatal("point past right edge should be outside")
	}
}

func TestRect_ClampOutsidePoint(t *testing.T) {
	r := Rect{X: 400, Y: 300, W: 20, H: 100}
	got := r.Clamp(Vec2{395, 250})
	if got.X != 400 || got.Y != 300 {
		t.Fatalf("clamp = %+v, want (400,300)", got)
	}
}

func TestSegmentRect_Blocked(t *testing.T) {
	r := Rect{X: 40, Y: 0, W: 20, H: 200}
	if !segmentHitsRect(Vec2{0, 100}, Vec2{200, 100}, r) {
		t.Fatal("expected segment blocked by rect")
	}
}

func TestSegmentRect_EndsShort(t *testing.T) {
	r := Rect{X: 300, Y: 0, W: 64, H: 64}
	if segmentHitsRect(Vec2{0, 32}, Vec2{200, 32}, r) {
		t.Fatal("rect beyond endpoint should not be hit")
	}
}

func TestSegmentRect_VerticalSegment(t *testing.T) {
	r := Rect{X: 0, Y: 40, W: 200, H: 20}
	if !segmentHitsRect(Vec2{100, 0}, Vec2{100, 200}, r) {
		t.Fatal("vertical segment should cross horizontal slab")
	}
}

func TestSegmentRect_EntryParameter(t *testing.T) {
	r := Rect{X: 50, Y: 0, W: 10, H: 10}
	tHit, ok := segmentRectHitT(Vec2{0, 5}, Vec2{100, 5}, r)
	if !ok {
		t.Fatal("expected hit")
	}
	if tHit < 0.49 || tHit > 0.51 {
		t.Fatalf("entry t = %.3f, want 0.5", tHit)
	}
}

func TestSegmentRect_ZeroLength(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 100}
	if !segmentHitsRect(Vec2{50, 50}, Vec2{50, 50}, r) {
		t.Fatal("degenerate segment inside rect should report a hit")
	}
}
