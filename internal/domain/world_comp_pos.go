package domain

import "math"

// Position - координаты клетки сетки (целые)
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Shift возвращает новую позицию со смещением
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Neighbours возвращает четыре ортогональных соседа (N, E, S, W)
func (p Position) Neighbours() [4]Position {
	return [4]Position{
		p.Shift(0, -1),
		p.Shift(1, 0),
		p.Shift(0, 1),
		p.Shift(-1, 0),
	}
}

// Vec2 - мировые координаты (в единицах мира, блок = BlockSize)
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Len возвращает длину вектора
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// DistanceTo возвращает точное расстояние до другой точки
func (v Vec2) DistanceTo(o Vec2) float64 { return v.Sub(o).Len() }

// Angle возвращает угол направления от v к o (радианы)
func (v Vec2) Angle(o Vec2) float64 {
	d := o.Sub(v)
	return math.Atan2(d.Y, d.X)
}

// PointSegmentDistance - расстояние от точки p до отрезка [a, b]
func PointSegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.DistanceTo(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.DistanceTo(a.Add(ab.Scale(t)))
}

// SegmentSegmentDistance - минимальное расстояние между отрезками [p1, p2] и [q1, q2]
func SegmentSegmentDistance(p1, p2, q1, q2 Vec2) float64 {
	if segmentsIntersect(p1, p2, q1, q2) {
		return 0
	}
	d := PointSegmentDistance(p1, q1, q2)
	d = math.Min(d, PointSegmentDistance(p2, q1, q2))
	d = math.Min(d, PointSegmentDistance(q1, p1, p2))
	d = math.Min(d, PointSegmentDistance(q2, p1, p2))
	return d
}

func cross(o, a, b Vec2) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func segmentsIntersect(p1, p2, q1, q2 Vec2) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	// Коллинеарные касания ловит проверка расстояний
	return false
}
