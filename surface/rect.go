package surface

// Rect describes an axis-aligned region in viewport coordinates.
// Top/Left are offsets from the document origin; positive Y grows downward.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Bottom returns the Y coordinate of the rect's lower edge.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Right returns the X coordinate of the rect's right edge.
func (r Rect) Right() float64 {
	return r.Left + r.Width
}

// Area returns the rect's surface area.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// CenterX returns the X coordinate of the rect's center.
func (r Rect) CenterX() float64 {
	return r.Left + r.Width/2
}

// CenterY returns the Y coordinate of the rect's center.
func (r Rect) CenterY() float64 {
	return r.Top + r.Height/2
}

// Intersection returns the overlapping region of two rects.
// A degenerate (zero-area) rect is returned when they do not overlap.
func (r Rect) Intersection(other Rect) Rect {
	top := max(r.Top, other.Top)
	left := max(r.Left, other.Left)
	bottom := min(r.Bottom(), other.Bottom())
	right := min(r.Right(), other.Right())

	if bottom <= top || right <= left {
		return Rect{}
	}

	return Rect{
		Top:    top,
		Left:   left,
		Width:  right - left,
		Height: bottom - top,
	}
}

// IntersectionRatio returns the fraction (0-1) of this rect covered by the
// given viewport. A zero-area rect is treated as fully hidden.
func (r Rect) IntersectionRatio(viewport Rect) float64 {
	area := r.Area()
	if area <= 0 {
		return 0
	}
	return r.Intersection(viewport).Area() / area
}
