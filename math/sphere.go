package math

// Sphere is a bounding sphere, used as the volume of influence for lights in
// the shadow-channel contact test.
type Sphere struct {
	Center Vec3
	Radius float32
}

func NewSphere(center Vec3, radius float32) Sphere {
	return Sphere{Center: center, Radius: radius}
}

// Intersects reports whether two spheres touch or overlap.
func (s Sphere) Intersects(o Sphere) bool {
	r := s.Radius + o.Radius
	return s.Center.Sub(o.Center).LengthSqr() <= r*r
}

// Contains reports whether p lies inside or on the sphere.
func (s Sphere) Contains(p Vec3) bool {
	return s.Center.Sub(p).LengthSqr() <= s.Radius*s.Radius
}

// Expand returns the sphere grown by margin.
func (s Sphere) Expand(margin float32) Sphere {
	return Sphere{Center: s.Center, Radius: s.Radius + margin}
}
