package sliderpath

// HasPath is implemented by hit objects that own a slider path.
type HasPath interface {
	SliderPath() *SliderPath
}

// DistanceSnapProvider decides which length a path should be snapped to.
type DistanceSnapProvider interface {
	FindSnappedDistance(obj HasPath, distance float64) float64
}

// SnapTo sets the expected distance of obj's path to the snapped length of
// its geometry. Without a provider the geometric length is used as is.
func SnapTo(obj HasPath, provider DistanceSnapProvider) {
	path := obj.SliderPath()
	d := path.CalculatedDistance()
	if provider != nil {
		d = provider.FindSnappedDistance(obj, d)
	}
	path.SetExpectedDistance(d)
}
