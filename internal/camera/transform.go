package camera

// Transform maps world coordinates to clip space. Screen y grows downward,
// so ScaleY is negative.
type Transform struct {
	ScaleX, ScaleY         float64
	TranslateX, TranslateY float64
}

// ViewTransform spans Size vertically and Size*aspect horizontally, aspect
// being drawWidth/drawHeight. The translation is not divided by aspect, so the
// camera center lands on the clip origin only for square surfaces.
func ViewTransform(cam Camera, aspect float64) Transform {
	s := cam.Size
	return Transform{
		ScaleX:     2 / (s * aspect),
		ScaleY:     -2 / s,
		TranslateX: -cam.X / s * 2,
		TranslateY: cam.Y / s * 2,
	}
}

// Apply maps a world point to clip space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.ScaleX + t.TranslateX, y*t.ScaleY + t.TranslateY
}

// Matrix returns the column-major 4x4 form expected by GL uniforms.
func (t Transform) Matrix() [16]float32 {
	return [16]float32{
		float32(t.ScaleX), 0, 0, 0,
		0, float32(t.ScaleY), 0, 0,
		0, 0, 1, 0,
		float32(t.TranslateX), float32(t.TranslateY), 0, 1,
	}
}
