package grid

// Resize returns an all-empty width×height grid with the overlapping top-left
// region of g copied in. Sizes outside [MinSize, MaxSize] return ErrSize.
func Resize(g Grid, width, height int) (Grid, error) {
	out, err := New(width, height)
	if err != nil {
		return Grid{}, err
	}
	w := min(g.width, width)
	h := min(g.height, height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.cells[y*width+x] = g.cells[y*g.width+x]
		}
	}
	return out, nil
}
