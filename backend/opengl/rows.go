package opengl

// flipRows reverses the order of the rows of data in place.
func flipRows(data []byte, row int) {
	if row <= 0 {
		return
	}
	tmp := make([]byte, row)
	for top, bottom := 0, len(data)-row; top < bottom; top, bottom = top+row, bottom-row {
		copy(tmp, data[top:top+row])
		copy(data[top:top+row], data[bottom:bottom+row])
		copy(data[bottom:bottom+row], tmp)
	}
}
