package view

import (
	"image/color"

	"toruslife/src/universe"
)

//fillRGBA converts a generation into RGBA pixels in buf, one pixel per cell
func fillRGBA(buf []byte, v universe.View, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i := 0; i < v.Len(); i++ {
		base := i * 4
		if v.Get(i) == universe.Alive {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

//cellAt maps a position on a surface scaled by scale to a grid cell
func cellAt(x, y, scale int, v universe.View) (row int, col int, ok bool) {
	if scale <= 0 || x < 0 || y < 0 {
		return 0, 0, false
	}
	row, col = y/scale, x/scale
	if row >= v.Height() || col >= v.Width() {
		return 0, 0, false
	}
	return row, col, true
}
