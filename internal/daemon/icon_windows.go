package daemon

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
)

const iconSize = 16

// boardIcon draws a small pastel grid and wraps it as a PNG-in-ICO image
func boardIcon() []byte {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	frame := color.RGBA{R: 0x44, G: 0x72, B: 0xC4, A: 0xFF}
	fill := color.RGBA{R: 0xC6, G: 0xDB, B: 0xF1, A: 0xFF}
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			c := fill
			if x%5 == 0 || y%5 == 0 || x == iconSize-1 || y == iconSize-1 {
				c = frame
			}
			img.Set(x, y, c)
		}
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil
	}

	var buf bytes.Buffer
	// ICONDIR
	_ = binary.Write(&buf, binary.LittleEndian, []uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.Write([]byte{iconSize, iconSize, 0, 0})
	_ = binary.Write(&buf, binary.LittleEndian, []uint16{1, 32})
	_ = binary.Write(&buf, binary.LittleEndian, []uint32{uint32(pngBuf.Len()), 22})
	buf.Write(pngBuf.Bytes())
	return buf.Bytes()
}
