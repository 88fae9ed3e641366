package render

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
)

// DomainFrame prefixes frame digests so they never collide with hashes of
// other content.
const DomainFrame = "blkbuster/frame/v1"

// FrameDigest returns the hex SHA-256 of a frame's size and pixels with
// domain separation: SHA256(domain + 0x00 + WxH + 0x00 + pixels).
func FrameDigest(img *image.RGBA) string {
	h := sha256.New()
	h.Write([]byte(DomainFrame))
	h.Write([]byte{0x00})
	b := img.Bounds()
	h.Write([]byte(b.Size().String()))
	h.Write([]byte{0x00})
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		h.Write(img.Pix[i : i+4*b.Dx()])
	}
	return hex.EncodeToString(h.Sum(nil))
}
