package pptgen

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"

	xdraw "golang.org/x/image/draw"
)

// fitImage crops and scales raw image bytes to fill a placeholder frame,
// re-encoding as PNG. The crop is centered on the longer axis so the
// subject stays in frame. Bytes that don't decode are passed through
// untouched with a sniffed MIME type; a broken download still embeds and
// PowerPoint gets to complain instead of us.
func fitImage(data []byte, w, h int64) ([]byte, string) {
	if w <= 0 || h <= 0 {
		return data, sniffImageMime(data)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, sniffImageMime(data)
	}

	cropped := centerCrop(src, w, h)

	dstW, dstH := EMUToPixel(w), EMUToPixel(h)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}
	// Never upscale past the source; PowerPoint stretches better than we
	// can invent pixels.
	cb := cropped.Bounds()
	if dstW > cb.Dx() || dstH > cb.Dy() {
		dstW, dstH = cb.Dx(), cb.Dy()
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cb, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return data, sniffImageMime(data)
	}
	return buf.Bytes(), "image/png"
}

// centerCrop returns the largest centered sub-rectangle of src matching
// the w:h aspect ratio.
func centerCrop(src image.Image, w, h int64) image.Image {
	b := src.Bounds()
	srcW, srcH := int64(b.Dx()), int64(b.Dy())
	if srcW == 0 || srcH == 0 {
		return src
	}

	// Compare aspect ratios without floats: src wider iff srcW*h > w*srcH.
	cropW, cropH := srcW, srcH
	if srcW*h > w*srcH {
		cropW = w * srcH / h
	} else {
		cropH = h * srcW / w
	}
	x0 := b.Min.X + int((srcW-cropW)/2)
	y0 := b.Min.Y + int((srcH-cropH)/2)
	rect := image.Rect(x0, y0, x0+int(cropW), y0+int(cropH))

	type subImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if si, ok := src.(subImager); ok {
		return si.SubImage(rect)
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Draw(out, out.Bounds(), src, rect.Min, xdraw.Src)
	return out
}

// sniffImageMime detects the MIME type of raw bytes, defaulting to PNG.
func sniffImageMime(data []byte) string {
	mime := http.DetectContentType(data)
	switch mime {
	case "image/png", "image/jpeg", "image/gif", "image/bmp", "image/webp":
		return mime
	}
	return "image/png"
}
