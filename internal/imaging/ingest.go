package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const (
	// MaxFileSize is the per-file upload cap.
	MaxFileSize = 5 * 1024 * 1024
	// MaxWidth is the stored width cap; wider images are downscaled
	// proportionally.
	MaxWidth = 800
	// JPEGQuality is the re-encode quality for stored images.
	JPEGQuality = 80
)

// Image is one staged product image: the original file name and a
// self-contained data URL ready to be persisted in the catalog document.
type Image struct {
	Name string `json:"nome"`
	Data string `json:"data"`
}

// Ingest validates, downscales and re-encodes one uploaded file. The
// returned error messages are user-facing; the caller shows them per file
// and keeps processing the remaining files.
func Ingest(name string, data []byte) (Image, error) {
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return Image{}, fmt.Errorf("o arquivo %q não é uma imagem válida", name)
	}
	if len(data) > MaxFileSize {
		return Image{}, fmt.Errorf("a imagem %q é muito grande, máximo 5MB por imagem", name)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		zap.L().Warn("imaging: decode failed", zap.String("file", name), zap.Error(err))
		return Image{}, fmt.Errorf("não foi possível processar a imagem %q", name)
	}

	encoded, err := encodeScaled(src)
	if err != nil {
		return Image{}, fmt.Errorf("não foi possível processar a imagem %q", name)
	}
	return Image{Name: name, Data: encoded}, nil
}

// encodeScaled downscales to MaxWidth keeping the aspect ratio (images
// already narrow enough keep their size) and re-encodes as a JPEG data URL.
func encodeScaled(src image.Image) (string, error) {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width > MaxWidth {
		height = height * MaxWidth / width
		if height < 1 {
			// extreme aspect ratios truncate to zero rows
			height = 1
		}
		width = MaxWidth
	}

	out := src
	if width != bounds.Dx() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
