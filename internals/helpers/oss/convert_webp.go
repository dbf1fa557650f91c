// file: internals/helpers/oss/convert_webp.go
package helper

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

func envInt(key string, def int) int {
	if v := getEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil && f >= 0 {
			return float32(f)
		}
	}
	return def
}

/* =======================================================================
   WebP conversion options (ENV-driven)
======================================================================= */

type WebPOptions struct {
	MaxW     int     // width cap (resize keep-aspect)
	MaxH     int     // height cap
	Quality  float32 // encode quality
	TargetKB int     // target size; 0 = off, just use Quality
	MinQ     float32 // min quality for the binary search
	MaxQ     float32 // max quality for the binary search
}

func defaultWebPOptionsFromEnv() WebPOptions {
	return WebPOptions{
		MaxW:     envInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:     envInt("IMAGE_WEBP_MAX_H", 1600),
		Quality:  envFloat("IMAGE_WEBP_QUALITY", 80),
		TargetKB: envInt("IMAGE_WEBP_TARGET_KB", 0),
		MinQ:     envFloat("IMAGE_WEBP_MIN_Q", 45),
		MaxQ:     envFloat("IMAGE_WEBP_MAX_Q", 85),
	}
}

/* =======================================================================
   Decode (jpeg/png/webp) from bytes with MIME sniffing
======================================================================= */

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	var (
		img image.Image
		err error
	)

	switch {
	case strings.Contains(ct, "jpeg"):
		img, err = jpeg.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "png"):
		img, err = png.Decode(bytes.NewReader(all))
	case strings.Contains(ct, "webp"):
		img, err = webp.Decode(bytes.NewReader(all))
	default:
		// fallback by extension
		ext := strings.ToLower(filepath.Ext(filename))
		switch ext {
		case ".jpg", ".jpeg":
			img, err = jpeg.Decode(bytes.NewReader(all))
		case ".png":
			img, err = png.Decode(bytes.NewReader(all))
		case ".webp":
			img, err = webp.Decode(bytes.NewReader(all))
		default:
			return nil, fmt.Errorf("unsupported image format: %s / %s", ct, ext)
		}
	}
	return img, err
}

// downscaleIfNeeded keeps aspect ratio. CatmullRom for quality.
func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	fitted := imaging.Fit(src, maxW, maxH, imaging.CatmullRom)
	fb := fitted.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, fb.Dx(), fb.Dy()))
	draw.Copy(dst, image.Point{}, fitted, fb, draw.Over, nil)
	return dst
}

/* =======================================================================
   Encode WebP
   - TargetKB > 0 → binary search quality until <= target
   - TargetKB = 0 → single encode at Quality
======================================================================= */

func encodeToWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	encodeQ := func(im image.Image, q float32) ([]byte, error) {
		buf := new(bytes.Buffer)
		if err := webp.Encode(buf, im, &webp.Options{Lossless: false, Quality: q}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if opt.TargetKB <= 0 {
		q := opt.Quality
		if q <= 0 {
			q = 80
		}
		return encodeQ(img, q)
	}

	target := opt.TargetKB * 1024
	minQ, maxQ := opt.MinQ, opt.MaxQ
	if minQ <= 0 {
		minQ = 45
	}
	if maxQ <= 0 {
		maxQ = 85
	}
	if minQ > maxQ {
		minQ, maxQ = maxQ, minQ
	}

	low, high := minQ, maxQ
	var best []byte
	for i := 0; i < 8; i++ {
		q := (low + high) / 2
		data, err := encodeQ(img, q)
		if err != nil {
			return nil, err
		}
		if len(data) <= target {
			best = data
			low = q // fits → try better quality
		} else {
			high = q
		}
	}
	if best == nil {
		return encodeQ(img, minQ)
	}
	return best, nil
}

// ConvertToWebP reads the whole file, downsizes and re-encodes as webp.
func ConvertToWebP(r io.Reader, filename string, opt WebPOptions) ([]byte, error) {
	all, err := io.ReadAll(io.LimitReader(r, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(all)) > maxUploadSize {
		return nil, fmt.Errorf("file too large")
	}
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}
	img = downscaleIfNeeded(img, opt.MaxW, opt.MaxH)
	return encodeToWebP(img, opt)
}
