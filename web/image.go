package web

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"receitas/assets"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

const (
	defaultImageHeight = 500
	maxImageHeight     = 1600
	maxImageWidth      = 2400

	maxImageBytes  = 8 << 20
	maxImagePixels = 40_000_000
)

// imageSrc is the src used for a card or detail image.
func imageSrc(imageURL string, placeholder bool, height int) string {
	if placeholder {
		return "/static/" + assets.PlaceholderName
	}
	v := url.Values{}
	v.Set("url", imageURL)
	v.Set("h", strconv.Itoa(height))
	return "/image?" + v.Encode()
}

// handleImage fetches the image of a recipe in the caller's catalog and
// scales it to the requested height, keeping the aspect ratio.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		http.Error(w, "url parameter is required", http.StatusBadRequest)
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		http.Error(w, "url must be http or https", http.StatusBadRequest)
		return
	}
	height := defaultImageHeight
	if h := r.URL.Query().Get("h"); h != "" {
		n, err := strconv.Atoi(h)
		if err != nil || n <= 0 {
			http.Error(w, "h must be a positive integer", http.StatusBadRequest)
			return
		}
		height = min(n, maxImageHeight)
	}
	if !s.session(w, r).Page.HasImage(raw) {
		http.Error(w, "unknown image", http.StatusNotFound)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, u.String(), nil)
	if err != nil {
		http.Error(w, "bad url", http.StatusBadRequest)
		return
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("fetch image", zap.String("url", raw), zap.Error(err))
		http.Error(w, "failed to fetch image", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		http.Error(w, fmt.Sprintf("upstream returned %d", resp.StatusCode), http.StatusBadGateway)
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		s.log.Warn("read image", zap.String("url", raw), zap.Error(err))
		http.Error(w, "failed to fetch image", http.StatusBadGateway)
		return
	}
	if len(data) > maxImageBytes {
		http.Error(w, "image too large", http.StatusUnprocessableEntity)
		return
	}
	conf, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || conf.Width <= 0 || conf.Height <= 0 {
		http.Error(w, "unsupported image format", http.StatusUnsupportedMediaType)
		return
	}
	if conf.Width*conf.Height > maxImagePixels {
		http.Error(w, "image too large", http.StatusUnprocessableEntity)
		return
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		http.Error(w, "unsupported image format", http.StatusUnsupportedMediaType)
		return
	}

	b := img.Bounds()
	width := min(max(height*b.Dx()/b.Dy(), 1), maxImageWidth)
	scaled := resize.Resize(uint(width), uint(height), img, resize.Lanczos3)

	w.Header().Set("Cache-Control", "public, max-age=86400")
	switch format {
	case "jpeg":
		w.Header().Set("Content-Type", "image/jpeg")
		err = jpeg.Encode(w, scaled, &jpeg.Options{Quality: 85})
	case "png":
		w.Header().Set("Content-Type", "image/png")
		err = png.Encode(w, scaled)
	default:
		http.Error(w, "unsupported image format", http.StatusUnsupportedMediaType)
		return
	}
	if err != nil {
		s.log.Debug("encode image", zap.Error(err))
	}
}

func handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=604800")
	_, _ = w.Write(assets.Placeholder())
}
