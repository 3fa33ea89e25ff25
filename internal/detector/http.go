package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"gocv.io/x/gocv"
)

// HTTPDetector implements Detector by posting frames to a learned hand
// detector (a YOLO service) over HTTP.
type HTTPDetector struct {
	config Config
	client *http.Client
}

// NewHTTPDetector creates a detector that talks to config.URL.
func NewHTTPDetector(config Config) *HTTPDetector {
	return &HTTPDetector{
		config: config,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// yoloDetection is one entry of the service response. BBox is x1, y1, x2, y2.
type yoloDetection struct {
	BBox       [4]float64 `json:"bbox"`
	Confidence float64    `json:"confidence"`
}

// Detect encodes the frame as JPEG, posts it as multipart form data and
// returns the boxes at or above the configured confidence.
func (d *HTTPDetector) Detect(ctx context.Context, frame *gocv.Mat) ([]Box, error) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	body := &bytes.Buffer{}
	contentType, err := writeForm(body, buf.GetBytes())
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.config.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: detector returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var result struct {
		Detections []yoloDetection `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	boxes := make([]Box, 0, len(result.Detections))
	for _, det := range result.Detections {
		if det.Confidence < d.config.MinConfidence {
			continue
		}
		x1, y1 := int(det.BBox[0]), int(det.BBox[1])
		x2, y2 := int(det.BBox[2]), int(det.BBox[3])
		boxes = append(boxes, Box{
			X:          x1,
			Y:          y1,
			Width:      x2 - x1,
			Height:     y2 - y1,
			Confidence: det.Confidence,
		})
	}

	return boxes, nil
}

// writeForm writes image as the "file" field of a multipart form to w and
// returns the form's content type.
func writeForm(w io.Writer, image []byte) (string, error) {
	writer := multipart.NewWriter(w)

	part, err := writer.CreateFormFile("file", "frame.jpg")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}
	return writer.FormDataContentType(), nil
}

// CheckHealth reports whether the detector service answers its health endpoint.
// The endpoint is the service root with /health in place of the detect path.
func (d *HTTPDetector) CheckHealth(ctx context.Context) error {
	base := d.config.URL
	if i := strings.LastIndex(base, "/"); i > len("https://") {
		base = base[:i]
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// Close is a no-op; the HTTP client holds no per-detector resources.
func (d *HTTPDetector) Close() error {
	return nil
}
