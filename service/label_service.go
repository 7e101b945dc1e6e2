package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"image/png"
	"log"
	"os"
	"time"

	"vongtay-handmade/repository"
	"vongtay-handmade/utils"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/disintegration/imaging"
)

// LabelService renders shipping labels for orders as PNG images. The label
// HTML is served by the admin render endpoint and screenshotted with a
// headless browser, same pipeline as a print shop would use.
type LabelService struct {
	orderRepo repository.OrderRepositoryInterface
	baseURL   string // Base URL for the render endpoint (e.g., "http://localhost:8080")
}

// NewLabelService creates a new LabelService
func NewLabelService(orderRepo repository.OrderRepositoryInterface, baseURL string) *LabelService {
	return &LabelService{
		orderRepo: orderRepo,
		baseURL:   baseURL,
	}
}

// Ensure LabelService implements LabelServiceInterface
var _ LabelServiceInterface = (*LabelService)(nil)

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

const labelTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: sans-serif; width: 380px; margin: 0; padding: 10px; }
  .header { font-size: 18px; font-weight: bold; border-bottom: 2px solid #000; padding-bottom: 6px; }
  .row { margin: 8px 0; font-size: 14px; }
  .items { border-top: 1px dashed #999; margin-top: 8px; padding-top: 8px; }
  .total { font-size: 16px; font-weight: bold; margin-top: 8px; }
</style>
</head>
<body>
  <div class="header">Vòng Tay Handmade — Đơn #{{.Order.ID}}</div>
  <div class="row">Người nhận: {{.Order.CustomerName}}</div>
  <div class="row">SĐT: {{.Order.CustomerPhone}}</div>
  <div class="items">
    {{range .Items}}<div class="row">{{.ProductName}} × {{.Quantity}} — {{formatVND .UnitPrice}}</div>{{end}}
  </div>
  <div class="row">Ship: {{formatVND .Order.ShippingCost}} · Gói: {{formatVND .Order.PackagingCost}}</div>
  <div class="total">Thu hộ: {{formatVND .Order.TotalAmount}}</div>
</body>
</html>`

// RenderLabelHTML renders the shipping label HTML for an order
func (s *LabelService) RenderLabelHTML(ctx context.Context, orderID int64) (string, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("label").Funcs(template.FuncMap{
		"formatVND": utils.FormatVND,
	}).Parse(labelTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse label template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, order); err != nil {
		return "", fmt.Errorf("failed to execute label template: %w", err)
	}

	return buf.String(), nil
}

// GeneratePNG screenshots the rendered label page as a PNG
func (s *LabelService) GeneratePNG(ctx context.Context, orderID int64) ([]byte, error) {
	log.Printf("📸 GeneratePNG: order_id=%d", orderID)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	chromePath := detectChromePath()
	var allocCtx context.Context
	var allocCancel context.CancelFunc

	if chromePath != "" {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(chromePath),
			chromedp.NoSandbox, // Required for running in Docker/containers
		)
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, opts...)
		defer allocCancel()
	} else {
		// Let chromedp auto-detect (may fail in containers)
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, chromedp.NoSandbox)
		defer allocCancel()
	}

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/admin/orders/%d/label/render", s.baseURL, orderID)

	var pngBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(400, 600),
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pngBuf, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithCaptureBeyondViewport(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate label PNG: %w", err)
	}

	log.Printf("✅ GeneratePNG: order_id=%d, bytes=%d", orderID, len(pngBuf))
	return pngBuf, nil
}

// GenerateThumbnail downsizes a label PNG for list views
func (s *LabelService) GenerateThumbnail(pngData []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode label image: %w", err)
	}

	thumb := imaging.Resize(img, 120, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
