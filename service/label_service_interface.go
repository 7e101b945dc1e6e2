package service

import "context"

// LabelServiceInterface defines the contract for shipping label generation
type LabelServiceInterface interface {
	RenderLabelHTML(ctx context.Context, orderID int64) (string, error)
	GeneratePNG(ctx context.Context, orderID int64) ([]byte, error)
	GenerateThumbnail(pngData []byte) ([]byte, error)
}
