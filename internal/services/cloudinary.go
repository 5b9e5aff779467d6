package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const evidenceFolder = "moderation/evidence"

// EvidenceUploader stores reporter-supplied screenshots and recordings.
type EvidenceUploader struct {
	cld *cloudinary.Cloudinary
}

var evidenceUploader *EvidenceUploader

func InitEvidenceUploader(cloudName, apiKey, apiSecret string) error {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	evidenceUploader = &EvidenceUploader{cld: cld}
	return nil
}

// Evidence returns the shared uploader, or nil if uploads are not configured.
func Evidence() *EvidenceUploader {
	return evidenceUploader
}

func (s *EvidenceUploader) Upload(ctx context.Context, file multipart.File) (string, error) {
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	uploadResult, err := s.cld.Upload.Upload(ctx, fileBytes, uploader.UploadParams{
		Folder:       evidenceFolder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}

	return uploadResult.SecureURL, nil
}

func (s *EvidenceUploader) UploadFromHeader(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return s.Upload(ctx, file)
}
