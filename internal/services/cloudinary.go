package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// JournalAttachmentFolder is the Cloudinary folder journal attachments go to.
const JournalAttachmentFolder = "serenify/journals"

var ErrUploadsDisabled = errors.New("uploads are not configured")

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string) (string, error)
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryService{cld: cld}, nil
}

// Upload streams file to Cloudinary and returns the secure URL.
func (s *CloudinaryService) Upload(ctx context.Context, file io.Reader, folder string) (string, error) {
	uploadResult, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "auto", // image, video or raw
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if uploadResult.SecureURL == "" {
		return "", errors.New("cloudinary returned no URL")
	}

	return uploadResult.SecureURL, nil
}

// UploadFileFromHeader opens a multipart file and uploads it.
func UploadFileFromHeader(ctx context.Context, up Uploader, fileHeader *multipart.FileHeader, folder string) (string, error) {
	if up == nil {
		return "", ErrUploadsDisabled
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return up.Upload(ctx, file, folder)
}
