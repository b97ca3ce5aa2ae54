package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	config "github.com/bibekrb/exam_custody_tracker/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const evidenceFolder = "exam_custody_evidence"

// CloudinaryUploader stores evidence photos in Cloudinary and hashes them so
// the ledger can prove the stored image is the one that was submitted.
type CloudinaryUploader struct {
	Folder string
}

func NewCloudinaryUploader() *CloudinaryUploader {
	return &CloudinaryUploader{Folder: evidenceFolder}
}

func (u *CloudinaryUploader) UploadEvidence(ctx context.Context, photo io.Reader, publicID string) (string, string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", "", err
	}

	data, err := io.ReadAll(photo)
	if err != nil {
		return "", "", err
	}
	if len(data) == 0 {
		return "", "", fmt.Errorf("empty image file")
	}
	sum := sha256.Sum256(data)

	uploadCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	result, err := cld.Upload.Upload(uploadCtx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		Folder:       u.Folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", "", err
	}

	return result.SecureURL, hex.EncodeToString(sum[:]), nil
}
