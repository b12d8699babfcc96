package controllers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nfnt/resize"

	"backend/config"
)

const (
	maxFileSize       = 5 * 1024 * 1024
	compressThreshold = 100 * 1024
	mainImageWidth    = 800
	previewSize       = 300
)

// PhotoStorage writes menu images to S3 when configured, otherwise to the
// local upload directory. Either way every upload gets a resized main image
// and a preview thumbnail.
type PhotoStorage struct {
	uploadDir string
	bucket    string
	cdnDomain string
	s3        *minio.Client
}

func NewPhotoStorage(cfg config.Settings) (*PhotoStorage, error) {
	p := &PhotoStorage{
		uploadDir: cfg.UploadDir,
		bucket:    cfg.S3Bucket,
		cdnDomain: cfg.CDNDomain,
	}
	if cfg.S3Endpoint != "" {
		client, err := minio.New(cfg.S3Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
			Secure: true,
		})
		if err != nil {
			return nil, fmt.Errorf("init s3 client: %w", err)
		}
		p.s3 = client
	}
	return p, nil
}

func (p *PhotoStorage) Save(ctx context.Context, file *multipart.FileHeader, menuID string) (string, string, error) {
	if file.Size > maxFileSize {
		return "", "", fmt.Errorf("file size exceeds the 5MB limit")
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		return "", "", fmt.Errorf("unsupported file format: %s", contentType)
	}

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", "", fmt.Errorf("read image data: %w", err)
	}

	var img image.Image
	if contentType == "image/png" {
		img, err = png.Decode(bytes.NewReader(data))
	} else {
		img, err = jpeg.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return "", "", fmt.Errorf("decode image: %w", err)
	}

	var mainBuf bytes.Buffer
	if file.Size >= compressThreshold {
		resized := resize.Resize(mainImageWidth, 0, img, resize.Lanczos3)
		if err := jpeg.Encode(&mainBuf, resized, &jpeg.Options{Quality: 80}); err != nil {
			return "", "", fmt.Errorf("encode resized image: %w", err)
		}
	} else {
		mainBuf.Write(data)
	}

	thumb := resize.Thumbnail(previewSize, previewSize, img, resize.Lanczos3)
	var thumbBuf bytes.Buffer
	if err := jpeg.Encode(&thumbBuf, thumb, &jpeg.Options{Quality: 75}); err != nil {
		return "", "", fmt.Errorf("encode preview image: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	base := fmt.Sprintf("menu/%s_%d", menuID, time.Now().Unix())
	mainName := base + ext
	thumbName := base + "_preview" + ext

	if p.s3 != nil {
		return p.saveToS3(ctx, mainName, thumbName, &mainBuf, &thumbBuf)
	}
	return p.saveLocal(mainName, thumbName, mainBuf.Bytes(), thumbBuf.Bytes())
}

func (p *PhotoStorage) saveToS3(ctx context.Context, mainName, thumbName string, main, thumb *bytes.Buffer) (string, string, error) {
	opts := minio.PutObjectOptions{ContentType: "image/jpeg"}
	if _, err := p.s3.PutObject(ctx, p.bucket, mainName, main, int64(main.Len()), opts); err != nil {
		return "", "", fmt.Errorf("upload main image: %w", err)
	}
	if _, err := p.s3.PutObject(ctx, p.bucket, thumbName, thumb, int64(thumb.Len()), opts); err != nil {
		return "", "", fmt.Errorf("upload preview image: %w", err)
	}
	return fmt.Sprintf("https://%s/%s", p.cdnDomain, mainName),
		fmt.Sprintf("https://%s/%s", p.cdnDomain, thumbName), nil
}

func (p *PhotoStorage) saveLocal(mainName, thumbName string, main, thumb []byte) (string, string, error) {
	dir := filepath.Join(p.uploadDir, "menu")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", "", fmt.Errorf("create upload directory: %w", err)
	}
	mainPath := filepath.Join(p.uploadDir, mainName)
	thumbPath := filepath.Join(p.uploadDir, thumbName)
	if err := os.WriteFile(mainPath, main, 0o644); err != nil {
		return "", "", fmt.Errorf("save image: %w", err)
	}
	if err := os.WriteFile(thumbPath, thumb, 0o644); err != nil {
		return "", "", fmt.Errorf("save preview image: %w", err)
	}
	return "/uploads/" + mainName, "/uploads/" + thumbName, nil
}
