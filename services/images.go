package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"yatube/config"
	"yatube/logs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MaxImageSize - предел размера загружаемой картинки
const MaxImageSize = 5 << 20

// ErrInvalidImage - файл не является поддерживаемой картинкой
var ErrInvalidImage = errors.New("upload a valid image: the file is either not an image or a corrupted image")

var imageExtensions = map[string]string{
	"image/gif":  ".gif",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ImageUpload - проверенный файл картинки
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewImageUpload проверяет, что data - целая картинка GIF/JPEG/PNG
func NewImageUpload(filename string, data []byte) (*ImageUpload, error) {
	if len(data) == 0 || len(data) > MaxImageSize {
		return nil, ErrInvalidImage
	}
	contentType := http.DetectContentType(data)
	if _, ok := imageExtensions[contentType]; !ok {
		return nil, ErrInvalidImage
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return nil, ErrInvalidImage
	}
	return &ImageUpload{Filename: filename, ContentType: contentType, Data: data}, nil
}

// objectKey - posts/<uuid><ext>
func (u *ImageUpload) objectKey() string {
	return path.Join("posts", uuid.New().String()+imageExtensions[u.ContentType])
}

// ImageStore хранит картинки постов. Save возвращает ссылку для поля Post.Image.
type ImageStore interface {
	Save(ctx context.Context, key string, upload *ImageUpload) (string, error)
	Delete(ctx context.Context, ref string) error
}

// LocalImageStore складывает файлы в каталог media
type LocalImageStore struct {
	Dir     string
	BaseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalImageStore{Dir: dir, BaseURL: baseURL}
}

func (s *LocalImageStore) Save(_ context.Context, key string, upload *ImageUpload) (string, error) {
	target := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}
	if err := os.WriteFile(target, upload.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.BaseURL + key, nil
}

func (s *LocalImageStore) Delete(_ context.Context, ref string) error {
	key := strings.TrimPrefix(ref, s.BaseURL)
	if key == ref || strings.Contains(key, "..") {
		return fmt.Errorf("foreign image reference %q", ref)
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// S3ImageStore складывает файлы в бакет S3
type S3ImageStore struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3ImageStore(ctx context.Context, bucket, region string) (*S3ImageStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3ImageStore{client: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

func (s *S3ImageStore) baseURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
}

func (s *S3ImageStore) Save(ctx context.Context, key string, upload *ImageUpload) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(upload.Data),
		ContentType: aws.String(upload.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return s.baseURL() + key, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, ref string) error {
	key := strings.TrimPrefix(ref, s.baseURL())
	if key == ref {
		return fmt.Errorf("foreign image reference %q", ref)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// Images - хранилище картинок процесса
var Images ImageStore

// InitImageStore выбирает хранилище картинок по конфигурации
func InitImageStore(ctx context.Context) error {
	conf := settings()
	if conf.Storage.Backend == config.StorageBackendS3 {
		store, err := NewS3ImageStore(ctx, conf.Storage.Bucket, conf.Storage.Region)
		if err != nil {
			return err
		}
		Images = store
		return nil
	}
	Images = NewLocalImageStore(conf.Storage.MediaDir, conf.Storage.MediaURL)
	return nil
}

func saveImage(ctx context.Context, upload *ImageUpload) (string, error) {
	if Images == nil {
		return "", fmt.Errorf("image store is not initialized")
	}
	return Images.Save(ctx, upload.objectKey(), upload)
}

// discardImage удаляет картинку, ошибки только логируются
func discardImage(ctx context.Context, ref string) {
	if ref == "" || Images == nil {
		return
	}
	if err := Images.Delete(ctx, ref); err != nil {
		logs.Warn("Failed to delete image", map[string]interface{}{"image": ref, "error": err})
	}
}
