package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"math"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/storage"
	"golang.org/x/image/draw"
)

var (
	ErrInvalidFileType  = errors.New("invalid file type: only pdf, jpg, jpeg, png allowed")
	ErrContentMismatch  = errors.New("file content does not match its extension")
	ErrUnknownRawFormat = errors.New("stored file format could not be identified")
)

// Document folders, one per record kind.
const (
	FolderAttendance   = "attendance"
	FolderDisciplinary = "disciplinary"
)

const (
	maxImageSize = 800 * 1024
	minImageSize = 0
)

var (
	uploadExtensions = map[string][]string{
		".pdf":  {"application/pdf"},
		".jpg":  {"image/jpeg"},
		".jpeg": {"image/jpeg"},
		".png":  {"image/png"},
	}

	// Extensions a stored file may be renamed to once its content is sniffed.
	rawFormatExtensions = map[string]string{
		"application/pdf":    ".pdf",
		"application/msword": ".doc",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
		"application/x-ole-storage": ".doc",
	}

	knownExtensions = []string{".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png"}
)

type FileService interface {
	// UploadDocument validates and stores a justification or disciplinary document
	UploadDocument(ctx context.Context, folder string, employeeID string, file io.Reader, filename string) (string, error)

	// NormalizeExtension copies a stored file without extension to a key carrying the sniffed extension
	NormalizeExtension(ctx context.Context, key string) (string, bool, error)

	Download(ctx context.Context, key string) (io.ReadCloser, error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadDocument stores the file under {folder}/{employeeID}/. Images are recompressed to JPEG.
func (s *fileServiceImpl) UploadDocument(ctx context.Context, folder string, employeeID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	allowedMIMEs, ok := uploadExtensions[ext]
	if !ok {
		return "", ErrInvalidFileType
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	detected := mimetype.Detect(buffer)
	if !matchesAny(detected, allowedMIMEs) {
		return "", fmt.Errorf("%w: got %s", ErrContentMismatch, detected.String())
	}

	contentType := allowedMIMEs[0]
	if ext != ".pdf" {
		buffer, err = compressImage(buffer, maxImageSize, minImageSize)
		if err != nil {
			return "", fmt.Errorf("failed to compress image: %w", err)
		}
		ext = ".jpg"
		contentType = "image/jpeg"
	}

	newFilename := fmt.Sprintf("%s-%d%s", uuid.New().String(), time.Now().Unix(), ext)
	key := path.Join(folder, employeeID, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(buffer), key, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	return uploadedPath, nil
}

// NormalizeExtension returns the key unchanged when it already carries a known extension.
// Otherwise it stores a copy under the detected extension; the original stays in place.
func (s *fileServiceImpl) NormalizeExtension(ctx context.Context, key string) (string, bool, error) {
	ext := strings.ToLower(path.Ext(key))
	for _, known := range knownExtensions {
		if ext == known {
			return key, false, nil
		}
	}

	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return "", false, err
	}
	buffer, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	detected := mimetype.Detect(buffer)
	newExt := ""
	for m := detected; m != nil; m = m.Parent() {
		if e, ok := rawFormatExtensions[m.String()]; ok {
			newExt = e
			break
		}
	}
	if newExt == "" {
		return "", false, fmt.Errorf("%w: %s (%s)", ErrUnknownRawFormat, key, detected.String())
	}

	newKey, err := s.storage.Upload(ctx, bytes.NewReader(buffer), key+newExt, detected.String())
	if err != nil {
		return "", false, fmt.Errorf("failed to store %s: %w", key+newExt, err)
	}

	return newKey, true, nil
}

func (s *fileServiceImpl) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, key)
}

// DeleteFile deletes a file
func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// GetFileURL generates URL to access file
func (s *fileServiceImpl) GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, key, expiry)
}

func matchesAny(detected *mimetype.MIME, allowed []string) bool {
	for _, m := range allowed {
		if detected.Is(m) {
			return true
		}
	}
	return false
}

// ==================== HELPER FUNCTIONS ====================

// compressImage re-encodes an image as JPEG until it fits maxSize.
// Images already within [minSize, maxSize] are returned as-is only if they are JPEG.
func compressImage(buffer []byte, maxSize int, minSize int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if format == "jpeg" && len(buffer) <= maxSize && len(buffer) >= minSize {
		return buffer, nil
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()

	// Start with quality 85 and reduce progressively
	quality := 85
	var compressed []byte

	for quality >= 50 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}

		compressed = buf.Bytes()
		if len(compressed) <= maxSize {
			return compressed, nil
		}
		quality -= 5
	}

	// Still too large: scale down so the area shrinks roughly in proportion to the overshoot.
	ratio := math.Sqrt(float64(maxSize) / float64(len(compressed)))
	newWidth := int(float64(originalWidth) * ratio)
	newHeight := int(float64(originalHeight) * ratio)

	// Keep documents legible
	if newWidth < 600 {
		newWidth = min(600, originalWidth)
	}
	if newHeight < 400 {
		newHeight = min(400, originalHeight)
	}

	resized := resizeImage(img, newWidth, newHeight)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 70}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
