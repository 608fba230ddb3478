package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func newTestService(t *testing.T) (FileService, *storage.LocalStorage) {
	t.Helper()
	s, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:5000/uploads")
	require.NoError(t, err)
	return NewFileService(s), s
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 8), uint8(y * 8), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadDocument_PDF(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	key, err := svc.UploadDocument(ctx, FolderAttendance, "emp-1", strings.NewReader(samplePDF), "certificado.PDF")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "attendance/emp-1/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	ok, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUploadDocument_ImageBecomesJPEG(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	key, err := svc.UploadDocument(ctx, FolderDisciplinary, "emp-2", bytes.NewReader(pngBytes(t)), "acta.png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	_, format, err := image.Decode(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestUploadDocument_Rejects(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UploadDocument(ctx, FolderAttendance, "emp-1", strings.NewReader("x"), "notes.txt")
	assert.ErrorIs(t, err, ErrInvalidFileType)

	_, err = svc.UploadDocument(ctx, FolderAttendance, "emp-1", strings.NewReader("plain text, not a pdf"), "fake.pdf")
	assert.ErrorIs(t, err, ErrContentMismatch)
}

func TestNormalizeExtension(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := store.Upload(ctx, strings.NewReader(samplePDF), "raw/abc123", "application/octet-stream")
	require.NoError(t, err)

	newKey, changed, err := svc.NormalizeExtension(ctx, "raw/abc123")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "raw/abc123.pdf", newKey)

	exists, _ := store.Exists(ctx, "raw/abc123")
	assert.True(t, exists)

	rc, err := store.Download(ctx, newKey)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, samplePDF, string(data))

	same, changed, err := svc.NormalizeExtension(ctx, newKey)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, newKey, same)
}

func TestNormalizeExtension_Unknown(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := store.Upload(ctx, strings.NewReader("just some text"), "raw/zzz", "application/octet-stream")
	require.NoError(t, err)

	_, _, err = svc.NormalizeExtension(ctx, "raw/zzz")
	assert.ErrorIs(t, err, ErrUnknownRawFormat)
}
