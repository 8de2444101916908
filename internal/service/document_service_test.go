package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeslam/CarRentalManager-sub003/internal/repository"
	"github.com/keeslam/CarRentalManager-sub003/internal/utils"
)

func newDocumentService(t *testing.T, maxSize int64) (DocumentService, string) {
	t.Helper()
	db := testDB(t)
	dir := t.TempDir()
	svc := NewDocumentService(
		repository.NewDocumentRepository(db),
		NewAuditLogService(repository.NewAuditLogRepository(db)),
		dir,
		maxSize,
	)
	return svc, dir
}

// makeFileHeader 通过 multipart 请求构造文件头
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func TestDocumentUploadAndOpen(t *testing.T) {
	svc, dir := newDocumentService(t, 1<<20)
	content := []byte("%PDF-1.4 fake damage report")

	doc, err := svc.Upload(context.Background(), makeFileHeader(t, "report.pdf", content), "reservation", "res-1")
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", doc.FileName)
	assert.Equal(t, int64(len(content)), doc.Size)
	assert.Equal(t, "reservation", doc.ResourceType)

	// 文件本体落在上传目录下
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	meta, rc, err := svc.Open(doc.ID)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, doc.ID, meta.ID)
}

func TestDocumentUploadRejectsExtension(t *testing.T) {
	svc, dir := newDocumentService(t, 1<<20)

	_, err := svc.Upload(context.Background(), makeFileHeader(t, "malware.exe", []byte("mz")), "vehicle", "v-1")
	assert.Error(t, err)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries, "rejected upload leaves nothing on disk")
}

func TestDocumentUploadRejectsOversize(t *testing.T) {
	svc, _ := newDocumentService(t, 10)

	_, err := svc.Upload(context.Background(), makeFileHeader(t, "big.png", bytes.Repeat([]byte("x"), 100)), "vehicle", "v-1")
	assert.Error(t, err)
}

func TestDocumentListByResource(t *testing.T) {
	svc, _ := newDocumentService(t, 1<<20)
	ctx := context.Background()

	_, err := svc.Upload(ctx, makeFileHeader(t, "front.jpg", []byte("jpg")), "vehicle", "v-1")
	require.NoError(t, err)
	_, err = svc.Upload(ctx, makeFileHeader(t, "rear.jpg", []byte("jpg")), "vehicle", "v-1")
	require.NoError(t, err)
	_, err = svc.Upload(ctx, makeFileHeader(t, "other.jpg", []byte("jpg")), "vehicle", "v-2")
	require.NoError(t, err)

	docs, err := svc.ListByResource("vehicle", "v-1")
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentDeleteRemovesFile(t *testing.T) {
	svc, dir := newDocumentService(t, 1<<20)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, makeFileHeader(t, "front.jpg", []byte("jpg")), "vehicle", "v-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, doc.ID))

	_, err = svc.Get(doc.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}
