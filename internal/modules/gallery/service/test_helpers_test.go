package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"golden-anniversary-server/internal/cache"
	"golden-anniversary-server/internal/model"
	"golden-anniversary-server/internal/modules/gallery/repo"
	platformservice "golden-anniversary-server/internal/platform/service"
	"golden-anniversary-server/internal/storage"
	"golden-anniversary-server/internal/testutils"

	"github.com/neilotoole/slogt"
)

// fakeStorage 记录每次调用，用于断言补偿动作
type fakeStorage struct {
	mu        sync.Mutex
	puts      []string
	deletes   []string
	putErr    error
	deleteErr error
}

func (f *fakeStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (*storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts = append(f.puts, key)
	if f.putErr != nil {
		return nil, f.putErr
	}
	n, _ := io.Copy(io.Discard, r)
	return &storage.Object{Key: key, URL: "/photos/" + key, Size: n}, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	return f.deleteErr
}

func (f *fakeStorage) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.puts) + len(f.deletes)
}

// stubPhotoStore 包装真实仓库，可以让 Create 返回错误或空行
type stubPhotoStore struct {
	repo.PhotoStore
	createErr   error
	createNoRow bool
	creates     int
}

func (s *stubPhotoStore) Create(ctx context.Context, p *model.Photo) (*model.Photo, error) {
	s.creates++
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.createNoRow {
		return nil, nil
	}
	return s.PhotoStore.Create(ctx, p)
}

type fixture struct {
	svc     *Service
	storage *fakeStorage
	photos  *stubPhotoStore
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutils.SetupDB(t)
	logger := slogt.New(t)

	f := &fixture{
		storage: &fakeStorage{},
		photos:  &stubPhotoStore{PhotoStore: repo.NewPhotoRepository(gdb)},
		clock:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	app := platformservice.NewAppService(logger, cache.NewViewCache(cache.NewMemoryStore(), logger))
	f.svc = New(app, f.photos, f.storage)
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func mustFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(int64(len(content)) + 1024); err != nil {
		t.Fatalf("ParseMultipartForm failed: %v", err)
	}
	files := req.MultipartForm.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected 1 file header, got %d", len(files))
	}
	return files[0]
}
