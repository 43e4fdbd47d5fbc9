package minio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/roomscan-backend/internal/cfg"
	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/jitter"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageRepo struct {
	mu         sync.Mutex
	uploaded   []*domain.Image
	deleteErrs int // сколько первых удалений завершатся ошибкой
	deletes    []string
}

func (f *fakeImageRepo) Upload(_ context.Context, image *domain.Image) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, image)
	return image.ObjectKey, nil
}

func (f *fakeImageRepo) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, key)
	if f.deleteErrs > 0 {
		f.deleteErrs--
		return errors.New("minio unavailable")
	}
	return nil
}

func newInfra(repo *fakeImageRepo) *MinioInfrastructure {
	m := NewMinioInfrastructure(repo, &cfg.MinIOCfg{BucketName: "scans"}, logger.NewNopLogger(), context.Background())
	m.backoff = jitter.Backoff{Base: time.Millisecond, Max: 2 * time.Millisecond, Attempts: 3}
	return m
}

func TestUploadScanImage(t *testing.T) {
	repo := &fakeImageRepo{}
	m := newInfra(repo)

	img := usecase.NewScanImage([]byte{0x89, 'P', 'N', 'G'}, "image/png", 4, "room.png")
	key, err := m.UploadScanImage(context.Background(), usecase.NewUploadImageReq("scan-1", *img))
	require.NoError(t, err)

	assert.Equal(t, "scans/scan-1/original.png", key)
	require.Len(t, repo.uploaded, 1)
	assert.Equal(t, "scans", repo.uploaded[0].Bucket)
	assert.Equal(t, int64(4), repo.uploaded[0].Size)
	assert.Equal(t, "image/png", repo.uploaded[0].ContentType)
}

func TestUploadScanImage_UnsupportedType(t *testing.T) {
	repo := &fakeImageRepo{}
	m := newInfra(repo)

	img := usecase.NewScanImage([]byte("GIF89a"), "image/gif", 6, "room.gif")
	_, err := m.UploadScanImage(context.Background(), usecase.NewUploadImageReq("scan-1", *img))
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)
	assert.Empty(t, repo.uploaded)
}

func TestCleanupImages_Retries(t *testing.T) {
	repo := &fakeImageRepo{deleteErrs: 2}
	m := newInfra(repo)

	m.CleanupImages([]string{"scans/a/original.jpg"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.WaitForCleanup(ctx))

	assert.Len(t, repo.deletes, 3)
}

func TestCleanupImages_GivesUp(t *testing.T) {
	repo := &fakeImageRepo{deleteErrs: 10}
	m := newInfra(repo)

	m.CleanupImages([]string{"a", "b"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.WaitForCleanup(ctx))

	assert.Len(t, repo.deletes, 6)
}
