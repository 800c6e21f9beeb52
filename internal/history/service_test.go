package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/voidovo/imgtoss-sub000/cache"
	"github.com/voidovo/imgtoss-sub000/config"
	"github.com/voidovo/imgtoss-sub000/database/models"
	historyRepo "github.com/voidovo/imgtoss-sub000/database/repo/history"
	"github.com/voidovo/imgtoss-sub000/internal/uploader"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared&_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UploadRecord{}))

	cacheProvider, err := cache.New(cache.Config{Type: "memory"})
	require.NoError(t, err)
	t.Cleanup(func() { cacheProvider.Close() })

	return NewService(historyRepo.NewRepository(db), cacheProvider)
}

func testStorageConfig() config.StorageConfig {
	return config.StorageConfig{
		Provider: config.ProviderAliyunOSS,
		Bucket:   "test-bucket",
		Region:   "cn-hangzhou",
	}
}

// TestRecordResults_MixedBatch 成功与失败都入库，计数一致
func TestRecordResults_MixedBatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	items := []uploader.Item{
		{Key: "img/1.png", Data: []byte("aaaa")},
		{Key: "img/2.png", Data: []byte("bb")},
	}
	results := []uploader.UploadResult{
		{Key: "img/1.png", Success: true, URL: "https://example.com/img/1.png"},
		{Key: "img/2.png", Success: false, Error: "status 403"},
	}

	svc.RecordResults(ctx, testStorageConfig(), items, results)

	page, err := svc.List(ctx, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Records, 2)

	succeeded := 0
	for _, record := range page.Records {
		assert.Equal(t, "aliyun_oss", record.Provider)
		assert.NotEmpty(t, record.ID)
		if record.Success {
			succeeded++
			assert.NotEmpty(t, record.URL)
			assert.Empty(t, record.Error)
		} else {
			assert.Empty(t, record.URL)
			assert.NotEmpty(t, record.Error)
		}
	}
	assert.Equal(t, 1, succeeded)
}

// TestFindByKey 按对象键检索
func TestFindByKey(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	items := []uploader.Item{{Key: "img/a.png", Data: []byte("x")}}
	svc.RecordResults(ctx, testStorageConfig(), items, []uploader.UploadResult{
		{Key: "img/a.png", Success: true, URL: "https://example.com/img/a.png"},
	})

	records, err := svc.FindByKey(ctx, "img/a.png")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].FileSize)

	records, err = svc.FindByKey(ctx, "img/missing.png")
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestList_Pagination 分页与总数
func TestList_Pagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		key := string(rune('a'+i)) + ".png"
		svc.RecordResults(ctx, testStorageConfig(),
			[]uploader.Item{{Key: key, Data: []byte("x")}},
			[]uploader.UploadResult{{Key: key, Success: true, URL: "https://example.com/" + key}})
	}

	page, err := svc.List(ctx, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Len(t, page.Records, 3)

	page, err = svc.List(ctx, 3, 3)
	require.NoError(t, err)
	assert.Len(t, page.Records, 2)
}
