package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/keeslam/CarRentalManager-sub003/internal/database"
	"github.com/keeslam/CarRentalManager-sub003/internal/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedTemplate(t *testing.T, repo TemplateRepository, id string, version int, name string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, repo.Save(&model.TemplateModel{
		ID:        id,
		Version:   version,
		Name:      name,
		Data:      []byte(`{"id":"` + id + `","pageCount":1,"pageSize":"A4","sections":[]}`),
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestTemplateFindByIDVersioned(t *testing.T) {
	repo := NewTemplateRepository(testDB(t))
	seedTemplate(t, repo, "tpl-1", 1, "first")
	seedTemplate(t, repo, "tpl-1", 2, "second")
	seedTemplate(t, repo, "tpl-1", 3, "third")

	// version <= 0 取最新
	latest, err := repo.FindByID("tpl-1", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Version)

	// 指定版本
	v2, err := repo.FindByID("tpl-1", 2)
	require.NoError(t, err)
	assert.Equal(t, "second", v2.Name)

	_, err = repo.FindByID("tpl-1", 9)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindByID("missing", 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTemplateMaxVersion(t *testing.T) {
	repo := NewTemplateRepository(testDB(t))

	max, err := repo.MaxVersion("missing")
	require.NoError(t, err)
	assert.Equal(t, 0, max, "unknown template has max version 0")

	seedTemplate(t, repo, "tpl-1", 1, "first")
	seedTemplate(t, repo, "tpl-1", 4, "fourth")
	max, err = repo.MaxVersion("tpl-1")
	require.NoError(t, err)
	assert.Equal(t, 4, max)
}

func TestTemplateListVersions(t *testing.T) {
	repo := NewTemplateRepository(testDB(t))
	seedTemplate(t, repo, "tpl-1", 2, "b")
	seedTemplate(t, repo, "tpl-1", 1, "a")
	seedTemplate(t, repo, "tpl-2", 1, "other")

	versions, err := repo.ListVersions("tpl-1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions, "ascending order")
}

func TestTemplateFindLatestPagination(t *testing.T) {
	repo := NewTemplateRepository(testDB(t))
	seedTemplate(t, repo, "tpl-1", 1, "Alpha check")
	seedTemplate(t, repo, "tpl-1", 2, "Alpha check v2")
	seedTemplate(t, repo, "tpl-2", 1, "Beta check")
	seedTemplate(t, repo, "tpl-3", 1, "Gamma check")

	// 每个模板只出最新版
	templates, total, err := repo.FindLatest(1, 10, "", "name", "asc")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, templates, 3)
	assert.Equal(t, "Alpha check v2", templates[0].Name)
	assert.Equal(t, 2, templates[0].Version)

	// 分页
	templates, total, err = repo.FindLatest(2, 2, "", "name", "asc")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, templates, 1)
	assert.Equal(t, "Gamma check", templates[0].Name)

	// 搜索
	templates, total, err = repo.FindLatest(1, 10, "Beta", "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "tpl-2", templates[0].ID)
}

func TestTemplateDeleteVersion(t *testing.T) {
	repo := NewTemplateRepository(testDB(t))
	seedTemplate(t, repo, "tpl-1", 1, "a")
	seedTemplate(t, repo, "tpl-1", 2, "b")

	require.NoError(t, repo.DeleteVersion("tpl-1", 1))
	versions, err := repo.ListVersions("tpl-1")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, versions)

	require.NoError(t, repo.Delete("tpl-1"))
	versions, err = repo.ListVersions("tpl-1")
	require.NoError(t, err)
	assert.Empty(t, versions)
}
