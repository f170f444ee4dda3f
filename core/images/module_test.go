package images

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"print-pricing/core/types"
	"print-pricing/internal/errors"
)

func upload(id, mime string) types.UploadedFile {
	return types.UploadedFile{
		FileID:       id,
		OriginalName: id + ".png",
		Size:         2048,
		MimeType:     mime,
		UploadedAt:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		IsImage:      true,
	}
}

func TestAddAndRemove(t *testing.T) {
	m := New(Config{})
	require.NoError(t, m.Add(upload("front", "image/png")))
	require.NoError(t, m.Add(upload("back", "application/pdf")))
	assert.Equal(t, 2, m.Count())

	assert.True(t, m.Remove("front"))
	assert.False(t, m.Remove("front"))

	files := m.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "back", files[0].FileID)
}

func TestAddReplacesDuplicateID(t *testing.T) {
	m := New(Config{MaxFiles: 1})
	require.NoError(t, m.Add(upload("art", "image/png")))

	replacement := upload("art", "image/jpeg")
	replacement.OriginalName = "art-v2.jpg"
	require.NoError(t, m.Add(replacement))

	assert.Equal(t, "art-v2.jpg", m.Files()[0].OriginalName)
}

func TestMaxFiles(t *testing.T) {
	m := New(Config{MaxFiles: 2})
	for i := 0; i < 2; i++ {
		require.NoError(t, m.Add(upload(fmt.Sprintf("f%d", i), "image/png")))
	}
	err := m.Add(upload("f2", "image/png"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeValidation))
	assert.Contains(t, err.Error(), "at most 2 files")
}

func TestMimeFilter(t *testing.T) {
	m := New(Config{AllowedMimeTypes: []string{"image/*", "application/pdf"}})
	assert.NoError(t, m.Add(upload("a", "image/webp")))
	assert.NoError(t, m.Add(upload("b", "Application/PDF; charset=binary")))

	err := m.Add(upload("c", "text/plain"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"text/plain"`)
}

func TestRejectsIncompleteDescriptor(t *testing.T) {
	m := New(Config{})
	err := m.Add(types.UploadedFile{MimeType: "image/png"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeValidation))
	assert.Zero(t, m.Count())
}

func TestContributionIsFree(t *testing.T) {
	m := New(Config{})
	require.NoError(t, m.Add(upload("front", "image/png")))

	c := m.Contribution()
	assert.True(t, c.IsValid)
	assert.Zero(t, c.BasePrice)
	assert.Zero(t, c.Multiplier)
	assert.Zero(t, c.AddonCost)
	assert.Zero(t, c.PerUnitCost)
	assert.Zero(t, c.PercentageCost)
	assert.Equal(t, "1 file(s) attached", c.Calculation.Description)
}
