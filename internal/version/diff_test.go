package version

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/nevintel/internal/model"
	"github.com/sells-group/nevintel/internal/store"
)

func TestDiffReports(t *testing.T) {
	kept := newsItem("fp-kept", "持续报道")
	removed := newsItem("fp-gone", "旧消息")
	modified := newsItem("fp-mod", "销量快报")
	modified.Importance = 3
	added := newsItem("fp-new", "新消息")

	later := modified
	later.Title = "销量快报（更新）"
	later.Importance = 4
	later.Freshness = 80

	from := &model.Version{ID: "2026-09-01_V1", Report: testReport("2026-09-01", kept, removed, modified)}
	to := &model.Version{ID: "2026-09-01_V2", Report: testReport("2026-09-01", kept, later, added)}

	d := DiffReports(from, to)
	assert.Equal(t, "2026-09-01_V1", d.FromID)
	assert.Equal(t, "2026-09-01_V2", d.ToID)

	require.Len(t, d.Added, 1)
	assert.Equal(t, "fp-new", d.Added[0].Fingerprint)

	require.Len(t, d.Removed, 1)
	assert.Equal(t, "fp-gone", d.Removed[0].Fingerprint)

	require.Len(t, d.Modified, 1)
	mod := d.Modified[0]
	assert.Equal(t, "fp-mod", mod.Fingerprint)

	fields := make(map[string][2]string, len(mod.Changes))
	for _, c := range mod.Changes {
		fields[c.Field] = [2]string{c.Before, c.After}
	}
	assert.Equal(t, [2]string{"销量快报", "销量快报（更新）"}, fields["title"])
	assert.Equal(t, [2]string{"3", "4"}, fields["importance"])
	assert.Equal(t, [2]string{"0", "80"}, fields["freshness"])
	assert.NotContains(t, fields, "fingerprint")
	assert.NotContains(t, fields, "body")
}

func TestDiffIdenticalReports(t *testing.T) {
	it := newsItem("fp-a", "不变的消息")
	from := &model.Version{ID: "2026-09-01_V1", Report: testReport("2026-09-01", it)}
	to := &model.Version{ID: "2026-09-01_V2", Report: testReport("2026-09-01", it)}

	d := DiffReports(from, to)
	assert.Empty(t, d.Added)
	assert.Empty(t, d.Removed)
	assert.Empty(t, d.Modified)
}

func TestDiffDeterministicOrder(t *testing.T) {
	a := newsItem("fp-a", "甲")
	b := newsItem("fp-b", "乙")
	c := newsItem("fp-c", "丙")

	from := &model.Version{ID: "v1", Report: testReport("2026-09-01")}
	to := &model.Version{ID: "v2", Report: testReport("2026-09-01", c, a, b)}

	d := DiffReports(from, to)
	require.Len(t, d.Added, 3)
	assert.Equal(t, "fp-a", d.Added[0].Fingerprint)
	assert.Equal(t, "fp-b", d.Added[1].Fingerprint)
	assert.Equal(t, "fp-c", d.Added[2].Fingerprint)
}

func TestDiffThroughStore(t *testing.T) {
	s := New(store.NewMemory(), 30)
	ctx := context.Background()

	v1, err := s.Save(ctx, testReport("2026-09-01", newsItem("fp-a", "第一版")))
	require.NoError(t, err)
	v2, err := s.Save(ctx, testReport("2026-09-01", newsItem("fp-a", "第一版"), newsItem("fp-b", "新增")))
	require.NoError(t, err)

	d, err := s.Diff(ctx, v1.ID, v2.ID)
	require.NoError(t, err)
	require.Len(t, d.Added, 1)
	assert.Equal(t, "fp-b", d.Added[0].Fingerprint)

	_, err = s.Diff(ctx, v1.ID, "2026-09-01_V99")
	assert.ErrorIs(t, err, ErrNotFound)
}
