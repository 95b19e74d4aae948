package version

import (
	"context"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nevintel/internal/model"
)

// Diff compares two versions structurally, matching items across the two
// reports by fingerprint. Every fingerprint present in exactly one version
// lands in exactly one of added/removed.
func (s *Store) Diff(ctx context.Context, fromID, toID string) (*model.Diff, error) {
	from, err := s.Get(ctx, fromID)
	if err != nil {
		return nil, eris.Wrapf(err, "diff: load %s", fromID)
	}
	to, err := s.Get(ctx, toID)
	if err != nil {
		return nil, eris.Wrapf(err, "diff: load %s", toID)
	}
	return DiffReports(from, to), nil
}

// DiffReports computes the structural difference between two version
// snapshots without touching persistence.
func DiffReports(from, to *model.Version) *model.Diff {
	fromItems := itemIndex(&from.Report)
	toItems := itemIndex(&to.Report)

	d := &model.Diff{FromID: from.ID, ToID: to.ID}

	for _, fp := range sortedKeys(toItems) {
		it := toItems[fp]
		old, ok := fromItems[fp]
		if !ok {
			d.Added = append(d.Added, highlight(it))
			continue
		}
		if changes := fieldChanges(old, it); len(changes) > 0 {
			d.Modified = append(d.Modified, model.ModifiedItem{
				Fingerprint: fp,
				Title:       it.Title,
				Changes:     changes,
			})
		}
	}

	for _, fp := range sortedKeys(fromItems) {
		if _, ok := toItems[fp]; !ok {
			d.Removed = append(d.Removed, highlight(fromItems[fp]))
		}
	}

	return d
}

func itemIndex(r *model.Report) map[string]model.ScoredItem {
	idx := make(map[string]model.ScoredItem)
	for _, it := range r.Items() {
		idx[it.Fingerprint] = it
	}
	return idx
}

// fieldChanges lists the content and score fields that differ between two
// items sharing a fingerprint. The fingerprint itself is identity and is
// never listed.
func fieldChanges(old, cur model.ScoredItem) []model.FieldChange {
	var out []model.FieldChange

	str := func(field, before, after string) {
		if before != after {
			out = append(out, model.FieldChange{Field: field, Before: before, After: after})
		}
	}
	num := func(field string, before, after int) {
		if before != after {
			out = append(out, model.FieldChange{
				Field:  field,
				Before: strconv.Itoa(before),
				After:  strconv.Itoa(after),
			})
		}
	}

	str("title", old.Title, cur.Title)
	str("body", old.Body, cur.Body)
	str("origin", old.Origin, cur.Origin)
	str("category", string(old.Category), string(cur.Category))
	str("sentiment", string(old.Sentiment), string(cur.Sentiment))
	num("importance", old.Importance, cur.Importance)
	num("data_quality", old.DataQuality, cur.DataQuality)
	num("relevance", old.Relevance, cur.Relevance)
	num("freshness", old.Freshness, cur.Freshness)

	return out
}

func highlight(it model.ScoredItem) model.Highlight {
	return model.Highlight{
		Fingerprint: it.Fingerprint,
		Title:       it.Title,
		Source:      it.Origin,
		Brand:       it.Brand(),
		Importance:  it.Importance,
		Sentiment:   it.Sentiment,
	}
}

func sortedKeys(m map[string]model.ScoredItem) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
