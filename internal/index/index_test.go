package index_test

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/dropDatabas3/searchjohn/internal/action"
	"github.com/dropDatabas3/searchjohn/internal/index"
	"github.com/dropDatabas3/searchjohn/internal/index/query"
	"github.com/dropDatabas3/searchjohn/internal/version"
)

func src(s string) json.RawMessage { return json.RawMessage(s) }

func mustValues(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("parse query %q: %v", raw, err)
	}
	return v
}

func TestPut_VersionsIncrement(t *testing.T) {
	ix := index.New("items", 4)

	d1, err := ix.Put("a", src(`{"v":1}`), version.MatchAny)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if d1.Version != 1 {
		t.Fatalf("first version=%d, want 1", d1.Version)
	}

	d2, err := ix.Put("a", src(`{"v":2}`), version.MatchAny)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if d2.Version != 2 {
		t.Fatalf("second version=%d, want 2", d2.Version)
	}
}

func TestPut_OCC(t *testing.T) {
	ix := index.New("items", 4)
	if _, err := ix.Put("a", src(`{}`), version.MatchAny); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// versión correcta: pasa
	if _, err := ix.Put("a", src(`{}`), 1); err != nil {
		t.Fatalf("matching version rejected: %v", err)
	}
	// versión vieja: conflicto
	if _, err := ix.Put("a", src(`{}`), 1); !errors.Is(err, index.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	// documento inexistente con versión explícita: conflicto
	if _, err := ix.Put("missing", src(`{}`), 3); !errors.Is(err, index.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict for missing doc, got %v", err)
	}
}

func TestDelete_OCC(t *testing.T) {
	ix := index.New("items", 4)
	if _, err := ix.Put("a", src(`{}`), version.MatchAny); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := ix.Delete("a", 9); !errors.Is(err, index.ErrVersionConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	v, err := ix.Delete("a", 1)
	if err != nil {
		t.Fatalf("delete with matching version: %v", err)
	}
	if v != 1 {
		t.Fatalf("deleted version=%d, want 1", v)
	}
	if _, err := ix.Get("a"); !errors.Is(err, index.ErrDocNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	ix := index.New("items", 4)
	if _, err := ix.Get("nope"); !errors.Is(err, index.ErrDocNotFound) {
		t.Fatalf("expected ErrDocNotFound, got %v", err)
	}
}

func TestRefresh_AllShardsSucceed(t *testing.T) {
	ix := index.New("items", 8)
	res := ix.Refresh()
	if res.Total != 8 || res.Successful != 8 || len(res.Failures) != 0 {
		t.Fatalf("unexpected result: total=%d successful=%d failures=%d",
			res.Total, res.Successful, len(res.Failures))
	}
}

func TestBroadcast_ClosedIndexFailsPerShardAndGroups(t *testing.T) {
	ix := index.New("items", 6)
	ix.Close()

	res := ix.Refresh()
	if res.Successful != 0 || len(res.Failures) != 6 {
		t.Fatalf("closed index: successful=%d failures=%d, want 0/6", res.Successful, len(res.Failures))
	}
	for _, f := range res.Failures {
		if !errors.Is(f.Err, index.ErrIndexClosed) {
			t.Fatalf("failure cause should be ErrIndexClosed, got %v", f.Err)
		}
	}

	// todos con la misma causa => una sola entrada agrupada
	groups := action.GroupShardFailures(res.Failures)
	if len(groups) != 1 || groups[0].Members != 6 {
		t.Fatalf("expected 1 group of 6, got %d groups", len(groups))
	}

	ix.Open()
	res = ix.Refresh()
	if res.Successful != 6 {
		t.Fatalf("reopened index should refresh cleanly, got %d/%d", res.Successful, res.Total)
	}
}

func TestClosedIndex_DocOps(t *testing.T) {
	ix := index.New("items", 2)
	ix.Close()
	if _, err := ix.Put("a", src(`{}`), version.MatchAny); !errors.Is(err, index.ErrIndexClosed) {
		t.Fatalf("expected ErrIndexClosed, got %v", err)
	}
	if _, err := ix.Get("a"); !errors.Is(err, index.ErrIndexClosed) {
		t.Fatalf("expected ErrIndexClosed, got %v", err)
	}
}

func TestStats_CountsDocs(t *testing.T) {
	ix := index.New("items", 4)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		if _, err := ix.Put(id, src(`{"k":"v"}`), version.MatchAny); err != nil {
			t.Fatalf("put %s: %v", id, err)
		}
	}

	st := ix.Stats()
	if st.Docs != 5 {
		t.Fatalf("docs=%d, want 5", st.Docs)
	}
	if len(st.Shards) != 4 {
		t.Fatalf("shard stats entries=%d, want 4", len(st.Shards))
	}
	if st.SizeBytes == 0 {
		t.Fatal("size_bytes should be > 0")
	}
}

func TestFlush_DrainsDirtyWrites(t *testing.T) {
	ix := index.New("items", 2)
	for _, id := range []string{"a", "b", "c"} {
		if _, err := ix.Put(id, src(`{}`), version.MatchAny); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	fr := ix.Flush()
	if fr.Flushed != 3 {
		t.Fatalf("flushed=%d, want 3", fr.Flushed)
	}
	if again := ix.Flush(); again.Flushed != 0 {
		t.Fatalf("second flush should drain nothing, got %d", again.Flushed)
	}
}

func TestSearch_MatchAllAndQuery(t *testing.T) {
	ix := index.New("items", 4)
	docs := map[string]string{
		"1": `{"title":"red shoes","stock":3}`,
		"2": `{"title":"blue shoes","stock":0}`,
		"3": `{"title":"green hat","stock":7}`,
	}
	for id, s := range docs {
		if _, err := ix.Put(id, src(s), version.MatchAny); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	all := ix.Search(nil, 0)
	if all.TotalHits != 3 {
		t.Fatalf("match-all hits=%d, want 3", all.TotalHits)
	}
	// determinismo: ordenados por id
	for i := 1; i < len(all.Hits); i++ {
		if all.Hits[i-1].ID >= all.Hits[i].ID {
			t.Fatalf("hits not sorted by id")
		}
	}

	q, err := query.FromURLParams(mustValues(t, "q=shoes"))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	res := ix.Search(q, 0)
	if res.TotalHits != 2 {
		t.Fatalf("q=shoes hits=%d, want 2", res.TotalHits)
	}

	res = ix.Search(q, 1)
	if res.TotalHits != 2 || len(res.Hits) != 1 {
		t.Fatalf("size=1: total=%d returned=%d, want 2/1", res.TotalHits, len(res.Hits))
	}
}

func TestRegistry_Lifecycle(t *testing.T) {
	r := index.NewRegistry(4)

	if _, err := r.Create("Items"); err == nil {
		t.Fatal("uppercase index name should be rejected")
	}
	ix, err := r.Create("items")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ix.NumShards() != 4 {
		t.Fatalf("shards=%d, want 4", ix.NumShards())
	}
	if _, err := r.Create("items"); !errors.Is(err, index.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
	if _, err := r.Get("items"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := r.Delete("items"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.Get("items"); !errors.Is(err, index.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}
