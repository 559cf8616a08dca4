package page

import "testing"

type item struct {
	id   string
	text string
}

func itemKey(i item) string { return i.id }

func TestMergeWithoutCursorReplaces(t *testing.T) {
	held := []item{{id: "a"}, {id: "b"}}
	incoming := []item{{id: "c"}}
	got := Merge(held, incoming, "", itemKey)
	if len(got) != 1 || got[0].id != "c" {
		t.Fatalf("expected replacement with [c], got %v", got)
	}
}

func TestMergeWithCursorAppendsWithoutDuplicates(t *testing.T) {
	held := []item{{id: "a"}, {id: "b"}}
	incoming := []item{{id: "b"}, {id: "c"}, {id: "d"}}
	got := Merge(held, incoming, "b", itemKey)
	if len(got) != 4 {
		t.Fatalf("expected 4 items, got %d: %v", len(got), got)
	}
	want := []string{"a", "b", "c", "d"}
	for i, w := range want {
		if got[i].id != w {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestMergeEmptyIncoming(t *testing.T) {
	held := []item{{id: "a"}}
	if got := Merge(held, nil, "a", itemKey); len(got) != 1 {
		t.Fatalf("expected held list unchanged, got %v", got)
	}
	if got := Merge(held, nil, "", itemKey); len(got) != 0 {
		t.Fatalf("expected empty replacement, got %v", got)
	}
}

func TestControllerStaleFetchRejected(t *testing.T) {
	c := NewController()
	inFlight := c.Begin("")
	if !c.Accept(inFlight) {
		t.Fatal("expected fresh token to be accepted")
	}

	// A filter change supersedes the fetch still in flight.
	if !c.SetFilter("launch") {
		t.Fatal("expected filter change to register")
	}
	if c.Accept(inFlight) {
		t.Fatal("expected stale token to be rejected after filter change")
	}
}

func TestControllerFreshLoadSupersedesLoadMore(t *testing.T) {
	c := NewController()
	first := c.Begin("")
	loadMore := c.Begin("cursor-9")
	if !c.Accept(first) || !c.Accept(loadMore) {
		t.Fatal("expected both fetches accepted before a fresh load")
	}

	fresh := c.Begin("")
	if c.Accept(loadMore) {
		t.Fatal("expected in-flight load-more to be superseded by fresh load")
	}
	if !c.Accept(fresh) {
		t.Fatal("expected the fresh load itself to be accepted")
	}
}

func TestControllerSetFilterNoopForSameValue(t *testing.T) {
	c := NewController()
	c.SetFilter("x")
	token := c.Begin("cur")
	if c.SetFilter("x") {
		t.Fatal("expected same-value filter set to be a no-op")
	}
	if !c.Accept(token) {
		t.Fatal("expected token to survive a no-op filter set")
	}
}

func TestControllerReset(t *testing.T) {
	c := NewController()
	c.SetFilter("abc")
	token := c.Begin("cur")
	c.Reset()
	if c.Filter() != "" {
		t.Fatalf("expected empty filter after reset, got %q", c.Filter())
	}
	if c.Accept(token) {
		t.Fatal("expected token invalidated by reset")
	}
}
