package all

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"banketl/internal/storage"
)

func TestAllBackendsRegistered(t *testing.T) {
	want := []string{"mssql", "postgres", "sqlite"}
	if diff := cmp.Diff(want, storage.ListKinds()); diff != "" {
		t.Fatalf("ListKinds mismatch (-want +got):\n%s", diff)
	}
}
