package archive

import "testing"

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE x = ? AND y = ? LIMIT ?"

	pg := New(nil, DriverPostgres)
	if got, want := pg.rebind(q), "SELECT a FROM t WHERE x = $1 AND y = $2 LIMIT $3"; got != want {
		t.Fatalf("postgres rebind = %q, want %q", got, want)
	}

	lite := New(nil, DriverSQLite)
	if got := lite.rebind(q); got != q {
		t.Fatalf("sqlite rebind changed the query: %q", got)
	}
}
