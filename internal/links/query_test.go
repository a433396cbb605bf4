package links

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

// The query builders are the wire surface of the client: a change in their
// output changes what the backend executes. Golden-file the full set.
func TestQueries_Golden(t *testing.T) {
	var b strings.Builder
	fmt.Fprintf(&b, "create(100, 200)      %s\n", CreateQuery(100, 200))
	fmt.Fprintf(&b, "create(0, 0)          %s\n", CreateQuery(0, 0))
	fmt.Fprintf(&b, "read_all()            %s\n", ReadAllQuery())
	fmt.Fprintf(&b, "read_one(1)           %s\n", ReadOneQuery(1))
	fmt.Fprintf(&b, "update(1, 100, 500)   %s\n", UpdateQuery(1, 100, 500))
	fmt.Fprintf(&b, "delete(2)             %s\n", DeleteQuery(2))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "queries", []byte(b.String()))
}

func TestCreateQuery_InsertPattern(t *testing.T) {
	// `()` on the left matches nothing, so the right side is a pure insert.
	assert.Equal(t, "() ((7 9))", CreateQuery(7, 9))
}

func TestDeleteQuery_EmptyRightPattern(t *testing.T) {
	assert.Equal(t, "(((5: $s $t)) ())", DeleteQuery(5))
}
