package survey

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowJSONDecoding(t *testing.T) {
	var rows []Row
	src := `[{"model":"A","cluster":2,"LOY":null,"PRICE":"31,500","FLAG":true,"NESTED":{"a":1}}]`
	require.NoError(t, json.Unmarshal([]byte(src), &rows))
	require.Len(t, rows, 1)
	r := rows[0]

	assert.Equal(t, "A", r.Model())
	c, ok := r.Cluster()
	assert.True(t, ok)
	assert.Equal(t, 2, c)
	assert.True(t, r.Get("LOY").IsMissing())
	assert.True(t, r.Get("NESTED").IsMissing())
	assert.Equal(t, "true", r.Get("FLAG").Text())

	f, ok := r.Get("PRICE").Float()
	assert.True(t, ok)
	assert.Equal(t, 31500.0, f)
}

func TestValueBlankStringIsMissing(t *testing.T) {
	v := String("   ")
	assert.True(t, v.IsMissing())
	_, ok := v.Float()
	assert.False(t, ok)
}

func TestValueTextMatchesJSONNumbers(t *testing.T) {
	assert.Equal(t, "1", Number(1).Text())
	assert.Equal(t, "2.5", Number(2.5).Text())
	b, err := json.Marshal(Row{"x": Number(3), "y": Missing()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":3,"y":null}`, string(b))
}

func TestClusterRejectsFractions(t *testing.T) {
	_, ok := Row{"cluster": Number(1.5)}.Cluster()
	assert.False(t, ok)
	c, ok := Row{"cluster": String("4")}.Cluster()
	assert.True(t, ok)
	assert.Equal(t, 4, c)
}

func TestRowWithCopies(t *testing.T) {
	r := Row{"a": Number(1)}
	r2 := r.With("b", String("x"))
	assert.Len(t, r, 1)
	assert.Len(t, r2, 2)
}

func TestCodeMapCanonicalLookup(t *testing.T) {
	cm := NewCodeMap()
	cm.Add("LOY", String("01"), "Loyal")
	cm.Add("LOY", Number(2), "Not loyal")

	for _, raw := range []Value{String("01"), String("1"), Number(1)} {
		lab, ok := cm.Lookup("LOY", raw)
		if !ok || lab != "Loyal" {
			t.Fatalf("Lookup(%v) = %q, %v", raw, lab, ok)
		}
	}
	lab, ok := cm.Lookup("LOY", String("2"))
	assert.True(t, ok)
	assert.Equal(t, "Not loyal", lab)

	_, ok = cm.Lookup("OTHER", Number(1))
	assert.False(t, ok)
	var nilMap *CodeMap
	_, ok = nilMap.Lookup("LOY", Number(1))
	assert.False(t, ok)
	assert.Equal(t, []string{"LOY"}, cm.Fields())
}
