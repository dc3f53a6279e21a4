// internal/nodeid/address_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name        string
		addr        *Address
		expectedStr string
	}{
		{
			name:        "model",
			addr:        &Address{ResourceType: "model", Package: "shop", Name: []string{"orders"}},
			expectedStr: "model.shop.orders",
		},
		{
			name:        "source",
			addr:        &Address{ResourceType: "source", Package: "shop", Name: []string{"raw", "orders"}},
			expectedStr: "source.shop.raw.orders",
		},
		{
			name:        "nil address",
			addr:        nil,
			expectedStr: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.addr.String())
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	testIDs := []string{
		"model.shop.model_a",
		"source.shop.my_src.my_tbl",
		"test.shop.relationships_model_a_fun__fun__ref_model_b_",
	}

	for _, id := range testIDs {
		t.Run(id, func(t *testing.T) {
			addr, err := Parse(id)
			require.NoError(t, err)

			roundTripID := addr.String()
			assert.Equal(t, id, roundTripID)

			roundTripAddr, err := Parse(roundTripID)
			require.NoError(t, err)
			assert.True(t, addr.Equal(roundTripAddr))
		})
	}
}

func TestAddress_Equal(t *testing.T) {
	addr1 := MustParse("model.shop.a")
	addr2 := MustParse("model.shop.a")
	addr3 := MustParse("model.shop.b")
	addr4 := MustParse("seed.shop.a")

	assert.True(t, addr1.Equal(addr2))
	assert.False(t, addr1.Equal(addr3))
	assert.False(t, addr1.Equal(addr4))
	assert.False(t, addr1.Equal(nil))
	assert.False(t, (*Address)(nil).Equal(addr1))
	assert.True(t, (*Address)(nil).Equal(nil))
	assert.Equal(t, "a", addr1.Leaf())
}

func TestSet_Operations(t *testing.T) {
	a := NewSet("x", "y", "z")
	b := NewSet("y", "z", "w")

	assert.Equal(t, []ID{"w", "x", "y", "z"}, a.Union(b).Sorted())
	assert.Equal(t, []ID{"y", "z"}, a.Intersect(b).Sorted())
	assert.Equal(t, []ID{"x"}, a.Difference(b).Sorted())
	assert.True(t, a.ContainsAll([]ID{"x", "y"}))
	assert.False(t, a.ContainsAll([]ID{"x", "w"}))
	assert.True(t, a.ContainsAny([]ID{"q", "x"}))
	assert.False(t, a.ContainsAny(nil))

	clone := a.Clone()
	clone.Add("q")
	assert.False(t, a.Has("q"), "clone must not alias the original")
	assert.Equal(t, 0, Set(nil).Clone().Len())
}
