package experiment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lshigami/Bilim/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func landing() Experiment {
	return Experiment{Name: "exp1", Variants: []Variant{{"control", 33}, {"B", 33}, {"C", 34}}}
}

type countingStore struct {
	*MemoryStore
	saves int
	err   error
}

func (c *countingStore) GetAssignment(ctx context.Context, exp, visitor string) (string, bool, error) {
	if c.err != nil {
		return "", false, c.err
	}
	return c.MemoryStore.GetAssignment(ctx, exp, visitor)
}

func (c *countingStore) SaveAssignment(ctx context.Context, exp, visitor, variant string) error {
	c.saves++
	return c.MemoryStore.SaveAssignment(ctx, exp, visitor, variant)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		exp     Experiment
		wantErr bool
	}{
		{"valid", landing(), false},
		{"under 100", Experiment{Name: "x", Variants: []Variant{{"a", 50}, {"b", 49}}}, true},
		{"over 100", Experiment{Name: "x", Variants: []Variant{{"a", 60}, {"b", 41}}}, true},
		{"negative", Experiment{Name: "x", Variants: []Variant{{"a", 110}, {"b", -10}}}, true},
		{"no variants", Experiment{Name: "x"}, true},
		{"duplicate", Experiment{Name: "x", Variants: []Variant{{"a", 50}, {"a", 50}}}, true},
		{"zero weight arm", Experiment{Name: "x", Variants: []Variant{{"a", 0}, {"b", 100}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.exp.Validate()
			if tt.wantErr {
				assert.True(t, apperror.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPick_CumulativeWalk(t *testing.T) {
	e := landing()
	assert.Equal(t, "control", e.Pick(0))
	assert.Equal(t, "control", e.Pick(32))
	assert.Equal(t, "B", e.Pick(33))
	assert.Equal(t, "B", e.Pick(65))
	assert.Equal(t, "C", e.Pick(66))
	assert.Equal(t, "C", e.Pick(99))

	skip := Experiment{Name: "x", Variants: []Variant{{"never", 0}, {"always", 100}}}
	assert.Equal(t, "always", skip.Pick(0))
}

func TestHash_IsFNV1a(t *testing.T) {
	// FNV-1a offset basis for the empty input.
	assert.Equal(t, uint32(2166136261), Hash("", ""))
	assert.Equal(t, Hash("visitor-42exp1", ""), Hash("visitor-42", "exp1"))
}

func TestBucket_Distribution(t *testing.T) {
	e := landing()
	counts := map[string]int{}
	const n = 3000
	for i := 0; i < n; i++ {
		b := Bucket(fmt.Sprintf("visitor-%d", i), e.Name)
		require.GreaterOrEqual(t, b, 0)
		require.Less(t, b, Buckets)
		counts[e.Pick(b)]++
	}
	for _, v := range e.Variants {
		assert.InDelta(t, n/3, counts[v.Name], n/10, "variant %s", v.Name)
	}
}

func TestParseTable(t *testing.T) {
	exps, err := ParseTable("pricing=a:50,b:50; landing = control:33, B:33, C:34")
	require.NoError(t, err)
	require.Len(t, exps, 2)
	assert.Equal(t, "landing", exps[0].Name)
	assert.Equal(t, []Variant{{"control", 33}, {"B", 33}, {"C", 34}}, exps[0].Variants)
	assert.Equal(t, "landing=control:33,B:33,C:34", exps[0].String())

	def, err := ParseTable(DefaultTable)
	require.NoError(t, err)
	assert.Len(t, def, 1)

	for _, bad := range []string{"landing", "landing=a", "landing=a:x", "landing=a:50,b:40", "x=a:100;x=b:100"} {
		_, err := ParseTable(bad)
		assert.True(t, apperror.IsValidation(err), bad)
	}
}

func TestAssign_Deterministic(t *testing.T) {
	a, err := NewAssigner(NewMemoryStore(), []Experiment{landing()})
	require.NoError(t, err)

	first, err := a.Assign(context.Background(), "visitor-42", "exp1")
	require.NoError(t, err)
	second, err := a.Assign(context.Background(), "visitor-42", "exp1")
	require.NoError(t, err)

	assert.Equal(t, first.Variant, second.Variant)
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, landing().Pick(Bucket("visitor-42", "exp1")), first.Variant)

	// A fresh store reproduces the same variant from the hash alone.
	other, err := NewAssigner(NewMemoryStore(), []Experiment{landing()})
	require.NoError(t, err)
	again, err := other.Assign(context.Background(), "visitor-42", "exp1")
	require.NoError(t, err)
	assert.Equal(t, first.Variant, again.Variant)
}

func TestAssign_StoredVariantWins(t *testing.T) {
	store := &countingStore{MemoryStore: NewMemoryStore()}
	require.NoError(t, store.MemoryStore.SaveAssignment(context.Background(), "exp1", "v1", "C"))

	a, err := NewAssigner(store, []Experiment{landing()})
	require.NoError(t, err)
	got, err := a.Assign(context.Background(), "v1", "exp1")
	require.NoError(t, err)

	assert.Equal(t, "C", got.Variant)
	assert.True(t, got.Cached)
	assert.Zero(t, store.saves)
}

func TestAssign_Errors(t *testing.T) {
	store := &countingStore{MemoryStore: NewMemoryStore()}
	a, err := NewAssigner(store, []Experiment{landing()})
	require.NoError(t, err)

	_, err = a.Assign(context.Background(), " ", "exp1")
	assert.True(t, apperror.IsValidation(err))

	_, err = a.Assign(context.Background(), "v", "missing")
	assert.True(t, apperror.IsNotFound(err))

	boom := errors.New("boom")
	store.err = boom
	_, err = a.Assign(context.Background(), "v", "exp1")
	assert.ErrorIs(t, err, boom)
}

func TestNewAssigner_RejectsBadWeights(t *testing.T) {
	_, err := NewAssigner(NewMemoryStore(), []Experiment{{Name: "x", Variants: []Variant{{"a", 10}}}})
	assert.True(t, apperror.IsValidation(err))

	_, err = NewAssigner(nil, nil)
	assert.Error(t, err)
}
