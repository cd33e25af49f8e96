package partition

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemsOf(as []Assignment) [][]uint64 {
	out := make([][]uint64, len(as))
	for i, a := range as {
		out[i] = a.Items
	}
	return out
}

func flatten(as []Assignment) []uint64 {
	var out []uint64
	for _, a := range as {
		out = append(out, a.Items...)
	}
	return out
}

func TestContiguous_Scenario(t *testing.T) {
	as, err := Chunk([]uint64{2, 3, 4, 5, 6}, 2)
	require.NoError(t, err)

	assert.Equal(t, [][]uint64{{2, 3, 4}, {5, 6}}, itemsOf(as))
	assert.Equal(t, 0, as[0].Worker)
	assert.Equal(t, 1, as[1].Worker)
}

func TestContiguous_SurplusWorkersGetEmptySlices(t *testing.T) {
	as, err := Chunk([]uint64{1, 2, 3}, 5)
	require.NoError(t, err)

	require.Len(t, as, 5)
	assert.Equal(t, [][]uint64{{1}, {2}, {3}, {}, {}}, itemsOf(as))
}

func TestContiguous_ShortLastBlock(t *testing.T) {
	// ceil(10/4) = 3: blocks of 3, 3, 3, 1
	as, err := Chunk(Range(10), 4)
	require.NoError(t, err)

	sizes := make([]int, len(as))
	for i, a := range as {
		sizes[i] = len(a.Items)
	}
	assert.Equal(t, []int{3, 3, 3, 1}, sizes)
}

func TestContiguous_BlocksDoNotShareCapacity(t *testing.T) {
	items := Range(6)
	as, err := Chunk(items, 2)
	require.NoError(t, err)

	_ = append(as[0].Items, 99)
	assert.Equal(t, uint64(3), items[3])
}

func TestRoundRobin_Scenario(t *testing.T) {
	as, err := Stripe([]uint64{2, 3, 4, 5, 6}, 2)
	require.NoError(t, err)

	assert.Equal(t, [][]uint64{{2, 4, 6}, {3, 5}}, itemsOf(as))
}

func TestRoundRobin_SurplusWorkersGetEmptySlices(t *testing.T) {
	as, err := Stripe([]uint64{7, 8}, 4)
	require.NoError(t, err)

	assert.Equal(t, [][]uint64{{7}, {8}, {}, {}}, itemsOf(as))
}

func TestPartitions_CoverInputExactlyOnce(t *testing.T) {
	for n := 0; n <= 23; n++ {
		items := Range(n)
		for p := 1; p <= n+2; p++ {
			contiguous, err := Chunk(items, p)
			require.NoError(t, err)
			require.Len(t, contiguous, p)
			assert.Equal(t, items, append([]uint64{}, flatten(contiguous)...), "contiguous n=%d p=%d", n, p)

			striped, err := Stripe(items, p)
			require.NoError(t, err)
			require.Len(t, striped, p)
			got := flatten(striped)
			slices.Sort(got)
			assert.Equal(t, items, append([]uint64{}, got...), "round-robin n=%d p=%d", n, p)
		}
	}
}

func TestPartitions_RejectZeroWorkers(t *testing.T) {
	_, err := Chunk(Range(3), 0)
	assert.ErrorIs(t, err, ErrInvalidWorkerCount)

	_, err = Stripe(Range(3), -1)
	assert.ErrorIs(t, err, ErrInvalidWorkerCount)
}

func TestShuffle_CopiesAndPermutes(t *testing.T) {
	items := Range(100)
	shuffled := Shuffle(items, rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, Range(100), items, "input must not be modified")
	assert.NotEqual(t, items, shuffled)

	sorted := slices.Clone(shuffled)
	slices.Sort(sorted)
	assert.Equal(t, items, sorted)
}

func TestShuffle_SeedIsReproducible(t *testing.T) {
	a := Shuffle(Range(50), rand.New(rand.NewPCG(7, 7)))
	b := Shuffle(Range(50), rand.New(rand.NewPCG(7, 7)))
	assert.Equal(t, a, b)
}

func TestPlan(t *testing.T) {
	items := []uint64{2, 3, 4, 5, 6}
	rng := rand.New(rand.NewPCG(3, 4))

	as, err := Plan(Contiguous, items, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]uint64{{2, 3, 4}, {5, 6}}, itemsOf(as))

	as, err = Plan(RoundRobin, items, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, [][]uint64{{2, 4, 6}, {3, 5}}, itemsOf(as))

	as, err = Plan(ShuffledContiguous, items, 2, rng)
	require.NoError(t, err)
	got := flatten(as)
	slices.Sort(got)
	assert.Equal(t, items, got)
	assert.Equal(t, []uint64{2, 3, 4, 5, 6}, items)

	_, err = Plan(ShuffledContiguous, items, 2, nil)
	assert.Error(t, err)

	_, err = Plan(PoolManaged, items, 2, nil)
	assert.ErrorIs(t, err, ErrNoPlan)

	_, err = Plan(Strategy(42), items, 2, nil)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestPlan_MatchesChunkAndStripe(t *testing.T) {
	items := Range(23)

	for p := 1; p <= 25; p++ {
		chunked, err := Chunk(items, p)
		require.NoError(t, err)
		planned, err := Plan(Contiguous, items, p, nil)
		require.NoError(t, err)
		assert.Equal(t, chunked, planned, "contiguous p=%d", p)

		striped, err := Stripe(items, p)
		require.NoError(t, err)
		planned, err = Plan(RoundRobin, items, p, nil)
		require.NoError(t, err)
		assert.Equal(t, striped, planned, "round-robin p=%d", p)
	}
}
