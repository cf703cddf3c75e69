package actors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okapi-spinner/spinner/pkg/actor"
)

func TestShardIndexIsStableAndInRange(t *testing.T) {
	for _, id := range []int64{0, 1, 2, 41, 1<<40 + 7} {
		idx := ShardIndex(id, 5)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 5)
		assert.Equal(t, idx, ShardIndex(id, 5), "hashing the same id twice must agree")
	}
}

func TestShardIndexZeroShardsIsZero(t *testing.T) {
	assert.Equal(t, 0, ShardIndex(123, 0))
	assert.Equal(t, 0, ShardIndex(123, -3))
}

func TestOwnerShardAgreesWithShardIndex(t *testing.T) {
	shards := []actor.PID{
		actor.NewPID("local", "shard-0"),
		actor.NewPID("local", "shard-1"),
		actor.NewPID("local", "shard-2"),
	}

	for _, id := range []int64{0, 1, 2, 3, 99} {
		want := shards[ShardIndex(id, len(shards))]
		got := ownerShard(id, shards)
		assert.Equal(t, want, got)
	}
}

func TestOwnerShardEmptyListIsZeroPID(t *testing.T) {
	assert.True(t, ownerShard(7, nil).IsZero())
}
