package actors

import "github.com/okapi-spinner/spinner/pkg/actor"

// ShardIndex hashes a vertex id onto one of numShards slots. Every
// caller — the job driver assigning input edges to a shard's initial
// graph, and every shard/coordinator resolving a neighbor to its
// owning shard at runtime — must use this same function against the
// same numShards for vertex ownership to agree across the cluster.
func ShardIndex(vertexID int64, numShards int) int {
	if numShards <= 0 {
		return 0
	}
	return int(uint64(vertexID) % uint64(numShards))
}

// ownerShard hashes a vertex id onto the (deterministically sorted)
// list of shard PIDs known to the cluster. Every shard and the
// coordinator resolve the same vertex to the same owner because they
// all read the identical sorted list from the provider.
func ownerShard(vertexID int64, shards []actor.PID) actor.PID {
	if len(shards) == 0 {
		return actor.PID{}
	}
	return shards[ShardIndex(vertexID, len(shards))]
}
