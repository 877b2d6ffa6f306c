package state

import (
	"testing"

	"cinderhold/server/catalog"
)

func TestIndexSpawnResolveDespawn(t *testing.T) {
	t.Parallel()

	index := NewIndex()
	runtime := index.Spawn(testDefinition())
	if runtime == nil {
		t.Fatal("spawn returned nil")
	}

	resolved, ok := index.Resolve(runtime.InstanceID)
	if !ok || resolved != runtime {
		t.Fatal("resolve did not return the spawned runtime")
	}

	index.Despawn(runtime.InstanceID)
	if _, ok := index.Resolve(runtime.InstanceID); ok {
		t.Fatal("despawned instance still resolves")
	}
	if index.Len() != 0 {
		t.Fatalf("expected empty index, got %d", index.Len())
	}

	// Despawning an unknown id is a no-op.
	index.Despawn("missing")
}

func TestIndexForEachVisitsInSpawnOrder(t *testing.T) {
	t.Parallel()

	index := NewIndex()
	first := index.Spawn(testDefinition())
	second := index.Spawn(testDefinition())
	third := index.Spawn(testDefinition())
	index.Despawn(second.InstanceID)

	var visited []string
	index.ForEach(func(r *RuntimeData) { visited = append(visited, r.InstanceID) })

	if len(visited) != 2 || visited[0] != first.InstanceID || visited[1] != third.InstanceID {
		t.Fatalf("visit order wrong: %v", visited)
	}
}

func TestIndexNilSafety(t *testing.T) {
	t.Parallel()

	var index *Index
	if _, ok := index.Resolve("x"); ok {
		t.Fatal("nil index resolved something")
	}
	if index.Spawn(&catalog.EntityDefinition{EntityID: "x", MaxHealth: 1}) != nil {
		t.Fatal("nil index spawned something")
	}
}
