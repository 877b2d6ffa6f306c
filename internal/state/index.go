package state

import "cinderhold/server/catalog"

// Index resolves instance ids to live runtime state. Entities can
// despawn between event production and consumption, so every consumer
// treats a failed lookup as a silent no-op.
type Index struct {
	byInstance map[string]*RuntimeData
	order      []string
}

// NewIndex creates an empty entity index.
func NewIndex() *Index {
	return &Index{byInstance: make(map[string]*RuntimeData)}
}

// Spawn creates runtime state for one instance of def and registers
// it. Returns nil when def is nil.
func (x *Index) Spawn(def *catalog.EntityDefinition) *RuntimeData {
	if x == nil || def == nil {
		return nil
	}
	runtime := NewRuntimeData(def)
	x.byInstance[runtime.InstanceID] = runtime
	x.order = append(x.order, runtime.InstanceID)
	return runtime
}

// Despawn removes the instance from the index. Pending events that
// still name the id will resolve to nothing and no-op.
func (x *Index) Despawn(instanceID string) {
	if x == nil {
		return
	}
	if _, ok := x.byInstance[instanceID]; !ok {
		return
	}
	delete(x.byInstance, instanceID)
	for i, id := range x.order {
		if id == instanceID {
			x.order = append(x.order[:i], x.order[i+1:]...)
			break
		}
	}
}

// Resolve looks up live runtime state by instance id.
func (x *Index) Resolve(instanceID string) (*RuntimeData, bool) {
	if x == nil {
		return nil, false
	}
	runtime, ok := x.byInstance[instanceID]
	return runtime, ok
}

// ForEach visits every live entity in spawn order. The visitor must
// not spawn or despawn entities during iteration.
func (x *Index) ForEach(visit func(*RuntimeData)) {
	if x == nil || visit == nil {
		return
	}
	for _, id := range x.order {
		if runtime, ok := x.byInstance[id]; ok {
			visit(runtime)
		}
	}
}

// Len reports the number of live entities.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.byInstance)
}
