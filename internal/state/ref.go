package state

import "cinderhold/server/logging"

// Ref builds the journal reference for a live entity.
func Ref(r *RuntimeData) logging.EntityRef {
	if r == nil {
		return logging.EntityRef{Kind: logging.EntityKindUnknown}
	}
	kind := logging.EntityKindUnknown
	switch {
	case r.IsPlayer():
		kind = logging.EntityKindPlayer
	case r.IsEnemy():
		kind = logging.EntityKindEnemy
	}
	return logging.EntityRef{ID: r.InstanceID, Kind: kind}
}

// RefByID builds a journal reference for an id that may no longer
// resolve to a live entity.
func RefByID(instanceID string) logging.EntityRef {
	return logging.EntityRef{ID: instanceID, Kind: logging.EntityKindUnknown}
}
