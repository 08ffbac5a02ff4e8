// Package feed reconciles broadcast RSVP updates into a locally held list,
// the way an event-detail view keeps its attendee list current without
// reloading.
package feed

import "github.com/eventpulse/eventpulse/internal/models"

// ApplyUpdate merges incoming into list: if an entry with the same ID is
// already present it is replaced in place, keeping its position; otherwise
// incoming is appended. The input list is never mutated and applying the
// same record twice yields the same result as applying it once. Updates that
// echo the viewer's own RSVP go through the exact same path.
func ApplyUpdate(list []*models.RSVP, incoming *models.RSVP) []*models.RSVP {
	if incoming == nil {
		return list
	}

	out := make([]*models.RSVP, len(list))
	copy(out, list)

	for i, r := range out {
		if r.ID == incoming.ID {
			out[i] = incoming
			return out
		}
	}

	return append(out, incoming)
}
