package event

// Relationship is how an actor relates to an event
type Relationship int

const (
	RelationshipNone Relationship = iota
	RelationshipOrganizer
	RelationshipAttendee
)

func (r Relationship) String() string {
	switch r {
	case RelationshipOrganizer:
		return "organizer"
	case RelationshipAttendee:
		return "attendee"
	}
	return "none"
}

// RelationshipOf classifies actorID against e
func RelationshipOf(e *Event, actorID string) Relationship {
	switch {
	case e.OrganizerID == actorID:
		return RelationshipOrganizer
	case e.IsAttendee(actorID):
		return RelationshipAttendee
	}
	return RelationshipNone
}

// Capabilities are what an actor may do with an event
type Capabilities struct {
	Read    bool
	Write   bool
	Delete  bool
	Respond bool
}

// Policy maps a relationship to capabilities
type Policy func(Relationship) Capabilities

// DefaultPolicy lets attendees edit the event as freely as the organizer;
// only the organizer deletes.
func DefaultPolicy(r Relationship) Capabilities {
	switch r {
	case RelationshipOrganizer:
		return Capabilities{Read: true, Write: true, Delete: true}
	case RelationshipAttendee:
		return Capabilities{Read: true, Write: true, Respond: true}
	}
	return Capabilities{}
}

// StrictPolicy limits attendees to reading and responding
func StrictPolicy(r Relationship) Capabilities {
	switch r {
	case RelationshipOrganizer:
		return Capabilities{Read: true, Write: true, Delete: true}
	case RelationshipAttendee:
		return Capabilities{Read: true, Respond: true}
	}
	return Capabilities{}
}

// PolicyByName resolves a configured policy name
func PolicyByName(name string) (Policy, bool) {
	switch name {
	case "", "default":
		return DefaultPolicy, true
	case "strict":
		return StrictPolicy, true
	}
	return nil, false
}
