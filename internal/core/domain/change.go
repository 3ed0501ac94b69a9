package domain

// Topic names a channel on the change bus.
type Topic string

// TopicStructureChange carries the before/after notifications fired around
// every structural edit of the program tree.
const TopicStructureChange Topic = "program.structure"
