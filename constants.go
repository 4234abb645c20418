package gobatcher

// DefaultBatchSize is a reasonable page size for table scans. The iterator
// itself never falls back to it: a batch size below 1 is rejected outright,
// so defaulting is left to the surface collecting user input.
const DefaultBatchSize = 100
