package port

// ResolutionObserver receives one notification per resolved record. Row
// indices are 0-based within the data rows of the primary dataset, header
// excluded. Implementations run inline with the resolution pass and must not
// block.
type ResolutionObserver interface {
	RecordMatched(rowIndex int, key, value, source string)
	RecordUnmatched(rowIndex int, key string)
}
