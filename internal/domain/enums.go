package domain

// RunStatus represents the terminal state of a processing run.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// DatasetFormat represents the supported input dataset encodings.
type DatasetFormat string

const (
	FormatCSV  DatasetFormat = "csv"
	FormatXLSX DatasetFormat = "xlsx"
)

// FormatByExtension maps file extensions (without dot) to DatasetFormat.
var FormatByExtension = map[string]DatasetFormat{
	"csv":  FormatCSV,
	"xlsx": FormatXLSX,
}
