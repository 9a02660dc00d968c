package schemas

// FailureClass classifies why a render job failed.
type FailureClass string

const (
	// FailureDecode marks an unreadable or corrupt hero or overlay.
	FailureDecode FailureClass = "decode"

	// FailureProbe marks a failed metadata probe of a video overlay.
	FailureProbe FailureClass = "probe"

	// FailureEncode marks a failed encode (nonzero ffmpeg exit).
	FailureEncode FailureClass = "encode"

	// FailureWrite marks an output that could not be created or published.
	FailureWrite FailureClass = "write"
)

// JobFailure records one failed job with its classification and the
// underlying diagnostic text.
type JobFailure struct {
	OutputPath string       `json:"output_path"`
	Class      FailureClass `json:"class"`
	Message    string       `json:"message"`
}

// BatchResult aggregates the outcome of one batch invocation. Outputs holds
// the successful output paths in job order.
type BatchResult struct {
	BatchID  string       `json:"batch_id"`
	Success  int          `json:"success"`
	Failed   int          `json:"failed"`
	Outputs  []string     `json:"outputs"`
	Failures []JobFailure `json:"failures,omitempty"`
}
