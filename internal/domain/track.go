package domain

// Track is the persisted metadata of one uploaded audio file. The bytes
// themselves live in the content store under Filename.
type Track struct {
	ID       string  `json:"trackId"`
	Title    string  `json:"title"`
	Filename string  `json:"filename"`
	BinaryID string  `json:"trackBinaryId"`
	Duration float64 `json:"duration,omitempty"`
}
