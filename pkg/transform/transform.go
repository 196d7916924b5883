// pkg/transform/transform.go
package transform

// Summary reports the outcome of one dataset transformation pass.
type Summary struct {
	Processed int `json:"processed"`
	Cleaned   int `json:"cleaned"`
	Skipped   int `json:"skipped"`
}
