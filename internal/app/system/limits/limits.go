// internal/app/system/limits/limits.go
package limits

// Request body size limits. These limits help prevent memory exhaustion
// from oversized requests.
const (
	// MaxJSONBodySize is the maximum size for API JSON request bodies.
	MaxJSONBodySize = 1 << 20 // 1 MB

	// MaxCommentBodySize is the maximum length of a comment body in bytes.
	// Longer bodies are rejected as validation errors before any write.
	MaxCommentBodySize = 16 << 10 // 16 KB

	// MaxPostContentSize is the maximum length of a post's content in bytes.
	MaxPostContentSize = 64 << 10 // 64 KB
)
