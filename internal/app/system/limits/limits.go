// internal/app/system/limits/limits.go
package limits

// Request body size limits for the JSON write endpoints.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxProfileBodySize bounds PUT /users/{identityID}. Bios are short;
	// images are URLs, never inline data.
	MaxProfileBodySize = 64 << 10 // 64 KB

	// MaxThreadBodySize bounds thread and comment submissions.
	MaxThreadBodySize = 256 << 10 // 256 KB
)
