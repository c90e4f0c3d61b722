// internal/app/system/limits/limits.go
package limits

// Request body size limits. These prevent memory exhaustion from
// oversized requests; webapi.Decode enforces MaxJSONBody on every
// JSON endpoint.
const (
	// MaxJSONBody is the maximum size for a JSON request body. Forum
	// posts are the largest payloads and stay well under this.
	MaxJSONBody = 1 << 20 // 1 MB
)
