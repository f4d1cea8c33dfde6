package siteclone

import "time"

// ResourceRole mirrors the browser's classification of a network
// exchange's purpose.
type ResourceRole string

// Resource roles as reported by CDP network events.
const (
	RoleDocument   ResourceRole = "document"
	RoleStylesheet ResourceRole = "stylesheet"
	RoleScript     ResourceRole = "script"
	RoleImage      ResourceRole = "image"
	RoleFont       ResourceRole = "font"
	RoleXHR        ResourceRole = "xhr"
	RoleFetch      ResourceRole = "fetch"
	RoleWebSocket  ResourceRole = "websocket"
	RoleOther      ResourceRole = "other"
)

// IsAPI reports whether the role represents an XHR/Fetch exchange that
// belongs in the API log rather than the asset tree.
func (r ResourceRole) IsAPI() bool {
	return r == RoleXHR || r == RoleFetch
}

// IsAsset reports whether the role is persisted as a static file.
func (r ResourceRole) IsAsset() bool {
	switch r {
	case RoleDocument, RoleStylesheet, RoleScript, RoleImage, RoleFont, RoleOther:
		return true
	}
	return false
}

// CapturedResponse is one observed network exchange during a session.
type CapturedResponse struct {
	URL    string
	Method string
	Role   ResourceRole
	Status int

	// Body holds raw bytes for asset roles.
	Body []byte

	// Text holds the decoded body for API roles. Decode failures are
	// swallowed upstream and arrive here as an empty string.
	Text string

	RequestHeaders  map[string]string
	RequestBody     string
	ResponseHeaders map[string]string

	// Timestamp is capture-relative. Monotonic arrival is not
	// guaranteed; responses may race.
	Timestamp time.Time
}

// AssetRecord is one remote→local mapping entry. The mapping table is
// session-scoped and discarded after the rewriter consumes it.
type AssetRecord struct {
	RemoteURL string       `json:"remoteUrl"`
	LocalPath string       `json:"localPath"`
	Role      ResourceRole `json:"role"`
	Size      int          `json:"size"`

	// FileType is the classified file type ("image", "css", ...), when
	// a classifier ran during persistence.
	FileType string `json:"fileType,omitempty"`
}

// APILogEntry is one XHR/Fetch exchange. Immutable once created.
type APILogEntry struct {
	Timestamp      time.Time         `json:"timestamp"`
	Method         string            `json:"method"`
	URL            string            `json:"url"`
	RequestHeaders map[string]string `json:"requestHeaders,omitempty"`
	RequestBody    string            `json:"requestBody,omitempty"`
	Status         int               `json:"status"`
	ResponseBody   string            `json:"responseBody"`
}

// WebSocketFrame is one captured WebSocket frame.
type WebSocketFrame struct {
	Direction    string    `json:"direction"` // "sent" or "received"
	Timestamp    time.Time `json:"timestamp"`
	ConnectionID string    `json:"connectionId"`
	Opcode       int       `json:"opcode"`
	Payload      string    `json:"payload"`
}
