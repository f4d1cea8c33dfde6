package rod

import (
	"encoding/base64"
	"sync"

	"github.com/go-rod/rod/lib/proto"
)

// requestInfo is the request-side context correlated to a response by
// CDP request ID.
type requestInfo struct {
	method   string
	headers  map[string]string
	postData string
}

// pendingTable correlates request events to later response events.
// Redirect chains reuse a request ID, so entries are overwritten by the
// newest request and kept for the lifetime of the navigation.
type pendingTable struct {
	mu      sync.RWMutex
	pending map[proto.NetworkRequestID]requestInfo
}

func newPendingTable() *pendingTable {
	return &pendingTable{
		pending: make(map[proto.NetworkRequestID]requestInfo),
	}
}

func (t *pendingTable) put(e *proto.NetworkRequestWillBeSent) {
	if e.Request == nil {
		return
	}
	info := requestInfo{
		method:   e.Request.Method,
		headers:  headersToMap(e.Request.Headers),
		postData: decodePostData(e.Request),
	}
	t.mu.Lock()
	t.pending[e.RequestID] = info
	t.mu.Unlock()
}

func (t *pendingTable) get(id proto.NetworkRequestID) requestInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pending[id]
}

// decodePostData reassembles the request body from base64 post data
// entries; entries that fail to decode are kept verbatim.
func decodePostData(req *proto.NetworkRequest) string {
	if !req.HasPostData || len(req.PostDataEntries) == 0 {
		return ""
	}
	var parts []byte
	for _, entry := range req.PostDataEntries {
		if len(entry.Bytes) == 0 {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(string(entry.Bytes))
		if err != nil {
			parts = append(parts, entry.Bytes...)
			continue
		}
		parts = append(parts, decoded...)
	}
	return string(parts)
}
