package rod

import (
	"encoding/base64"
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/ysmood/gson"
)

func TestPendingTable(t *testing.T) {
	t.Parallel()

	t.Run("CorrelatesRequestToResponse", func(t *testing.T) {
		t.Parallel()

		table := newPendingTable()
		table.put(&proto.NetworkRequestWillBeSent{
			RequestID: "req-1",
			Request: &proto.NetworkRequest{
				Method:  "POST",
				Headers: proto.NetworkHeaders{"Content-Type": gson.New("application/json")},
			},
		})

		info := table.get("req-1")
		assert.Equal(t, "POST", info.method)
		assert.Equal(t, "application/json", info.headers["Content-Type"])
	})

	t.Run("UnknownIDReturnsZeroValue", func(t *testing.T) {
		t.Parallel()

		table := newPendingTable()
		info := table.get("missing")
		assert.Empty(t, info.method)
		assert.Nil(t, info.headers)
	})

	t.Run("RedirectOverwritesEntry", func(t *testing.T) {
		t.Parallel()

		table := newPendingTable()
		table.put(&proto.NetworkRequestWillBeSent{
			RequestID: "req-1",
			Request:   &proto.NetworkRequest{Method: "GET"},
		})
		table.put(&proto.NetworkRequestWillBeSent{
			RequestID: "req-1",
			Request:   &proto.NetworkRequest{Method: "POST"},
		})

		assert.Equal(t, "POST", table.get("req-1").method)
	})

	t.Run("NilRequestIgnored", func(t *testing.T) {
		t.Parallel()

		table := newPendingTable()
		table.put(&proto.NetworkRequestWillBeSent{RequestID: "req-1"})
		assert.Empty(t, table.get("req-1").method)
	})
}

func TestDecodePostData(t *testing.T) {
	t.Parallel()

	t.Run("DecodesBase64Entries", func(t *testing.T) {
		t.Parallel()

		req := &proto.NetworkRequest{
			HasPostData: true,
			PostDataEntries: []*proto.NetworkPostDataEntry{
				{Bytes: []byte(base64.StdEncoding.EncodeToString([]byte(`{"name":`)))},
				{Bytes: []byte(base64.StdEncoding.EncodeToString([]byte(`"test"}`)))},
			},
		}

		assert.Equal(t, `{"name":"test"}`, decodePostData(req))
	})

	t.Run("KeepsUndecodableEntriesVerbatim", func(t *testing.T) {
		t.Parallel()

		req := &proto.NetworkRequest{
			HasPostData: true,
			PostDataEntries: []*proto.NetworkPostDataEntry{
				{Bytes: []byte("not-valid-base64!!")},
			},
		}

		assert.Equal(t, "not-valid-base64!!", decodePostData(req))
	})

	t.Run("NoPostDataReturnsEmpty", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, decodePostData(&proto.NetworkRequest{}))
		assert.Empty(t, decodePostData(&proto.NetworkRequest{HasPostData: true}))
	})
}
