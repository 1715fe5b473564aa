package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// fakeThread serves /chat/messages/new from an in-memory message log
type fakeThread struct {
	messages []*MessageInfo
}

func (f *fakeThread) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		afterSeq, _ := strconv.ParseInt(r.URL.Query().Get("after_seq"), 10, 64)

		var newer []*MessageInfo
		for _, msg := range f.messages {
			if msg.Seq > afterSeq {
				newer = append(newer, msg)
			}
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 0,
			"msg":  "success",
			"data": NewMessagesResponse{Messages: newer},
		})
	}
}

func newTestMessage(seq int64, content string) *MessageInfo {
	return &MessageInfo{
		Id:             seq,
		ConversationId: "cs_u1",
		Seq:            seq,
		SenderRole:     "admin",
		SenderId:       "a1",
		Content:        content,
		SendAt:         1756500000000 + seq,
	}
}

func TestPoller_AdvancesWatermark(t *testing.T) {
	thread := &fakeThread{}
	server := httptest.NewServer(thread.handler())
	defer server.Close()

	client := MustNewClient(server.URL, WithToken("t"))

	var received []int64
	poller := NewPoller(client, "", func(msg *MessageInfo) {
		received = append(received, msg.Seq)
	})

	ctx := context.Background()

	thread.messages = append(thread.messages,
		newTestMessage(1, "Halo, ada yang bisa dibantu?"),
		newTestMessage(2, "Stok knalpot masih ada"),
	)
	poller.poll(ctx)

	thread.messages = append(thread.messages, newTestMessage(3, "Silakan checkout"))
	poller.poll(ctx)

	if len(received) != 3 {
		t.Fatalf("expected 3 deliveries, got %d: %v", len(received), received)
	}
	for i, seq := range []int64{1, 2, 3} {
		if received[i] != seq {
			t.Errorf("delivery %d: expected seq %d, got %d", i, seq, received[i])
		}
	}
	if poller.AfterSeq() != 3 {
		t.Errorf("expected watermark 3, got %d", poller.AfterSeq())
	}
}

func TestPoller_DedupsRelayDeliveries(t *testing.T) {
	thread := &fakeThread{}
	server := httptest.NewServer(thread.handler())
	defer server.Close()

	client := MustNewClient(server.URL, WithToken("t"))

	var received []int64
	poller := NewPoller(client, "cs_u1", func(msg *MessageInfo) {
		received = append(received, msg.Seq)
	})

	// seq 1 and 2 arrive over the relay first
	poller.Observe(newTestMessage(1, "halo"))
	poller.Observe(newTestMessage(2, "siap"))

	// the poll sees the same messages plus a newer one
	thread.messages = append(thread.messages,
		newTestMessage(1, "halo"),
		newTestMessage(2, "siap"),
		newTestMessage(3, "terima kasih"),
	)
	poller.poll(context.Background())

	if len(received) != 1 || received[0] != 3 {
		t.Fatalf("expected only seq 3, got %v", received)
	}
}

func TestPoller_RetriesAfterServerError(t *testing.T) {
	failing := true
	thread := &fakeThread{messages: []*MessageInfo{newTestMessage(1, "halo")}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": 1000, "msg": "internal server error"})
			return
		}
		thread.handler()(w, r)
	}))
	defer server.Close()

	client := MustNewClient(server.URL, WithToken("t"))

	var received []int64
	poller := NewPoller(client, "", func(msg *MessageInfo) {
		received = append(received, msg.Seq)
	})

	ctx := context.Background()
	poller.poll(ctx)
	if len(received) != 0 {
		t.Fatalf("expected no deliveries during outage, got %v", received)
	}
	if poller.AfterSeq() != 0 {
		t.Fatalf("watermark moved during outage: %d", poller.AfterSeq())
	}

	failing = false
	poller.poll(ctx)
	if len(received) != 1 || received[0] != 1 {
		t.Fatalf("expected seq 1 after recovery, got %v", received)
	}
}
