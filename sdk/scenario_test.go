package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// supportStub is an in-memory stand-in for the support API, just enough to
// drive the customer/admin flow end to end through the SDK.
type supportStub struct {
	mu       sync.Mutex
	messages []*MessageInfo
	nextSeq  int64
	readSeq  map[string]int64 // role -> watermark
	order    *OrderInfo
}

func newSupportStub() *supportStub {
	return &supportStub{readSeq: map[string]int64{}}
}

func (s *supportStub) identity(r *http.Request) (userId, role string) {
	switch strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ") {
	case "token-budi":
		return "budi", "user"
	case "token-admin":
		return "adm1", "admin"
	}
	return "", ""
}

func writeEnvelope(w http.ResponseWriter, data interface{}) {
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code": 0, "msg": "success", "data": data,
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": code, "msg": msg})
}

func (s *supportStub) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/chat/messages", func(w http.ResponseWriter, r *http.Request) {
		userId, role := s.identity(r)
		var req SendMessageRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if strings.TrimSpace(req.Content) == "" && req.ProductId == nil {
			writeError(w, 3001, "message has no content")
			return
		}

		s.mu.Lock()
		s.nextSeq++
		msg := &MessageInfo{
			Id:             s.nextSeq,
			ConversationId: "cs_budi",
			Seq:            s.nextSeq,
			ClientMsgId:    req.ClientMsgId,
			SenderRole:     role,
			SenderId:       userId,
			Content:        req.Content,
			ProductId:      req.ProductId,
			SendAt:         1756500000000 + s.nextSeq,
		}
		s.messages = append(s.messages, msg)
		if msg.Seq > s.readSeq[role] {
			s.readSeq[role] = msg.Seq
		}
		s.mu.Unlock()

		writeEnvelope(w, msg)
	})

	newMessages := func(w http.ResponseWriter, r *http.Request) {
		afterSeq, _ := strconv.ParseInt(r.URL.Query().Get("after_seq"), 10, 64)
		s.mu.Lock()
		var newer []*MessageInfo
		for _, msg := range s.messages {
			if msg.Seq > afterSeq {
				newer = append(newer, msg)
			}
		}
		s.mu.Unlock()
		writeEnvelope(w, NewMessagesResponse{Messages: newer})
	}
	mux.HandleFunc("/chat/messages/new", newMessages)
	mux.HandleFunc("/chat/admin/conversations/cs_budi/messages/new", newMessages)

	markRead := func(role string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			s.mu.Lock()
			s.readSeq[role] = s.nextSeq
			s.mu.Unlock()
			writeEnvelope(w, nil)
		}
	}
	mux.HandleFunc("/chat/messages/read", markRead("user"))
	mux.HandleFunc("/chat/admin/conversations/cs_budi/read", markRead("admin"))

	mux.HandleFunc("/chat/unread", func(w http.ResponseWriter, r *http.Request) {
		_, role := s.identity(r)
		s.mu.Lock()
		unread := s.nextSeq - s.readSeq[role]
		s.mu.Unlock()
		if unread < 0 {
			unread = 0
		}
		writeEnvelope(w, UnreadResponse{UnreadCount: unread})
	})

	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var req CreateOrderRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			s.mu.Lock()
			s.order = &OrderInfo{Id: 1001, UserId: "budi", Status: "pending", Total: req.Total}
			order := *s.order
			s.mu.Unlock()
			writeEnvelope(w, order)
			return
		}
		s.mu.Lock()
		resp := OrderListResponse{Orders: []*OrderInfo{s.order}}
		s.mu.Unlock()
		writeEnvelope(w, resp)
	})

	mux.HandleFunc("/orders/admin/1001/status", func(w http.ResponseWriter, r *http.Request) {
		var req UpdateOrderStatusRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		s.mu.Lock()
		defer s.mu.Unlock()
		// Only the forward chain is allowed
		allowed := map[string]string{"pending": "processing", "processing": "shipped", "shipped": "completed"}
		if allowed[s.order.Status] != req.Status {
			writeError(w, 4002, "invalid status transition")
			return
		}
		if req.Status == "shipped" && req.Awb == "" {
			writeError(w, 4004, "awb is required")
			return
		}
		s.order.Status = req.Status
		if req.Awb != "" {
			s.order.Awb = req.Awb
		}
		writeEnvelope(w, *s.order)
	})

	return mux
}

// TestCustomerSupportScenario walks the whole flow the way the storefront
// uses it: a customer asks about stock in Indonesian, the admin answers,
// unread counts and watermarks move, and the order advances to shipped.
func TestCustomerSupportScenario(t *testing.T) {
	stub := newSupportStub()
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	ctx := context.Background()
	budi := MustNewClient(server.URL, WithToken("token-budi"))
	admin := MustNewClient(server.URL, WithToken("token-admin"))

	// Budi asks about a part
	msg, err := budi.SendTextMessage(ctx, "cmsg-1", "Halo, apakah knalpot Vance & Hines untuk Sportster masih ready?")
	if err != nil {
		t.Fatalf("customer send: %v", err)
	}
	if msg.Seq != 1 {
		t.Fatalf("expected seq 1, got %d", msg.Seq)
	}

	// The admin sees one unread message, replies, and the thread settles
	unread, err := admin.GetUnread(ctx, "cs_budi")
	if err != nil {
		t.Fatalf("admin unread: %v", err)
	}
	if unread != 1 {
		t.Fatalf("expected 1 unread for admin, got %d", unread)
	}

	newMsgs, err := admin.AdminNewMessages(ctx, "cs_budi", 0)
	if err != nil {
		t.Fatalf("admin pull: %v", err)
	}
	if len(newMsgs) != 1 || !strings.Contains(newMsgs[0].Content, "knalpot") {
		t.Fatalf("admin pull returned %v", newMsgs)
	}

	reply, err := admin.SendMessage(ctx, &SendMessageRequest{
		ConversationId: "cs_budi",
		ClientMsgId:    "cmsg-2",
		Content:        "Halo Pak Budi, stoknya masih ada. Silakan langsung checkout ya.",
	})
	if err != nil {
		t.Fatalf("admin send: %v", err)
	}
	if reply.Seq != 2 {
		t.Fatalf("expected seq 2, got %d", reply.Seq)
	}

	// Budi polls past his own message and receives only the reply
	fromBudi, err := budi.NewMessages(ctx, "", msg.Seq)
	if err != nil {
		t.Fatalf("customer pull: %v", err)
	}
	if len(fromBudi) != 1 || fromBudi[0].SenderRole != "admin" {
		t.Fatalf("customer pull returned %v", fromBudi)
	}

	if err := budi.MarkRead(ctx, ""); err != nil {
		t.Fatalf("customer mark read: %v", err)
	}
	unread, err = budi.GetUnread(ctx, "")
	if err != nil {
		t.Fatalf("customer unread: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected 0 unread after mark read, got %d", unread)
	}

	// Budi checks out; the admin works the order forward
	order, err := budi.CreateOrder(ctx, &CreateOrderRequest{Total: 4250000})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != "pending" {
		t.Fatalf("expected pending, got %s", order.Status)
	}

	// Skipping straight to shipped is refused
	if _, err := admin.UpdateOrderStatus(ctx, order.Id, &UpdateOrderStatusRequest{Status: "shipped", Awb: "JP123"}); err == nil {
		t.Fatal("expected transition error for pending -> shipped")
	}

	if _, err := admin.UpdateOrderStatus(ctx, order.Id, &UpdateOrderStatusRequest{Status: "processing"}); err != nil {
		t.Fatalf("pending -> processing: %v", err)
	}

	// Shipping without a waybill is refused
	if _, err := admin.UpdateOrderStatus(ctx, order.Id, &UpdateOrderStatusRequest{Status: "shipped"}); err == nil {
		t.Fatal("expected awb required error")
	}

	shipped, err := admin.UpdateOrderStatus(ctx, order.Id, &UpdateOrderStatusRequest{Status: "shipped", Awb: "JP1234567890"})
	if err != nil {
		t.Fatalf("processing -> shipped: %v", err)
	}
	if shipped.Awb != "JP1234567890" {
		t.Fatalf("awb not recorded: %+v", shipped)
	}

	// Moving a shipped order back is refused
	if _, err := admin.UpdateOrderStatus(ctx, order.Id, &UpdateOrderStatusRequest{Status: "pending"}); err == nil {
		t.Fatal("expected transition error for shipped -> pending")
	}
}
