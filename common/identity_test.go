package common

import "testing"

func TestActorRoundTrip(t *testing.T) {
	cases := []Actor{
		{Id: 42, Role: RoleCustomer},
		{Id: 7, Role: RoleAdmin},
		{Id: 0, Role: RoleCustomer},
	}

	for _, actor := range cases {
		userId, err := actor.ToChatUserId()
		if err != nil {
			t.Fatalf("ToChatUserId(%+v): %v", actor, err)
		}

		var parsed Actor
		if err := parsed.FromChatUserId(userId); err != nil {
			t.Fatalf("FromChatUserId(%q): %v", userId, err)
		}
		if parsed != actor {
			t.Errorf("round trip %+v -> %q -> %+v", actor, userId, parsed)
		}
	}
}

func TestToChatUserId_UnknownRole(t *testing.T) {
	actor := Actor{Id: 1, Role: "bot"}
	if _, err := actor.ToChatUserId(); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestFromChatUserId_Invalid(t *testing.T) {
	cases := []string{"", "cu__", "xx__42", "cu__abc", "42"}
	for _, userId := range cases {
		var actor Actor
		if err := actor.FromChatUserId(userId); err == nil {
			t.Errorf("FromChatUserId(%q): expected error", userId)
		}
	}
}
