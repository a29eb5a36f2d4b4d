package model

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/dkoval/chatik/internal/bus"
	"github.com/dkoval/chatik/internal/config"
	"github.com/dkoval/chatik/internal/remote"
	"github.com/dkoval/chatik/internal/session"
	"github.com/dkoval/chatik/internal/store"
	"github.com/dkoval/chatik/internal/stub"
)

func testViewModel(t *testing.T) (*ViewModel, *stub.Server, *session.Manager) {
	t.Helper()
	srv := stub.New(zap.NewNop())
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		AuthURL:     ts.URL + "/auth",
		MessagesURL: ts.URL + "/messages",
		SearchURL:   ts.URL + "/search",
	}
	client := remote.New(cfg, zap.NewNop())

	db, err := store.Open(filepath.Join(t.TempDir(), "chatik.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	sessions := session.NewManager(db, bus.New(), zap.NewNop())
	return NewViewModel(client, sessions), srv, sessions
}

func login(t *testing.T, sessions *session.Manager, id int64, username string) {
	t.Helper()
	err := sessions.Save(&remote.Identity{ID: id, Username: username, DisplayName: username, FirstName: username})
	if err != nil {
		t.Fatalf("save session: %v", err)
	}
}

func TestOpenChatCreatesConversation(t *testing.T) {
	vm, srv, sessions := testViewModel(t)
	alice := srv.SeedUser("alice", "pw", stub.SeedOptions{})
	bob := srv.SeedUser("bob", "pw", stub.SeedOptions{DisplayName: "Bob"})
	login(t, sessions, alice, "alice")

	ctx := context.Background()
	// Opening from a contact starts with the placeholder chat id.
	err := vm.OpenChat(ctx, remote.Conversation{OtherUserID: bob, Username: "bob", DisplayName: "Bob"})
	if err != nil {
		t.Fatalf("OpenChat: %v", err)
	}
	active := vm.GetActiveChat()
	if active == nil || active.ChatID <= 0 {
		t.Fatalf("active chat = %+v", active)
	}

	// Opening again resolves to the same conversation.
	first := active.ChatID
	if err := vm.OpenChat(ctx, remote.Conversation{OtherUserID: bob}); err != nil {
		t.Fatalf("OpenChat again: %v", err)
	}
	if got := vm.GetActiveChat().ChatID; got != first {
		t.Errorf("chat id changed across opens: %d vs %d", got, first)
	}
}

func TestSendRefetchesThread(t *testing.T) {
	vm, srv, sessions := testViewModel(t)
	alice := srv.SeedUser("alice", "pw", stub.SeedOptions{})
	bob := srv.SeedUser("bob", "pw", stub.SeedOptions{})
	login(t, sessions, alice, "alice")

	ctx := context.Background()
	if err := vm.OpenChat(ctx, remote.Conversation{OtherUserID: bob}); err != nil {
		t.Fatalf("OpenChat: %v", err)
	}
	if err := vm.Send(ctx, "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	// The sent message shows up without an explicit reload.
	msgs := vm.GetMessages()
	if len(msgs) != 1 || msgs[0].Content != "hello" || msgs[0].SenderID != alice {
		t.Fatalf("messages = %+v", msgs)
	}
}

func TestNotifyTypingThrottled(t *testing.T) {
	vm, srv, sessions := testViewModel(t)
	alice := srv.SeedUser("alice", "pw", stub.SeedOptions{})
	bob := srv.SeedUser("bob", "pw", stub.SeedOptions{})
	login(t, sessions, alice, "alice")

	ctx := context.Background()
	if err := vm.OpenChat(ctx, remote.Conversation{OtherUserID: bob}); err != nil {
		t.Fatalf("OpenChat: %v", err)
	}

	// Rapid keystrokes collapse into a single set_typing call; the
	// peer still sees the flag the whole time.
	if err := vm.NotifyTyping(ctx); err != nil {
		t.Fatalf("NotifyTyping: %v", err)
	}
	first := vm.lastTypingAt
	for i := 0; i < 5; i++ {
		if err := vm.NotifyTyping(ctx); err != nil {
			t.Fatalf("NotifyTyping: %v", err)
		}
	}
	if vm.lastTypingAt != first {
		t.Error("throttle should swallow rapid keystrokes")
	}

	chatID := vm.GetActiveChat().ChatID
	typing, err := vm.client.Chat.IsTyping(ctx, chatID, bob)
	if err != nil {
		t.Fatalf("IsTyping: %v", err)
	}
	if !typing {
		t.Error("peer should see the typing flag")
	}
}

func TestCloseChatDropsState(t *testing.T) {
	vm, srv, sessions := testViewModel(t)
	alice := srv.SeedUser("alice", "pw", stub.SeedOptions{})
	bob := srv.SeedUser("bob", "pw", stub.SeedOptions{})
	login(t, sessions, alice, "alice")

	ctx := context.Background()
	if err := vm.OpenChat(ctx, remote.Conversation{OtherUserID: bob}); err != nil {
		t.Fatalf("OpenChat: %v", err)
	}
	if err := vm.Send(ctx, "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	vm.CloseChat()
	if vm.GetActiveChat() != nil || vm.GetMessages() != nil || vm.GetPeerTyping() {
		t.Error("CloseChat left state behind")
	}
	// Loads with no active chat are no-ops, not errors.
	if err := vm.LoadMessages(ctx); err != nil {
		t.Errorf("LoadMessages after close: %v", err)
	}
	if err := vm.Send(ctx, "late"); err == nil {
		t.Error("Send after close should fail")
	}
}

func TestHideStatusConcurrentAccess(t *testing.T) {
	vm, _, _ := testViewModel(t)

	vm.SetHideStatus(true)
	if !vm.HideStatus() {
		t.Fatal("SetHideStatus(true) not visible")
	}
	if got := vm.ToggleHideStatus(); got {
		t.Errorf("toggle returned %v, want false", got)
	}

	// Flips and reads race against each other under -race when the
	// flag is not guarded.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				vm.ToggleHideStatus()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				vm.HideStatus()
			}
		}()
	}
	wg.Wait()

	// 4 goroutines x 100 toggles from false lands back on false.
	if vm.HideStatus() {
		t.Error("even toggle count should end false")
	}
}
