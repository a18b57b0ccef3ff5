package gateway

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/attune-dev/attune/internal/engine"
)

func TestReplyChunks(t *testing.T) {
	t.Parallel()

	reply := engine.ChatReply{
		Content:         "First thought.\n\nSecond thought.\n\nThird thought.",
		EmotionAnalysis: &engine.EmotionAnalysis{PrimaryEmotion: "sad"},
	}

	got := replyChunks(reply)
	if len(got) != 3 {
		t.Fatalf("chunks = %d, want 3", len(got))
	}
	if got[0].Content != "First thought." || got[0].Done {
		t.Errorf("chunk 0 = %+v", got[0])
	}
	if got[1].EmotionAnalysis != nil {
		t.Error("analysis attached before the final chunk")
	}
	if !got[2].Done || got[2].EmotionAnalysis == nil {
		t.Errorf("final chunk = %+v", got[2])
	}
}

func TestReplyChunks_SingleParagraph(t *testing.T) {
	t.Parallel()

	got := replyChunks(engine.ChatReply{Content: "One line only."})
	if len(got) != 1 || !got[0].Done || got[0].Content != "One line only." {
		t.Errorf("chunks = %+v", got)
	}
}

func TestChatSocket_RoundTrip(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{chatReply: engine.ChatReply{Content: "Hello.\n\nHow have you been sleeping?"}}
	gw, _ := newTestGateway(t, Config{}, eng)

	srv := httptest.NewServer(gw.buildRouter())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+srv.URL[len("http"):]+"/ws/chat", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.CloseNow()

	if err := wsjson.Write(ctx, conn, ChatRequest{SessionID: "s1", Message: "hi"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var first, second wsChunk
	if err := wsjson.Read(ctx, conn, &first); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := wsjson.Read(ctx, conn, &second); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if first.Content != "Hello." || first.Done {
		t.Errorf("first = %+v", first)
	}
	if second.Content != "How have you been sleeping?" || !second.Done {
		t.Errorf("second = %+v", second)
	}
}

func TestChatSocket_ValidationError(t *testing.T) {
	t.Parallel()

	gw, _ := newTestGateway(t, Config{}, &fakeEngine{})
	srv := httptest.NewServer(gw.buildRouter())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+srv.URL[len("http"):]+"/ws/chat", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.CloseNow()

	if err := wsjson.Write(ctx, conn, ChatRequest{Message: "no session"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var got wsError
	if err := wsjson.Read(ctx, conn, &got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Error == "" {
		t.Error("expected an error frame")
	}
}
