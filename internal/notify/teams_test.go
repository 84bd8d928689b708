package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestTeamsSender_Send_Success(t *testing.T) {
	var received teamsCard
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("カードの解析に失敗: %v", err)
		}
		w.Write([]byte("1"))
	}))
	defer server.Close()

	sender := NewTeamsSender(server.URL, server.Client(), zap.NewNop())
	if err := sender.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send は成功するはず: %v", err)
	}

	if received.Type != "MessageCard" {
		t.Errorf("期待 @type=MessageCard、実際=%s", received.Type)
	}
	if received.ThemeColor != "2EB886" {
		t.Errorf("期待 themeColor=2EB886（good）、実際=%s", received.ThemeColor)
	}
	if len(received.Sections) != 1 || len(received.Sections[0].Facts) != 4 {
		t.Fatalf("facts は 4 件のはず、実際=%+v", received.Sections)
	}
	if received.Sections[0].Facts[0].Name != "案件名" || received.Sections[0].Facts[0].Value != "新社屋空調設備工事" {
		t.Errorf("期待と異なる先頭 fact: %+v", received.Sections[0].Facts[0])
	}
	if len(received.PotentialAction) != 1 || received.PotentialAction[0].Type != "OpenUri" {
		t.Errorf("OpenUri アクションが含まれるはず、実際=%+v", received.PotentialAction)
	}
}

func TestTeamsSender_Send_UnknownColorFallsBack(t *testing.T) {
	var received teamsCard
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
	}))
	defer server.Close()

	msg := testMessage()
	msg.Color = "purple"

	sender := NewTeamsSender(server.URL, server.Client(), zap.NewNop())
	if err := sender.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send は成功するはず: %v", err)
	}
	if received.ThemeColor != "2EB886" {
		t.Errorf("未知の色は good にフォールバックするはず、実際=%s", received.ThemeColor)
	}
}

func TestTeamsSender_Send_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("throttled"))
	}))
	defer server.Close()

	sender := NewTeamsSender(server.URL, server.Client(), zap.NewNop())
	err := sender.Send(context.Background(), testMessage())

	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("期待 *TransportError、実際: %v", err)
	}
	if tErr.Transport != "teams" || tErr.Status != http.StatusTooManyRequests {
		t.Errorf("期待 teams/429、実際=%s/%d", tErr.Transport, tErr.Status)
	}
}
