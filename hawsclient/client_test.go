package hawsclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"
)

type fakeServer struct {
	t        *testing.T
	password string
	states   string
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.t.Errorf("Upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{
		"type":       "auth_required",
		"ha_version": "2024.1.0",
	}); err != nil {
		f.t.Errorf("WriteJSON failed: %v", err)
		return
	}

	var auth authMessage
	if err := conn.ReadJSON(&auth); err != nil {
		f.t.Errorf("ReadJSON failed: %v", err)
		return
	}

	if auth.AccessToken != f.password {
		conn.WriteJSON(map[string]any{
			"type":    "auth_invalid",
			"message": "Invalid access token or password",
		})
		return
	}

	if err := conn.WriteJSON(map[string]any{"type": "auth_ok"}); err != nil {
		f.t.Errorf("WriteJSON failed: %v", err)
		return
	}

	for {
		var cmd commandMessage
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}

		if cmd.Type != "get_states" {
			f.t.Errorf("Unexpected command type %q", cmd.Type)
			return
		}

		reply := `{"id":` + strconv.FormatInt(cmd.ID, 10) + `,"type":"result","success":true,"result":` + f.states + `}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			f.t.Errorf("WriteMessage failed: %v", err)
			return
		}
	}
}

func newFakeServer(t *testing.T, password, states string) string {
	t.Helper()

	srv := httptest.NewServer(&fakeServer{t: t, password: password, states: states})
	t.Cleanup(srv.Close)

	return strings.TrimPrefix(srv.URL, "http://")
}

func TestDialAndStates(t *testing.T) {
	address := newFakeServer(t, "token123", `[
		{"entity_id": "sensor.eto_daily", "state": "4.2"},
		{"entity_id": "sensor.rain_daily", "state": "1.5"},
		{"entity_id": "sensor.broken", "state": "unavailable"}
	]`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := Dial(ctx, address,
		WithAccessToken("token123"),
		WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	states, err := client.States(ctx)
	if err != nil {
		t.Fatalf("States failed: %v", err)
	}

	if len(states) != 3 {
		t.Fatalf("States returned %d entries, want 3", len(states))
	}

	eto, err := states.Find("sensor.eto_daily")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	value, err := eto.Float()
	if err != nil {
		t.Errorf("Float failed: %v", err)
	}

	if diff := cmp.Diff(4.2, value); diff != "" {
		t.Errorf("Value diff (-want +got):\n%s", diff)
	}

	broken, err := states.Find("sensor.broken")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	if _, err := broken.Float(); !errors.Is(err, ErrStateUnavailable) {
		t.Errorf("Float on unavailable state returned %v, want ErrStateUnavailable", err)
	}

	if _, err := states.Find("sensor.missing"); !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("Find on missing entity returned %v, want ErrEntityNotFound", err)
	}
}

func TestDialAuthInvalid(t *testing.T) {
	address := newFakeServer(t, "correct", `[]`)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Dial(ctx, address, WithAccessToken("wrong"))
	if !errors.Is(err, ErrAuthInvalid) {
		t.Errorf("Dial with wrong token returned %v, want ErrAuthInvalid", err)
	}
}

func TestStateFloat(t *testing.T) {
	for _, tc := range []struct {
		name    string
		state   State
		want    float64
		wantErr error
	}{
		{
			name:  "numeric",
			state: State{EntityID: "sensor.a", State: "12.75"},
			want:  12.75,
		},
		{
			name:  "negative",
			state: State{EntityID: "sensor.a", State: "-3"},
			want:  -3,
		},
		{
			name:    "unknown",
			state:   State{EntityID: "sensor.a", State: "unknown"},
			wantErr: ErrStateUnavailable,
		},
		{
			name:    "unavailable",
			state:   State{EntityID: "sensor.a", State: "unavailable"},
			wantErr: ErrStateUnavailable,
		},
		{
			name:    "empty",
			state:   State{EntityID: "sensor.a"},
			wantErr: ErrStateUnavailable,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.state.Float()

			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("Float returned error %v, want %v", err, tc.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("Float failed: %v", err)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Value diff (-want +got):\n%s", diff)
			}
		})
	}

	nonNumeric := State{EntityID: "sensor.a", State: "on"}
	if _, err := nonNumeric.Float(); err == nil {
		t.Error("Float on non-numeric state succeeded, want error")
	}
}
