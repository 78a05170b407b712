package state

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	contractx "github.com/bluelane/frontdesk/agent/contract"
)

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	cmds [][]any
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization header = %q", got)
		}
		var cmd []any
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			t.Errorf("decode command: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		f.cmds = append(f.cmds, cmd)

		switch cmd[0] {
		case "GET":
			key := cmd[1].(string)
			if v, ok := f.data[key]; ok {
				_ = json.NewEncoder(w).Encode(map[string]any{"result": v})
				return
			}
			_, _ = w.Write([]byte(`{"result":null}`))
		case "SET":
			f.data[cmd[1].(string)] = cmd[2].(string)
			_, _ = w.Write([]byte(`{"result":"OK"}`))
		case "DEL":
			delete(f.data, cmd[1].(string))
			_, _ = w.Write([]byte(`{"result":1}`))
		default:
			t.Errorf("unexpected command %v", cmd)
		}
	}
}

func newTestStore(t *testing.T, opts ...StoreOption) (*UpstashRedisStore, *fakeRedis) {
	t.Helper()
	redis := newFakeRedis()
	srv := httptest.NewServer(redis.handler(t))
	t.Cleanup(srv.Close)

	store, err := NewUpstashRedisStore(UpstashRedisConfig{
		URL:   srv.URL,
		Token: "test-token",
	}, opts...)
	if err != nil {
		t.Fatalf("NewUpstashRedisStore: %v", err)
	}
	return store, redis
}

func TestUpstashStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, redis := newTestStore(t)
	ctx := context.Background()

	sess := NewSessionContext("sess-1", time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC))
	sess.Dialogue.Intent = contractx.IntentBookSpa
	sess.Dialogue.Slots = map[string]string{"date": "2026-09-05", "time": "14:30"}
	sess.Task = ActiveTask{
		Intent: contractx.IntentBookSpa,
		Slots:  map[string]string{"date": "2026-09-05"},
		Status: TaskFilling,
	}
	sess.Profile = contractx.UserProfile{Name: "Mario", Surname: "Rossi"}

	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	redis.mu.Lock()
	if _, ok := redis.data["frontdesk:session:sess-1"]; !ok {
		t.Fatalf("expected default key prefix, stored keys: %v", redis.data)
	}
	redis.mu.Unlock()

	loaded, err := store.Load(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Dialogue.Intent != contractx.IntentBookSpa {
		t.Fatalf("loaded intent = %s", loaded.Dialogue.Intent)
	}
	if loaded.Task.Status != TaskFilling {
		t.Fatalf("loaded task status = %s", loaded.Task.Status)
	}
	if loaded.Profile.Name != "Mario" || loaded.Profile.Surname != "Rossi" {
		t.Fatalf("loaded profile = %+v", loaded.Profile)
	}
	if loaded.Dialogue.Slots["time"] != "14:30" {
		t.Fatalf("loaded slots = %v", loaded.Dialogue.Slots)
	}
}

func TestUpstashStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	if _, err := store.Load(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestUpstashStoreDelete(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	sess := NewSessionContext("gone", time.Now())
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(ctx, "gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err after delete = %v", err)
	}
}

func TestUpstashStoreTTLAndPrefixOptions(t *testing.T) {
	t.Parallel()

	store, redis := newTestStore(t, WithKeyPrefix("other:"), WithTTL(90*time.Second))
	if err := store.Save(context.Background(), NewSessionContext("s", time.Now())); err != nil {
		t.Fatalf("Save: %v", err)
	}

	redis.mu.Lock()
	defer redis.mu.Unlock()
	if _, ok := redis.data["other:s"]; !ok {
		t.Fatalf("custom prefix not applied, keys: %v", redis.data)
	}
	last := redis.cmds[len(redis.cmds)-1]
	if len(last) != 5 || last[3] != "EX" {
		t.Fatalf("SET command missing TTL args: %v", last)
	}
	if secs, ok := last[4].(float64); !ok || secs != 90 {
		t.Fatalf("TTL seconds = %v, want 90", last[4])
	}
}

func TestUpstashStoreRejectsEmptySessionID(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Load(ctx, ""); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Load err = %v", err)
	}
	if err := store.Save(ctx, &SessionContext{}); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Save err = %v", err)
	}
	if err := store.Save(ctx, nil); !errors.Is(err, ErrNilSession) {
		t.Fatalf("Save nil err = %v", err)
	}
}

func TestUpstashStoreSurfacesRedisError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"WRONGPASS invalid token"}`))
	}))
	t.Cleanup(srv.Close)

	store, err := NewUpstashRedisStore(UpstashRedisConfig{URL: srv.URL, Token: "bad"})
	if err != nil {
		t.Fatalf("NewUpstashRedisStore: %v", err)
	}
	if _, err := store.Load(context.Background(), "x"); err == nil {
		t.Fatal("expected redis error to surface")
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	sess := NewSessionContext("m1", time.Now())
	sess.Dialogue.Slots = map[string]string{"facility_type": "spa"}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(ctx, "m1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded.Dialogue.Slots["facility_type"] = "gym"

	again, err := store.Load(ctx, "m1")
	if err != nil {
		t.Fatalf("Load again: %v", err)
	}
	if again.Dialogue.Slots["facility_type"] != "spa" {
		t.Fatal("stored session aliased a loaded copy")
	}
}
