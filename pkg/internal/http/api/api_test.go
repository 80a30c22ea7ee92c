package api

import (
	"bytes"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/export"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/models"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/realtime"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/services"
	"git.solsynth.dev/hypernet/quickpoll/pkg/internal/storage"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

const hostSession = "host-browser"

type testEnv struct {
	app *fiber.App
	ctl *Controller
	hub *realtime.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := services.DefaultConfig()
	cfg.DetectLanguage = false
	polls := services.NewPollService(storage.NewMemoryRepository(), cfg, nil)
	hub := realtime.NewHub()
	ctl := NewController(polls, hub, export.NewWorkbook())
	ctl.pingInterval = 0

	app := fiber.New(fiber.Config{ErrorHandler: exts.ErrorHandler})
	ctl.MapControllers(app, "/api")

	return &testEnv{app: app, ctl: ctl, hub: hub}
}

func (e *testEnv) do(t *testing.T, method, path, session string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := jsoniter.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if len(session) > 0 {
		req.Header.Set(exts.SessionHeader, session)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	if err := jsoniter.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return out
}

func (e *testEnv) createPoll(t *testing.T) models.Poll {
	t.Helper()
	status, body := e.do(t, fiber.MethodPost, "/api/polls", hostSession, map[string]any{
		"title": "Friday demo",
		"questions": []map[string]any{
			{"text": "Pick a snack", "type": "single_choice", "options": []string{"Chips", "Fruit"}},
			{"text": "Rate the demo", "type": "rating"},
		},
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d: %s", status, body)
	}
	return decode[models.Poll](t, body)
}

func (e *testEnv) setStatus(t *testing.T, id, status string) (int, []byte) {
	t.Helper()
	return e.do(t, fiber.MethodPatch, "/api/polls/"+id+"/status", hostSession, map[string]any{"status": status})
}

func answersFor(poll models.Poll) map[string]any {
	return map[string]any{
		"participant_name": "Ana",
		"answers": []map[string]any{
			{"question_id": poll.Questions[0].ID, "answer": "Fruit"},
			{"question_id": poll.Questions[1].ID, "answer": 4},
		},
	}
}

func TestCreateAndFetchPoll(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)

	if poll.Status != models.PollStatusReady || len(poll.Code) != 6 {
		t.Errorf("created poll = %+v", poll)
	}

	status, body := env.do(t, fiber.MethodGet, "/api/polls/code/"+poll.Code, "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("by code status = %d: %s", status, body)
	}
	public := decode[map[string]any](t, body)
	if public["id"] != poll.ID {
		t.Errorf("by code id = %v", public["id"])
	}
	if _, ok := public["created_at"]; ok {
		t.Error("participant view exposes host fields")
	}

	status, body = env.do(t, fiber.MethodGet, "/api/polls/"+poll.ID, "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("by id status = %d", status)
	}
	if got := decode[models.Poll](t, body); len(got.Questions) != 2 || got.Questions[1].Order != 1 {
		t.Errorf("questions = %+v", got.Questions)
	}

	status, body = env.do(t, fiber.MethodGet, "/api/polls", hostSession, nil)
	if status != fiber.StatusOK || len(decode[[]models.Poll](t, body)) != 1 {
		t.Errorf("list own polls = %d: %s", status, body)
	}
}

func TestCreatePoll_Validation(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, fiber.MethodPost, "/api/polls", hostSession, map[string]any{
		"title":     "Nothing to ask",
		"questions": []any{},
	})
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if payload := decode[exts.ErrorPayload](t, body); payload.Error != "validation_error" {
		t.Errorf("payload = %+v", payload)
	}

	status, _ = env.do(t, fiber.MethodPost, "/api/polls", hostSession, map[string]any{
		"title":     "Bad choice",
		"questions": []map[string]any{{"text": "Pick", "type": "single_choice"}},
	})
	if status != fiber.StatusBadRequest {
		t.Errorf("choice without options status = %d", status)
	}
}

func TestStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)

	if status, body := env.setStatus(t, poll.ID, "finished"); status != fiber.StatusConflict {
		t.Fatalf("ready -> finished status = %d: %s", status, body)
	}
	if status, _ := env.do(t, fiber.MethodPatch, "/api/polls/"+poll.ID+"/status", "stranger", map[string]any{"status": "active"}); status != fiber.StatusForbidden {
		t.Errorf("stranger status = %d, want 403", status)
	}
	if status, body := env.setStatus(t, poll.ID, "active"); status != fiber.StatusOK {
		t.Fatalf("start status = %d: %s", status, body)
	}
	if status, _ := env.setStatus(t, poll.ID, "finished"); status != fiber.StatusOK {
		t.Fatalf("finish status = %d", status)
	}

	status, body := env.setStatus(t, poll.ID, "active")
	if status != fiber.StatusConflict {
		t.Fatalf("finished -> active status = %d", status)
	}
	payload := decode[exts.ErrorPayload](t, body)
	if payload.Error != "invalid_transition" || payload.Detail["current"] != "finished" || payload.Detail["attempted"] != "active" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestSubmitResponse(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)

	status, body := env.do(t, fiber.MethodPost, "/api/polls/"+poll.ID+"/responses", "guest", answersFor(poll))
	if status != fiber.StatusLocked {
		t.Fatalf("submit to ready poll = %d: %s", status, body)
	}

	env.setStatus(t, poll.ID, "active")
	status, body = env.do(t, fiber.MethodPost, "/api/polls/"+poll.ID+"/responses", "guest", answersFor(poll))
	if status != fiber.StatusCreated {
		t.Fatalf("submit status = %d: %s", status, body)
	}
	resp := decode[models.Response](t, body)
	if answer, ok := resp.Answer(poll.Questions[1].ID); !ok || answer.Value.Number != 4 {
		t.Errorf("stored answers = %+v", resp.Answers)
	}

	if status, _ := env.do(t, fiber.MethodPost, "/api/polls/"+poll.ID+"/responses", "guest", answersFor(poll)); status != fiber.StatusConflict {
		t.Errorf("second submit from same session = %d, want 409", status)
	}

	bad := answersFor(poll)
	bad["answers"] = []map[string]any{
		{"question_id": poll.Questions[0].ID, "answer": "Fruit"},
		{"question_id": poll.Questions[1].ID, "answer": "five"},
	}
	if status, _ := env.do(t, fiber.MethodPost, "/api/polls/"+poll.ID+"/responses", "other", bad); status != fiber.StatusBadRequest {
		t.Errorf("wrong answer shape = %d, want 400", status)
	}

	env.setStatus(t, poll.ID, "finished")
	status, body = env.do(t, fiber.MethodPost, "/api/polls/"+poll.ID+"/responses", "late", answersFor(poll))
	if status != fiber.StatusLocked {
		t.Fatalf("submit to finished poll = %d", status)
	}
	if payload := decode[exts.ErrorPayload](t, body); payload.Message != "poll is closed" {
		t.Errorf("closed message = %q", payload.Message)
	}

	status, body = env.do(t, fiber.MethodGet, "/api/polls/"+poll.ID+"/results", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("results status = %d", status)
	}
	results := decode[models.PollResults](t, body)
	fruit, _ := results.Questions[0].Option("Fruit")
	if results.TotalResponses != 1 || fruit.Count != 1 || fruit.Percentage != 100 {
		t.Errorf("results = %+v", results)
	}
	if avg := results.Questions[1].Average; avg == nil || *avg != 4 {
		t.Errorf("average = %v", avg)
	}

	status, body = env.do(t, fiber.MethodGet, "/api/polls/"+poll.ID+"/responses", hostSession, nil)
	if status != fiber.StatusOK || len(decode[[]models.Response](t, body)) != 1 {
		t.Errorf("responses = %d: %s", status, body)
	}
}

func TestSubmitResponse_UnknownPoll(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.do(t, fiber.MethodPost, "/api/polls/missing/responses", "", map[string]any{"answers": []any{}})
	if status != fiber.StatusNotFound {
		t.Fatalf("status = %d: %s", status, body)
	}
}

func TestDeletePoll(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)
	watcher := newRecorder("watcher")
	env.hub.Join(watcher, poll.ID, realtime.RoleHost)

	if status, _ := env.do(t, fiber.MethodDelete, "/api/polls/"+poll.ID, "stranger", nil); status != fiber.StatusForbidden {
		t.Errorf("stranger delete = %d", status)
	}
	if status, _ := env.do(t, fiber.MethodDelete, "/api/polls/"+poll.ID, hostSession, nil); status != fiber.StatusNoContent {
		t.Fatalf("delete = %d", status)
	}
	if status, _ := env.do(t, fiber.MethodDelete, "/api/polls/"+poll.ID, hostSession, nil); status != fiber.StatusNoContent {
		t.Errorf("second delete = %d, want 204", status)
	}
	if status, _ := env.do(t, fiber.MethodGet, "/api/polls/"+poll.ID, "", nil); status != fiber.StatusNotFound {
		t.Errorf("get after delete = %d", status)
	}
	if watcher.count(realtime.EventPollDeleted) != 1 {
		t.Errorf("poll_deleted events = %d", watcher.count(realtime.EventPollDeleted))
	}
}

func TestQuestionEditing(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)
	base := "/api/polls/" + poll.ID + "/questions"

	status, body := env.do(t, fiber.MethodPost, base, hostSession, map[string]any{"text": "Anything else?", "type": "text", "required": false})
	if status != fiber.StatusCreated {
		t.Fatalf("add = %d: %s", status, body)
	}
	updated := decode[models.Poll](t, body)
	if len(updated.Questions) != 3 || updated.Questions[2].Required {
		t.Errorf("questions = %+v", updated.Questions)
	}

	status, body = env.do(t, fiber.MethodDelete, base+"/"+poll.Questions[0].ID, hostSession, nil)
	if status != fiber.StatusOK {
		t.Fatalf("delete question = %d: %s", status, body)
	}
	if updated = decode[models.Poll](t, body); updated.Questions[0].Order != 0 || updated.Questions[1].Order != 1 {
		t.Errorf("orders after delete = %+v", updated.Questions)
	}

	env.setStatus(t, poll.ID, "active")
	status, body = env.do(t, fiber.MethodPut, base+"/"+updated.Questions[0].ID, hostSession, map[string]any{"text": "Changed", "type": "text"})
	if status != fiber.StatusConflict {
		t.Fatalf("edit active poll = %d", status)
	}
	if payload := decode[exts.ErrorPayload](t, body); payload.Error != "questions_locked" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestExportResults(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)
	env.setStatus(t, poll.ID, "active")
	env.do(t, fiber.MethodPost, "/api/polls/"+poll.ID+"/responses", "guest", answersFor(poll))

	req := httptest.NewRequest(fiber.MethodGet, "/api/polls/"+poll.ID+"/export", nil)
	req.Header.Set(exts.SessionHeader, hostSession)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != export.NewWorkbook().ContentType() {
		t.Errorf("content type = %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if len(data) < 4 || string(data[:2]) != "PK" {
		t.Errorf("export is not a zip container")
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	env.createPoll(t)

	status, body := env.do(t, fiber.MethodGet, "/api/health", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("health = %d", status)
	}
	payload := decode[map[string]any](t, body)
	if payload["status"] != "healthy" || payload["storage"] != "memory" || payload["polls_count"] != float64(1) {
		t.Errorf("health = %v", payload)
	}
}

// recorder is a realtime.Conn that keeps what it was sent.
type recorder struct {
	id     string
	mutex  sync.Mutex
	events []realtime.Event
}

func newRecorder(id string) *recorder { return &recorder{id: id} }

func (r *recorder) ID() string { return r.id }
func (r *recorder) Close()     {}

func (r *recorder) Send(event realtime.Event) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) count(kind realtime.EventType) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var n int
	for _, e := range r.events {
		if e.Type == kind {
			n++
		}
	}
	return n
}

func TestBroadcastsFollowMutations(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)
	first, second := newRecorder("first"), newRecorder("second")
	env.hub.Join(first, poll.ID, realtime.RoleParticipant)
	env.hub.Join(second, poll.ID, realtime.RoleParticipant)

	env.setStatus(t, poll.ID, "finished")
	if first.count(realtime.EventStatusChanged) != 0 {
		t.Error("rejected transition was broadcast")
	}

	env.setStatus(t, poll.ID, "active")
	if status, _ := env.do(t, fiber.MethodPost, "/api/polls/"+poll.ID+"/responses", "third", answersFor(poll)); status != fiber.StatusCreated {
		t.Fatalf("submit = %d", status)
	}

	for _, conn := range []*recorder{first, second} {
		if n := conn.count(realtime.EventResponseSubmitted); n != 1 {
			t.Errorf("%s got %d response_submitted, want 1", conn.id, n)
		}
		if n := conn.count(realtime.EventStatusChanged); n != 1 {
			t.Errorf("%s got %d status_changed, want 1", conn.id, n)
		}
	}

	first.mutex.Lock()
	defer first.mutex.Unlock()
	for _, e := range first.events {
		if e.Type == realtime.EventStatusChanged && (e.OldStatus != "ready" || e.NewStatus != "active") {
			t.Errorf("status_changed payload = %+v", e)
		}
	}
}

// fakeSocket feeds inbound frames from a channel and records outbound ones.
type fakeSocket struct {
	inbound chan []byte
	mutex   sync.Mutex
	frames  []realtime.Event
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{inbound: make(chan []byte, 8)}
}

func (s *fakeSocket) ReadMessage() (int, []byte, error) {
	data, ok := <-s.inbound
	if !ok {
		return 0, nil, errors.New("closed")
	}
	return 1, data, nil
}

func (s *fakeSocket) WriteMessage(messageType int, data []byte) error {
	if messageType != 1 {
		return nil
	}
	var event realtime.Event
	if err := jsoniter.Unmarshal(data, &event); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.frames = append(s.frames, event)
	return nil
}

func (s *fakeSocket) SetWriteDeadline(time.Time) error { return nil }

func (s *fakeSocket) waitFor(t *testing.T, kind realtime.EventType) realtime.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mutex.Lock()
		for _, e := range s.frames {
			if e.Type == kind {
				s.mutex.Unlock()
				return e
			}
		}
		s.mutex.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no %s frame received", kind)
	return realtime.Event{}
}

func TestWebsocketSession(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)
	env.setStatus(t, poll.ID, "active")

	socket := newFakeSocket()
	done := make(chan struct{})
	go func() {
		env.ctl.serveSocket(socket, "", "")
		close(done)
	}()

	socket.inbound <- []byte(`{"type":"join_poll","pollId":"` + poll.Code + `","role":"participant"}`)
	joined := socket.waitFor(t, realtime.EventJoined)
	if joined.PollID != poll.ID || joined.Participants == nil || *joined.Participants != 1 {
		t.Errorf("joined = %+v", joined)
	}

	socket.inbound <- []byte(`{"type":"ping"}`)
	socket.waitFor(t, realtime.EventPong)

	socket.inbound <- []byte(`{"type":"join_poll","pollId":"nope"}`)
	if e := socket.waitFor(t, realtime.EventError); e.Message != "poll not found" {
		t.Errorf("error frame = %+v", e)
	}

	env.do(t, fiber.MethodPost, "/api/polls/"+poll.ID+"/responses", "guest", answersFor(poll))
	if e := socket.waitFor(t, realtime.EventResponseSubmitted); *e.TotalResponses != 1 {
		t.Errorf("response_submitted = %+v", e)
	}

	close(socket.inbound)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("socket handler did not return")
	}
	if n := env.hub.Registry().Len(); n != 0 {
		t.Errorf("registry holds %d connections after disconnect", n)
	}
}

func TestWebsocketRoleEndpointJoinsOnConnect(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)

	socket := newFakeSocket()
	done := make(chan struct{})
	go func() {
		env.ctl.serveSocket(socket, poll.ID, realtime.RoleHost)
		close(done)
	}()

	joined := socket.waitFor(t, realtime.EventJoined)
	if joined.Role != realtime.RoleHost {
		t.Errorf("joined = %+v", joined)
	}

	env.setStatus(t, poll.ID, "active")
	if e := socket.waitFor(t, realtime.EventStatusChanged); e.NewStatus != models.PollStatusActive {
		t.Errorf("status_changed = %+v", e)
	}

	close(socket.inbound)
	<-done
}

// brokenSocket accepts reads but fails every write, like a half-open peer.
type brokenSocket struct {
	*fakeSocket
	mutex    sync.Mutex
	failures int
}

func (s *brokenSocket) WriteMessage(int, []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.failures++
	return errors.New("broken pipe")
}

func TestWebsocketFailedWriteLeavesRegistry(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)
	host := newRecorder("host")
	env.hub.Join(host, poll.ID, realtime.RoleHost)

	socket := &brokenSocket{fakeSocket: newFakeSocket()}
	done := make(chan struct{})
	go func() {
		env.ctl.serveSocket(socket, poll.ID, realtime.RoleParticipant)
		close(done)
	}()

	// The read loop stays blocked; only the failed write tells us the peer is gone
	failures := func() int {
		socket.mutex.Lock()
		defer socket.mutex.Unlock()
		return socket.failures
	}
	deadline := time.Now().Add(2 * time.Second)
	for failures() == 0 || host.count(realtime.EventParticipantLeft) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("dead connection still registered: failures=%d len=%d participants=%d",
				failures(), env.hub.Registry().Len(), env.hub.Registry().ParticipantCount(poll.ID))
		}
		time.Sleep(5 * time.Millisecond)
	}
	if env.hub.Registry().Len() != 1 || env.hub.Registry().ParticipantCount(poll.ID) != 0 {
		t.Errorf("registry len=%d participants=%d, want only the host",
			env.hub.Registry().Len(), env.hub.Registry().ParticipantCount(poll.ID))
	}
	if host.count(realtime.EventParticipantJoined) != 1 || host.count(realtime.EventParticipantLeft) != 1 {
		t.Errorf("host was not told the participant left")
	}

	close(socket.inbound)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("socket handler did not return")
	}
}

func TestUpdatePollDetails(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)
	path := "/api/polls/" + poll.ID

	status, body := env.do(t, fiber.MethodPut, path, hostSession, map[string]any{
		"title":       "  Friday demo, take two ",
		"description": "Snacks and ratings",
	})
	if status != fiber.StatusOK {
		t.Fatalf("update = %d: %s", status, body)
	}
	updated := decode[models.Poll](t, body)
	if updated.Title != "Friday demo, take two" || updated.Description == nil || *updated.Description != "Snacks and ratings" {
		t.Errorf("updated = %+v", updated)
	}
	if len(updated.Questions) != 2 || updated.Code != poll.Code {
		t.Errorf("update touched questions or code: %+v", updated)
	}

	if status, _ := env.do(t, fiber.MethodPut, path, "stranger", map[string]any{"title": "mine"}); status != fiber.StatusForbidden {
		t.Errorf("stranger update = %d, want 403", status)
	}
	if status, _ := env.do(t, fiber.MethodPut, path, hostSession, map[string]any{"title": ""}); status != fiber.StatusBadRequest {
		t.Errorf("empty title = %d, want 400", status)
	}
	if status, _ := env.do(t, fiber.MethodPut, "/api/polls/missing", hostSession, map[string]any{"title": "x"}); status != fiber.StatusNotFound {
		t.Errorf("unknown poll = %d, want 404", status)
	}

	env.setStatus(t, poll.ID, "active")
	status, body = env.do(t, fiber.MethodPut, path, hostSession, map[string]any{"title": "Too late"})
	if status != fiber.StatusConflict || decode[exts.ErrorPayload](t, body).Error != "poll_locked" {
		t.Errorf("update active poll = %d: %s", status, body)
	}
}

func TestGetSingleResponse(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t)
	env.setStatus(t, poll.ID, "active")

	status, body := env.do(t, fiber.MethodPost, "/api/polls/"+poll.ID+"/responses", "guest", answersFor(poll))
	if status != fiber.StatusCreated {
		t.Fatalf("submit = %d: %s", status, body)
	}
	submitted := decode[models.Response](t, body)
	path := "/api/polls/" + poll.ID + "/responses/" + submitted.ID

	status, body = env.do(t, fiber.MethodGet, path, hostSession, nil)
	if status != fiber.StatusOK {
		t.Fatalf("get response = %d: %s", status, body)
	}
	got := decode[models.Response](t, body)
	if got.ID != submitted.ID || got.ParticipantName == nil || *got.ParticipantName != "Ana" || len(got.Answers) != 2 {
		t.Errorf("response = %+v", got)
	}

	if status, _ := env.do(t, fiber.MethodGet, path, "guest", nil); status != fiber.StatusForbidden {
		t.Errorf("non-owner get = %d, want 403", status)
	}
	if status, _ := env.do(t, fiber.MethodGet, "/api/polls/"+poll.ID+"/responses/missing", hostSession, nil); status != fiber.StatusNotFound {
		t.Errorf("unknown response = %d, want 404", status)
	}
	other := env.createPoll(t)
	if status, _ := env.do(t, fiber.MethodGet, "/api/polls/"+other.ID+"/responses/"+submitted.ID, hostSession, nil); status != fiber.StatusNotFound {
		t.Errorf("response fetched through another poll = %d, want 404", status)
	}
}
