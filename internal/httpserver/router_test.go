package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifedrop/internal/auth"
	"lifedrop/internal/handler"
	"lifedrop/internal/model"
	"lifedrop/internal/repository"
	"lifedrop/internal/service/chat"
	"lifedrop/internal/service/lifedrop"
	"lifedrop/internal/service/notify"
	"lifedrop/internal/storage"
	"lifedrop/pkg/eventloop"
)

const adminKey = "lifedrop-admin"

type testServer struct {
	engine *gin.Engine
	hub    *handler.Hub
	loop   *eventloop.Loop
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	loop := eventloop.New(logger, 16)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(cancel)

	gw := storage.NewGateway(storage.NewMemoryKV(), logger)
	notes := notify.NewLog(loop, gw, notify.Options{Key: "lifedrop_notifications"}, logger)
	hub := handler.NewHub(logger)
	notes.AddSink(hub)
	t.Cleanup(hub.Close)

	svc := lifedrop.NewService(
		repository.NewDonorStore(gw, "lifedrop_donors", logger),
		repository.NewReceiverStore(gw, "lifedrop_receivers", logger),
		notes,
		chat.NewSimulator(loop, 20*time.Millisecond, logger),
		lifedrop.Options{SeedDemoDonors: true},
		logger,
	)
	require.NoError(t, loop.Do(ctx, func() { svc.Start(ctx) }))

	gate, err := auth.NewAdminGate(adminKey, "router-test-secret", time.Hour, logger)
	require.NoError(t, err)

	h := Handlers{
		Donors:        handler.NewDonorHandler(loop, svc, logger),
		Requests:      handler.NewRequestHandler(loop, svc, logger),
		Notifications: handler.NewNotificationHandler(loop, svc, hub, logger),
		Actions:       handler.NewActionHandler(loop, svc, gate, logger),
		Chat:          handler.NewChatHandler(loop, svc, logger),
		Support:       handler.NewSupportHandler(svc, logger),
		Admin:         handler.NewAdminHandler(loop, svc, gate, logger),
	}
	return &testServer{
		engine: NewRouter(h, gate, gw.Ping, logger),
		hub:    hub,
		loop:   loop,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) unlock(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/admin/unlock", gin.H{"key": adminKey}, "")
	require.Equal(t, http.StatusOK, w.Code)
	return decode[struct {
		Token string `json:"token"`
	}](t, w).Token
}

func (s *testServer) donors(t *testing.T) []model.Donor {
	t.Helper()
	w := s.do(t, http.MethodGet, "/donors", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	return decode[struct {
		Donors []model.Donor `json:"donors"`
	}](t, w).Donors
}

func TestHealthAndTrace(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w = s.do(t, http.MethodGet, "/readyz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/requests", gin.H{"name": "Asha", "blood": "B+"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	bad := decode[gin.H](t, w)
	assert.Equal(t, "Please fill required fields.", bad["error"])

	w = s.do(t, http.MethodPost, "/requests", lifedrop.RequestInput{
		Name: "Asha", Phone: "9000000000", Blood: "O-", Urgency: "critical", Hospital: "City Hospital",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[struct {
		Request model.Receiver `json:"request"`
		Matches []model.Donor  `json:"matches"`
	}](t, w)
	require.Len(t, created.Matches, 1)
	assert.Equal(t, "Mohit Kumar", created.Matches[0].Name)

	w = s.do(t, http.MethodGet, "/notifications", nil, "")
	feed := decode[struct {
		Notifications []model.Notification `json:"notifications"`
	}](t, w).Notifications
	require.Len(t, feed, 2)
	assert.Equal(t, "New request", feed[0].Title)
	assert.Equal(t, "Critical request", feed[1].Title)

	w = s.do(t, http.MethodGet, "/requests/latest/matches", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mohit Kumar")

	w = s.do(t, http.MethodGet, "/matches?blood=AB%2B", nil, "")
	assert.Len(t, decode[struct {
		Matches []model.Donor `json:"matches"`
	}](t, w).Matches, 5)

	w = s.do(t, http.MethodPost, "/emergency", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	em := decode[lifedrop.EmergencyResult](t, w)
	assert.Len(t, em.Notified, 1)

	w = s.do(t, http.MethodGet, "/chat", nil, "")
	assert.Contains(t, w.Body.String(), "Emergency: Asha needs O- at City Hospital. Urgency: critical")

	w = s.do(t, http.MethodGet, "/stats", nil, "")
	assert.Equal(t, model.Stats{Donors: 5, Receivers: 1, MostRequested: model.ONeg}, decode[model.Stats](t, w))
}

func TestRegisterDonor(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/donors", lifedrop.DonorInput{Name: "Neha", Phone: "1", Blood: "A-", Center: "x"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/donors", lifedrop.DonorInput{Name: "Neha", Email: "n@example.com", Phone: "1", Blood: "A-", Center: "x"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Neha", s.donors(t)[0].Name)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodDelete, "/donors", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/admin/unlock", gin.H{"key": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.unlock(t)
	victim := s.donors(t)[0]

	w = s.do(t, http.MethodDelete, "/donors/"+victim.ID, nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/donors/"+victim.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/export/donors", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="lifedrop_donors.json"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "[\n  {"))

	w = s.do(t, http.MethodGet, "/export/secrets", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/dashboard", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Donor removed: A donor entry was deleted from storage.")

	w = s.do(t, http.MethodDelete, "/requests", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/donors", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.donors(t))
}

func TestActions(t *testing.T) {
	s := newTestServer(t)
	karan := s.donors(t)[2]
	require.Equal(t, "Karan Singh", karan.Name)

	w := s.do(t, http.MethodPost, "/actions/copy_phone/"+karan.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Phone 9988776655 copied to clipboard")

	w = s.do(t, http.MethodPost, "/actions/contact/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/actions/explode/"+karan.ID, nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/actions/delete_donor/"+karan.ID, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/actions/delete_donor/"+karan.ID, nil, s.unlock(t))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, s.donors(t), 4)
}

func TestChat(t *testing.T) {
	s := newTestServer(t)
	mohit := s.donors(t)[4]

	w := s.do(t, http.MethodPost, "/chat/"+mohit.ID+"/messages", gin.H{"text": "hello"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/actions/contact/"+mohit.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/chat/"+mohit.ID+"/messages", gin.H{"text": "  "}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/chat/"+mohit.ID+"/messages", gin.H{"text": "today?"}, "")
	assert.Equal(t, http.StatusAccepted, w.Code)

	assert.Eventually(t, func() bool {
		w := s.do(t, http.MethodGet, "/chat", nil, "")
		return strings.Contains(w.Body.String(), "Received. I can help. Call me: 8877665544")
	}, 2*time.Second, 10*time.Millisecond)

	w = s.do(t, http.MethodDelete, "/chat", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"open":false}`, s.do(t, http.MethodGet, "/chat", nil, "").Body.String())
}

func TestSupport(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/support", lifedrop.ContactInput{Name: "A", Email: "a@example.com", Message: "hi"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Thanks — we will reply soon.", decode[gin.H](t, w)["message"])

	w = s.do(t, http.MethodPost, "/support", lifedrop.ContactInput{Name: "A"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please complete all fields.", decode[gin.H](t, w)["error"])
}

func TestNotificationStream(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.engine)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return s.hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	w := s.do(t, http.MethodPost, "/notifications/simulate", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var n model.Notification
	require.NoError(t, conn.ReadJSON(&n))
	assert.Equal(t, "Simulated", n.Title)
	assert.Equal(t, "This is a simulated real-time notification", n.Text)
}

func TestCancelledRequestChangesNothing(t *testing.T) {
	s := newTestServer(t)

	release := make(chan struct{})
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }
	t.Cleanup(unblock)
	require.True(t, s.loop.Post(func() { <-release }))

	body, err := json.Marshal(lifedrop.DonorInput{Name: "Neha", Email: "n@example.com", Phone: "1", Blood: "A-", Center: "x"})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/donors", bytes.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	served := make(chan struct{})
	go func() {
		s.engine.ServeHTTP(w, req)
		close(served)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-served
	assert.Equal(t, http.StatusRequestTimeout, w.Code)

	// the engine recycles its contexts while the loop is still blocked
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/healthz", nil, "").Code)

	unblock()
	donors := s.donors(t)
	assert.Len(t, donors, 5)
	for _, d := range donors {
		assert.NotEqual(t, "Neha", d.Name)
	}
}
