package notification

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
	"github.com/budget-tracker/backend/internal/integration/adapters"
	"github.com/budget-tracker/backend/internal/integration/persistence"
	"github.com/budget-tracker/backend/internal/testutil"
)

func testEvent(userID uuid.UUID) *entity.AlertEvent {
	return &entity.AlertEvent{
		Kind:            valueobject.AlertEightyPercent,
		BudgetID:        uuid.New(),
		BudgetName:      "Groceries",
		Message:         valueobject.AlertEightyPercent.Message(),
		UserID:          userID,
		SpentPercentage: decimal.NewFromInt(85),
		OccurredAt:      time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC),
	}
}

type hubFixture struct {
	hub    *Hub
	tokens adapter.TokenService
	server *httptest.Server
}

func newHubFixture(t *testing.T) *hubFixture {
	t.Helper()

	tokens := adapters.NewTokenService("hub-secret")
	hub := NewHub(tokens, HubConfig{WriteTimeout: time.Second, PingInterval: time.Minute})
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(r.Context(), ws)
	}))
	t.Cleanup(server.Close)

	return &hubFixture{hub: hub, tokens: tokens, server: server}
}

func (f *hubFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	return ws
}

func (f *hubFixture) register(t *testing.T, ws *websocket.Conn, userID uuid.UUID) {
	t.Helper()

	token, err := f.tokens.GenerateAccessToken(userID, "ana@test.com", time.Hour)
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(InboundMessage{Event: EventRegister, Token: token}))

	var reply OutboundMessage
	require.NoError(t, ws.ReadJSON(&reply))
	require.Equal(t, EventRegistered, reply.Event)
}

type alertFrame struct {
	Event string            `json:"event"`
	Data  entity.AlertEvent `json:"data"`
}

func TestHub_DeliversToRegisteredStream(t *testing.T) {
	f := newHubFixture(t)
	userID := uuid.New()
	ws := f.dial(t)
	f.register(t, ws, userID)
	assert.Equal(t, 1, f.hub.Connections(userID))

	event := testEvent(userID)
	require.NoError(t, f.hub.Send(context.Background(), userID, event))

	var frame alertFrame
	require.NoError(t, ws.ReadJSON(&frame))
	assert.Equal(t, EventAlert, frame.Event)
	assert.Equal(t, valueobject.AlertEightyPercent, frame.Data.Kind)
	assert.Equal(t, event.BudgetID, frame.Data.BudgetID)
	assert.True(t, frame.Data.SpentPercentage.Equal(decimal.NewFromInt(85)))
}

func TestHub_NoStreamIsNoRecipient(t *testing.T) {
	f := newHubFixture(t)
	err := f.hub.Send(context.Background(), uuid.New(), testEvent(uuid.New()))
	assert.ErrorIs(t, err, domainerror.ErrNoRecipient)
}

func TestHub_OtherUsersDoNotReceive(t *testing.T) {
	f := newHubFixture(t)
	owner := uuid.New()
	ws := f.dial(t)
	f.register(t, ws, owner)

	err := f.hub.Send(context.Background(), uuid.New(), testEvent(owner))
	assert.ErrorIs(t, err, domainerror.ErrNoRecipient)
}

func TestHub_RejectsInvalidToken(t *testing.T) {
	f := newHubFixture(t)
	ws := f.dial(t)

	require.NoError(t, ws.WriteJSON(InboundMessage{Event: EventRegister, Token: "bogus"}))

	var reply struct {
		Event string       `json:"event"`
		Data  ErrorPayload `json:"data"`
	}
	require.NoError(t, ws.ReadJSON(&reply))
	assert.Equal(t, EventError, reply.Event)
	assert.Equal(t, string(domainerror.ErrCodeInvalidRegistration), reply.Data.Code)
}

func TestHub_UnbindsOnDisconnect(t *testing.T) {
	f := newHubFixture(t)
	userID := uuid.New()
	ws := f.dial(t)
	f.register(t, ws, userID)

	require.NoError(t, ws.Close())

	assert.Eventually(t, func() bool {
		return f.hub.Connections(userID) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

type recordingEmailService struct {
	mu     sync.Mutex
	inputs []adapter.QueueBudgetAlertInput
	err    error
}

func (s *recordingEmailService) QueueBudgetAlertEmail(_ context.Context, input adapter.QueueBudgetAlertInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.inputs = append(s.inputs, input)
	return nil
}

func TestEmailDispatcher(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := persistence.NewUserRepository(db)
	ctx := context.Background()

	optedIn := testutil.CreateTestUser(t, db)
	optedOut := entity.NewUser("quiet@test.com", "Quiet", false)
	require.NoError(t, users.Create(ctx, optedOut))

	t.Run("queues for opted-in user", func(t *testing.T) {
		emails := &recordingEmailService{}
		d := NewEmailDispatcher(users, emails)

		event := testEvent(optedIn.ID)
		require.NoError(t, d.Send(ctx, optedIn.ID, event))

		require.Len(t, emails.inputs, 1)
		got := emails.inputs[0]
		assert.Equal(t, optedIn.Email, got.UserEmail)
		assert.Equal(t, event.BudgetID, got.BudgetID)
		assert.Equal(t, "EIGHTY_PERCENT", got.AlertKind)
		assert.Equal(t, "85.00", got.SpentPercentage)
	})

	t.Run("opted-out user has no recipient", func(t *testing.T) {
		emails := &recordingEmailService{}
		err := NewEmailDispatcher(users, emails).Send(ctx, optedOut.ID, testEvent(optedOut.ID))
		assert.ErrorIs(t, err, domainerror.ErrNoRecipient)
		assert.Empty(t, emails.inputs)
	})

	t.Run("unknown user has no recipient", func(t *testing.T) {
		err := NewEmailDispatcher(users, &recordingEmailService{}).Send(ctx, uuid.New(), testEvent(uuid.New()))
		assert.ErrorIs(t, err, domainerror.ErrNoRecipient)
	})

	t.Run("queue failure is a delivery error", func(t *testing.T) {
		emails := &recordingEmailService{err: errors.New("queue down")}
		err := NewEmailDispatcher(users, emails).Send(ctx, optedIn.ID, testEvent(optedIn.ID))
		testutil.AssertDomainError(t, err, string(domainerror.ErrCodeDeliveryFailed), domainerror.KindInternal)
	})
}

func TestFallbackDispatcher(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	noRecipient := adapter.NotificationDispatcherFunc(func(context.Context, uuid.UUID, *entity.AlertEvent) error {
		return domainerror.ErrNoRecipient
	})
	broken := adapter.NotificationDispatcherFunc(func(context.Context, uuid.UUID, *entity.AlertEvent) error {
		return errors.New("smtp down")
	})

	t.Run("first channel wins", func(t *testing.T) {
		first := &testutil.RecordingDispatcher{}
		second := &testutil.RecordingDispatcher{}
		d := NewFallbackDispatcher(Channel{Name: "websocket", Dispatcher: first}, Channel{Name: "email", Dispatcher: second})

		require.NoError(t, d.Send(ctx, userID, testEvent(userID)))
		assert.Len(t, first.Sent(), 1)
		assert.Empty(t, second.Sent())
	})

	t.Run("falls back when first has no recipient", func(t *testing.T) {
		second := &testutil.RecordingDispatcher{}
		d := NewFallbackDispatcher(Channel{Name: "websocket", Dispatcher: noRecipient}, Channel{Name: "email", Dispatcher: second})

		require.NoError(t, d.Send(ctx, userID, testEvent(userID)))
		assert.Len(t, second.Sent(), 1)
	})

	t.Run("falls back when first fails", func(t *testing.T) {
		second := &testutil.RecordingDispatcher{}
		d := NewFallbackDispatcher(Channel{Name: "websocket", Dispatcher: broken}, Channel{Name: "email", Dispatcher: second})

		require.NoError(t, d.Send(ctx, userID, testEvent(userID)))
		assert.Len(t, second.Sent(), 1)
	})

	t.Run("all channels failing is no recipient", func(t *testing.T) {
		d := NewFallbackDispatcher(Channel{Name: "websocket", Dispatcher: noRecipient}, Channel{Name: "email", Dispatcher: broken})

		err := d.Send(ctx, userID, testEvent(userID))
		assert.ErrorIs(t, err, domainerror.ErrNoRecipient)
		testutil.AssertDomainError(t, err, string(domainerror.ErrCodeNoRecipient), domainerror.KindNotFound)
	})
}
