package steps

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/gorilla/websocket"

	"github.com/budget-tracker/backend/internal/integration/notification"
)

const streamReadTimeout = 2 * time.Second

// registerAlertSteps registers alert stream and email delivery steps.
func registerAlertSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^I connect to the alert stream$`, iConnectToTheAlertStream)
	ctx.Step(`^I register on the alert stream with token "([^"]*)"$`, iRegisterOnTheAlertStreamWithToken)
	ctx.Step(`^I register on the alert stream$`, iRegisterOnTheAlertStream)
	ctx.Step(`^the alert stream should send a "([^"]*)" event$`, theAlertStreamShouldSendEvent)
	ctx.Step(`^the alert stream should send a "([^"]*)" alert for "([^"]*)"$`, theAlertStreamShouldSendAlert)
	ctx.Step(`^the email worker processes the queue$`, theEmailWorkerProcessesTheQueue)
	ctx.Step(`^the email API should have received (\d+) requests?$`, theEmailAPIShouldHaveReceivedRequests)
	ctx.Step(`^the email API request (\d+) field "([^"]*)" should contain "([^"]*)"$`, theEmailAPIRequestFieldShouldContain)
}

func iConnectToTheAlertStream(ctx context.Context) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	url := "ws" + strings.TrimPrefix(tc.server.URL, "http") + "/api/v1/alerts/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to open alert stream: %w", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		return fmt.Errorf("expected protocol switch, got %d", resp.StatusCode)
	}
	tc.stream = ws
	return nil
}

func iRegisterOnTheAlertStream(ctx context.Context) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	if err := registerStream(tc, tc.accessToken); err != nil {
		return err
	}
	return theAlertStreamShouldSendEvent(ctx, notification.EventRegistered)
}

func iRegisterOnTheAlertStreamWithToken(ctx context.Context, token string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	return registerStream(tc, token)
}

func registerStream(tc *TestContext, token string) error {
	if tc.stream == nil {
		return fmt.Errorf("alert stream is not connected")
	}
	return tc.stream.WriteJSON(notification.InboundMessage{
		Event: notification.EventRegister,
		Token: token,
	})
}

func (tc *TestContext) readStream() (map[string]any, error) {
	if tc.stream == nil {
		return nil, fmt.Errorf("alert stream is not connected")
	}
	if err := tc.stream.SetReadDeadline(time.Now().Add(streamReadTimeout)); err != nil {
		return nil, err
	}
	var frame map[string]any
	if err := tc.stream.ReadJSON(&frame); err != nil {
		return nil, fmt.Errorf("failed to read alert stream: %w", err)
	}
	return frame, nil
}

func theAlertStreamShouldSendEvent(ctx context.Context, event string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	frame, err := tc.readStream()
	if err != nil {
		return err
	}
	if frame["event"] != event {
		return fmt.Errorf("expected %q event, got %v", event, frame)
	}
	return nil
}

func theAlertStreamShouldSendAlert(ctx context.Context, kind, budgetName string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	frame, err := tc.readStream()
	if err != nil {
		return err
	}
	if frame["event"] != notification.EventAlert {
		return fmt.Errorf("expected alert event, got %v", frame)
	}
	if got, _ := lookupField(frame, "data.alert_kind"); got != kind {
		return fmt.Errorf("expected alert kind %s, got %v", kind, got)
	}
	if got, _ := lookupField(frame, "data.budget_name"); got != budgetName {
		return fmt.Errorf("expected budget %s, got %v", budgetName, got)
	}
	return nil
}

func theEmailWorkerProcessesTheQueue(ctx context.Context) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	if tc.injector.EmailWorker == nil {
		return fmt.Errorf("email worker is not wired")
	}
	tc.injector.EmailWorker.ProcessNow(ctx)
	return nil
}

func theEmailAPIShouldHaveReceivedRequests(ctx context.Context, count int) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	if got := tc.emailAPI.RequestCount(http.MethodPost, "/emails"); got != count {
		return fmt.Errorf("expected %d email requests, got %d", count, got)
	}
	return nil
}

func theEmailAPIRequestFieldShouldContain(ctx context.Context, index int, field, expected string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	body := tc.emailAPI.GetRequestBody(http.MethodPost, "/emails", index-1)
	if body == nil {
		return fmt.Errorf("email request %d was not received", index)
	}
	value, err := lookupField(body, field)
	if err != nil {
		return err
	}
	if actual := fmt.Sprintf("%v", value); !strings.Contains(actual, expected) {
		return fmt.Errorf("email request %d field '%s' expected to contain '%s', got '%s'", index, field, expected, actual)
	}
	return nil
}
