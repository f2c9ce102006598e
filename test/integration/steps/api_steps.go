package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/budget-tracker/backend/internal/domain/entity"
	"github.com/budget-tracker/backend/internal/integration/adapters"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Step(`^today is "([^"]*)"$`, todayIs)
	ctx.Step(`^a user "([^"]*)" exists$`, aUserExists)
	ctx.Step(`^a user "([^"]*)" exists with email notifications disabled$`, aUserExistsWithNotificationsDisabled)
	ctx.Step(`^I am logged in as "([^"]*)"$`, iAmLoggedInAs)
	ctx.Step(`^I am not logged in$`, iAmNotLoggedIn)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I save the response field "([^"]*)" as "([^"]*)"$`, iSaveTheResponseFieldAs)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Step(`^the response field "([^"]*)" should not exist$`, theResponseFieldShouldNotExist)
	ctx.Step(`^the response list "([^"]*)" should have (\d+) items?$`, theResponseListShouldHaveItems)
}

func mustContext(ctx context.Context) (*TestContext, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return nil, fmt.Errorf("test context not found")
	}
	return tc, nil
}

func theAPIServerIsRunning(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

func todayIs(ctx context.Context, day string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	parsed, err := time.Parse(time.DateOnly, day)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", day, err)
	}
	tc.clock.SetCurrentTime(parsed.Add(12 * time.Hour))
	return nil
}

func aUserExists(ctx context.Context, email string) error {
	return createUser(ctx, email, true)
}

func aUserExistsWithNotificationsDisabled(ctx context.Context, email string) error {
	return createUser(ctx, email, false)
}

func createUser(ctx context.Context, email string, notifications bool) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	name := strings.Split(email, "@")[0]
	user := entity.NewUser(email, name, notifications)
	if err := tc.db.DbConn.Create(model.UserModelFromEntity(user)).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", email, err)
	}
	tc.users[email] = user
	return nil
}

func iAmLoggedInAs(ctx context.Context, email string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	user, ok := tc.users[email]
	if !ok {
		return fmt.Errorf("user %s was not created in this scenario", email)
	}
	token, err := adapters.NewTokenService(testJWTSecret).GenerateAccessToken(user.ID, user.Email, time.Hour)
	if err != nil {
		return err
	}
	tc.accessToken = token
	return nil
}

func iAmNotLoggedIn(ctx context.Context) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	tc.accessToken = ""
	return nil
}

func iSetHeaderTo(ctx context.Context, header, value string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	tc.requestHeaders[header] = value
	return nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	return tc.executeRequest(method, endpoint, nil)
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	return tc.executeRequest(method, endpoint, []byte(tc.replacePlaceholders(body.Content)))
}

// replacePlaceholders substitutes {{name}} with values saved earlier in the scenario.
func (tc *TestContext) replacePlaceholders(content string) string {
	for name, value := range tc.saved {
		content = strings.ReplaceAll(content, "{{"+name+"}}", value)
	}
	return content
}

func (tc *TestContext) executeRequest(method, endpoint string, payload []byte) error {
	url := tc.server.URL + tc.replacePlaceholders(endpoint)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

func iSaveTheResponseFieldAs(ctx context.Context, field, name string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	value, err := tc.responseField(field)
	if err != nil {
		return err
	}
	tc.saved[name] = fmt.Sprintf("%v", value)
	return nil
}

// responseField resolves a dot separated path such as "alert.alert_kind"
// or "budgets.0.name" in the last JSON response.
func (tc *TestContext) responseField(path string) (any, error) {
	var data any
	if err := json.Unmarshal(tc.responseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return lookupField(data, path)
}

func lookupField(data any, path string) (any, error) {
	current := data
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field '%s' not found", path)
			}
			current = value
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("index '%s' out of range in '%s'", part, path)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("field '%s' not found", path)
		}
	}
	return current, nil
}

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func theResponseShouldBeJSON(ctx context.Context) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	var js json.RawMessage
	if err := json.Unmarshal(tc.responseBody, &js); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

func theResponseShouldContain(ctx context.Context, expected string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(string(tc.responseBody), expected) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(tc.responseBody))
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	value, err := tc.responseField(field)
	if err != nil {
		return fmt.Errorf("%w. Body: %s", err, string(tc.responseBody))
	}
	if actual := fmt.Sprintf("%v", value); actual != expected {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	_, err = tc.responseField(field)
	return err
}

func theResponseFieldShouldNotExist(ctx context.Context, field string) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	if _, err := tc.responseField(field); err == nil {
		return fmt.Errorf("field '%s' should not be present. Body: %s", field, string(tc.responseBody))
	}
	return nil
}

func theResponseListShouldHaveItems(ctx context.Context, field string, count int) error {
	tc, err := mustContext(ctx)
	if err != nil {
		return err
	}
	value, err := tc.responseField(field)
	if err != nil {
		return err
	}
	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list", field)
	}
	if len(items) != count {
		return fmt.Errorf("expected %d items in '%s', got %d", count, field, len(items))
	}
	return nil
}
