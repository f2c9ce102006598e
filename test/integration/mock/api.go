package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// ApiMock is an HTTP server standing in for a third-party API. It records
// every request and answers with the configured status and body.
type ApiMock struct {
	mu                 sync.Mutex
	server             *httptest.Server
	requestsReceived   map[string][]map[string]any
	headersReceived    map[string][]map[string]string
	responseMap        map[string]map[int]any
	responseStatus     map[string]map[int]int
	defaultResponseMap map[string]any
	defaultStatus      map[string]int
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		requestsReceived:   map[string][]map[string]any{},
		headersReceived:    map[string][]map[string]string{},
		responseMap:        map[string]map[int]any{},
		responseStatus:     map[string]map[int]int{},
		defaultResponseMap: map[string]any{},
		defaultStatus:      map[string]int{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path

	body, _ := io.ReadAll(r.Body)
	var request map[string]any
	_ = json.Unmarshal(body, &request)
	if request == nil {
		request = map[string]any{}
	}

	headers := map[string]string{}
	for name, values := range r.Header {
		headers[name] = values[0]
	}

	a.mu.Lock()
	index := len(a.requestsReceived[key])
	a.requestsReceived[key] = append(a.requestsReceived[key], request)
	a.headersReceived[key] = append(a.headersReceived[key], headers)
	status, response := a.responseFor(key, index)
	a.mu.Unlock()

	raw, _ := json.Marshal(response)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

// responseFor must be called with the lock held.
func (a *ApiMock) responseFor(key string, index int) (int, any) {
	status := http.StatusOK
	if s, ok := a.defaultStatus[key]; ok {
		status = s
	}
	if s, ok := a.responseStatus[key][index]; ok {
		status = s
	}

	var response any = map[string]any{}
	if r, ok := a.defaultResponseMap[key]; ok {
		response = r
	}
	if r, ok := a.responseMap[key][index]; ok {
		response = r
	}
	return status, response
}

// SetResponse configures the answer to the index-th call; -1 sets the default.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		a.defaultStatus[key] = status
		a.defaultResponseMap[key] = response
		return
	}
	if a.responseMap[key] == nil {
		a.responseMap[key] = map[int]any{}
		a.responseStatus[key] = map[int]int{}
	}
	a.responseMap[key][index] = response
	a.responseStatus[key][index] = status
}

func (a *ApiMock) RequestCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requestsReceived[method+path])
}

func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	requests := a.requestsReceived[method+path]
	if index < 0 || index >= len(requests) {
		return nil
	}
	return requests[index]
}

func (a *ApiMock) GetRequestHeaders(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	headers := a.headersReceived[method+path]
	if index < 0 || index >= len(headers) {
		return nil
	}
	return headers[index]
}

// ClearResponses forgets every recorded request and configured response.
func (a *ApiMock) ClearResponses() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requestsReceived = map[string][]map[string]any{}
	a.headersReceived = map[string][]map[string]string{}
	a.responseMap = map[string]map[int]any{}
	a.responseStatus = map[string]map[int]int{}
	a.defaultResponseMap = map[string]any{}
	a.defaultStatus = map[string]int{}
}
