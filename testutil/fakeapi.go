package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

// FakeChat is one chat served by FakeAPI
type FakeChat struct {
	ID           string
	Name         string
	CreationTime string
	// Messages is the raw JSON payload returned for the chat; "[]" if empty
	Messages string
	// Status, when set to a non-2xx code, makes the message call fail
	Status int
}

// RecordedRequest is a request received by FakeAPI
type RecordedRequest struct {
	Method        string
	Path          string
	Query         url.Values
	Form          url.Values
	ContentType   string
	Authorization string
	At            time.Time
}

// FakeAPI is a scripted stand-in for the Argo chat API
type FakeAPI struct {
	Server *httptest.Server

	mu         sync.Mutex
	token      string
	tokenBody  string
	authStatus int
	listStatus int
	listBody   string
	chats      []FakeChat
	requests   []RecordedRequest
}

// NewFakeAPI starts a fake API that accepts any credentials and issues
// token "test-token". The server is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		token:     "test-token",
		tokenBody: `{"access_token":"test-token","token_type":"bearer"}`,
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the base URL of the fake API
func (f *FakeAPI) URL() string {
	return f.Server.URL
}

// SetToken changes the token the fake API issues and expects. body is the
// raw authentication response and must carry the token.
func (f *FakeAPI) SetToken(token, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.tokenBody = body
}

// FailAuth makes the token endpoint answer with status
func (f *FakeAPI) FailAuth(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authStatus = status
}

// FailList makes the listing endpoint answer with status
func (f *FakeAPI) FailList(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listStatus = status
}

// SetListBody makes the listing endpoint answer with the raw body instead
// of the chats added with AddChats. Message calls still resolve against
// those chats.
func (f *FakeAPI) SetListBody(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listBody = body
}

// AddChats appends chats to the listing
func (f *FakeAPI) AddChats(chats ...FakeChat) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, chats...)
}

// Requests returns every request received so far
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// MessageRequests returns the requests made to /chat/{id}/message
func (f *FakeAPI) MessageRequests() []RecordedRequest {
	var out []RecordedRequest
	for _, req := range f.Requests() {
		if strings.HasSuffix(req.Path, "/message") {
			out = append(out, req)
		}
	}
	return out
}

func (f *FakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	rec := RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		Form:          r.PostForm,
		ContentType:   r.Header.Get("Content-Type"),
		Authorization: r.Header.Get("Authorization"),
		At:            time.Now(),
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	token, tokenBody := f.token, f.tokenBody
	authStatus, listStatus, listBody := f.authStatus, f.listStatus, f.listBody
	chats := append([]FakeChat(nil), f.chats...)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/auth/token" && r.Method == http.MethodPost:
		if isFailure(authStatus) {
			writeStatus(w, authStatus, "Incorrect username or password")
			return
		}
		_, _ = w.Write([]byte(tokenBody))

	case r.URL.Path == "/chat" && r.Method == http.MethodGet:
		if rec.Authorization != "Bearer "+token {
			writeStatus(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if isFailure(listStatus) {
			writeStatus(w, listStatus, "Listing failed")
			return
		}
		if listBody != "" {
			_, _ = w.Write([]byte(listBody))
			return
		}
		items := make([]map[string]string, 0, len(chats))
		for _, chat := range chats {
			items = append(items, map[string]string{
				"id":            chat.ID,
				"chat_name":     chat.Name,
				"creation_time": chat.CreationTime,
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items, "total": len(items)})

	case strings.HasPrefix(r.URL.Path, "/chat/") && strings.HasSuffix(r.URL.Path, "/message"):
		if rec.Authorization != "Bearer "+token {
			writeStatus(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/chat/"), "/message")
		for _, chat := range chats {
			if chat.ID != id {
				continue
			}
			if isFailure(chat.Status) {
				writeStatus(w, chat.Status, "Chat unavailable")
				return
			}
			messages := chat.Messages
			if messages == "" {
				messages = "[]"
			}
			_, _ = w.Write([]byte(messages))
			return
		}
		writeStatus(w, http.StatusNotFound, "Chat not found")

	default:
		writeStatus(w, http.StatusNotFound, "Not found")
	}
}

func isFailure(status int) bool {
	return status != 0 && (status < 200 || status > 299)
}

func writeStatus(w http.ResponseWriter, status int, detail string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
