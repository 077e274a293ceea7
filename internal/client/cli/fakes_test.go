package cli

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/goinglive/internal/client/client"
	"github.com/dmitrijs2005/goinglive/internal/client/config"
	"github.com/dmitrijs2005/goinglive/internal/client/repositories/state"
	"github.com/dmitrijs2005/goinglive/internal/client/services"
	"github.com/dmitrijs2005/goinglive/internal/course"
	"github.com/dmitrijs2005/goinglive/internal/idgen"
	"github.com/dmitrijs2005/goinglive/internal/logging"
	"github.com/dmitrijs2005/goinglive/internal/rpc"
)

// fakeAPI is an in-memory course server.
type fakeAPI struct {
	mu       sync.Mutex
	loggedIn bool

	content    map[string]course.Snapshot
	commits    []course.Snapshot
	media      []course.MediaRecord
	uploadURL  string
	fetchErr   error
	commitErr  error
	pingErr    error
	loginErr   error
	passwords  []string
	logoutSeen int
}

var _ client.Client = (*fakeAPI)(nil)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{content: make(map[string]course.Snapshot)}
}

func (f *fakeAPI) Close() error               { return nil }
func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAPI) Login(_ context.Context, _, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords = append(f.passwords, password)
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = true
	return nil
}

func (f *fakeAPI) Logout() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = false
	f.logoutSeen++
}

func (f *fakeAPI) Session(context.Context) (*course.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.loggedIn {
		return nil, client.ErrNoSession
	}
	return &course.Profile{UserID: "u1", Username: "alice", DisplayName: "Alice"}, nil
}

func (f *fakeAPI) FetchContent(_ context.Context, courseID string) (course.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return course.Snapshot{}, f.fetchErr
	}
	return f.content[courseID].Clone(), nil
}

func (f *fakeAPI) CommitContent(_ context.Context, courseID string, snapshot course.Snapshot) (course.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commitErr != nil {
		return course.Snapshot{}, f.commitErr
	}
	f.commits = append(f.commits, snapshot.Clone())
	f.content[courseID] = snapshot.Clone()
	return snapshot.Clone(), nil
}

func (f *fakeAPI) PresignUpload(_ context.Context, req *rpc.PresignUploadRequest) (*rpc.PresignUploadResponse, error) {
	return &rpc.PresignUploadResponse{
		Key:     "courses/" + req.CourseID + "/" + req.ElementID + "/" + req.FileName,
		URL:     f.uploadURL,
		Method:  http.MethodPut,
		Headers: map[string]string{"Content-Type": req.ContentType},
	}, nil
}

func (f *fakeAPI) RegisterMedia(_ context.Context, rec course.MediaRecord) (*course.MediaRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.media = append(f.media, rec)
	return &rec, nil
}

func (f *fakeAPI) ListMedia(context.Context, string) ([]course.MediaRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]course.MediaRecord(nil), f.media...), nil
}

type testApp struct {
	*App
	api  *fakeAPI
	repo *state.MemoryRepository
	out  *bytes.Buffer
}

// newTestApp builds an App over fakes. input feeds interactive prompts.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()

	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }
	t.Cleanup(func() { readPassword = old })

	api := newFakeAPI()
	repo := state.NewMemoryRepository()
	out := &bytes.Buffer{}

	a := &App{
		config:      &config.Config{RequestTimeout: 5 * time.Second, MaxUploadSize: 1 << 20},
		api:         api,
		authService: services.NewAuthService(api, repo),
		repo:        repo,
		logger:      logging.Nop(),
		httpClient:  http.DefaultClient,
		reader:      bufio.NewReader(strings.NewReader(input)),
		out:         out,
		newID:       idgen.Sequence("s"),
	}
	return &testApp{App: a, api: api, repo: repo, out: out}
}

// opened logs in and opens course-1.
func (ta *testApp) opened(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()
	if err := ta.loginCommand(ctx, []string{"alice"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := ta.openCommand(ctx, []string{"course-1"}); err != nil {
		t.Fatalf("open: %v", err)
	}
	ta.out.Reset()
	return ta
}
