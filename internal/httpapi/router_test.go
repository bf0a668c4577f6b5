package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JamesPrial/gift-tracker/internal/config"
	"github.com/JamesPrial/gift-tracker/internal/daykey"
	"github.com/JamesPrial/gift-tracker/internal/gift"
	"github.com/JamesPrial/gift-tracker/internal/storage"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var testNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.Local)

// switchBackend fails every Set while broken is true.
type switchBackend struct {
	storage.StorageBackend
	mu     sync.Mutex
	broken bool
}

func (b *switchBackend) Set(key string, value []byte) error {
	b.mu.Lock()
	broken := b.broken
	b.mu.Unlock()
	if broken {
		return errors.New("disk on fire")
	}
	return b.StorageBackend.Set(key, value)
}

func (b *switchBackend) setBroken(v bool) {
	b.mu.Lock()
	b.broken = v
	b.mu.Unlock()
}

type apiEnv struct {
	router  *gin.Engine
	engine  *gift.Engine
	backend *switchBackend
	clock   *daykey.FixedClock
}

func newAPI(t *testing.T, cfg config.HTTP) *apiEnv {
	t.Helper()
	backend := &switchBackend{StorageBackend: storage.NewMemoryBackend()}
	clock := &daykey.FixedClock{T: testNow}
	engine, err := gift.Open(gift.NewStore(backend, nil),
		gift.WithClock(clock),
		gift.WithSeeder(gift.BlankSeeder{}),
	)
	if err != nil {
		t.Fatalf("gift.Open() error = %v", err)
	}
	if cfg.GinMode == "" {
		cfg.GinMode = gin.TestMode
	}
	return &apiEnv{
		router:  NewRouter(engine, cfg, nil),
		engine:  engine,
		backend: backend,
		clock:   clock,
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a *apiEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rdr *bytes.Reader
	if body == "" {
		rdr = bytes.NewReader(nil)
	} else {
		rdr = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: response is not an envelope: %v\n%s", method, path, err, rec.Body.String())
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode data: %v\n%s", err, raw)
	}
	return v
}

func Test_GetState_ReturnsDocument(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})

	rec, env := api.do(t, http.MethodGet, "/api/state", "")
	if rec.Code != http.StatusOK || env.Code != codeOK {
		t.Fatalf("status = %d code = %d, want 200/0", rec.Code, env.Code)
	}
	st := decode[gift.State](t, env.Data)
	if st.LastActiveDayKey != "2024-03-10" {
		t.Errorf("lastActiveDayKey = %q", st.LastActiveDayKey)
	}
	if got := len(st.TasksByDay["2024-03-10"]); got != 5 {
		t.Errorf("today has %d tasks, want 5 defaults", got)
	}
}

func Test_AddTask_Cases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantTitle  string
	}{
		{"plain title", `{"title":"wrap the ribbon"}`, http.StatusCreated, "wrap the ribbon"},
		{"markup stripped", `{"title":"<b>call</b> mom & dad"}`, http.StatusCreated, "call mom & dad"},
		{"empty title", `{"title":"   "}`, http.StatusBadRequest, ""},
		{"markup only", `{"title":"<script>x</script>"}`, http.StatusBadRequest, ""},
		{"entity encoded markup", `{"title":"&lt;b&gt;x&lt;/b&gt;"}`, http.StatusCreated, "x"},
		{"entity encoded script", `{"title":"&lt;script&gt;alert(1)&lt;/script&gt;"}`, http.StatusBadRequest, ""},
		{"bad json", `{"title":`, http.StatusBadRequest, ""},
		{"unknown link", `{"title":"x","linkedRecurringTaskId":"nope"}`, http.StatusBadRequest, ""},
		{"recurring", `{"title":"Run 5km","type":"recurring","recurringGoal":{"totalDays":30,"startDate":"2024-01-01"},"completionHistory":[]}`, http.StatusCreated, "Run 5km"},
		{"recurring without goal", `{"title":"x","type":"recurring"}`, http.StatusBadRequest, ""},
		{"unknown type", `{"title":"x","type":"weekly"}`, http.StatusBadRequest, ""},
		{"single with history", `{"title":"x","completionHistory":[{"date":"2024-03-09","completed":true}]}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			api := newAPI(t, config.HTTP{})

			rec, env := api.do(t, http.MethodPost, "/api/tasks", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, env.Message)
			}
			if tt.wantStatus != http.StatusCreated {
				if env.Code != codeBadRequest {
					t.Errorf("code = %d, want %d", env.Code, codeBadRequest)
				}
				return
			}
			view := decode[taskView](t, env.Data)
			if view.Task.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", view.Task.Title, tt.wantTitle)
			}
			if view.Day != "2024-03-10" || view.Task.Status != gift.StatusPending {
				t.Errorf("view = %+v", view)
			}
		})
	}
}

func Test_CompleteTask_CreditsWarmthOnce(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})
	id := api.engine.TodayTasks()[0].ID

	rec, env := api.do(t, http.MethodPost, "/api/tasks/"+id+"/done", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("first done status = %d (%s)", rec.Code, env.Message)
	}
	first := decode[map[string]any](t, env.Data)
	if first["warmth"] != float64(gift.WarmthBonus) {
		t.Errorf("warmth = %v, want %d", first["warmth"], gift.WarmthBonus)
	}

	_, env = api.do(t, http.MethodPost, "/api/tasks/"+id+"/done", "")
	second := decode[map[string]any](t, env.Data)
	if second["warmth"] != float64(gift.WarmthBonus) {
		t.Errorf("warmth after repeat = %v, want %d", second["warmth"], gift.WarmthBonus)
	}
}

func Test_CompleteTask_WithReflection(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})
	id := api.engine.TodayTasks()[0].ID

	body := `{"text":"felt <i>great</i>","photoDataUrl":"data:image/png;base64,AAAA"}`
	rec, env := api.do(t, http.MethodPost, "/api/tasks/"+id+"/done", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, env.Message)
	}
	moments := api.engine.Snapshot().Moments
	if len(moments) != 1 {
		t.Fatalf("moments = %d, want 1", len(moments))
	}
	if moments[0].Text != "felt great" || moments[0].LinkedTaskID != id {
		t.Errorf("moment = %+v", moments[0])
	}
}

func Test_CompleteTask_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		api := newAPI(t, config.HTTP{})
		rec, env := api.do(t, http.MethodPost, "/api/tasks/missing/done", "")
		if rec.Code != http.StatusNotFound || env.Code != codeNotFound {
			t.Errorf("status = %d code = %d", rec.Code, env.Code)
		}
	})

	t.Run("task from an earlier day", func(t *testing.T) {
		t.Parallel()
		api := newAPI(t, config.HTTP{})
		id := api.engine.TodayTasks()[0].ID
		api.clock.AdvanceDays(1)

		rec, env := api.do(t, http.MethodPost, "/api/tasks/"+id+"/done", "")
		if rec.Code != http.StatusConflict || env.Code != codeConflict {
			t.Errorf("status = %d code = %d", rec.Code, env.Code)
		}
	})

	t.Run("photo must be a data url", func(t *testing.T) {
		t.Parallel()
		api := newAPI(t, config.HTTP{})
		id := api.engine.TodayTasks()[0].ID
		rec, _ := api.do(t, http.MethodPost, "/api/tasks/"+id+"/done", `{"photoDataUrl":"https://evil.example/x.png"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func Test_RestTask_DoneTaskConflicts(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})
	id := api.engine.TodayTasks()[0].ID

	if _, err := api.engine.MarkTaskDone(id); err != nil {
		t.Fatal(err)
	}
	rec, _ := api.do(t, http.MethodPost, "/api/tasks/"+id+"/rest", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}

	other := api.engine.TodayTasks()[1].ID
	rec, env := api.do(t, http.MethodPost, "/api/tasks/"+other+"/rest", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, env.Message)
	}
	if view := decode[taskView](t, env.Data); view.Task.Status != gift.StatusRest {
		t.Errorf("status = %q, want rest", view.Task.Status)
	}
}

func Test_UpdateTask_Cases(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})
	id := api.engine.TodayTasks()[0].ID

	rec, env := api.do(t, http.MethodPatch, "/api/tasks/"+id, `{"title":"new <em>name</em>","note":"n"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, env.Message)
	}
	view := decode[taskView](t, env.Data)
	if view.Task.Title != "new name" || view.Task.Note != "n" {
		t.Errorf("task = %+v", view.Task)
	}

	rec, _ = api.do(t, http.MethodPatch, "/api/tasks/"+id, `{"status":"done"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status done: got %d, want 400", rec.Code)
	}

	rec, _ = api.do(t, http.MethodPatch, "/api/tasks/missing", `{"title":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing: got %d, want 404", rec.Code)
	}
}

func Test_DeleteTask(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})
	id := api.engine.TodayTasks()[0].ID

	rec, _ := api.do(t, http.MethodDelete, "/api/tasks/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	rec, _ = api.do(t, http.MethodGet, "/api/tasks/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
	rec, _ = api.do(t, http.MethodDelete, "/api/tasks/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func Test_Goals_StartAndInspect(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})

	body := `{"title":"Read daily","totalDays":10,"reward":{"title":"New book"}}`
	rec, env := api.do(t, http.MethodPost, "/api/goals", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, env.Message)
	}
	ids := decode[map[string]string](t, env.Data)
	goalID, dailyID := ids["goalId"], ids["dailyTaskId"]
	if goalID == "" || dailyID == "" {
		t.Fatalf("ids = %v", ids)
	}

	if rec, _ := api.do(t, http.MethodPost, "/api/tasks/"+dailyID+"/done", ""); rec.Code != http.StatusOK {
		t.Fatalf("done status = %d", rec.Code)
	}

	rec, env = api.do(t, http.MethodGet, "/api/goals/"+goalID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("goal status = %d", rec.Code)
	}
	detail := decode[goalDetail](t, env.Data)
	if detail.Progress.CompletedDays != 1 || detail.Progress.TotalDays != 10 {
		t.Errorf("progress = %+v", detail.Progress)
	}
	if detail.Progress.ProgressPercent != 10 {
		t.Errorf("percent = %v, want 10", detail.Progress.ProgressPercent)
	}

	rec, env = api.do(t, http.MethodGet, "/api/goals", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if goals := decode[[]gift.GoalView](t, env.Data); len(goals) != 1 {
		t.Errorf("goals = %d, want 1", len(goals))
	}

	rec, _ = api.do(t, http.MethodGet, "/api/goals/"+dailyID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("daily task as goal = %d, want 404", rec.Code)
	}
}

func Test_Goals_StartWithHistory(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})

	body := `{"title":"Stretch","totalDays":10,"startDate":"2024-03-07","completionHistory":[
		{"date":"2024-03-07","completed":true},
		{"date":"2024-03-08","completed":true,"note":"<i>easy</i>"},
		{"date":"2024-03-09","completed":true}]}`
	rec, env := api.do(t, http.MethodPost, "/api/goals", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, env.Message)
	}
	goalID := decode[map[string]string](t, env.Data)["goalId"]

	rec, env = api.do(t, http.MethodGet, "/api/goals/"+goalID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("goal status = %d", rec.Code)
	}
	detail := decode[goalDetail](t, env.Data)
	if detail.Progress.CompletedDays != 3 || detail.Progress.ProgressPercent != 30 || detail.Progress.CurrentStreak != 3 {
		t.Errorf("progress = %+v", detail.Progress)
	}
	if got := detail.Task.CompletionHistory; len(got) != 3 || got[1].Note != "easy" {
		t.Errorf("history = %+v", got)
	}
}

func Test_StartGoal_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"zero days", `{"title":"x","totalDays":0}`},
		{"bad start date", `{"title":"x","totalDays":3,"startDate":"2024-13-01"}`},
		{"no title", `{"totalDays":3}`},
		{"bad history date", `{"title":"x","totalDays":3,"completionHistory":[{"date":"someday","completed":true}]}`},
		{"bad history photo", `{"title":"x","totalDays":3,"completionHistory":[{"date":"2024-03-09","completed":true,"photoDataUrl":"http://x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			api := newAPI(t, config.HTTP{})
			rec, env := api.do(t, http.MethodPost, "/api/goals", tt.body)
			if rec.Code != http.StatusBadRequest || env.Code != codeBadRequest {
				t.Errorf("status = %d code = %d", rec.Code, env.Code)
			}
		})
	}
}

func Test_Moments_AddAndDelete(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})

	rec, _ := api.do(t, http.MethodPost, "/api/moments", `{"text":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty moment = %d, want 400", rec.Code)
	}

	rec, env := api.do(t, http.MethodPost, "/api/moments", `{"text":"sunset walk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", rec.Code, env.Message)
	}
	id := decode[map[string]string](t, env.Data)["momentId"]

	if rec, _ := api.do(t, http.MethodDelete, "/api/moments/"+id, ""); rec.Code != http.StatusOK {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec, _ := api.do(t, http.MethodDelete, "/api/moments/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func Test_Videos_GenerateAndDelete(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})

	rec, env := api.do(t, http.MethodPost, "/api/videos", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	video := decode[gift.AIVideo](t, env.Data)
	if !strings.HasPrefix(video.ID, "video") {
		t.Errorf("id = %q", video.ID)
	}
	if rec, _ := api.do(t, http.MethodDelete, "/api/videos/"+video.ID, ""); rec.Code != http.StatusOK {
		t.Errorf("delete = %d", rec.Code)
	}
}

func Test_Warmth_Clamped(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})

	_, env := api.do(t, http.MethodPost, "/api/warmth", `{"amount":-50}`)
	got := decode[map[string]any](t, env.Data)
	if got["warmth"] != float64(0) || got["mood"] != string(gift.MoodSleepy) {
		t.Errorf("data = %v", got)
	}

	_, env = api.do(t, http.MethodPost, "/api/warmth", `{"amount":60}`)
	got = decode[map[string]any](t, env.Data)
	if got["warmth"] != float64(60) || got["mood"] != string(gift.MoodHappy) {
		t.Errorf("data = %v", got)
	}
}

func Test_StorageFault_Returns503(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})
	api.backend.setBroken(true)

	rec, env := api.do(t, http.MethodPost, "/api/tasks", `{"title":"kept in memory"}`)
	if rec.Code != http.StatusServiceUnavailable || env.Code != codeStorageFault {
		t.Fatalf("status = %d code = %d", rec.Code, env.Code)
	}
	if !api.engine.Dirty() {
		t.Error("engine should be dirty after a failed persist")
	}

	api.backend.setBroken(false)
	rec, _ = api.do(t, http.MethodPost, "/api/warmth", `{"amount":1}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status after recovery = %d", rec.Code)
	}
	if api.engine.Dirty() {
		t.Error("engine still dirty after a successful write")
	}
}

func Test_Reset_ReseedsDocument(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})
	if _, err := api.engine.AddWarmth(40); err != nil {
		t.Fatal(err)
	}

	rec, env := api.do(t, http.MethodPost, "/api/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if st := decode[gift.State](t, env.Data); st.Warmth != 0 {
		t.Errorf("warmth = %d, want 0", st.Warmth)
	}
}

func Test_Stats_And_Friends(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})

	_, env := api.do(t, http.MethodGet, "/api/stats", "")
	stats := decode[gift.Stats](t, env.Data)
	if stats.TotalTasks != 5 || stats.PendingTasks != 5 || stats.Today != "2024-03-10" {
		t.Errorf("stats = %+v", stats)
	}

	rec, _ := api.do(t, http.MethodGet, "/api/friends", "")
	if rec.Code != http.StatusOK {
		t.Errorf("friends status = %d", rec.Code)
	}
}

func Test_NoRoute_Envelope(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{})
	rec, env := api.do(t, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound || env.Code != codeNotFound {
		t.Errorf("status = %d code = %d", rec.Code, env.Code)
	}
}

func Test_RateLimit_Rejects(t *testing.T) {
	t.Parallel()
	// Burst is perMinute/2, so two requests get through.
	api := newAPI(t, config.HTTP{RateLimitPerMinute: 4})

	var last int
	for range 3 {
		rec, _ := api.do(t, http.MethodGet, "/api/stats", "")
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", last)
	}
}

func Test_CORS_AllowedOrigin(t *testing.T) {
	t.Parallel()
	api := newAPI(t, config.HTTP{AllowedOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func Test_CleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{"<b>bold</b>", "bold"},
		{"tom & jerry", "tom & jerry"},
		{"<script>alert(1)</script>hi", "hi"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"&lt;b&gt;x&lt;/b&gt;", "x"},
		{"&amp;lt;i&amp;gt;deep&amp;lt;/i&amp;gt;", "deep"},
		{"a &lt; b", "a < b"},
		{"emoji 🎁", "emoji 🎁"},
	}
	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
