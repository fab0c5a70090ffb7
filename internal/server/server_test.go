package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/polyscribe/polyscribe/internal/health"
	"github.com/polyscribe/polyscribe/internal/keyword"
	"github.com/polyscribe/polyscribe/internal/langdetect"
	"github.com/polyscribe/polyscribe/internal/observe"
	"github.com/polyscribe/polyscribe/internal/pipeline"
	"github.com/polyscribe/polyscribe/internal/segment"
	"github.com/polyscribe/polyscribe/internal/translate"
	"github.com/polyscribe/polyscribe/pkg/audio"
	asrmock "github.com/polyscribe/polyscribe/pkg/provider/asr/mock"
	"github.com/polyscribe/polyscribe/pkg/provider/langid"
	langidmock "github.com/polyscribe/polyscribe/pkg/provider/langid/mock"
	"github.com/polyscribe/polyscribe/pkg/provider/translation"
	trmock "github.com/polyscribe/polyscribe/pkg/provider/translation/mock"
	vadmock "github.com/polyscribe/polyscribe/pkg/provider/vad/mock"
	"github.com/polyscribe/polyscribe/pkg/types"
)

const testFrameSize = 640

// frame is the union of every server message shape, keyed off Type.
type frame struct {
	Type           string              `json:"type"`
	Transcript     string              `json:"transcript"`
	Annotated      string              `json:"annotated"`
	SourceLanguage string              `json:"source_language"`
	KeywordIDs     []int               `json:"keyword_ids"`
	Translations   map[string]string   `json:"translations"`
	Transcripts    map[string][]string `json:"transcripts"`
	Segments       int                 `json:"segments"`
	Error          string              `json:"error"`
}

// vadScript yields two utterances with a silence gap long enough for one
// mid-stream cut, 130 frames in total.
func vadScript() []bool {
	script := make([]bool, 0, 130)
	for i := 0; i < 50; i++ {
		script = append(script, true)
	}
	for i := 0; i < 30; i++ {
		script = append(script, false)
	}
	for i := 0; i < 50; i++ {
		script = append(script, true)
	}
	return script
}

func testMetrics(t *testing.T) *observe.Metrics {
	t.Helper()
	mp := sdkmetric.NewMeterProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m
}

func newTestServer(t *testing.T, recognizer *asrmock.Provider) *httptest.Server {
	t.Helper()

	table, err := keyword.NewTable(keyword.StaticSource{
		types.English: {{ID: 1, Text: "EUV", Explanation: "extreme ultraviolet lithography"}},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	detector := langdetect.New(&langidmock.Backend{
		Candidates: []langid.Candidate{{Language: types.English, Probability: 0.97}},
	}, types.English)

	var glossaries []translation.Glossary
	for _, tgt := range types.Supported() {
		if tgt == types.English {
			continue
		}
		name := "en_" + string(tgt)
		glossaries = append(glossaries, translation.Glossary{ID: "g-" + name, Name: name, Source: types.English, Target: tgt})
	}
	primary := &trmock.GlossaryProvider{ResultFunc: func(text string, _, target types.Language) string {
		return string(target) + ":" + text
	}}
	orch := translate.New(primary, &trmock.Provider{Result: "翻譯"}, translate.NewGlossaries(glossaries), translate.Config{})

	metrics := testMetrics(t)
	ctl := pipeline.NewController(recognizer, detector, table, keyword.NewIndex(table), orch, 16000,
		pipeline.WithMetrics(metrics))

	srv, err := New(ctl, &vadmock.Classifier{Script: vadScript()}, Config{
		Segmenter:      segment.Config{SampleRate: 16000},
		FlushThreshold: 4096,
		Targets:        []types.Language{types.Japanese},
	}, WithMetrics(metrics), WithCheckers(health.Checker{
		Name:  "always",
		Check: func(context.Context) error { return nil },
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.CloseNow() })
	return conn
}

func readFrame(t *testing.T, ctx context.Context, conn *websocket.Conn) frame {
	t.Helper()
	typ, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if typ != websocket.MessageText {
		t.Fatalf("frame type = %v, want text", typ)
	}
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("unmarshal frame %q: %v", data, err)
	}
	return f
}

func TestStream_SegmentsThenSummary(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	recognizer := &asrmock.Provider{Texts: []string{"EUV throughput is up", "next topic"}}
	ts := newTestServer(t, recognizer)
	conn := dial(t, ctx, ts.URL+"/ws/stream")

	input := make([]byte, 130*testFrameSize)
	for off := 0; off < len(input); off += 4096 {
		end := off + 4096
		if end > len(input) {
			end = len(input)
		}
		if err := conn.Write(ctx, websocket.MessageBinary, input[off:end]); err != nil {
			t.Fatalf("write chunk: %v", err)
		}
	}
	finalize, _ := json.Marshal(ClientCommand{Type: MessageFinalize})
	if err := conn.Write(ctx, websocket.MessageText, finalize); err != nil {
		t.Fatalf("write finalize: %v", err)
	}

	var segments []frame
	for {
		f := readFrame(t, ctx, conn)
		if f.Type == MessageSummary {
			if f.Segments != 2 {
				t.Errorf("summary segments = %d, want 2", f.Segments)
			}
			lines := f.Transcripts["ja"]
			if len(lines) != 2 || lines[0] != "ja:EUV throughput is up" {
				t.Errorf("ja transcripts = %v", lines)
			}
			break
		}
		if f.Type != MessageSegment {
			t.Fatalf("unexpected frame %+v", f)
		}
		segments = append(segments, f)
	}

	if len(segments) != 2 {
		t.Fatalf("got %d segment frames, want 2", len(segments))
	}
	first := segments[0]
	if first.Transcript != "EUV throughput is up" {
		t.Errorf("transcript = %q", first.Transcript)
	}
	if first.SourceLanguage != "en" {
		t.Errorf("source language = %q", first.SourceLanguage)
	}
	if len(first.KeywordIDs) != 1 || first.KeywordIDs[0] != 1 {
		t.Errorf("keyword ids = %v", first.KeywordIDs)
	}
	if first.Annotated == first.Transcript {
		t.Error("annotated transcript missing keyword explanation")
	}
	if got := first.Translations["ja"]; got != "ja:EUV throughput is up" {
		t.Errorf("ja translation = %q", got)
	}
}

func TestUpload_WholeFile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	recognizer := &asrmock.Provider{Texts: []string{"first part", "second part"}}
	ts := newTestServer(t, recognizer)
	conn := dial(t, ctx, ts.URL+"/ws/upload")

	wav := audio.EncodeWAV(make([]byte, 130*testFrameSize), 16000)
	if err := conn.Write(ctx, websocket.MessageBinary, wav); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	var segments int
	for {
		f := readFrame(t, ctx, conn)
		if f.Type == MessageSummary {
			if f.Segments != 2 {
				t.Errorf("summary segments = %d, want 2", f.Segments)
			}
			break
		}
		if f.Type != MessageSegment {
			t.Fatalf("unexpected frame %+v", f)
		}
		segments++
	}
	if segments != 2 {
		t.Errorf("got %d segment frames, want 2", segments)
	}
}

func TestUpload_RejectsInvalidWAV(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ts := newTestServer(t, &asrmock.Provider{Text: "unused"})
	conn := dial(t, ctx, ts.URL+"/ws/upload")

	if err := conn.Write(ctx, websocket.MessageBinary, []byte("not a wav")); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := readFrame(t, ctx, conn)
	if f.Type != MessageError || f.Error == "" {
		t.Fatalf("frame = %+v, want error", f)
	}
}

func TestHTTPEndpoints(t *testing.T) {
	ts := newTestServer(t, &asrmock.Provider{Text: "unused"})

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.StatusCode)
		}
	}
}
