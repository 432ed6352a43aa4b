package api_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/haneul-games/wordrush/internal/adapters/http/api"
	"github.com/haneul-games/wordrush/internal/adapters/kv"
	service "github.com/haneul-games/wordrush/internal/app"
	"github.com/haneul-games/wordrush/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	logger.SetLevelString("error")
	os.Exit(m.Run())
}

type fakeInference struct {
	guess      string
	transcript string
	err        error
}

func (f *fakeInference) Configured() bool { return true }

func (f *fakeInference) Guess(ctx context.Context, lines string) (string, error) {
	return f.guess, f.err
}

func (f *fakeInference) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	return f.transcript, f.err
}

func newTestServer(opts ...service.Option) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(service.New(opts...)).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	So(err, ShouldBeNil)
	defer resp.Body.Close()
	var decoded map[string]any
	So(json.NewDecoder(resp.Body).Decode(&decoded), ShouldBeNil)
	return resp, decoded
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	So(err, ShouldBeNil)
	defer resp.Body.Close()
	var decoded map[string]any
	So(json.NewDecoder(resp.Body).Decode(&decoded), ShouldBeNil)
	return resp, decoded
}

func TestScoresEndpoint(t *testing.T) {
	Convey("Given the API over an in-memory store", t, func() {
		srv := newTestServer(service.WithStore(kv.NewMemoryStore()))
		defer srv.Close()
		url := srv.URL + "/api/scores"

		Convey("Submitting a valid score returns the full outcome", func() {
			resp, body := postJSON(t, url, `{"mode":"TIME_ATTACK","score":42,"playerName":"Ada","deptCode":"ko"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["success"], ShouldEqual, true)
			So(body["improved"], ShouldEqual, true)
			So(body["submittedScore"], ShouldEqual, 42)

			entry := body["entry"].(map[string]any)
			So(entry["playerName"], ShouldEqual, "Ada")
			So(entry["deptLabel"], ShouldEqual, "국어교육과")

			stats := body["stats"].(map[string]any)
			So(stats["total"], ShouldEqual, 1)
			So(stats["topPercent"], ShouldEqual, 100)
		})

		Convey("A numeric string score is coerced like a number", func() {
			resp, body := postJSON(t, url, `{"mode":"SPEED_RUN","score":"27.5","playerName":"Ada"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["submittedScore"], ShouldEqual, 27.5)
		})

		Convey("Invalid submissions map to wire error codes", func() {
			resp, body := postJSON(t, url, `{"mode":"TIME_ATTACK","score":42,"playerName":"  "}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["error"], ShouldEqual, "missing_fields")

			resp, body = postJSON(t, url, `{"mode":"TIME_ATTACK","score":"not-a-number","playerName":"Ada"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["error"], ShouldEqual, "invalid_score")

			resp, body = postJSON(t, url, `{"mode":"TIME_ATTACK","score":42,"playerName":"Ada","deptCode":"ce"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["error"], ShouldEqual, "invalid_dept")

			resp, body = postJSON(t, url, `not json`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["error"], ShouldEqual, "bad_request")
		})

		Convey("GET returns both boards with non-nil arrays", func() {
			_, _ = postJSON(t, url, `{"mode":"TIME_ATTACK","score":42,"playerName":"Ada"}`)

			resp, body := getJSON(t, url)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["timeAttackScores"], ShouldHaveLength, 1)
			So(body["speedRunScores"], ShouldHaveLength, 0)
			So(body["_debug"], ShouldBeNil)
		})

		Convey("GET with debug=1 includes diagnostics", func() {
			resp, body := getJSON(t, url+"?debug=1")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["_debug"], ShouldNotBeNil)
		})

		Convey("Unsupported methods are rejected", func() {
			req, err := http.NewRequest(http.MethodDelete, url, nil)
			So(err, ShouldBeNil)
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})

	Convey("Given the API without a store", t, func() {
		srv := newTestServer()
		defer srv.Close()
		url := srv.URL + "/api/scores"

		Convey("Submissions fail with a configuration error", func() {
			resp, body := postJSON(t, url, `{"mode":"TIME_ATTACK","score":42,"playerName":"Ada"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
			So(body["error"], ShouldEqual, "store_not_configured")
		})

		Convey("Reads still answer 200 with a diagnostic tag", func() {
			resp, body := getJSON(t, url)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["error"], ShouldEqual, "kv_unavailable")
		})
	})
}

func TestClearLegacyEndpoint(t *testing.T) {
	Convey("Given the admin endpoint", t, func() {
		store := kv.NewMemoryStore()
		srv := newTestServer(service.WithStore(store))
		defer srv.Close()
		url := srv.URL + "/api/admin/clear-legacy"

		So(store.UpsertRanked(context.Background(), "scores:time_attack", "old", 1), ShouldBeNil)

		Convey("GET clears and reports every legacy key", func() {
			resp, body := getJSON(t, url)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["message"], ShouldNotBeEmpty)
			So(body["details"], ShouldHaveLength, 4)
		})

		Convey("POST is rejected", func() {
			resp, body := postJSON(t, url, `{}`)
			So(resp.StatusCode, ShouldEqual, http.StatusMethodNotAllowed)
			So(body["error"], ShouldEqual, "method_not_allowed")
		})
	})
}

func TestGuessEndpoint(t *testing.T) {
	Convey("Given the guess proxy", t, func() {
		Convey("A configured upstream answer passes through", func() {
			srv := newTestServer(service.WithInference(&fakeInference{guess: "이것은 버스 같네요. [[버스]]"}))
			defer srv.Close()

			resp, body := postJSON(t, srv.URL+"/api/guess", `{"lines":"빠르고 노란 교통수단"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["text"], ShouldEqual, "이것은 버스 같네요. [[버스]]")
			So(body["error"], ShouldBeNil)
		})

		Convey("A missing upstream degrades to the placeholder guess", func() {
			srv := newTestServer()
			defer srv.Close()

			resp, body := postJSON(t, srv.URL+"/api/guess", `{"lines":"설명"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["text"], ShouldContainSubstring, "[[모름]]")
			So(body["error"], ShouldEqual, "openai_key_missing")
		})

		Convey("An upstream failure degrades to the error placeholder", func() {
			srv := newTestServer(service.WithInference(&fakeInference{err: errors.New("boom")}))
			defer srv.Close()

			resp, body := postJSON(t, srv.URL+"/api/guess", `{"lines":"설명"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["text"], ShouldContainSubstring, "[[오류]]")
			So(body["error"], ShouldEqual, "openai_request_failed")
		})
	})
}

func TestTranscribeEndpoint(t *testing.T) {
	Convey("Given the transcription proxy", t, func() {
		audio := base64.StdEncoding.EncodeToString([]byte{0x1a, 0x45, 0xdf, 0xa3})

		Convey("Valid audio is transcribed", func() {
			srv := newTestServer(service.WithInference(&fakeInference{transcript: "안녕하세요"}))
			defer srv.Close()

			resp, body := postJSON(t, srv.URL+"/api/transcribe", `{"audio":"`+audio+`","mimeType":"audio/webm"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["text"], ShouldEqual, "안녕하세요")
		})

		Convey("Bad payloads are rejected before any outbound call", func() {
			srv := newTestServer(service.WithInference(&fakeInference{err: errors.New("must not be reached")}))
			defer srv.Close()
			url := srv.URL + "/api/transcribe"

			resp, body := postJSON(t, url, `{"mimeType":"audio/webm"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["error"], ShouldEqual, "missing_audio")

			resp, body = postJSON(t, url, `{"audio":"%%%not-base64%%%"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["error"], ShouldEqual, "invalid_audio")

			resp, body = postJSON(t, url, `{"audio":""}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["error"], ShouldEqual, "missing_audio")
		})

		Convey("Oversized audio is refused with 413", func() {
			srv := newTestServer(service.WithInference(&fakeInference{}))
			defer srv.Close()

			big := strings.Repeat("A", api.MaxAudioBase64Length+4)
			var buf bytes.Buffer
			So(json.NewEncoder(&buf).Encode(map[string]string{"audio": big}), ShouldBeNil)

			resp, err := http.Post(srv.URL+"/api/transcribe", "application/json", &buf)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusRequestEntityTooLarge)
		})

		Convey("A missing upstream key reports its tag at 200", func() {
			srv := newTestServer()
			defer srv.Close()

			resp, body := postJSON(t, srv.URL+"/api/transcribe", `{"audio":"`+audio+`"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["error"], ShouldEqual, "openai_key_missing")
		})
	})
}

func TestStoreHealthEndpoint(t *testing.T) {
	Convey("Given the store health endpoint", t, func() {
		Convey("A working store reports ok", func() {
			srv := newTestServer(service.WithStore(kv.NewMemoryStore()))
			defer srv.Close()

			resp, body := getJSON(t, srv.URL+"/api/store/health")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["ok"], ShouldEqual, true)
		})

		Convey("A missing store reports not ok, still at 200", func() {
			srv := newTestServer()
			defer srv.Close()

			resp, body := getJSON(t, srv.URL+"/api/store/health")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["ok"], ShouldEqual, false)
			env := body["env"].(map[string]any)
			So(env["configured"], ShouldEqual, "false")
		})
	})
}

func TestMetricsEndpoint(t *testing.T) {
	Convey("The healthz endpoint exposes the Prometheus registry", t, func() {
		srv := newTestServer(service.WithStore(kv.NewMemoryStore()))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/healthz")
		So(err, ShouldBeNil)
		defer resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusOK)

		var buf bytes.Buffer
		_, err = buf.ReadFrom(resp.Body)
		So(err, ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, "wordrush_leaderboard")
	})
}
