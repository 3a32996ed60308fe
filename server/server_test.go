// SPDX-License-Identifier: MIT

package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/lawt/compute"
	"github.com/katalvlaran/lawt/config"
	"github.com/katalvlaran/lawt/dispatch"
	"github.com/katalvlaran/lawt/model"
	"github.com/katalvlaran/lawt/reference"
	"github.com/katalvlaran/lawt/server"
)

type panicky struct{}

func (panicky) Compute(context.Context, compute.Operation, compute.Matrix, compute.Matrix) (compute.Result, error) {
	panic("kernel exploded")
}

type fixedStatus model.Status

func (f fixedStatus) Status() model.Status { return model.Status(f) }

func decode(resp *http.Response) map[string]any {
	defer resp.Body.Close()
	var out map[string]any
	ExpectWithOffset(1, json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())

	return out
}

var _ = Describe("HTTP API", func() {
	var (
		srv *httptest.Server
		reg *prometheus.Registry
	)

	start := func(ref dispatch.Computer, opts ...server.Option) {
		reg = prometheus.NewRegistry()
		engine := dispatch.NewEngine(ref, nil, dispatch.WithMetrics(dispatch.NewMetrics(reg)))
		opts = append([]server.Option{server.WithGatherer(reg)}, opts...)
		srv = httptest.NewServer(server.New(engine, opts...).Handler())
	}

	post := func(body string) *http.Response {
		resp, err := http.Post(srv.URL+"/api/compute", "application/json", strings.NewReader(body))
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return resp
	}

	AfterEach(func() {
		srv.Close()
	})

	Context("POST /api/compute", func() {
		BeforeEach(func() { start(reference.New()) })

		It("returns a rendered success envelope", func() {
			resp := post(`{"operation":"transpose","matrixA":[["1/2","3/4"]]}`)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
			Expect(resp.Header.Get("X-Request-ID")).NotTo(BeEmpty())

			body := decode(resp)
			Expect(body).To(HaveKeyWithValue("success", true))
			Expect(body).To(HaveKeyWithValue("method", "reference"))
			Expect(body).To(HaveKeyWithValue("operation", "transpose"))
			Expect(body["result"]).To(Equal([]any{[]any{"1/2"}, []any{"3/4"}}))
			Expect(body).To(HaveKey("timestamp"))
		})

		It("answers 400 when matrixB is missing", func() {
			resp := post(`{"operation":"add","matrixA":[[1,2]]}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			body := decode(resp)
			Expect(body).To(HaveKeyWithValue("success", false))
			Expect(body["error"]).To(ContainSubstring("operation requires two matrices"))
			Expect(body).NotTo(HaveKey("result"))
		})

		It("answers 400 for a singular inverse", func() {
			resp := post(`{"operation":"inverse","matrixA":[[1,2],[2,4]]}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(decode(resp)).To(HaveKeyWithValue("error", "matrix is not invertible"))
		})

		It("answers 400 when a product overflows", func() {
			resp := post(`{"operation":"multiply","matrixA":[[1e200]],"matrixB":[[1e200]]}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			body := decode(resp)
			Expect(body).To(HaveKeyWithValue("success", false))
			Expect(body["error"]).To(HavePrefix("numeric overflow"))
		})

		It("answers 400 for malformed JSON", func() {
			resp := post(`{"operation": "transpose", "matrixA": [[1,2]`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			body := decode(resp)
			Expect(body).To(HaveKeyWithValue("success", false))
			Expect(body["error"]).To(HavePrefix("malformed request body"))
		})

		It("rejects a model request when no backend exists", func() {
			resp := post(`{"operation":"transpose","matrixA":[[1]],"method":"lawt"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(decode(resp)["error"]).To(HavePrefix("model backend is unavailable"))
		})

		It("counts requests on /metrics", func() {
			post(`{"operation":"transpose","matrixA":[[1]]}`).Body.Close()

			resp, err := http.Get(srv.URL + "/metrics")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			text, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(text)).To(ContainSubstring(
				`lawt_compute_requests_total{method="reference",operation="transpose",outcome="success"} 1`))
		})
	})

	Context("routing", func() {
		BeforeEach(func() { start(reference.New()) })

		It("returns 404 envelopes for unknown API paths", func() {
			for _, path := range []string{"/api/comment", "/api/compute"} {
				resp, err := http.Get(srv.URL + path)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
				Expect(decode(resp)).To(HaveKeyWithValue("success", false))
			}
		})

		It("answers CORS preflights", func() {
			req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/compute", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(resp.Header.Get("Access-Control-Allow-Methods")).To(ContainSubstring("POST"))
		})

		It("serves /healthz", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			text, _ := io.ReadAll(resp.Body)
			Expect(string(text)).To(Equal("ok"))
		})
	})

	Context("GET /api/status", func() {
		It("reports an unconfigured backend", func() {
			start(reference.New())
			resp, err := http.Get(srv.URL + "/api/status")
			Expect(err).NotTo(HaveOccurred())
			body := decode(resp)
			Expect(body).To(HaveKeyWithValue("model_available", false))
			Expect(body).To(HaveKeyWithValue("model_status", "unavailable"))
			Expect(body["operations"]).To(BeEmpty())
		})

		It("reports a ready backend", func() {
			start(reference.New(), server.WithStatus(fixedStatus{
				Available:  true,
				Message:    "model backend ready",
				Operations: []compute.Operation{compute.OpTranspose},
			}))
			resp, err := http.Get(srv.URL + "/api/status")
			Expect(err).NotTo(HaveOccurred())
			body := decode(resp)
			Expect(body).To(HaveKeyWithValue("model_available", true))
			Expect(body).To(HaveKeyWithValue("model_status", "ready"))
			Expect(body["operations"]).To(ConsistOf("transpose"))
		})
	})

	Context("when a handler panics", func() {
		BeforeEach(func() { start(panicky{}) })

		It("recovers into a 500 envelope", func() {
			resp := post(`{"operation":"transpose","matrixA":[[1]]}`)
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
			body := decode(resp)
			Expect(body).To(HaveKeyWithValue("success", false))
			Expect(body).To(HaveKeyWithValue("error", "internal server error"))
		})
	})
})

var _ = Describe("Serve", func() {
	It("shuts down cleanly when the context is cancelled", func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())

		s := server.New(dispatch.NewEngine(reference.New(), nil), server.WithGatherer(prometheus.NewRegistry()))
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- s.Serve(ctx, ln, config.Server{ShutdownTimeout: time.Second})
		}()

		Eventually(func() (int, error) {
			resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
			if err != nil {
				return 0, err
			}
			resp.Body.Close()
			return resp.StatusCode, nil
		}).Should(Equal(http.StatusOK))

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})
})
