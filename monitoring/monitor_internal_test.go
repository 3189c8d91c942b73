package monitoring

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type sampleComponent struct {
	name      string
	NumFrames int
	Frames    []int
}

func (c *sampleComponent) Name() string {
	return c.name
}

type countingLocker struct {
	sync.Mutex
	numLocks int
}

func (l *countingLocker) Lock() {
	l.Mutex.Lock()
	l.numLocks++
}

var _ = Describe("Monitor", func() {
	var (
		m       *Monitor
		handler http.Handler
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		handler.ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		m = NewMonitor()
		m.RegisterComponent(&sampleComponent{
			name:      "MMU",
			NumFrames: 2,
			Frames:    []int{7, 9},
		})
		handler = m.router()
	})

	It("should list components", func() {
		rec := get("/api/list_components")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var names []string
		Expect(json.Unmarshal(rec.Body.Bytes(), &names)).To(Succeed())
		Expect(names).To(Equal([]string{"MMU"}))
	})

	It("should accept components while serving requests", func() {
		names := []string{"TLB", "PageTable", "PhysicalMemory"}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range names {
				m.RegisterComponent(&sampleComponent{name: n})
			}
		}()

		for range names {
			Expect(get("/api/list_components").Code).To(Equal(http.StatusOK))
			get("/api/component/TLB")
		}
		wg.Wait()

		var listed []string
		rec := get("/api/list_components")
		Expect(json.Unmarshal(rec.Body.Bytes(), &listed)).To(Succeed())
		Expect(listed).To(Equal(
			[]string{"MMU", "TLB", "PageTable", "PhysicalMemory"}))
	})

	It("should serialize a component while holding the lock", func() {
		locker := &countingLocker{}
		m.RegisterLocker(locker)

		rec := get("/api/component/MMU")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Valid(rec.Body.Bytes())).To(BeTrue())
		Expect(locker.numLocks).To(Equal(1))
	})

	It("should serialize a field", func() {
		query := url.PathEscape(`{"comp_name":"MMU","field_name":"Frames"}`)

		rec := get("/api/field/" + query)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(json.Valid(rec.Body.Bytes())).To(BeTrue())
	})

	It("should reject malformed field requests", func() {
		rec := get("/api/field/" + url.PathEscape("{"))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should return 404 for unknown components", func() {
		rec := get("/api/component/TLB")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should report progress bars", func() {
		bar := m.CreateProgressBar("Translation", 10)
		bar.IncrementFinished(2)
		m.CreateProgressBar("Other", 1)

		rec := get("/api/progress")

		var bars []map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(2))
		Expect(bars[0]["id"]).To(Equal("1"))
		Expect(bars[0]["name"]).To(Equal("Translation"))
		Expect(bars[0]["total"]).To(BeNumerically("==", 10))
		Expect(bars[0]["finished"]).To(BeNumerically("==", 2))
		Expect(bars[0]["elapsed_seconds"]).To(BeNumerically(">=", 0))

		m.CompleteProgressBar(bar)
		rec = get("/api/progress")

		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("Other"))
	})

	It("should report resources", func() {
		rec := get("/api/resource")

		var rsp resourceRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should serve the web page", func() {
		rec := get("/")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})

	It("should not accept privileged ports", func() {
		m.WithPortNumber(80)
		Expect(m.portNumber).To(Equal(0))

		m.WithPortNumber(32123)
		Expect(m.portNumber).To(Equal(32123))
	})

	It("should serve until shut down", func() {
		Expect(m.URL()).To(BeEmpty())
		Expect(m.OpenBrowser()).NotTo(Succeed())

		Expect(m.StartServer()).To(Succeed())
		defer m.Shutdown(context.Background())

		rsp, err := http.Get(m.URL() + "/api/list_components")
		Expect(err).NotTo(HaveOccurred())
		body, err := io.ReadAll(rsp.Body)
		rsp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(Equal(`["MMU"]`))

		Expect(m.Shutdown(context.Background())).To(Succeed())
	})
})
