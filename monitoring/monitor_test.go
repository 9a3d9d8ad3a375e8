package monitoring_test

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/banditprefetch/eventsys"
	"github.com/sarchlab/banditprefetch/monitoring"
	"github.com/sarchlab/banditprefetch/prefetch"
)

type noopClock struct{}

func (c *noopClock) CurTick() eventsys.Tick { return 0 }

type noopScheduler struct{}

func (s *noopScheduler) ScheduleAt(_ eventsys.Event, _ eventsys.Tick) {}

var _ = Describe("Server", func() {
	var (
		ctrl   *prefetch.Controller
		server *monitoring.Server
		addr   string
	)

	BeforeEach(func() {
		ctrl = prefetch.NewController(prefetch.Params{
			FallbackName:  "L2",
			TicksPerEpoch: 10,
			LearningRate:  0.1,
			ExploreRate:   0.1,
			PersistPath:   filepath.Join(GinkgoT().TempDir(), "qtable.bin"),
			Rand:          rand.New(rand.NewSource(1)),
		}, &noopClock{}, &noopScheduler{})
		ctrl.Startup()

		server = monitoring.NewServer()
		server.RegisterController("L2", ctrl, 100)

		var err error
		addr, err = server.StartServer()
		Expect(err).NotTo(HaveOccurred())
	})

	It("lists registered controllers", func() {
		resp, err := http.Get("http://" + addr + "/api/controllers")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		var names []string
		Expect(json.NewDecoder(resp.Body).Decode(&names)).To(Succeed())
		Expect(names).To(ConsistOf("L2"))
	})

	It("reports stats for a registered controller", func() {
		resp, err := http.Get("http://" + addr + "/api/stats/L2")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("404s for an unknown controller", func() {
		resp, err := http.Get("http://" + addr + "/api/stats/unknown")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("reports progress synced to the controller's epoch count", func() {
		ctrl.Handle(nil)

		resp, err := http.Get("http://" + addr + "/api/progress")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		var bars map[string]*monitoring.ProgressBar
		Expect(json.NewDecoder(resp.Body).Decode(&bars)).To(Succeed())
		Expect(bars["L2"].Finished).To(Equal(uint64(1)))
	})
})
