package frameloop_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flockview/internal/bridge"
	"github.com/san-kum/flockview/internal/bridge/bridgetest"
	"github.com/san-kum/flockview/internal/camera"
	"github.com/san-kum/flockview/internal/config"
	"github.com/san-kum/flockview/internal/frameloop"
	"github.com/san-kum/flockview/internal/input"
	"github.com/san-kum/flockview/internal/snapshot"
	"go.uber.org/zap"
)

type fakeRenderer struct {
	trace  *[]string
	counts []int
	cams   []camera.Camera
	err    error
}

func (r *fakeRenderer) Draw(view snapshot.View, cam camera.Camera) error {
	*r.trace = append(*r.trace, "draw")
	r.counts = append(r.counts, view.Count())
	r.cams = append(r.cams, cam)
	return r.err
}

type fakeHost struct {
	frames int
	limit  int
	events map[int][]input.Event
	trace  *[]string
}

func (h *fakeHost) ShouldClose() bool { return h.frames >= h.limit }

func (h *fakeHost) BeginFrame() { *h.trace = append(*h.trace, "begin") }

func (h *fakeHost) Poll() []input.Event { return h.events[h.frames] }

func (h *fakeHost) EndFrame() {
	*h.trace = append(*h.trace, "end")
	h.frames++
}

var _ = Describe("App", func() {
	var (
		cfg      *config.Config
		sim      *bridgetest.Scripted
		trace    []string
		renderer *fakeRenderer
		cam      *camera.Controller
		app      *frameloop.App
		capacity uint32
	)

	build := func() {
		Expect(sim.Initialize(cfg.World)).To(Succeed())
		buf, err := bridge.NewBuffer(sim, capacity)
		Expect(err).NotTo(HaveOccurred())

		trace = nil
		sim.Trace = func(op string) { trace = append(trace, op) }
		renderer = &fakeRenderer{trace: &trace}
		cam = camera.NewController(cfg.World, cfg.Camera)
		app = frameloop.New(buf, cam, renderer, cfg.Input, zap.NewNop())
	}

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		capacity = 1024
		sim = bridgetest.FromRecords(
			[]snapshot.Record{{X: 1, Y: 1}},
			[]snapshot.Record{{X: 2, Y: 2}, {X: 3, Y: 3}},
		)
	})

	Describe("Tick", func() {
		BeforeEach(build)

		It("serializes, draws and then steps", func() {
			Expect(app.Tick()).To(Succeed())
			Expect(trace).To(Equal([]string{"serialize", "draw", "step"}))
		})

		It("draws the snapshot written in the same tick", func() {
			Expect(app.Tick()).To(Succeed())
			Expect(app.Tick()).To(Succeed())
			Expect(app.Tick()).To(Succeed())
			Expect(renderer.counts).To(Equal([]int{1, 2, 1}))
			Expect(app.Stats().Count).To(Equal(1))
		})

		It("integrates the camera before drawing", func() {
			cam.BeginDrag(0, 0)
			cam.UpdateDrag(100, 0)
			cam.EndDrag()

			Expect(app.Tick()).To(Succeed())
			Expect(renderer.cams[0].X).To(BeNumerically("~", 26, 1e-9))
			Expect(renderer.cams[0].Velocity.X).To(BeNumerically("~", 0.93, 1e-9))
		})

		It("keeps rendering but does not step while paused", func() {
			app.TogglePause()
			Expect(app.Paused()).To(BeTrue())

			Expect(app.Tick()).To(Succeed())
			Expect(app.Tick()).To(Succeed())
			Expect(trace).To(Equal([]string{"serialize", "draw", "serialize", "draw"}))
			Expect(sim.Steps).To(BeZero())
			Expect(app.Stats().Frames).To(Equal(uint64(2)))
		})

		It("drops a frame whose draw fails and still steps", func() {
			renderer.err = errors.New("lost context")
			Expect(app.Tick()).To(Succeed())
			Expect(app.Stats().Dropped).To(Equal(uint64(1)))
			Expect(sim.Steps).To(Equal(1))
		})

		It("reports a step failure", func() {
			sim.StepErr = errors.New("trap")
			err := app.Tick()
			Expect(err).To(MatchError(ContainSubstring("trap")))
			Expect(trace).To(Equal([]string{"serialize", "draw", "step"}))
		})
	})

	Describe("Tick with a bad snapshot", func() {
		It("skips drawing when the snapshot overflows the buffer", func() {
			capacity = 8
			build()

			Expect(app.Tick()).To(Succeed())
			Expect(trace).To(Equal([]string{"serialize", "step"}))
			Expect(app.Stats().Dropped).To(Equal(uint64(1)))
		})

		It("skips drawing when the snapshot length is malformed", func() {
			frame := snapshot.Encode([]snapshot.Record{{X: 1}})
			frame[0] = 2
			sim = bridgetest.New(frame)
			build()

			Expect(app.Tick()).To(Succeed())
			Expect(renderer.counts).To(BeEmpty())
			Expect(app.Stats().Dropped).To(Equal(uint64(1)))
			Expect(sim.Steps).To(Equal(1))
		})

		It("clears the agent count when a later frame cannot be read", func() {
			bad := snapshot.Encode([]snapshot.Record{{X: 1}})
			bad[0] = 2
			sim = bridgetest.New(snapshot.Encode([]snapshot.Record{{X: 1}, {X: 2}}), bad)
			build()

			Expect(app.Tick()).To(Succeed())
			Expect(app.Stats().Count).To(Equal(2))

			Expect(app.Tick()).To(Succeed())
			Expect(app.Stats().Count).To(BeZero())
			Expect(app.Stats().Dropped).To(Equal(uint64(1)))
		})
	})

	Describe("StepManually", func() {
		BeforeEach(build)

		It("steps one batch and stays running when running", func() {
			app.StepManually()
			Expect(sim.Steps).To(Equal(10))
			Expect(app.Paused()).To(BeFalse())
		})

		It("steps one batch and stays paused when paused", func() {
			app.TogglePause()
			app.StepManually()
			Expect(sim.Steps).To(Equal(10))
			Expect(app.Paused()).To(BeTrue())
		})

		It("stops the batch on the first failure", func() {
			sim.StepErr = errors.New("trap")
			app.StepManually()
			Expect(trace).To(Equal([]string{"step"}))
			Expect(app.Paused()).To(BeFalse())
		})
	})

	Describe("Run", func() {
		BeforeEach(build)

		It("ticks once per host frame and applies polled input", func() {
			host := &fakeHost{
				limit:  3,
				trace:  &trace,
				events: map[int][]input.Event{1: {input.Key{Code: input.KeySpace}}},
			}

			Expect(app.Run(context.Background(), host)).To(Succeed())
			Expect(app.Stats().Frames).To(Equal(uint64(3)))
			Expect(sim.Steps).To(Equal(1))
			Expect(app.Paused()).To(BeTrue())
			Expect(trace[:5]).To(Equal([]string{"begin", "serialize", "draw", "step", "end"}))
		})

		It("applies the batch step key between ticks", func() {
			host := &fakeHost{
				limit:  1,
				trace:  &trace,
				events: map[int][]input.Event{0: {input.Key{Code: input.KeyEnter}}},
			}

			Expect(app.Run(context.Background(), host)).To(Succeed())
			Expect(sim.Steps).To(Equal(11))
		})

		It("stops when the context is done", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := app.Run(ctx, &fakeHost{limit: 5, trace: &trace})
			Expect(err).To(MatchError(context.Canceled))
			Expect(app.Stats().Frames).To(BeZero())
		})

		It("stops when the simulation cannot step", func() {
			sim.StepErr = errors.New("trap")
			host := &fakeHost{limit: 5, trace: &trace}

			Expect(app.Run(context.Background(), host)).To(MatchError(ContainSubstring("trap")))
			Expect(host.frames).To(Equal(1))
		})
	})
})
