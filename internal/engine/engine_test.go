package engine_test

import (
	"bytes"
	"log"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/swarmsim/internal/config"
	"github.com/san-kum/swarmsim/internal/engine"
	"github.com/san-kum/swarmsim/internal/entity"
	"github.com/san-kum/swarmsim/internal/hooks"
	"github.com/san-kum/swarmsim/internal/vector"
)

func legacy() config.Config {
	cfg, err := config.ForModel("legacy")
	Expect(err).NotTo(HaveOccurred())
	return *cfg
}

// bare is the legacy model with no hooks, so a frame is pure integration.
func bare() config.Config {
	cfg := legacy()
	cfg.Hooks = config.HookConfig{}
	return cfg
}

func scatter(seed int64, kind entity.Kind, n int, extent float64) *entity.Snapshot {
	rng := rand.New(rand.NewSource(seed))
	s := entity.NewSnapshot()
	for i := 0; i < n; i++ {
		s.AddNode(kind, vector.New(rng.Float64()*extent, rng.Float64()*extent), 1)
	}
	return s
}

func expectClose(got, want []vector.Vector2, tol float64) {
	ExpectWithOffset(1, got).To(HaveLen(len(want)))
	for i := range want {
		ExpectWithOffset(1, got[i].X).To(BeNumerically("~", want[i].X, tol), "node %d x", i)
		ExpectWithOffset(1, got[i].Y).To(BeNumerically("~", want[i].Y, tol), "node %d y", i)
	}
}

var _ = Describe("Engine", func() {
	Describe("construction", func() {
		It("builds every preset", func() {
			for _, name := range config.ListPresets() {
				cfg, err := config.ForModel(name)
				Expect(err).NotTo(HaveOccurred())
				e, err := engine.New(*cfg)
				Expect(err).NotTo(HaveOccurred(), name)
				Expect(e.Calculator().Name()).To(Equal(cfg.Model))
				Expect(e.Integrator().Name()).To(Equal(cfg.Integrator))
			}
		})

		DescribeTable("rejects invalid configuration",
			func(mutate func(*config.Config), want error) {
				cfg := legacy()
				mutate(&cfg)
				e, err := engine.New(cfg)
				Expect(e).To(BeNil())
				Expect(err).To(MatchError(want))
				var cerr *config.Error
				Expect(err).To(BeAssignableToTypeOf(cerr))
			},
			Entry("min distance above max distance", func(c *config.Config) {
				c.Params[config.MinDistance] = 10
				c.Params[config.MaxDistance] = 5
			}, config.ErrClampOrder),
			Entry("missing required parameter", func(c *config.Config) {
				delete(c.Params, config.Repulsion)
			}, config.ErrMissingParam),
			Entry("non-finite coefficient", func(c *config.Config) {
				c.Params[config.Attraction] = math.Inf(1)
			}, config.ErrNonFinite),
			Entry("damping outside [0,1]", func(c *config.Config) {
				c.Params[config.Damping] = 1.5
			}, config.ErrOutOfRange),
			Entry("unknown model", func(c *config.Config) {
				c.Model = "magnetic"
			}, config.ErrUnknownName),
			Entry("unknown integrator", func(c *config.Config) {
				c.Integrator = "rk4"
			}, config.ErrUnknownName),
			Entry("unknown hook", func(c *config.Config) {
				c.Hooks.Relax.Source = append(c.Hooks.Relax.Source, "teleport")
			}, config.ErrUnknownName),
		)

		It("does not share the caller's config", func() {
			cfg := legacy()
			e, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			cfg.Params[config.Attraction] = 99
			Expect(e.Config().Params[config.Attraction]).To(Equal(0.02))
		})
	})

	Describe("peer forces", func() {
		It("repels two targets ten apart with k/d^2, equal and opposite", func() {
			cfg := bare()
			cfg.Params[config.Repulsion] = 100
			cfg.Params[config.RepulsionPower] = 2
			cfg.Params[config.MinDistance] = 1
			cfg.Params[config.MaxDistance] = 0
			e, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			s := entity.NewSnapshot()
			a := s.AddNode(entity.Target, vector.New(0, 0), 1)
			b := s.AddNode(entity.Target, vector.New(10, 0), 1)

			f := e.ComputeForces(s)
			Expect(f[a].Len()).To(BeNumerically("~", 1, 1e-12))
			Expect(f[a].X).To(BeNumerically("<", 0))
			Expect(f[b]).To(Equal(f[a].Neg()))
			Expect(e.ForceBetweenPeers(s.Nodes[b], s.Nodes[a])).To(Equal(e.ForceBetweenPeers(s.Nodes[a], s.Nodes[b]).Neg()))
		})

		It("ignores pairs of different kinds", func() {
			e, err := engine.New(bare())
			Expect(err).NotTo(HaveOccurred())

			s := entity.NewSnapshot()
			s.AddNode(entity.Source, vector.New(0, 0), 1)
			s.AddNode(entity.Target, vector.New(3, 0), 1)

			for _, f := range e.ComputeForces(s) {
				Expect(f).To(Equal(vector.Zero))
			}
		})

		It("prunes with the grid without changing the result", func() {
			cfg := bare()
			cfg.Params[config.MaxDistance] = 60
			e, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			s := scatter(7, entity.Target, 300, 500)
			want := make([]vector.Vector2, s.Len())
			for i := range s.Nodes {
				for j := i + 1; j < len(s.Nodes); j++ {
					f := e.ForceBetweenPeers(s.Nodes[i], s.Nodes[j])
					want[i] = want[i].Add(f)
					want[j] = want[j].Sub(f)
				}
			}
			expectClose(e.ComputeForces(s), want, 1e-9)
		})

		DescribeTable("matches the serial pass when parallel",
			func(maxDistance float64) {
				cfg := bare()
				cfg.Params[config.MaxDistance] = maxDistance
				serial, err := engine.New(cfg)
				Expect(err).NotTo(HaveOccurred())
				cfg.Workers = 4
				parallel, err := engine.New(cfg)
				Expect(err).NotTo(HaveOccurred())

				s := scatter(42, entity.Source, 400, 800)
				t := scatter(43, entity.Target, 300, 800)
				for _, n := range t.Nodes {
					s.AddNode(n.Kind, n.Pos, n.Mass)
				}

				want := append([]vector.Vector2(nil), serial.ComputeForces(s)...)
				expectClose(parallel.ComputeForces(s), want, 1e-9)

				again := parallel.ComputeForces(s)
				expectClose(again, want, 1e-9)
			},
			Entry("unbounded", 0.0),
			Entry("grid pruned", 150.0),
		)
	})

	Describe("a frame", func() {
		It("pulls an edge's endpoints closer after one integration", func() {
			cfg := bare()
			cfg.Params[config.Attraction] = 0.1
			cfg.Params[config.EdgeLength] = 0
			cfg.Params[config.Repulsion] = 0
			e, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			s := entity.NewSnapshot()
			src := s.AddNode(entity.Source, vector.New(0, 0), 1)
			tgt := s.AddNode(entity.Target, vector.New(5, 0), 1)
			Expect(s.AddEdge(src, tgt, 1)).To(Succeed())

			before := s.Nodes[src].Pos.Dist(s.Nodes[tgt].Pos)
			e.ApplyAll(s, e.ComputeForces(s))
			after := s.Nodes[src].Pos.Dist(s.Nodes[tgt].Pos)

			Expect(after).To(BeNumerically("<", before))
			Expect(after).To(BeNumerically("~", 4, 1e-12))
		})

		It("leaves a resting system unchanged when every force is zero", func() {
			cfg := legacy()
			cfg.Params[config.Attraction] = 0
			cfg.Params[config.Repulsion] = 0
			e, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			s := scatter(3, entity.Source, 20, 400)
			for _, n := range scatter(4, entity.Target, 20, 400).Nodes {
				s.AddNode(n.Kind, n.Pos, n.Mass)
			}
			for i := 0; i < 20; i++ {
				Expect(s.AddEdge(entity.Handle(i), entity.Handle(20+i), 1)).To(Succeed())
			}
			before := s.Clone()

			e.Step(s)

			for i := range s.Nodes {
				Expect(s.Nodes[i].Pos).To(Equal(before.Nodes[i].Pos))
				Expect(s.Nodes[i].Vel).To(Equal(before.Nodes[i].Vel))
			}
			Expect(e.Frame()).To(Equal(1))
		})

		It("translates exactly by velocity in ApplySpeed", func() {
			e, err := engine.New(bare())
			Expect(err).NotTo(HaveOccurred())

			px, py, vx, vy := 0.1, 0.2, 0.7, -0.3
			n := entity.Node{Pos: vector.New(px, py), Vel: vector.New(vx, vy)}
			e.ApplySpeed(&n)
			Expect(n.Pos).To(Equal(vector.New(px+vx, py+vy)))
		})

		It("completes every relax hook before any update hook", func() {
			var trace []hooks.Phase
			record := hooks.Func("record", func(p *hooks.Pass, n *entity.Node) {
				trace = append(trace, p.Phase)
			})
			tbl := hooks.NewTable()
			for _, k := range entity.Kinds() {
				tbl.Add(hooks.Relax, k, record)
				tbl.Add(hooks.Update, k, record)
			}
			e, err := engine.New(bare(), engine.WithHooks(tbl))
			Expect(err).NotTo(HaveOccurred())

			s := scatter(1, entity.Source, 5, 100)
			for _, n := range scatter(2, entity.Target, 7, 100).Nodes {
				s.AddNode(n.Kind, n.Pos, n.Mass)
			}
			e.Step(s)

			Expect(trace).To(HaveLen(24))
			for i, ph := range trace {
				if i < 12 {
					Expect(ph).To(Equal(hooks.Relax), "call %d", i)
				} else {
					Expect(ph).To(Equal(hooks.Update), "call %d", i)
				}
			}
		})

		It("visits sources before targets and passes the node's own handle", func() {
			var kinds []entity.Kind
			tbl := hooks.NewTable()
			for _, k := range entity.Kinds() {
				tbl.Add(hooks.Relax, k, hooks.Func("kind", func(p *hooks.Pass, n *entity.Node) {
					Expect(p.Peers.Contains(p.Self)).To(BeTrue())
					Expect(p.Peers.Kind()).To(Equal(n.Kind))
					kinds = append(kinds, n.Kind)
				}))
			}
			e, err := engine.New(bare(), engine.WithHooks(tbl))
			Expect(err).NotTo(HaveOccurred())

			s := entity.NewSnapshot()
			s.AddNode(entity.Target, vector.Zero, 1)
			s.AddNode(entity.Source, vector.Zero, 1)
			s.AddNode(entity.Target, vector.Zero, 1)
			e.RelaxAll(s)

			Expect(kinds).To(Equal([]entity.Kind{entity.Source, entity.Target, entity.Target}))
		})

		It("restores a node a hook made non-finite", func() {
			tbl := hooks.NewTable()
			tbl.Add(hooks.Update, entity.Target, hooks.Func("nan", func(_ *hooks.Pass, n *entity.Node) {
				n.Pos = vector.New(math.NaN(), 0)
			}))
			e, err := engine.New(bare(), engine.WithHooks(tbl))
			Expect(err).NotTo(HaveOccurred())

			s := entity.NewSnapshot()
			h := s.AddNode(entity.Target, vector.New(1, 1), 1)
			e.UpdateAll(s)

			Expect(s.Nodes[h].Pos).To(Equal(vector.New(1, 1)))
			Expect(e.Stats().Clamped).To(Equal(1))
		})

		It("keeps a pinned node at its anchor under the legacy preset", func() {
			e, err := engine.New(legacy())
			Expect(err).NotTo(HaveOccurred())

			s := entity.NewSnapshot()
			pinned := s.AddNode(entity.Target, vector.New(100, 100), 1)
			s.Nodes[pinned].Pinned = true
			peer := s.AddNode(entity.Target, vector.New(106, 100), 1)

			for i := 0; i < 5; i++ {
				e.Step(s)
				Expect(s.Nodes[pinned].Pos).To(Equal(vector.New(100, 100)), "frame %d", i)
				Expect(s.Nodes[pinned].Vel).To(Equal(vector.Zero))
			}
			Expect(s.Nodes[peer].Pos.X).To(BeNumerically(">", 106), "the pinned node should still repel its peer")
		})

		DescribeTable("separates a symmetric pair to exactly min distance in either arena order",
			func(first, second vector.Vector2) {
				tbl := hooks.NewTable()
				tbl.Add(hooks.Relax, entity.Target, hooks.NewSeparate(2))
				e, err := engine.New(bare(), engine.WithHooks(tbl))
				Expect(err).NotTo(HaveOccurred())

				s := entity.NewSnapshot()
				a := s.AddNode(entity.Target, first, 1)
				b := s.AddNode(entity.Target, second, 1)
				e.RelaxAll(s)

				Expect(s.Nodes[a].Pos.Dist(s.Nodes[b].Pos)).To(Equal(2.0))
				mid := s.Nodes[a].Pos.Add(s.Nodes[b].Pos).Scale(0.5)
				Expect(mid).To(Equal(vector.New(0.5, 0)))
			},
			Entry("left first", vector.New(0, 0), vector.New(1, 0)),
			Entry("right first", vector.New(1, 0), vector.New(0, 0)),
		)
	})

	Describe("contract violations", func() {
		dangling := func() *entity.Snapshot {
			s := entity.NewSnapshot()
			src := s.AddNode(entity.Source, vector.New(0, 0), 1)
			tgt := s.AddNode(entity.Target, vector.New(5, 0), 1)
			Expect(s.AddEdge(src, tgt, 1)).To(Succeed())
			s.Edges = append(s.Edges,
				entity.Edge{Source: src, Target: 9, Weight: 1},
				entity.Edge{Source: tgt, Target: src, Weight: 1},
			)
			return s
		}

		It("panics in debug mode", func() {
			cfg := bare()
			cfg.Debug = true
			e, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			s := dangling()
			Expect(func() { e.ComputeForces(s) }).To(PanicWith(BeAssignableToTypeOf(&engine.ContractViolation{})))
		})

		It("skips, counts and logs once per frame otherwise", func() {
			var buf bytes.Buffer
			cfg := bare()
			cfg.Params[config.EdgeLength] = 0
			e, err := engine.New(cfg, engine.WithLogger(log.New(&buf, "", 0)))
			Expect(err).NotTo(HaveOccurred())

			s := dangling()
			f := e.ComputeForces(s)

			Expect(e.Stats().SkippedEdges).To(Equal(2))
			Expect(f[0].X).To(BeNumerically(">", 0))
			Expect(bytes.Count(buf.Bytes(), []byte("contract violation"))).To(Equal(1))
			Expect(buf.String()).To(ContainSubstring(entity.ErrBadHandle.Error()))
		})

		It("wraps the snapshot error", func() {
			var v *engine.ContractViolation
			cfg := bare()
			cfg.Debug = true
			e, err := engine.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			func() {
				defer func() { v, _ = recover().(*engine.ContractViolation) }()
				e.OnRelax(entity.NewSnapshot(), 3)
			}()
			Expect(v).NotTo(BeNil())
			Expect(v).To(MatchError(entity.ErrBadHandle))
		})
	})
})
