package rules_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cellsim/internal/grid"
	"github.com/san-kum/cellsim/internal/neighbor"
	"github.com/san-kum/cellsim/internal/patterns"
	"github.com/san-kum/cellsim/internal/rules"
)

func engineFor(cfg rules.Config) *rules.Engine {
	e, err := rules.NewEngine(cfg)
	Expect(err).NotTo(HaveOccurred())
	return e
}

func configFor(kind rules.Kind, b neighbor.Boundary) rules.Config {
	cfg := rules.DefaultConfig()
	cfg.Variant = kind
	cfg.Boundary = b
	return cfg
}

var _ = Describe("Config", func() {
	DescribeTable("rejects invalid values",
		func(mutate func(*rules.Config), field string) {
			cfg := rules.DefaultConfig()
			mutate(&cfg)

			_, err := rules.NewEngine(cfg)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, rules.ErrInvalidConfig)).To(BeTrue())

			var cerr *rules.ConfigError
			Expect(errors.As(err, &cerr)).To(BeTrue())
			Expect(cerr.Field).To(Equal(field))
		},
		Entry("unknown variant", func(c *rules.Config) { c.Variant = "highlife" }, "variant"),
		Entry("negative probability", func(c *rules.Config) { c.PDeath = -0.1 }, "p_death"),
		Entry("probability above one", func(c *rules.Config) { c.PDeath = 1.5 }, "p_death"),
		Entry("sacrifice above eight", func(c *rules.Config) { c.SacrificeN = 9 }, "sacrifice_n"),
		Entry("negative sacrifice", func(c *rules.Config) { c.SacrificeN = -1 }, "sacrifice_n"),
		Entry("selfishness above one", func(c *rules.Config) { c.Selfishness = 2 }, "selfishness"),
		Entry("kill ring of six", func(c *rules.Config) { c.KillRing = 6 }, "kill_ring"),
		Entry("threshold of nine", func(c *rules.Config) { c.AggressiveThreshold = 9 }, "aggressive_threshold"),
		Entry("threshold of two", func(c *rules.Config) { c.AggressiveThreshold = 2 }, "aggressive_threshold"),
		Entry("threshold of five", func(c *rules.Config) { c.AggressiveThreshold = 5 }, "aggressive_threshold"),
		Entry("unknown boundary", func(c *rules.Config) { c.Boundary = neighbor.Boundary(7) }, "boundary"),
		Entry("mask with non-finite weights", func(c *rules.Config) {
			c.Mask = neighbor.Mask{{math.NaN(), 1, 1}, {1, 0, 1}, {1, 1, math.Inf(1)}}
		}, "mask"),
		Entry("mask with center weight", func(c *rules.Config) {
			c.Mask = neighbor.Mask{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
		}, "mask"),
	)

	It("wraps the mask error", func() {
		cfg := rules.DefaultConfig()
		cfg.Mask = neighbor.Mask{{-1, 0, 0}, {0, 0, 0}, {0, 0, 0}}
		err := cfg.Validate()
		Expect(errors.Is(err, neighbor.ErrInvalidMask)).To(BeTrue())
	})

	It("fills defaults for zero-valued optional fields", func() {
		e := engineFor(rules.Config{})
		Expect(e.Config().Variant).To(Equal(rules.KindStandard))
		Expect(e.Config().Mask).To(Equal(neighbor.Standard))
		Expect(e.Config().KillRing).To(Equal(4))
		Expect(e.Config().AggressiveThreshold).To(Equal(4))
	})

	It("parses variant names", func() {
		for _, k := range rules.Kinds() {
			parsed, err := rules.ParseKind(string(k))
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(k))
		}
		_, err := rules.ParseKind("seeds")
		Expect(errors.Is(err, rules.ErrInvalidConfig)).To(BeTrue())
	})

	It("reports errors from the one-shot Step", func() {
		cfg := rules.DefaultConfig()
		cfg.PDeath = 3
		_, err := rules.Step(grid.New(3, 3), cfg, rules.NewRand(1))
		Expect(errors.Is(err, rules.ErrInvalidConfig)).To(BeTrue())
	})
})

var _ = Describe("Every variant", func() {
	for _, kind := range []rules.Kind{
		rules.KindStandard, rules.KindStochastic, rules.KindWeighted, rules.KindSacrifice, rules.KindSelfish,
	} {
		kind := kind

		It(string(kind)+" keeps an empty grid empty", func() {
			cfg := configFor(kind, neighbor.Toroidal)
			cfg.PDeath = 0.3
			cfg.Selfishness = 0.5
			e := engineFor(cfg)
			g := grid.New(8, 8)
			for i := 0; i < 5; i++ {
				g = e.Step(g, rules.NewRand(int64(i)))
				Expect(g.AliveCount()).To(BeZero())
			}
		})

		It(string(kind)+" leaves its input untouched", func() {
			cfg := configFor(kind, neighbor.Clamped)
			cfg.PDeath = 0.5
			cfg.SacrificeN = 2
			g := grid.New(12, 12)
			patterns.Fill(g, 0.4, rules.NewRand(3))
			rules.AssignSelfishness(g, 0.5, rules.NewRand(4))
			before := g.Clone()

			next := engineFor(cfg).Step(g, rules.NewRand(5))
			Expect(g.Equal(before)).To(BeTrue())
			Expect(g.String()).To(Equal(before.String()))
			Expect(next).NotTo(BeIdenticalTo(g))
		})

		It(string(kind)+" replays under a fixed seed", func() {
			cfg := configFor(kind, neighbor.Toroidal)
			cfg.PDeath = 0.4
			cfg.DeathSampling = true
			cfg.SacrificeN = 3
			cfg.Selfishness = 0.3
			seed := grid.New(16, 16)
			patterns.Fill(seed, 0.35, rules.NewRand(11))

			run := func() *grid.Grid {
				e := engineFor(cfg)
				rng := rules.NewRand(42)
				g := seed.Clone()
				for i := 0; i < 10; i++ {
					g = e.Step(g, rng)
				}
				return g
			}
			Expect(run().String()).To(Equal(run().String()))
		})
	}
})

var _ = Describe("Standard", func() {
	var e *rules.Engine

	BeforeEach(func() {
		e = engineFor(configFor(rules.KindStandard, neighbor.Clamped))
	})

	It("oscillates a blinker", func() {
		g := mustParse(".....\n.....\n.###.\n.....\n.....\n")
		next := e.Step(g, nil)
		Expect(next.String()).To(Equal(".....\n..#..\n..#..\n..#..\n.....\n"))
		Expect(e.Step(next, nil).Equal(g)).To(BeTrue())
	})

	It("keeps a block still and ages it", func() {
		g := mustParse("....\n.##.\n.##.\n....\n")
		next := e.Step(e.Step(g, nil), nil)
		Expect(next.Equal(g)).To(BeTrue())
		Expect(next.Age(1, 1)).To(Equal(2))
		Expect(next.Age(2, 2)).To(Equal(2))
	})

	It("starts newborns at age zero", func() {
		g := mustParse(".....\n.....\n.###.\n.....\n.....\n")
		next := e.Step(g, nil)
		Expect(next.Age(2, 2)).To(Equal(1))
		Expect(next.Age(1, 2)).To(Equal(0))
		Expect(next.Age(2, 1)).To(Equal(0))
	})

	It("translates a glider by one diagonal cell every four generations on a torus", func() {
		glider, err := patterns.Get("glider")
		Expect(err).NotTo(HaveOccurred())

		torus := engineFor(configFor(rules.KindStandard, neighbor.Toroidal))
		g := grid.New(10, 10)
		patterns.Place(g, glider, 1, 1)
		want := grid.New(10, 10)
		patterns.Place(want, glider, 2, 2)

		for i := 0; i < 4; i++ {
			g = torus.Step(g, nil)
		}
		Expect(g.String()).To(Equal(want.String()))
	})

	It("wraps a glider across the torus edge", func() {
		glider, _ := patterns.Get("glider")
		torus := engineFor(configFor(rules.KindStandard, neighbor.Toroidal))
		g := grid.New(8, 8)
		patterns.Place(g, glider, 0, 0)

		for i := 0; i < 32; i++ {
			g = torus.Step(g, nil)
		}
		// 32 generations move the glider 8 cells, a full lap.
		want := grid.New(8, 8)
		patterns.Place(want, glider, 0, 0)
		Expect(g.Equal(want)).To(BeTrue())
	})
})

var _ = Describe("Stochastic", func() {
	seed := func() *grid.Grid {
		g := grid.New(20, 20)
		patterns.Fill(g, 0.4, rules.NewRand(9))
		return g
	}

	It("matches Standard when PDeath is zero", func() {
		g := seed()
		std := engineFor(configFor(rules.KindStandard, neighbor.Toroidal)).Step(g, nil)
		sto := engineFor(configFor(rules.KindStochastic, neighbor.Toroidal)).Step(g, rules.NewRand(1))
		Expect(sto.Equal(std)).To(BeTrue())
	})

	It("kills everything when PDeath is one", func() {
		cfg := configFor(rules.KindStochastic, neighbor.Toroidal)
		cfg.PDeath = 1
		next := engineFor(cfg).Step(seed(), rules.NewRand(1))
		Expect(next.AliveCount()).To(BeZero())
	})

	It("only removes cells relative to Standard", func() {
		g := seed()
		std := engineFor(configFor(rules.KindStandard, neighbor.Toroidal)).Step(g, nil)
		cfg := configFor(rules.KindStochastic, neighbor.Toroidal)
		cfg.PDeath = 0.5
		sto := engineFor(cfg).Step(g, rules.NewRand(2))

		Expect(sto.AliveCount()).To(BeNumerically("<", std.AliveCount()))
		sto.Each(func(r, c int) {
			Expect(std.Alive(r, c)).To(BeTrue())
		})
	})
})

var _ = Describe("Weighted", func() {
	It("matches Standard with the standard mask and no sampling", func() {
		g := grid.New(15, 15)
		patterns.Fill(g, 0.4, rules.NewRand(21))
		std := engineFor(configFor(rules.KindStandard, neighbor.Clamped)).Step(g, nil)
		w := engineFor(configFor(rules.KindWeighted, neighbor.Clamped)).Step(g, rules.NewRand(1))
		Expect(w.Equal(std)).To(BeTrue())
	})

	It("rounds a 2.7 weighted sum up to a birth", func() {
		cfg := configFor(rules.KindWeighted, neighbor.Clamped)
		cfg.Mask = neighbor.Isotropic
		g := build(5, 5, [2]int{1, 1}, [2]int{1, 2}, [2]int{2, 1})
		next := engineFor(cfg).Step(g, rules.NewRand(1))
		Expect(next.Alive(2, 2)).To(BeTrue())
	})

	Context("with death sampling", func() {
		// five isolated cells, all doomed under the neighbor rule
		lonely := func() *grid.Grid {
			return build(7, 7, [2]int{0, 0}, [2]int{0, 6}, [2]int{6, 0}, [2]int{6, 6}, [2]int{3, 3})
		}

		cfgWith := func(p float64) rules.Config {
			cfg := configFor(rules.KindWeighted, neighbor.Clamped)
			cfg.DeathSampling = true
			cfg.PDeath = p
			return cfg
		}

		It("spares every candidate when PDeath is zero", func() {
			next := engineFor(cfgWith(0)).Step(lonely(), rules.NewRand(1))
			Expect(next.AliveCount()).To(Equal(5))
			Expect(next.Age(3, 3)).To(Equal(1))
		})

		It("kills every candidate when PDeath is one", func() {
			next := engineFor(cfgWith(1)).Step(lonely(), rules.NewRand(1))
			Expect(next.AliveCount()).To(BeZero())
		})

		It("rounds half to even when sizing the sample", func() {
			// 0.5 * 5 = 2.5 rounds to 2 deaths
			for seed := int64(0); seed < 16; seed++ {
				next := engineFor(cfgWith(0.5)).Step(lonely(), rules.NewRand(seed))
				Expect(next.AliveCount()).To(Equal(3))
			}
		})

		It("varies the victims with the seed", func() {
			seen := map[string]bool{}
			for seed := int64(0); seed < 32; seed++ {
				seen[engineFor(cfgWith(0.5)).Step(lonely(), rules.NewRand(seed)).String()] = true
			}
			Expect(len(seen)).To(BeNumerically(">", 1))
		})
	})
})

var _ = Describe("Sacrifice", func() {
	It("matches Standard when no cell has the sacrifice count", func() {
		g := mustParse(".....\n.....\n.###.\n.....\n.....\n")
		cfg := configFor(rules.KindSacrifice, neighbor.Clamped)
		cfg.SacrificeN = 8
		next := engineFor(cfg).Step(g, rules.NewRand(1))
		std := engineFor(configFor(rules.KindStandard, neighbor.Clamped)).Step(g, nil)
		Expect(next.Equal(std)).To(BeTrue())
	})

	It("culls before the neighbor rule", func() {
		// Both ends of the blinker have one neighbor and are sacrificed,
		// which leaves the center alone to die.
		g := mustParse(".....\n.....\n.###.\n.....\n.....\n")
		cfg := configFor(rules.KindSacrifice, neighbor.Clamped)
		cfg.SacrificeN = 1
		for seed := int64(0); seed < 8; seed++ {
			next := engineFor(cfg).Step(g, rules.NewRand(seed))
			Expect(next.AliveCount()).To(BeZero())
		}
	})

	It("depends on the shuffled visit order", func() {
		g := build(6, 6, [2]int{1, 1}, [2]int{1, 2}, [2]int{2, 1}, [2]int{2, 2}, [2]int{0, 3})
		cfg := configFor(rules.KindSacrifice, neighbor.Clamped)
		cfg.SacrificeN = 3

		outcomes := map[string]bool{}
		for seed := int64(1); seed <= 64; seed++ {
			outcomes[engineFor(cfg).Step(g, rules.NewRand(seed)).String()] = true
		}
		Expect(len(outcomes)).To(BeNumerically(">=", 2))
	})
})

var _ = Describe("Selfish", func() {
	selfishCfg := func(ring int) rules.Config {
		cfg := configFor(rules.KindSelfish, neighbor.Clamped)
		cfg.KillRing = ring
		return cfg
	}

	It("kills k-3 live neighbors along the ring", func() {
		// aggressor at (3,3) with five neighbors; only left and up lie on ring4
		g := build(7, 7,
			[2]int{3, 3},
			[2]int{3, 2}, [2]int{2, 3},
			[2]int{2, 2}, [2]int{2, 4}, [2]int{4, 4},
		)
		g.SetSelfish(3, 3, true)

		next := engineFor(selfishCfg(4)).Step(g, rules.NewRand(1))
		Expect(next.Alive(3, 2)).To(BeFalse())
		Expect(next.Alive(2, 3)).To(BeFalse())
		Expect(next.Alive(3, 3)).To(BeTrue())
		Expect(next.Vitality(3, 3)).To(Equal(1))
		Expect(next.Age(3, 3)).To(Equal(1))
		Expect(next.Alive(2, 2)).To(BeTrue())
		Expect(next.Alive(2, 4)).To(BeTrue())
	})

	Describe("a fully surrounded aggressor", func() {
		surrounded := func() *grid.Grid {
			g := grid.New(7, 7)
			for r := 2; r <= 4; r++ {
				for c := 2; c <= 4; c++ {
					g.Set(r, c, true)
				}
			}
			g.SetSelfish(3, 3, true)
			for _, c := range [][2]int{{4, 2}, {4, 4}} {
				g.SetSelfish(c[0], c[1], true)
				g.SetVitality(c[0], c[1], 1)
			}
			return g
		}

		It("stops at the end of the four-ring without wrapping", func() {
			next := engineFor(selfishCfg(4)).Step(surrounded(), rules.NewRand(1))
			for _, c := range [][2]int{{3, 2}, {4, 3}, {3, 4}, {2, 3}} {
				Expect(next.Alive(c[0], c[1])).To(BeFalse(), "orthogonal %v", c)
			}
			Expect(next.Alive(3, 3)).To(BeTrue())
			Expect(next.Vitality(3, 3)).To(Equal(1))
			// lower diagonals were not on the ring and lean on their vitality
			Expect(next.Alive(4, 2)).To(BeTrue())
			Expect(next.Vitality(4, 2)).To(Equal(0))
			Expect(next.Alive(4, 4)).To(BeTrue())
		})

		It("walks the eight-ring in order and spends the whole quota", func() {
			next := engineFor(selfishCfg(8)).Step(surrounded(), rules.NewRand(1))
			for _, c := range [][2]int{{3, 2}, {4, 2}, {4, 3}, {4, 4}, {3, 4}} {
				Expect(next.Alive(c[0], c[1])).To(BeFalse(), "ring cell %v", c)
			}
			Expect(next.Alive(3, 3)).To(BeTrue())
			// up-left and up-right were visited before the aggressor and kept
			Expect(next.Alive(2, 2)).To(BeTrue())
			Expect(next.Alive(2, 4)).To(BeTrue())
		})
	})

	It("does not prey across the edge of a torus", func() {
		// (2,4) is the left neighbor of (2,0) only through the wrap
		g := build(5, 5,
			[2]int{2, 0},
			[2]int{2, 4},
			[2]int{1, 0}, [2]int{1, 1}, [2]int{3, 0}, [2]int{3, 1},
		)
		g.SetSelfish(2, 0, true)
		g.SetSelfish(2, 4, true)
		g.SetVitality(2, 4, 1)

		cfg := selfishCfg(4)
		cfg.Boundary = neighbor.Toroidal
		next := engineFor(cfg).Step(g, rules.NewRand(1))

		Expect(next.Alive(2, 0)).To(BeTrue())
		Expect(next.Vitality(2, 0)).To(Equal(1))
		Expect(next.Alive(3, 0)).To(BeFalse())
		Expect(next.Alive(1, 0)).To(BeFalse())
		Expect(next.Alive(2, 4)).To(BeTrue())
		Expect(next.Vitality(2, 4)).To(Equal(0))
	})

	It("accepts thresholds of three and four", func() {
		for _, th := range []int{3, 4} {
			cfg := selfishCfg(4)
			cfg.AggressiveThreshold = th
			Expect(cfg.Validate()).To(Succeed())
		}
	})

	It("lets a lonely selfish cell live on its vitality", func() {
		g := build(5, 5, [2]int{2, 2})
		g.SetSelfish(2, 2, true)
		g.SetVitality(2, 2, 1)
		e := engineFor(selfishCfg(4))

		next := e.Step(g, rules.NewRand(1))
		Expect(next.Alive(2, 2)).To(BeTrue())
		Expect(next.Vitality(2, 2)).To(Equal(0))
		Expect(next.Selfish(2, 2)).To(BeTrue())

		Expect(e.Step(next, rules.NewRand(1)).Alive(2, 2)).To(BeFalse())
	})

	It("lets a lonely ordinary cell die", func() {
		g := build(5, 5, [2]int{2, 2})
		next := engineFor(selfishCfg(4)).Step(g, rules.NewRand(1))
		Expect(next.AliveCount()).To(BeZero())
	})

	It("births on three or four neighbors and rolls selfishness", func() {
		g := build(5, 5, [2]int{1, 1}, [2]int{1, 3}, [2]int{3, 1}, [2]int{3, 3})

		cfg := selfishCfg(4)
		cfg.Selfishness = 1
		next := engineFor(cfg).Step(g, rules.NewRand(1))
		Expect(next.Alive(2, 2)).To(BeTrue())
		Expect(next.Selfish(2, 2)).To(BeTrue())
		Expect(next.Vitality(2, 2)).To(BeZero())

		cfg.Selfishness = 0
		next = engineFor(cfg).Step(g, rules.NewRand(1))
		Expect(next.Alive(2, 2)).To(BeTrue())
		Expect(next.Selfish(2, 2)).To(BeFalse())
	})
})

var _ = Describe("AssignSelfishness", func() {
	It("marks int(alive * level) cells", func() {
		g := grid.New(10, 10)
		for c := 0; c < 10; c++ {
			g.Set(0, c, true)
		}
		g.Set(5, 5, true)

		Expect(rules.AssignSelfishness(g, 0.5, rules.NewRand(1))).To(Equal(5))
		marked := 0
		g.Each(func(r, c int) {
			if g.Selfish(r, c) {
				marked++
			}
		})
		Expect(marked).To(Equal(5))

		Expect(rules.AssignSelfishness(g, 0, rules.NewRand(1))).To(BeZero())
		Expect(g.Selfish(0, 0)).To(BeFalse())

		Expect(rules.AssignSelfishness(g, 1, rules.NewRand(1))).To(Equal(11))
	})
})
