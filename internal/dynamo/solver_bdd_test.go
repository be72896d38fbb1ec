package dynamo_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/softbody/internal/dynamo"
)

func boxSolver(params dynamo.Params) *dynamo.Solver {
	s, err := dynamo.NewFromTopology(params, dynamo.Topology{
		Particles: []dynamo.ParticleSpec{
			{X: 300, Y: 100}, {X: 400, Y: 100}, {X: 400, Y: 200}, {X: 300, Y: 200},
		},
		Constraints: []dynamo.ConstraintSpec{
			{A: 0, B: 1}, {A: 1, B: 2}, {A: 2, B: 3}, {A: 3, B: 0},
			{A: 0, B: 2},
		},
	})
	Expect(err).NotTo(HaveOccurred())
	return s
}

func dist(a, b dynamo.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

var _ = Describe("Solver", func() {
	var params dynamo.Params

	BeforeEach(func() {
		params = dynamo.DefaultParams()
		params.Gravity = 0.5
		params.Damping = 0.999
		params.Iterations = 5
	})

	Describe("pinned particles", func() {
		It("never move under Step", func() {
			s := boxSolver(params)
			Expect(s.Pin(0)).To(Succeed())
			before := s.Particle(0)

			// give a free neighbour a violent kick
			Expect(s.MoveTo(1, 700, 500)).To(Succeed())
			for i := 0; i < 200; i++ {
				s.Step()
			}

			Expect(s.Particle(0)).To(Equal(before))
		})

		It("absorb none of a relaxation", func() {
			s, err := dynamo.New(params)
			Expect(err).NotTo(HaveOccurred())
			a := s.AddParticle(100, 100)
			b := s.AddParticle(130, 100)
			_, err = s.AddConstraintLength(a, b, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Pin(a)).To(Succeed())

			Expect(s.Relax(0)).To(Succeed())

			Expect(s.Particle(a).X).To(Equal(100.0))
			// free end takes its half of the 20-unit correction
			Expect(s.Particle(b).X).To(BeNumerically("~", 120, 1e-12))
		})
	})

	Describe("relaxation", func() {
		It("splits the correction symmetrically between free ends", func() {
			s, err := dynamo.New(params)
			Expect(err).NotTo(HaveOccurred())
			a := s.AddParticle(0, 0)
			b := s.AddParticle(30, 40)
			_, err = s.AddConstraintLength(a, b, 100)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Relax(0)).To(Succeed())

			pa, pb := s.Particle(a), s.Particle(b)
			dax, day := pa.X-0, pa.Y-0
			dbx, dby := pb.X-30, pb.Y-40
			Expect(dax).To(BeNumerically("~", -dbx, 1e-12))
			Expect(day).To(BeNumerically("~", -dby, 1e-12))

			moved := math.Hypot(dax, day) + math.Hypot(dbx, dby)
			Expect(moved).To(BeNumerically("~", 50, 1e-9))
			Expect(dist(pa.Position(), pb.Position())).To(BeNumerically("~", 100, 1e-9))
		})

		It("is a no-op for coincident particles", func() {
			s, err := dynamo.New(params)
			Expect(err).NotTo(HaveOccurred())
			a := s.AddParticle(50, 50)
			b := s.AddParticle(50, 50)
			_, err = s.AddConstraintLength(a, b, 10)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Relax(0)).To(Succeed())

			Expect(s.Particle(a).Position()).To(Equal(dynamo.Point{X: 50, Y: 50}))
			Expect(s.Particle(b).Position()).To(Equal(dynamo.Point{X: 50, Y: 50}))
		})

		It("converges monotonically as iterations increase", func() {
			errAfter := func(iterations int) float64 {
				p := params
				p.Gravity = 0
				p.Iterations = iterations
				s, err := dynamo.New(p)
				Expect(err).NotTo(HaveOccurred())
				a := s.AddParticle(200, 200)
				b := s.AddParticle(300, 200)
				_, err = s.AddConstraintLength(a, b, 50)
				Expect(err).NotTo(HaveOccurred())
				Expect(s.Pin(a)).To(Succeed())
				s.Step()
				return math.Abs(s.Stretch(0))
			}

			prev := math.Inf(1)
			for _, n := range []int{1, 2, 4, 8, 16} {
				e := errAfter(n)
				Expect(e).To(BeNumerically("<", prev))
				prev = e
			}
			Expect(prev).To(BeNumerically("<", 1e-3))
		})
	})

	Describe("boundary collision", func() {
		It("clamps to the floor and reflects the damped velocity", func() {
			p := params
			p.Restitution = 0.7
			s, err := dynamo.New(p)
			Expect(err).NotTo(HaveOccurred())
			h := s.AddParticle(400, 599)
			// old position 10 units higher: falling at 10 px/frame
			Expect(s.Reset(h, 400, 589)).To(Succeed())
			Expect(s.MoveTo(h, 400, 599)).To(Succeed())

			s.Step()

			got := s.Particle(h)
			vy := (599.0 - 589.0) * p.Damping
			Expect(got.Y).To(Equal(p.Height))
			Expect(got.OldY).To(BeNumerically("~", p.Height+vy*p.Restitution, 1e-9))
			vx, nextVy := got.Velocity(1)
			Expect(vx).To(BeZero())
			Expect(nextVy).To(BeNumerically("<", 0))
		})

		It("clamps both walls independently of the floor", func() {
			s, err := dynamo.New(params)
			Expect(err).NotTo(HaveOccurred())
			left := s.AddParticle(2, 300)
			right := s.AddParticle(798, 300)
			Expect(s.Reset(left, 12, 300)).To(Succeed())
			Expect(s.MoveTo(left, 2, 300)).To(Succeed())
			Expect(s.Reset(right, 788, 300)).To(Succeed())
			Expect(s.MoveTo(right, 798, 300)).To(Succeed())

			s.Step()

			Expect(s.Particle(left).X).To(Equal(0.0))
			Expect(s.Particle(left).OldX).To(BeNumerically("<", 0))
			Expect(s.Particle(right).X).To(Equal(params.Width))
			Expect(s.Particle(right).OldX).To(BeNumerically(">", params.Width))
		})
	})

	Describe("the braced box", func() {
		It("falls by gravity alone on the first step", func() {
			s := boxSolver(params)
			before := s.Positions()

			s.Step()

			after := s.Positions()
			for i := range after {
				Expect(after[i].X).To(Equal(before[i].X))
				Expect(after[i].Y - before[i].Y).To(BeNumerically("~", params.Gravity, 1e-12))
			}
		})

		// From rest the first step only translates the body, so the looser
		// support of the unbraced corners 1 and 3 shows once the box is
		// sheared: their diagonal has no link to restore it.
		It("leaves the unbraced diagonal looser than the braced one after a shear", func() {
			p := params
			p.Gravity = 0
			s := boxSolver(p)
			rest13 := dist(s.Positions()[1], s.Positions()[3])
			Expect(s.Reset(3, 280, 200)).To(Succeed())

			s.Step()

			pos := s.Positions()
			braced := math.Abs(s.Stretch(4))
			unbraced := math.Abs(dist(pos[1], pos[3]) - rest13)
			Expect(unbraced).To(BeNumerically(">", braced))
		})

		It("returns to the listed coordinates on reset", func() {
			s := boxSolver(params)
			Expect(s.MoveTo(2, 600, 50)).To(Succeed())
			for i := 0; i < 120; i++ {
				s.Step()
			}

			s.ResetToRest()

			want := []dynamo.Point{{X: 300, Y: 100}, {X: 400, Y: 100}, {X: 400, Y: 200}, {X: 300, Y: 200}}
			for i, w := range want {
				got := s.Particle(dynamo.Handle(i))
				Expect(got.Position()).To(Equal(w))
				Expect(got.OldX).To(Equal(w.X))
				Expect(got.OldY).To(Equal(w.Y))
				vx, vy := got.Velocity(params.Damping)
				Expect(vx).To(BeZero())
				Expect(vy).To(BeZero())
			}
		})
	})

	Describe("topology validation", func() {
		It("rejects links to foreign particles", func() {
			_, err := dynamo.NewFromTopology(params, dynamo.Topology{
				Particles:   []dynamo.ParticleSpec{{X: 0, Y: 0}, {X: 10, Y: 0}},
				Constraints: []dynamo.ConstraintSpec{{A: 0, B: 1}, {A: 1, B: 7}},
			})
			Expect(err).To(MatchError(dynamo.ErrForeignParticle))

			var topoErr *dynamo.TopologyError
			Expect(err).To(BeAssignableToTypeOf(topoErr))
			Expect(err.(*dynamo.TopologyError).Index).To(Equal(1))
		})

		It("rejects self links", func() {
			_, err := dynamo.NewFromTopology(params, dynamo.Topology{
				Particles:   []dynamo.ParticleSpec{{X: 0, Y: 0}},
				Constraints: []dynamo.ConstraintSpec{{A: 0, B: 0}},
			})
			Expect(err).To(MatchError(dynamo.ErrSelfConstraint))
		})
	})
})
