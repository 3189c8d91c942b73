package mmu

import (
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/vmsim/mem/trace"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/physmem"
	"github.com/sarchlab/vmsim/memory"
	"github.com/sarchlab/vmsim/tracing"
)

type runOptions struct {
	frames         int
	policy         physmem.Policy
	fillTLBOnFault bool
}

func run(
	image memory.BackingStore,
	addrs []vm.LogicalAddress,
	opts runOptions,
) (*MMU, []Translation) {
	frames := physmem.MakeBuilder().
		WithNumFrames(opts.frames).
		WithPolicy(opts.policy).
		WithLookahead(trace.NewLookahead(addrs)).
		WithBackingStore(image).
		Build("Frames")

	m := MakeBuilder().
		WithFrameStore(frames).
		WithTLBFillOnFault(opts.fillTLBOnFault).
		Build("MMU")

	translations := make([]Translation, 0, len(addrs))
	for i, a := range addrs {
		t, err := m.Translate(a, uint64(i))
		Expect(err).NotTo(HaveOccurred())
		translations = append(translations, t)
	}

	return m, translations
}

func outcomes(translations []Translation) []Outcome {
	o := make([]Outcome, len(translations))
	for i, t := range translations {
		o[i] = t.Outcome
	}

	return o
}

func randomStream(seed int64, n, numPages int) []vm.LogicalAddress {
	r := rand.New(rand.NewSource(seed))
	addrs := make([]vm.LogicalAddress, n)
	for i := range addrs {
		addrs[i] = vm.LogicalAddress(r.Intn(numPages)<<8 | r.Intn(256))
	}

	return addrs
}

var referenceString = []uint8{
	1, 2, 3, 4, 2, 1, 5, 6, 2, 1, 2, 3, 7, 6, 3, 2, 1, 2, 3, 6,
}

var _ = Describe("MMU", func() {
	var (
		image *memory.Storage
	)

	BeforeEach(func() {
		image = memory.NewRandomStorage(1)
	})

	It("should translate to the frame and read the signed byte", func() {
		addrs := []vm.LogicalAddress{16916, 62493, 0x12345}

		_, translations := run(image, addrs,
			runOptions{frames: 256, fillTLBOnFault: true})

		for i, t := range translations {
			page, offset := vm.Decompose(addrs[i])
			Expect(t.Page).To(Equal(page))
			Expect(t.Offset).To(Equal(offset))
			Expect(t.Frame).To(Equal(i))
			Expect(t.Physical).To(Equal(uint32(i*256) + uint32(offset)))

			raw, err := image.Read(uint64(page)*256+uint64(offset), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Value).To(Equal(int8(raw[0])))
		}
	})

	It("should ignore bits above the low 16", func() {
		_, translations := run(image,
			[]vm.LogicalAddress{0x0001_0203, 0x0203},
			runOptions{frames: 4, fillTLBOnFault: true})

		Expect(translations[0].Page).To(Equal(uint8(2)))
		Expect(translations[0].Offset).To(Equal(uint8(3)))
		Expect(outcomes(translations)).To(Equal([]Outcome{PageFault, TLBHit}))
	})

	Context("when the TLB is filled on faults", func() {
		It("should serve repeated pages from the TLB", func() {
			m, translations := run(image,
				[]vm.LogicalAddress{256, 257, 512, 256},
				runOptions{frames: 2, fillTLBOnFault: true})

			Expect(outcomes(translations)).To(Equal([]Outcome{
				PageFault, TLBHit, PageFault, TLBHit,
			}))
			Expect(m.Statistics()).To(Equal(Statistics{
				Addresses:  4,
				PageFaults: 2,
				TLBHits:    2,
			}))
			Expect(m.Statistics().TLBMisses()).To(Equal(uint64(2)))
		})
	})

	Context("when only page table hits fill the TLB", func() {
		It("should resolve the second access from the page table", func() {
			m, translations := run(image,
				[]vm.LogicalAddress{256, 257, 512, 256},
				runOptions{frames: 2})

			Expect(outcomes(translations)).To(Equal([]Outcome{
				PageFault, PageTableHit, PageFault, TLBHit,
			}))

			stats := m.Statistics()
			Expect(stats.PageFaults).To(Equal(uint64(2)))
			Expect(stats.TLBHits).To(Equal(uint64(1)))
			Expect(stats.PageTableHits).To(Equal(uint64(1)))
			Expect(stats.TLBMisses()).To(Equal(uint64(3)))
			Expect(stats.PageFaultRate()).To(Equal(0.5))
			Expect(stats.TLBHitRate()).To(Equal(0.25))
		})
	})

	It("should keep the TLB coherent after evictions", func() {
		m, translations := run(image,
			[]vm.LogicalAddress{0x100, 0x200, 0x300, 0x101},
			runOptions{frames: 2, fillTLBOnFault: true})

		Expect(translations[2].Evicted).To(BeTrue())
		Expect(translations[2].Victim).To(Equal(uint8(1)))
		Expect(translations[2].Frame).To(Equal(0))

		Expect(translations[3].Outcome).To(Equal(PageFault))
		Expect(translations[3].Victim).To(Equal(uint8(2)))

		for _, e := range m.TLB().Entries() {
			pte := m.PageTable().Lookup(e.Page)
			Expect(pte.Valid).To(BeTrue())
			Expect(pte.Frame).To(Equal(e.Frame))
		}
		Expect(m.PageTable().Lookup(2).Valid).To(BeFalse())
		Expect(m.PageTable().NumValid()).To(Equal(2))
		Expect(m.Statistics().Evictions).To(Equal(uint64(2)))
	})

	It("should refresh LRU recency on TLB hits", func() {
		_, translations := run(image,
			trace.FromReferences([]uint8{1, 2, 1, 3}),
			runOptions{frames: 2, policy: physmem.LRU, fillTLBOnFault: true})

		Expect(translations[2].Outcome).To(Equal(TLBHit))
		Expect(translations[3].Victim).To(Equal(uint8(2)))
	})

	It("should ignore recency under FIFO", func() {
		_, translations := run(image,
			trace.FromReferences([]uint8{1, 2, 1, 3}),
			runOptions{frames: 2, policy: physmem.FIFO, fillTLBOnFault: true})

		Expect(translations[3].Victim).To(Equal(uint8(1)))
	})

	DescribeTable("the classic reference string with three frames",
		func(policy physmem.Policy, faults int) {
			m, _ := run(image, trace.FromReferences(referenceString),
				runOptions{frames: 3, policy: policy, fillTLBOnFault: true})

			Expect(m.Statistics().PageFaults).To(Equal(uint64(faults)))
		},
		Entry("FIFO", physmem.FIFO, 16),
		Entry("LRU", physmem.LRU, 15),
		Entry("OPT", physmem.OPT, 11),
	)

	DescribeTable("properties over random streams",
		func(seed int64, frames int, numPages int) {
			addrs := randomStream(seed, 2000, numPages)

			faults := map[physmem.Policy]uint64{}
			for _, p := range []physmem.Policy{
				physmem.FIFO, physmem.LRU, physmem.OPT,
			} {
				for _, fill := range []bool{true, false} {
					m, _ := run(image, addrs, runOptions{
						frames: frames, policy: p, fillTLBOnFault: fill,
					})

					s := m.Statistics()
					Expect(s.Addresses).To(Equal(uint64(len(addrs))))
					Expect(s.TLBHits + s.PageTableHits + s.PageFaults).
						To(Equal(s.Addresses))
					Expect(m.FrameStore().NumOccupied()).
						To(Equal(m.PageTable().NumValid()))
					Expect(m.TLB().Len()).To(BeNumerically("<=", 16))

					faults[p] = s.PageFaults
				}
			}

			Expect(faults[physmem.OPT]).To(BeNumerically("<=", faults[physmem.FIFO]))
			Expect(faults[physmem.OPT]).To(BeNumerically("<=", faults[physmem.LRU]))
		},
		Entry("few frames", int64(1), 4, 16),
		Entry("many pages", int64(2), 32, 256),
		Entry("one frame", int64(3), 1, 8),
	)

	It("should fault once per distinct page when memory is large enough",
		func() {
			addrs := randomStream(4, 3000, 200)
			distinct := map[uint8]bool{}
			for _, a := range addrs {
				distinct[vm.PageOf(a)] = true
			}

			for _, p := range []physmem.Policy{
				physmem.FIFO, physmem.LRU, physmem.OPT,
			} {
				m, _ := run(image, addrs, runOptions{
					frames: 256, policy: p, fillTLBOnFault: true,
				})

				Expect(m.Statistics().PageFaults).
					To(Equal(uint64(len(distinct))))
				Expect(m.Statistics().Evictions).To(BeZero())
			}
		})

	It("should produce identical results on reruns", func() {
		addrs := randomStream(5, 500, 64)

		_, first := run(image, addrs,
			runOptions{frames: 8, policy: physmem.LRU, fillTLBOnFault: true})
		_, second := run(image, addrs,
			runOptions{frames: 8, policy: physmem.LRU, fillTLBOnFault: true})

		Expect(second).To(Equal(first))
	})

	It("should report the steps of each translation", func() {
		frames := physmem.MakeBuilder().
			WithNumFrames(1).
			WithBackingStore(image).
			Build("Frames")
		m := MakeBuilder().WithFrameStore(frames).Build("MMU")

		tracer := tracing.NewStepCountTracer(
			tracing.TasksOfKind(TranslationTaskKind))
		tracing.CollectTrace(m, tracer)

		for i, a := range []vm.LogicalAddress{0x100, 0x101, 0x200} {
			_, err := m.Translate(a, uint64(i))
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(tracer.NumTasks()).To(Equal(uint64(3)))
		Expect(tracer.StepCount("tlb-hit")).To(Equal(uint64(1)))
		Expect(tracer.StepCount("tlb-miss")).To(Equal(uint64(2)))
		Expect(tracer.StepCount("page-fault")).To(Equal(uint64(2)))
		Expect(tracer.StepCount("evict")).To(Equal(uint64(1)))
		Expect(m.CurrentTime()).To(Equal(uint64(2)))
	})

	It("should panic without a frame store", func() {
		Expect(func() { MakeBuilder().Build("MMU") }).To(Panic())
	})
})

var _ = Describe("MMU with a failing backing store", func() {
	var (
		mockCtrl     *gomock.Controller
		backingStore *MockBackingStore
		m            *MMU
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		backingStore = NewMockBackingStore(mockCtrl)

		frames := physmem.MakeBuilder().
			WithNumFrames(1).
			WithBackingStore(backingStore).
			Build("Frames")
		m = MakeBuilder().WithFrameStore(frames).Build("MMU")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should return the error and leave the state unchanged", func() {
		backingStore.EXPECT().ReadPage(uint8(1)).
			Return(make([]byte, vm.PageSize), nil)
		backingStore.EXPECT().ReadPage(uint8(9)).
			Return(nil, &memory.StorageError{
				Page: 9,
				Path: "BACKING_STORE.bin",
				Err:  memory.ErrTruncatedImage,
			})

		_, err := m.Translate(0x100, 0)
		Expect(err).NotTo(HaveOccurred())

		_, err = m.Translate(0x900, 1)

		Expect(errors.Is(err, memory.ErrTruncatedImage)).To(BeTrue())
		var storageErr *memory.StorageError
		Expect(errors.As(err, &storageErr)).To(BeTrue())
		Expect(storageErr.Page).To(Equal(9))

		Expect(m.Statistics()).To(Equal(Statistics{
			Addresses:  1,
			PageFaults: 1,
		}))
		Expect(m.PageTable().Lookup(1).Valid).To(BeTrue())
		Expect(m.PageTable().Lookup(9).Valid).To(BeFalse())
		Expect(m.TLB().Entries()).To(HaveLen(1))
	})
})
