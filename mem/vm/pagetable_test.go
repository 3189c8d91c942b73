package vm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vmsim/mem/vm"
)

var _ = Describe("PageTable", func() {
	var (
		pt vm.PageTable
	)

	BeforeEach(func() {
		pt = vm.NewPageTable("PT")
	})

	It("should start with every page invalid", func() {
		Expect(pt.Name()).To(Equal("PT"))
		Expect(pt.NumValid()).To(Equal(0))

		pages := pt.Pages()
		Expect(pages).To(HaveLen(vm.NumPages))
		for i, p := range pages {
			Expect(p.Number).To(Equal(uint8(i)))
			Expect(p.Valid).To(BeFalse())
			Expect(p.Frame).To(Equal(-1))
		}
	})

	It("should install pages", func() {
		pt.Install(7, 3, 10)

		page := pt.Lookup(7)
		Expect(page.Valid).To(BeTrue())
		Expect(page.Frame).To(Equal(3))
		Expect(page.Loaded).To(Equal(uint64(10)))
		Expect(page.LastUsed).To(Equal(uint64(10)))
		Expect(pt.NumValid()).To(Equal(1))
	})

	It("should touch pages", func() {
		pt.Install(7, 3, 10)
		pt.Touch(7, 15)

		page := pt.Lookup(7)
		Expect(page.LastUsed).To(Equal(uint64(15)))
		Expect(page.Loaded).To(Equal(uint64(10)))
	})

	It("should invalidate pages", func() {
		pt.Install(7, 3, 10)
		pt.Invalidate(7)

		page := pt.Lookup(7)
		Expect(page.Valid).To(BeFalse())
		Expect(page.Frame).To(Equal(-1))
		Expect(pt.NumValid()).To(Equal(0))
	})

	It("should allow a page to be installed again after invalidation", func() {
		pt.Install(7, 3, 10)
		pt.Invalidate(7)
		pt.Install(7, 1, 20)

		Expect(pt.Lookup(7).Frame).To(Equal(1))
		Expect(pt.Lookup(7).Loaded).To(Equal(uint64(20)))
	})

	It("should return snapshots", func() {
		pt.Install(1, 0, 0)
		pages := pt.Pages()
		pages[1].Frame = 42

		Expect(pt.Lookup(1).Frame).To(Equal(0))
	})

	It("should panic when installing a valid page", func() {
		pt.Install(7, 3, 10)

		Expect(func() { pt.Install(7, 4, 11) }).To(Panic())
	})

	It("should panic when touching or invalidating an invalid page", func() {
		Expect(func() { pt.Touch(7, 1) }).To(Panic())
		Expect(func() { pt.Invalidate(7) }).To(Panic())
	})
})
