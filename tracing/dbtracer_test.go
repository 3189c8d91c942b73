package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl     *gomock.Controller
		timeTeller   *MockTimeTeller
		dataRecorder *MockDataRecorder
		tracer       *DBTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		timeTeller = NewMockTimeTeller(mockCtrl)
		dataRecorder = NewMockDataRecorder(mockCtrl)

		dataRecorder.EXPECT().CreateTable(TaskTable, TaskEntry{})
		dataRecorder.EXPECT().CreateTable(TaskStepTable, TaskStepEntry{})

		tracer = NewDBTracer(timeTeller, dataRecorder)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write a task and its steps when the task ends", func() {
		task := Task{
			ID:       "7",
			Kind:     "translation",
			What:     "read",
			Location: "MMU",
		}

		timeTeller.EXPECT().CurrentTime().Return(uint64(3)).Times(3)

		tracer.StartTask(task)
		tracer.StepTask(Task{ID: "7", Steps: []TaskStep{{What: "page-fault"}}})

		dataRecorder.EXPECT().InsertData(TaskTable, TaskEntry{
			ID:        "7",
			Kind:      "translation",
			What:      "read",
			Location:  "MMU",
			StartTime: 3,
			EndTime:   3,
		})
		dataRecorder.EXPECT().InsertData(TaskStepTable, TaskStepEntry{
			TaskID: "7",
			Time:   3,
			What:   "page-fault",
		})

		tracer.EndTask(Task{ID: "7"})
	})

	It("should ignore steps and ends of unknown tasks", func() {
		tracer.StepTask(Task{ID: "1", Steps: []TaskStep{{What: "x"}}})
		tracer.EndTask(Task{ID: "1"})
	})

	It("should panic on incomplete tasks", func() {
		Expect(func() {
			tracer.StartTask(Task{ID: "1", Kind: "translation", What: "read"})
		}).To(Panic())
	})

	It("should drop open tasks and flush when terminated", func() {
		timeTeller.EXPECT().CurrentTime().Return(uint64(0))
		tracer.StartTask(Task{
			ID: "1", Kind: "translation", What: "read", Location: "MMU",
		})

		dataRecorder.EXPECT().Flush()
		tracer.Terminate()

		tracer.EndTask(Task{ID: "1"})
	})
})
