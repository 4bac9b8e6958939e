package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"floorwatch.app/tracker/internal/model"
	"floorwatch.app/tracker/internal/queue"
	"floorwatch.app/tracker/internal/service"
	"floorwatch.app/tracker/internal/store"
)

var _ = Describe("IssueService", func() {
	var (
		svc       service.IssueService
		mockStore *mockIssueStore
		producer  *mockProducer
		ctx       context.Context
	)

	validDraft := model.IssueDraft{
		FactoryID:   "1",
		Title:       "Conveyor belt misaligned",
		Description: "Belt drifts left under load on line 3",
		CreatedBy:   "admin",
	}

	BeforeEach(func() {
		ctx = context.Background()
		mockStore = &mockIssueStore{}
		producer = &mockProducer{}
		svc = service.NewIssueService(mockStore, producer, 0)
	})

	Describe("Create", func() {
		Context("when the draft is valid", func() {
			It("should persist the issue and return it", func() {
				var capturedDraft model.IssueDraft
				mockStore.createFn = func(_ context.Context, d model.IssueDraft) (*model.Issue, error) {
					capturedDraft = d
					return model.NewIssue(d, "100", time.Now().UTC()), nil
				}

				issue, err := svc.Create(ctx, validDraft)

				Expect(err).NotTo(HaveOccurred())
				Expect(issue).NotTo(BeNil())
				Expect(issue.ID).To(Equal("100"))
				Expect(issue.Status).To(Equal(model.StatusOpen))
				Expect(issue.CreatedAt).To(Equal(issue.UpdatedAt))
				Expect(capturedDraft).To(Equal(validDraft))
			})

			It("should publish an issue_created event", func() {
				mockStore.createFn = func(_ context.Context, d model.IssueDraft) (*model.Issue, error) {
					return model.NewIssue(d, "100", time.Now().UTC()), nil
				}

				_, err := svc.Create(ctx, validDraft)

				Expect(err).NotTo(HaveOccurred())
				Expect(producer.enqueueCalls).To(HaveLen(1))
				Expect(producer.enqueueCalls[0].IssueID).To(Equal("100"))
				Expect(producer.enqueueCalls[0].FactoryID).To(Equal("1"))
				Expect(producer.enqueueCalls[0].EventType).To(Equal(model.IssueEventCreated))
				Expect(producer.enqueueCalls[0].Status).To(Equal(model.StatusOpen))
			})

			It("should still succeed when publishing fails", func() {
				mockStore.createFn = func(_ context.Context, d model.IssueDraft) (*model.Issue, error) {
					return model.NewIssue(d, "100", time.Now().UTC()), nil
				}
				producer.enqueueFn = func(_ context.Context, _ queue.EventMessage) error {
					return errors.New("stream unavailable")
				}

				issue, err := svc.Create(ctx, validDraft)

				Expect(err).NotTo(HaveOccurred())
				Expect(issue).NotTo(BeNil())
			})

			It("should work without a producer wired", func() {
				mockStore.createFn = func(_ context.Context, d model.IssueDraft) (*model.Issue, error) {
					return model.NewIssue(d, "100", time.Now().UTC()), nil
				}
				svc = service.NewIssueService(mockStore, nil, 0)

				issue, err := svc.Create(ctx, validDraft)

				Expect(err).NotTo(HaveOccurred())
				Expect(issue).NotTo(BeNil())
			})
		})

		Context("when a required field is missing", func() {
			It("should return a validation error naming the field", func() {
				draft := validDraft
				draft.Title = "   "

				issue, err := svc.Create(ctx, draft)

				Expect(issue).To(BeNil())
				var verr *model.ValidationError
				Expect(errors.As(err, &verr)).To(BeTrue())
				Expect(verr.Field).To(Equal("title"))
			})

			It("should not touch the store", func() {
				called := false
				mockStore.createFn = func(_ context.Context, _ model.IssueDraft) (*model.Issue, error) {
					called = true
					return nil, nil
				}

				_, err := svc.Create(ctx, model.IssueDraft{})

				Expect(err).To(HaveOccurred())
				Expect(called).To(BeFalse())
				Expect(producer.enqueueCalls).To(BeEmpty())
			})
		})

		Context("when the store returns an error", func() {
			It("should propagate the error and publish nothing", func() {
				mockStore.createFn = func(_ context.Context, _ model.IssueDraft) (*model.Issue, error) {
					return nil, errors.New("collection unavailable")
				}

				issue, err := svc.Create(ctx, validDraft)

				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("collection unavailable"))
				Expect(issue).To(BeNil())
				Expect(producer.enqueueCalls).To(BeEmpty())
			})
		})
	})

	Describe("ListByFactory", func() {
		It("should return the store's issues unchanged", func() {
			now := time.Now().UTC()
			issues := []model.Issue{
				{ID: "2", FactoryID: "1", Title: "b", Status: model.StatusOpen, CreatedAt: now, UpdatedAt: now},
				{ID: "1", FactoryID: "1", Title: "a", Status: model.StatusResolved, CreatedAt: now.Add(-time.Hour), UpdatedAt: now},
			}
			mockStore.listByFactoryFn = func(_ context.Context, factoryID string) ([]model.Issue, error) {
				Expect(factoryID).To(Equal("1"))
				return issues, nil
			}

			got, err := svc.ListByFactory(ctx, "1")

			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(issues))
		})

		It("should return an empty slice for a factory with no issues", func() {
			mockStore.listByFactoryFn = func(_ context.Context, _ string) ([]model.Issue, error) {
				return []model.Issue{}, nil
			}

			got, err := svc.ListByFactory(ctx, "3")

			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
			Expect(got).To(BeEmpty())
		})

		It("should wrap store errors with the factory id", func() {
			mockStore.listByFactoryFn = func(_ context.Context, _ string) ([]model.Issue, error) {
				return nil, errors.New("cursor failed")
			}

			got, err := svc.ListByFactory(ctx, "2")

			Expect(got).To(BeNil())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("factory 2"))
		})
	})

	Describe("UpdateStatus", func() {
		Context("when the status is valid", func() {
			It("should update and publish a status_changed event", func() {
				now := time.Now().UTC()
				mockStore.updateStatusFn = func(_ context.Context, id, factoryID string, status model.Status) (*model.Issue, error) {
					Expect(id).To(Equal("100"))
					Expect(status).To(Equal(model.StatusInProgress))
					return &model.Issue{ID: id, FactoryID: "1", Status: status, CreatedAt: now.Add(-time.Minute), UpdatedAt: now}, nil
				}

				issue, err := svc.UpdateStatus(ctx, "100", "1", model.StatusInProgress)

				Expect(err).NotTo(HaveOccurred())
				Expect(issue.Status).To(Equal(model.StatusInProgress))
				Expect(issue.UpdatedAt.After(issue.CreatedAt)).To(BeTrue())
				Expect(producer.enqueueCalls).To(HaveLen(1))
				Expect(producer.enqueueCalls[0].EventType).To(Equal(model.IssueEventStatusChanged))
				Expect(producer.enqueueCalls[0].Status).To(Equal(model.StatusInProgress))
			})

			It("should allow any transition between known statuses", func() {
				mockStore.updateStatusFn = func(_ context.Context, id, _ string, status model.Status) (*model.Issue, error) {
					return &model.Issue{ID: id, FactoryID: "1", Status: status}, nil
				}

				issue, err := svc.UpdateStatus(ctx, "100", "1", model.StatusOpen)

				Expect(err).NotTo(HaveOccurred())
				Expect(issue.Status).To(Equal(model.StatusOpen))
			})
		})

		Context("when the status is outside the enum", func() {
			It("should return ErrInvalidStatus without touching the store", func() {
				called := false
				mockStore.updateStatusFn = func(_ context.Context, _, _ string, _ model.Status) (*model.Issue, error) {
					called = true
					return nil, nil
				}

				issue, err := svc.UpdateStatus(ctx, "100", "1", model.Status("CLOSED"))

				Expect(issue).To(BeNil())
				Expect(errors.Is(err, service.ErrInvalidStatus)).To(BeTrue())
				Expect(called).To(BeFalse())
			})
		})

		Context("when the issue does not exist", func() {
			It("should propagate ErrNotFound from the backing store", func() {
				mockStore.updateStatusFn = func(_ context.Context, _, _ string, _ model.Status) (*model.Issue, error) {
					return nil, store.ErrNotFound
				}

				issue, err := svc.UpdateStatus(ctx, "missing", "1", model.StatusResolved)

				Expect(issue).To(BeNil())
				Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
				Expect(producer.enqueueCalls).To(BeEmpty())
			})

			It("should publish nothing when the store reports a silent no-op", func() {
				mockStore.updateStatusFn = func(_ context.Context, _, _ string, _ model.Status) (*model.Issue, error) {
					return nil, nil
				}

				issue, err := svc.UpdateStatus(ctx, "missing", "1", model.StatusResolved)

				Expect(err).NotTo(HaveOccurred())
				Expect(issue).To(BeNil())
				Expect(producer.enqueueCalls).To(BeEmpty())
			})
		})
	})
})
