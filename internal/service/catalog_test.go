package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"floorwatch.app/tracker/core/config"
	"floorwatch.app/tracker/internal/service"
	"floorwatch.app/tracker/internal/store"
)

var _ = Describe("FactoryCatalog", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with no configured factories", func() {
		It("should serve the built-in default list", func() {
			catalog, err := service.NewFactoryCatalog(config.CatalogConfig{})
			Expect(err).NotTo(HaveOccurred())

			factories := catalog.List(ctx)
			Expect(factories).To(HaveLen(3))
			Expect(factories[0].ID).To(Equal("1"))
			Expect(factories[0].Name).To(Equal("China Factory 1"))
			Expect(factories[2].Location).To(Equal("Bangkok, Thailand"))
		})
	})

	Context("with a configured catalog", func() {
		It("should serve the configured factories instead", func() {
			catalog, err := service.NewFactoryCatalog(config.CatalogConfig{
				Factories: `[{"id":"7","name":"Hanoi Plant","location":"Hanoi, Vietnam"}]`,
			})
			Expect(err).NotTo(HaveOccurred())

			factories := catalog.List(ctx)
			Expect(factories).To(HaveLen(1))
			Expect(factories[0].ID).To(Equal("7"))
			Expect(factories[0].Name).To(Equal("Hanoi Plant"))
		})

		It("should reject entries missing an id or name", func() {
			_, err := service.NewFactoryCatalog(config.CatalogConfig{
				Factories: `[{"id":"","name":"Nameless","location":"Nowhere"}]`,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject malformed JSON", func() {
			_, err := service.NewFactoryCatalog(config.CatalogConfig{
				Factories: `not json`,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Get", func() {
		It("should find a factory by id", func() {
			catalog, err := service.NewFactoryCatalog(config.CatalogConfig{})
			Expect(err).NotTo(HaveOccurred())

			factory, err := catalog.Get(ctx, "2")
			Expect(err).NotTo(HaveOccurred())
			Expect(factory.Name).To(Equal("China Factory 2"))
		})

		It("should return ErrNotFound for an unknown id", func() {
			catalog, err := service.NewFactoryCatalog(config.CatalogConfig{})
			Expect(err).NotTo(HaveOccurred())

			factory, err := catalog.Get(ctx, "99")
			Expect(factory).To(BeNil())
			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("List", func() {
		It("should return a copy callers can mutate safely", func() {
			catalog, err := service.NewFactoryCatalog(config.CatalogConfig{})
			Expect(err).NotTo(HaveOccurred())

			first := catalog.List(ctx)
			first[0].Name = "mutated"

			second := catalog.List(ctx)
			Expect(second[0].Name).To(Equal("China Factory 1"))
		})
	})
})
