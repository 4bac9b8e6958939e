package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"floorwatch.app/tracker/core/config"
	"floorwatch.app/tracker/internal/service"
)

var _ = Describe("AuthService", func() {
	var (
		svc service.AuthService
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		svc = service.NewAuthService(config.AuthConfig{
			Username:    "admin",
			Password:    "1234",
			DisplayName: "Administrator",
		})
	})

	Describe("Login", func() {
		Context("with the configured credentials", func() {
			It("should return the user profile", func() {
				user, err := svc.Login(ctx, "admin", "1234")

				Expect(err).NotTo(HaveOccurred())
				Expect(user).NotTo(BeNil())
				Expect(user.Username).To(Equal("admin"))
				Expect(user.Name).To(Equal("Administrator"))
			})
		})

		Context("with a wrong password", func() {
			It("should return ErrInvalidCredentials", func() {
				user, err := svc.Login(ctx, "admin", "wrong")

				Expect(user).To(BeNil())
				Expect(errors.Is(err, service.ErrInvalidCredentials)).To(BeTrue())
			})
		})

		Context("with an unknown username", func() {
			It("should return ErrInvalidCredentials", func() {
				user, err := svc.Login(ctx, "operator", "1234")

				Expect(user).To(BeNil())
				Expect(errors.Is(err, service.ErrInvalidCredentials)).To(BeTrue())
			})
		})

		Context("with empty credentials", func() {
			It("should return ErrInvalidCredentials", func() {
				user, err := svc.Login(ctx, "", "")

				Expect(user).To(BeNil())
				Expect(errors.Is(err, service.ErrInvalidCredentials)).To(BeTrue())
			})
		})
	})
})
