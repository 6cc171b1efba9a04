// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

//go:build integration

package store_test

import (
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/skywatch/skywatch/internal/store"
)

var _ = Describe("Migrator", func() {
	var m *store.Migrator

	BeforeEach(func() {
		resetDatabase()
		var err error
		m, err = store.NewMigrator(env.connStr)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(m.Close()).To(Succeed())
	})

	tableExists := func(name string) bool {
		var exists bool
		err := env.pool.QueryRow(env.ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, name).
			Scan(&exists)
		Expect(err).NotTo(HaveOccurred())
		return exists
	}

	It("reports every migration pending on a fresh database", func() {
		version, dirty, err := m.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		Expect(dirty).To(BeFalse())

		pending, err := m.PendingMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(Equal([]uint{1, 2}))
	})

	It("creates the tables on up and drops them on down", func() {
		Expect(m.Up()).To(Succeed())
		Expect(tableExists("users")).To(BeTrue())
		Expect(tableExists("audit_log")).To(BeTrue())

		version, dirty, err := m.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(2)))
		Expect(dirty).To(BeFalse())

		pending, err := m.PendingMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(BeEmpty())

		Expect(m.Down()).To(Succeed())
		Expect(tableExists("users")).To(BeFalse())
		Expect(tableExists("audit_log")).To(BeFalse())
	})

	It("treats a repeated up as a no-op", func() {
		Expect(m.Up()).To(Succeed())
		Expect(m.Up()).To(Succeed())
	})

	It("applies one step at a time", func() {
		Expect(m.Steps(1)).To(Succeed())
		Expect(tableExists("users")).To(BeTrue())
		Expect(tableExists("audit_log")).To(BeFalse())

		pending, err := m.PendingMigrations()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(Equal([]uint{2}))
	})

	It("forces a version without running it", func() {
		Expect(m.Force(1)).To(Succeed())

		version, _, err := m.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(uint(1)))
		Expect(tableExists("users")).To(BeFalse())
	})
})
