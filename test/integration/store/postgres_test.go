// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

//go:build integration

package store_test

import (
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/skywatch/skywatch/internal/auth"
	"github.com/skywatch/skywatch/internal/store"
	"github.com/skywatch/skywatch/pkg/errutil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ = Describe("PostgresUserTable", func() {
	var table *store.PostgresUserTable

	BeforeEach(func() {
		resetDatabase()
		table = store.NewPostgresUserTable(env.pool)
	})

	It("reports a missing users table as a diagnostic", func() {
		res := table.Load(env.ctx)
		Expect(res.Users).To(BeEmpty())
		Expect(res.Diagnostics).To(HaveLen(1))
		Expect(errutil.Code(res.Diagnostics[0])).To(Equal(store.CodeUnavailable))
	})

	Context("with migrations applied", func() {
		BeforeEach(func() {
			m := migrateUp()
			Expect(m.Close()).To(Succeed())
		})

		It("round-trips users in order", func() {
			users := []*auth.User{
				{Email: "b@x.io", PasswordHash: "$2a$hash-b", SecurityQuestion: "Blue"},
				{Email: "a@x.io", PasswordHash: "$2a$hash-a", SecurityQuestion: ""},
			}
			Expect(table.Save(env.ctx, users)).To(Succeed())

			res := table.Load(env.ctx)
			Expect(res.Diagnostics).To(BeEmpty())
			Expect(res.Users).To(Equal(users))
		})

		It("replaces the previous contents on save", func() {
			Expect(table.Save(env.ctx, []*auth.User{
				{Email: "old@x.io", PasswordHash: "h", SecurityQuestion: "q"},
			})).To(Succeed())
			Expect(table.Save(env.ctx, []*auth.User{
				{Email: "new@x.io", PasswordHash: "h", SecurityQuestion: "q"},
			})).To(Succeed())

			res := table.Load(env.ctx)
			Expect(res.Users).To(HaveLen(1))
			Expect(res.Users[0].Email).To(Equal("new@x.io"))
		})

		It("skips rows with missing data", func() {
			_, err := env.pool.Exec(env.ctx,
				`INSERT INTO users (email, password_hash, security_question, ordinal) VALUES
				 ('ok@x.io', 'h', 'q', 0), ('nohash@x.io', NULL, 'q', 1), ('noq@x.io', 'h', NULL, 2)`)
			Expect(err).NotTo(HaveOccurred())

			res := table.Load(env.ctx)
			Expect(res.Users).To(HaveLen(1))
			Expect(res.Users[0].Email).To(Equal("ok@x.io"))
			Expect(res.Diagnostics).To(HaveLen(2))
			for _, d := range res.Diagnostics {
				Expect(errutil.Code(d)).To(Equal(store.CodeRowSkipped))
			}
		})

		It("backs the credential table", func() {
			creds := store.OpenCredentials(env.ctx, table, discard)
			Expect(creds.Len()).To(BeZero())

			user, err := auth.NewUser("c@x.io", "$2a$hash", "Green")
			Expect(err).NotTo(HaveOccurred())
			Expect(creds.Put(env.ctx, user)).To(Succeed())

			reopened := store.OpenCredentials(env.ctx, table, discard)
			got, err := reopened.Get("c@x.io")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.SecurityQuestion).To(Equal("Green"))
		})
	})
})

var _ = Describe("PostgresAuditLog", func() {
	BeforeEach(func() {
		resetDatabase()
		m := migrateUp()
		Expect(m.Close()).To(Succeed())
	})

	It("appends one row per action", func() {
		at := time.Date(2026, 3, 20, 9, 30, 0, 0, time.UTC)
		log := store.NewPostgresAuditLog(env.pool).WithClock(func() time.Time { return at })

		Expect(log.Append(env.ctx, "a@x.io", auth.ActionLoginSucceeded)).To(Succeed())
		Expect(log.Append(env.ctx, "a@x.io", auth.ActionLogout)).To(Succeed())

		rows, err := env.pool.Query(env.ctx, `SELECT occurred_at, email, action FROM audit_log ORDER BY id`)
		Expect(err).NotTo(HaveOccurred())
		defer rows.Close()

		var actions []string
		for rows.Next() {
			var occurred time.Time
			var email, action string
			Expect(rows.Scan(&occurred, &email, &action)).To(Succeed())
			Expect(occurred.Equal(at)).To(BeTrue())
			Expect(email).To(Equal("a@x.io"))
			actions = append(actions, action)
		}
		Expect(rows.Err()).NotTo(HaveOccurred())
		Expect(actions).To(Equal([]string{auth.ActionLoginSucceeded, auth.ActionLogout}))
	})

	It("fails when the table is missing", func() {
		resetDatabase()
		err := store.NewPostgresAuditLog(env.pool).Append(env.ctx, "a@x.io", auth.ActionLogout)
		Expect(errutil.Code(err)).To(Equal(store.CodeAuditFailed))
	})
})
