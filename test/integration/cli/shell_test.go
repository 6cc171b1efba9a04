// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

//go:build integration

package cli_test

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/onsi/gomega/gbytes"
	"github.com/onsi/gomega/gexec"
)

var captchaPattern = regexp.MustCompile(`CAPTCHA: ([A-Z0-9]{6})`)

var _ = Describe("skywatch", func() {
	var (
		ctx  context.Context
		home string
	)

	BeforeEach(func() {
		ctx = context.Background()
		home = GinkgoT().TempDir()
		cleanupDatabase(ctx, env.pool)
	})

	// command builds a skywatch invocation with an isolated home directory.
	command := func(extraEnv []string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, env.binary, args...)
		cmd.Env = append([]string{
			"PATH=" + os.Getenv("PATH"),
			"HOME=" + home,
			"XDG_CONFIG_HOME=" + filepath.Join(home, "config"),
			"XDG_DATA_HOME=" + filepath.Join(home, "data"),
			"SKYWATCH_LOG_FILE=skywatch.log",
		}, extraEnv...)
		return cmd
	}

	postgresEnv := func() []string {
		return []string{
			"SKYWATCH_STORE_DRIVER=postgres",
			"SKYWATCH_DATABASE_URL=" + env.connStr,
		}
	}

	migrateUp := func() {
		session, err := gexec.Start(command(postgresEnv(), "migrate", "up"), GinkgoWriter, GinkgoWriter)
		Expect(err).NotTo(HaveOccurred())
		Eventually(session, 30*time.Second).Should(gexec.Exit(0))
		Expect(session.Out).To(gbytes.Say("Migrations completed successfully"))
	}

	Describe("migrate", func() {
		It("applies and reports the schema", func() {
			migrateUp()

			session, err := gexec.Start(command(postgresEnv(), "migrate", "status"), GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say("Current version: 2"))
			Expect(session.Out).To(gbytes.Say("Pending: none"))
		})

		It("fails without a database URL", func() {
			session, err := gexec.Start(command(nil, "migrate", "up"), GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())
			Eventually(session, 30*time.Second).Should(gexec.Exit(1))
			Expect(session.Err).To(gbytes.Say("database_url is required"))
		})
	})

	Describe("interactive shell on postgres", func() {
		It("creates an account, logs in, looks up a city and logs out", func() {
			migrateUp()

			cmd := command(postgresEnv(), "--astronomy-endpoint", env.api.URL, "--bcrypt-cost", "4")
			stdin, err := cmd.StdinPipe()
			Expect(err).NotTo(HaveOccurred())
			session, err := gexec.Start(cmd, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())

			send := func(lines ...string) {
				for _, line := range lines {
					_, err := io.WriteString(stdin, line+"\n")
					Expect(err).NotTo(HaveOccurred())
				}
			}

			send("2", "star@gazer.io", "Strong1!", "Blue")
			Eventually(session.Out, 10*time.Second).Should(gbytes.Say("Account created successfully!"))

			send("1", "star@gazer.io", "Strong1!")
			Eventually(session.Out, 10*time.Second).Should(gbytes.Say(`CAPTCHA: [A-Z0-9]{6}`))
			code := captchaPattern.FindStringSubmatch(string(session.Out.Contents()))
			Expect(code).To(HaveLen(2))
			send(code[1])
			Eventually(session.Out, 10*time.Second).Should(gbytes.Say("Login successful!"))

			send("1", "Pune")
			Eventually(session.Out, 10*time.Second).Should(gbytes.Say("Astronomy data for Pune, Maharashtra, India:"))

			send("2", "3")
			Eventually(session, 10*time.Second).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say("Goodbye!"))

			var hash, question string
			err = env.pool.QueryRow(ctx,
				`SELECT password_hash, security_question FROM users WHERE email = $1`, "star@gazer.io").
				Scan(&hash, &question)
			Expect(err).NotTo(HaveOccurred())
			Expect(hash).To(HavePrefix("$2a$04$"))
			Expect(question).To(Equal("Blue"))

			rows, err := env.pool.Query(ctx, `SELECT action FROM audit_log WHERE email = $1 ORDER BY id`, "star@gazer.io")
			Expect(err).NotTo(HaveOccurred())
			defer rows.Close()
			var actions []string
			for rows.Next() {
				var action string
				Expect(rows.Scan(&action)).To(Succeed())
				actions = append(actions, action)
			}
			Expect(actions).To(Equal([]string{
				"Account created",
				"Successful login",
				"Fetched astronomy data for Pune",
				"Logout",
			}))
		})

		It("warns when the schema has not been applied", func() {
			cmd := command(postgresEnv())
			cmd.Stdin = strings.NewReader("3\n")
			session, err := gexec.Start(cmd, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))
			Expect(session.Out).To(gbytes.Say("Warning: "))
			Expect(session.Out).To(gbytes.Say("Goodbye!"))
		})
	})

	Describe("interactive shell on csv", func() {
		It("starts with an empty table and persists new accounts", func() {
			dataDir := filepath.Join(home, "skywatch")
			cmd := command([]string{"SKYWATCH_DATA_DIR=" + dataDir}, "--bcrypt-cost", "4")
			cmd.Stdin = strings.NewReader("2\nnew@b.co\nweak\nStrong1!\nRed\n3\n")
			session, err := gexec.Start(cmd, GinkgoWriter, GinkgoWriter)
			Expect(err).NotTo(HaveOccurred())
			Eventually(session, 30*time.Second).Should(gexec.Exit(0))

			Expect(session.Out).To(gbytes.Say("Warning: user file"))
			Expect(session.Out).To(gbytes.Say("Password must be at least 8 characters"))
			Expect(session.Out).To(gbytes.Say("Account created successfully!"))

			users, err := os.ReadFile(filepath.Join(dataDir, "users.csv"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(users)).To(HavePrefix("email,password,securityQuestion\n"))
			Expect(string(users)).To(ContainSubstring("new@b.co,"))

			history, err := os.ReadFile(filepath.Join(dataDir, "history.csv"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(history)).To(ContainSubstring(",new@b.co,Account created"))
		})
	})
})
