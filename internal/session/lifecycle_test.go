// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package session_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/assoplat/assoplat/internal/session"
	"github.com/assoplat/assoplat/internal/session/sessiontest"
)

var _ = Describe("Session handle", func() {
	var (
		ctx   context.Context
		repo  *sessiontest.MemoryRepository
		clock *fakeClock
		store *session.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = sessiontest.NewMemoryRepository()
		clock = newFakeClock()

		var err error
		store, err = session.NewStore(repo, session.DefaultConfig(), session.WithClock(clock.Now))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("a new session", func() {
		var sess *session.Session

		BeforeEach(func() {
			var err error
			sess, err = store.Resolve(ctx, "")
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts empty and unmodified", func() {
			Expect(sess.State()).To(Equal(session.StateNew))
			Expect(sess.IsNew()).To(BeTrue())
			Expect(sess.Modified()).To(BeFalse())
			Expect(sess.Data()).To(BeEmpty())
		})

		It("is written on persist even without changes", func() {
			_, err := store.Persist(ctx, sess)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.Writes()).To(Equal(1))
			Expect(sess.State()).To(Equal(session.StatePersisted))
			Expect(sess.IsNew()).To(BeFalse())
		})

		It("becomes dirty when set but stays new until persisted", func() {
			sess.Set("user_id", "u-1")
			Expect(sess.State()).To(Equal(session.StateDirty))
			Expect(sess.Modified()).To(BeTrue())
			Expect(sess.IsNew()).To(BeTrue())
		})
	})

	Describe("a loaded session", func() {
		var sess *session.Session

		BeforeEach(func() {
			first, err := store.Resolve(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			first.Set("user_id", "u-1")
			_, err = store.Persist(ctx, first)
			Expect(err).NotTo(HaveOccurred())

			sess, err = store.Resolve(ctx, first.Token())
			Expect(err).NotTo(HaveOccurred())
		})

		It("carries the stored data", func() {
			Expect(sess.State()).To(Equal(session.StateLoaded))
			uid, ok := sess.Get("user_id")
			Expect(ok).To(BeTrue())
			Expect(uid).To(Equal("u-1"))
		})

		It("is not rewritten when untouched", func() {
			_, err := store.Persist(ctx, sess)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.Writes()).To(Equal(1))
			Expect(sess.State()).To(Equal(session.StateLoaded))
		})

		It("ignores unset of an absent key", func() {
			sess.Unset("missing")
			Expect(sess.State()).To(Equal(session.StateLoaded))
		})

		It("becomes dirty on unset and is rewritten", func() {
			sess.Unset("user_id")
			Expect(sess.State()).To(Equal(session.StateDirty))

			_, err := store.Persist(ctx, sess)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.Writes()).To(Equal(2))

			again, err := store.Resolve(ctx, sess.Token())
			Expect(err).NotTo(HaveOccurred())
			_, ok := again.Get("user_id")
			Expect(ok).To(BeFalse())
		})

		It("returns to dirty after a persisted write is followed by a change", func() {
			sess.Set("theme", "dark")
			_, err := store.Persist(ctx, sess)
			Expect(err).NotTo(HaveOccurred())
			Expect(sess.State()).To(Equal(session.StatePersisted))

			sess.Set("theme", "light")
			Expect(sess.State()).To(Equal(session.StateDirty))
		})
	})

	Describe("accessors", func() {
		It("only reports non-empty strings from GetString", func() {
			sess, err := store.Resolve(ctx, "")
			Expect(err).NotTo(HaveOccurred())

			sess.Set("empty", "")
			sess.Set("flag", true)
			sess.Set("name", "gump")

			_, ok := sess.GetString("empty")
			Expect(ok).To(BeFalse())
			_, ok = sess.GetString("flag")
			Expect(ok).To(BeFalse())
			name, ok := sess.GetString("name")
			Expect(ok).To(BeTrue())
			Expect(name).To(Equal("gump"))
		})

		It("returns a copy from Data", func() {
			sess, err := store.Resolve(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			sess.Set("k", "v")

			data := sess.Data()
			data["k"] = "changed"
			v, _ := sess.Get("k")
			Expect(v).To(Equal("v"))
		})
	})

	Describe("expiry", func() {
		It("is pushed forward by every write", func() {
			sess, err := store.Resolve(ctx, "")
			Expect(err).NotTo(HaveOccurred())

			var last time.Time
			for range 3 {
				sess.Set("tick", clock.Now().String())
				d, err := store.Persist(ctx, sess)
				Expect(err).NotTo(HaveOccurred())
				Expect(d.Expires).To(BeTemporally(">", last))
				last = d.Expires
				clock.Advance(time.Minute)
			}
		})
	})
})

var _ = Describe("State", func() {
	DescribeTable("String",
		func(s session.State, want string) {
			Expect(s.String()).To(Equal(want))
		},
		Entry("new", session.StateNew, "new"),
		Entry("loaded", session.StateLoaded, "loaded"),
		Entry("dirty", session.StateDirty, "dirty"),
		Entry("persisted", session.StatePersisted, "persisted"),
		Entry("unknown", session.State(42), "unknown"),
	)
})
