//go:build e2e

package e2e_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/terassyi/statefile"
)

type toolState struct {
	Version string            `json:"version"`
	Tools   map[string]string `json:"tools,omitempty"`
	Applied int               `json:"applied"`
}

var _ = Describe("Statefile lifecycle", Ordered, func() {
	var (
		dir  string
		path string
		ctx  context.Context
	)

	BeforeAll(func() {
		var err error
		dir, err = os.MkdirTemp("", "statefile-e2e-")
		Expect(err).NotTo(HaveOccurred())
		path = filepath.Join(dir, "state.json")
		ctx = context.Background()
	})

	AfterAll(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("opens a missing file with the zero value and no file on disk", func() {
		f, err := statefile.Open[toolState](path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		Expect(f.Read()).To(Equal(toolState{}))
		_, err = os.Stat(path)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("persists guarded mutations durably", func() {
		f, err := statefile.Open[toolState](path)
		Expect(err).NotTo(HaveOccurred())

		By("Writing through a guard")
		Expect(f.Update(ctx, func(s *toolState) error {
			s.Version = "1"
			s.Tools = map[string]string{"gh": "2.85.0"}
			s.Applied = 1
			return nil
		})).To(Succeed())
		Expect(f.Close()).To(Succeed())

		By("Reopening and reading the same value back")
		reopened, err := statefile.Open[toolState](path)
		Expect(err).NotTo(HaveOccurred())
		defer reopened.Close()
		Expect(reopened.Read().Tools).To(HaveKeyWithValue("gh", "2.85.0"))
	})

	It("supports backup and diff across mutations", func() {
		f, err := statefile.Open[toolState](path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		By("Creating a backup of the current state")
		Expect(f.CreateBackup()).To(Succeed())

		By("Mutating past the backup point")
		Expect(f.Update(ctx, func(s *toolState) error {
			s.Tools["gh"] = "2.86.0"
			s.Applied = 2
			return nil
		})).To(Succeed())

		By("Diffing the current state against the backup")
		backup, err := statefile.LoadBackup(path, statefile.JSONCodec[toolState]{})
		Expect(err).NotTo(HaveOccurred())
		Expect(backup).NotTo(BeNil())

		cur := f.Read()
		diff, err := statefile.DiffValues(backup, &cur)
		Expect(err).NotTo(HaveOccurred())
		Expect(diff.HasChanges()).To(BeTrue())

		_, modified, removed := diff.Summary()
		Expect(modified).To(Equal(2))
		Expect(removed).To(BeZero())
	})

	It("restores the state file from a backup", func() {
		Expect(statefile.RestoreBackup(path)).To(Succeed())

		f, err := statefile.Open[toolState](path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		Expect(f.Read().Applied).To(Equal(1))
		Expect(f.Read().Tools).To(HaveKeyWithValue("gh", "2.85.0"))
	})

	It("surfaces corruption as a decode error with the path", func() {
		corrupt := filepath.Join(dir, "corrupt.json")
		Expect(os.WriteFile(corrupt, []byte("{not json"), 0644)).To(Succeed())

		_, err := statefile.Open[toolState](corrupt)
		var decodeErr *statefile.DecodeError
		Expect(errors.As(err, &decodeErr)).To(BeTrue())
		Expect(decodeErr.Path).To(Equal(corrupt))
	})

	It("serializes concurrent writers without losing updates", func() {
		path := filepath.Join(dir, "concurrent.json")
		f, err := statefile.Open[toolState](path)
		Expect(err).NotTo(HaveOccurred())

		const writers = 6
		const perWriter = 20

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				for n := 0; n < perWriter; n++ {
					Expect(f.Update(ctx, func(s *toolState) error {
						s.Applied++
						return nil
					})).To(Succeed())
				}
			}()
		}
		wg.Wait()
		Expect(f.Close()).To(Succeed())

		reopened, err := statefile.Open[toolState](path)
		Expect(err).NotTo(HaveOccurred())
		defer reopened.Close()
		Expect(reopened.Read().Applied).To(Equal(writers * perWriter))
	})

	It("rejects a second process-locked open of the same path", func() {
		path := filepath.Join(dir, "locked.json")
		f1, err := statefile.Open(path, statefile.WithProcessLock[toolState]())
		Expect(err).NotTo(HaveOccurred())

		_, err = statefile.Open(path, statefile.WithProcessLock[toolState]())
		var lockErr *statefile.LockError
		Expect(errors.As(err, &lockErr)).To(BeTrue())
		Expect(lockErr.LockPID).To(Equal(os.Getpid()))

		Expect(f1.Close()).To(Succeed())
	})
})
