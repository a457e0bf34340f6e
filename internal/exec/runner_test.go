package exec_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jgoldschrafe/redphone-cli/internal/exec"
)

func TestExec(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Exec Suite")
}

var _ = Describe("Runner", func() {
	var runner exec.Runner

	BeforeEach(func() {
		runner = exec.NewRunner()
	})

	Describe("Run", func() {
		It("should capture stdout from a successful command", func() {
			result, err := runner.Run(context.Background(), []string{"echo", "hello"})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Succeeded()).To(BeTrue())
			Expect(result.ExitCode).To(Equal(0))
			Expect(result.Stdout).ToNot(BeNil())
			Expect(*result.Stdout).To(Equal("hello\n"))
		})

		It("should capture stderr", func() {
			result, err := runner.Run(
				context.Background(),
				[]string{"sh", "-c", "echo boom >&2"},
			)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Stderr).ToNot(BeNil())
			Expect(*result.Stderr).To(Equal("boom\n"))
		})

		It("should normalize empty captures to absent", func() {
			result, err := runner.Run(context.Background(), []string{"true"})

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Stdout).To(BeNil())
			Expect(result.Stderr).To(BeNil())
		})

		It("should not treat a non-zero exit as an error", func() {
			result, err := runner.Run(
				context.Background(),
				[]string{"sh", "-c", "exit 42"},
			)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Succeeded()).To(BeFalse())
			Expect(result.ExitCode).To(Equal(42))
		})

		It("should report a launch failure as ErrStartFailed", func() {
			_, err := runner.Run(
				context.Background(),
				[]string{"nonexistent-binary-xyz"},
			)

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, exec.ErrStartFailed)).To(BeTrue())
		})

		It("should reject an empty command line", func() {
			_, err := runner.Run(context.Background(), nil)

			Expect(errors.Is(err, exec.ErrEmptyCommand)).To(BeTrue())
		})
	})
})
