package logger_test

import (
	"bytes"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jgoldschrafe/redphone-cli/pkg/logger"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("WriterLogger", func() {
	var (
		buf *bytes.Buffer
		log *logger.WriterLogger
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	Describe("Debug", func() {
		It("should suppress debug messages when debug mode is off", func() {
			log = logger.NewWriterLogger(buf, false)
			log.Debug("hidden")

			Expect(buf.String()).To(BeEmpty())
		})

		It("should emit debug messages when debug mode is on", func() {
			log = logger.NewWriterLogger(buf, true)
			log.Debug("visible", "key", "value")

			Expect(buf.String()).To(ContainSubstring("DEBUG visible key=value"))
		})
	})

	Describe("Info", func() {
		It("should always emit info messages", func() {
			log = logger.NewWriterLogger(buf, false)
			log.Info("incident resolved", "incident_key", "abc123")

			Expect(buf.String()).To(ContainSubstring("INFO incident resolved"))
			Expect(buf.String()).To(ContainSubstring("incident_key=abc123"))
		})
	})

	Describe("Error", func() {
		It("should emit error messages regardless of debug mode", func() {
			log = logger.NewWriterLogger(buf, false)
			log.Error("trigger failed", "message", "invalid key")

			Expect(buf.String()).To(ContainSubstring("ERROR trigger failed"))
			Expect(buf.String()).To(ContainSubstring(`message="invalid key"`))
		})
	})

	Describe("With", func() {
		It("should attach base key-value pairs to every message", func() {
			log = logger.NewWriterLogger(buf, false)
			scoped := log.With("command", "from-command")
			scoped.Info("dispatching")

			Expect(buf.String()).To(ContainSubstring("command=from-command"))
		})

		It("should not mutate the parent logger", func() {
			log = logger.NewWriterLogger(buf, false)
			_ = log.With("scoped", "yes")
			log.Info("plain")

			Expect(buf.String()).NotTo(ContainSubstring("scoped=yes"))
		})
	})

	Describe("value quoting", func() {
		It("should quote values containing whitespace", func() {
			log = logger.NewWriterLogger(buf, false)
			log.Info("output", "stderr", "boom happened\n")

			Expect(buf.String()).To(ContainSubstring(`stderr=`))
			Expect(buf.String()).To(ContainSubstring(`\n`))
		})
	})
})

var _ = Describe("NoOpLogger", func() {
	It("should discard everything", func() {
		log := logger.NewNoOpLogger()

		// No output to assert on; just make sure the interface holds up.
		log.Debug("a")
		log.Info("b")
		log.Error("c")
		Expect(log.With("k", "v")).To(BeIdenticalTo(log))
	})
})
